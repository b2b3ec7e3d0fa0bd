package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/curatehq/curate"
	apimiddleware "github.com/curatehq/curate/infrastructure/api/middleware"
	v1 "github.com/curatehq/curate/infrastructure/api/v1"
	"github.com/curatehq/curate/internal/config"
	mcpinternal "github.com/curatehq/curate/internal/mcp"
)

// APIServer exposes a curate Client over HTTP.
//
// All routes except the public shared view require a bearer token from the
// configured token table. When an MCP owner is configured, the MCP tool
// surface is mounted at /mcp.
type APIServer struct {
	client   *curate.Client
	tokens   []config.TokenIdentity
	mcpOwner string
	server   *Server
	router   chi.Router
	logger   *slog.Logger
}

// NewAPIServer creates an APIServer wired to the given Client.
func NewAPIServer(client *curate.Client, tokens []config.TokenIdentity, mcpOwner string) *APIServer {
	return &APIServer{
		client:   client,
		tokens:   tokens,
		mcpOwner: mcpOwner,
		logger:   client.Logger(),
	}
}

// mountRoutes wires up all routes on the given router.
func (a *APIServer) mountRoutes(router chi.Router) {
	c := a.client

	router.Get("/health", healthHandler)
	router.Get("/healthz", healthHandler)

	itemsRouter := v1.NewItemsRouter(c)
	searchRouter := v1.NewSearchRouter(c)
	tagsRouter := v1.NewTagsRouter(c)
	sharingRouter := v1.NewSharingRouter(c)
	sharedRouter := v1.NewSharedRouter(c)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(60 * time.Second))
		r.Use(apimiddleware.Logging(a.logger))

		// Public route. Visibility is enforced by the sharing coordinator,
		// not by authentication.
		r.Mount("/shared", sharedRouter.Routes())

		r.Group(func(r chi.Router) {
			r.Use(apimiddleware.TokenAuth(a.tokens))
			r.Mount("/items", itemsRouter.Routes())
			r.Mount("/search", searchRouter.Routes())
			r.Mount("/tags", tagsRouter.Routes())
			r.Mount("/share", sharingRouter.Routes())
		})
	})

	// MCP endpoint. No timeout middleware: MCP streams responses, which is
	// incompatible with chi's Timeout wrapping the ResponseWriter.
	if a.mcpOwner != "" {
		mcpSrv := mcpinternal.NewServer(c.Retrieval, c.Library, a.mcpOwner, "1.0.0", a.logger)
		router.Mount("/mcp", mcpserver.NewStreamableHTTPServer(mcpSrv.MCPServer()))
	}
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// ListenAndServe starts the HTTP server on the given address and blocks.
func (a *APIServer) ListenAndServe(addr string) error {
	server := NewServer(addr, a.logger)
	a.server = &server
	a.mountRoutes(server.Router())
	return server.Start()
}

// Shutdown gracefully shuts down the server.
func (a *APIServer) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

// Handler returns the fully wired router for use with custom servers and
// tests.
func (a *APIServer) Handler() http.Handler {
	if a.router == nil {
		a.router = chi.NewRouter()
		a.mountRoutes(a.router)
	}
	return a.router
}
