package v1

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/curatehq/curate"
	"github.com/curatehq/curate/application/service"
	"github.com/curatehq/curate/infrastructure/api/jsonapi"
	"github.com/curatehq/curate/infrastructure/api/middleware"
	"github.com/curatehq/curate/infrastructure/api/v1/dto"
)

// SharingRouter handles the authenticated sharing toggle.
type SharingRouter struct {
	client *curate.Client
	logger *slog.Logger
}

// NewSharingRouter creates a SharingRouter.
func NewSharingRouter(client *curate.Client) *SharingRouter {
	return &SharingRouter{client: client, logger: client.Logger()}
}

// Routes returns the chi router for the sharing toggle.
func (rt *SharingRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Put("/", rt.Set)

	return router
}

// Set handles PUT /api/v1/share.
func (rt *SharingRouter) Set(w http.ResponseWriter, req *http.Request) {
	id, ok := requireIdentity(w, req)
	if !ok {
		return
	}

	var body dto.SharingRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteJSON(w, http.StatusBadRequest, jsonapi.NewErrorResponse(
			jsonapi.NewError("400", "Bad Request", "malformed request body")))
		return
	}

	shared := body.Data.Attributes.Shared
	if err := rt.client.Sharing.SetShared(req.Context(), id.OwnerID(), shared); err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	resource := jsonapi.NewResource("sharing", id.OwnerID(), dto.SharingAttributes{Shared: shared})
	middleware.WriteJSON(w, http.StatusOK, jsonapi.NewSingleResponse(resource))
}

// SharedRouter serves public shared views. It is mounted outside the auth
// group; a disabled or nonexistent owner is a plain 404 either way.
type SharedRouter struct {
	client *curate.Client
	logger *slog.Logger
}

// NewSharedRouter creates a SharedRouter.
func NewSharedRouter(client *curate.Client) *SharedRouter {
	return &SharedRouter{client: client, logger: client.Logger()}
}

// Routes returns the chi router for public shared views.
func (rt *SharedRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{ownerID}", rt.View)

	return router
}

// View handles GET /api/v1/shared/{ownerID}.
func (rt *SharedRouter) View(w http.ResponseWriter, req *http.Request) {
	ownerID := chi.URLParam(req, "ownerID")

	view, err := rt.client.Sharing.SharedView(req.Context(), ownerID)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	attrs := dto.SharedViewAttributes{
		Username: view.Username(),
		Items:    make([]dto.SharedItemSchema, 0, len(view.Items())),
	}
	for _, it := range view.Items() {
		attrs.Items = append(attrs.Items, sharedItemSchema(it))
	}

	resource := jsonapi.NewResource("shared-views", ownerID, attrs)
	middleware.WriteJSON(w, http.StatusOK, jsonapi.NewSingleResponse(resource))
}

func sharedItemSchema(it service.SharedItem) dto.SharedItemSchema {
	schema := dto.SharedItemSchema{
		Link:  it.Link(),
		Kind:  string(it.Kind()),
		Title: it.Title(),
		Tags:  it.TagTitles(),
	}
	if it.FetchedTitle() != "" {
		schema.FetchedTitle = ptr(it.FetchedTitle())
		schema.FetchedDescription = ptr(it.Description())
		schema.ThumbnailURL = ptr(it.ThumbnailURL())
	}
	if schema.Tags == nil {
		schema.Tags = []string{}
	}
	return schema
}
