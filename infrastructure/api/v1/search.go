package v1

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/curatehq/curate"
	"github.com/curatehq/curate/infrastructure/api/jsonapi"
	"github.com/curatehq/curate/infrastructure/api/middleware"
	"github.com/curatehq/curate/infrastructure/api/v1/dto"
)

// SearchRouter handles the semantic search endpoint.
type SearchRouter struct {
	client *curate.Client
	logger *slog.Logger
}

// NewSearchRouter creates a SearchRouter.
func NewSearchRouter(client *curate.Client) *SearchRouter {
	return &SearchRouter{client: client, logger: client.Logger()}
}

// Routes returns the chi router for search endpoints.
func (rt *SearchRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", rt.Search)

	return router
}

// Search handles POST /api/v1/search. Results come back best match first; an
// empty list is a valid outcome, not an error.
func (rt *SearchRouter) Search(w http.ResponseWriter, req *http.Request) {
	id, ok := requireIdentity(w, req)
	if !ok {
		return
	}

	var body dto.SearchRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteJSON(w, http.StatusBadRequest, jsonapi.NewErrorResponse(
			jsonapi.NewError("400", "Bad Request", "malformed request body")))
		return
	}

	items, err := rt.client.Retrieval.Search(req.Context(), id.OwnerID(), body.Data.Attributes.Query)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	resources := make([]*jsonapi.Resource, 0, len(items))
	for _, it := range items {
		resources = append(resources, itemResource(it, true))
	}
	middleware.WriteJSON(w, http.StatusOK, jsonapi.NewListResponse(resources))
}
