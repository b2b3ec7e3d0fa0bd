package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/curatehq/curate"
	"github.com/curatehq/curate/infrastructure/api/jsonapi"
	"github.com/curatehq/curate/infrastructure/api/middleware"
	"github.com/curatehq/curate/infrastructure/api/v1/dto"
)

// TagsRouter handles the tag endpoints.
type TagsRouter struct {
	client *curate.Client
	logger *slog.Logger
}

// NewTagsRouter creates a TagsRouter.
func NewTagsRouter(client *curate.Client) *TagsRouter {
	return &TagsRouter{client: client, logger: client.Logger()}
}

// Routes returns the chi router for tag endpoints.
func (rt *TagsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", rt.List)
	router.Get("/{tagID}/items", rt.Items)

	return router
}

// List handles GET /api/v1/tags. Only tags in use by the caller's items are
// returned.
func (rt *TagsRouter) List(w http.ResponseWriter, req *http.Request) {
	id, ok := requireIdentity(w, req)
	if !ok {
		return
	}

	tags, err := rt.client.Library.ListTags(req.Context(), id.OwnerID())
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	resources := make([]*jsonapi.Resource, 0, len(tags))
	for _, t := range tags {
		resources = append(resources, jsonapi.NewResource("tags", t.ID(), dto.TagAttributes{Title: t.Title()}))
	}
	middleware.WriteJSON(w, http.StatusOK, jsonapi.NewListResponse(resources))
}

// Items handles GET /api/v1/tags/{tagID}/items.
func (rt *TagsRouter) Items(w http.ResponseWriter, req *http.Request) {
	id, ok := requireIdentity(w, req)
	if !ok {
		return
	}

	items, err := rt.client.Library.ListItemsByTag(req.Context(), id.OwnerID(), chi.URLParam(req, "tagID"))
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	resources := make([]*jsonapi.Resource, 0, len(items))
	for _, it := range items {
		resources = append(resources, itemResource(it, it.HasVector()))
	}
	middleware.WriteJSON(w, http.StatusOK, jsonapi.NewListResponse(resources))
}
