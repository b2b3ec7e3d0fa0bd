// Package v1 implements the versioned HTTP API routers.
package v1

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/curatehq/curate"
	"github.com/curatehq/curate/domain/item"
	"github.com/curatehq/curate/infrastructure/api/jsonapi"
	"github.com/curatehq/curate/infrastructure/api/middleware"
	"github.com/curatehq/curate/infrastructure/api/v1/dto"
)

// ItemsRouter handles the item endpoints.
type ItemsRouter struct {
	client *curate.Client
	logger *slog.Logger
}

// NewItemsRouter creates an ItemsRouter.
func NewItemsRouter(client *curate.Client) *ItemsRouter {
	return &ItemsRouter{client: client, logger: client.Logger()}
}

// Routes returns the chi router for item endpoints.
func (rt *ItemsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", rt.Add)
	router.Get("/", rt.List)
	router.Get("/{itemID}", rt.Get)
	router.Delete("/{itemID}", rt.Delete)

	return router
}

// Add handles POST /api/v1/items. A 201 with "searchable": false means the
// item was saved but could not be indexed for search.
func (rt *ItemsRouter) Add(w http.ResponseWriter, req *http.Request) {
	id, ok := requireIdentity(w, req)
	if !ok {
		return
	}

	var body dto.AddItemRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteJSON(w, http.StatusBadRequest, jsonapi.NewErrorResponse(
			jsonapi.NewError("400", "Bad Request", "malformed request body")))
		return
	}

	attrs := body.Data.Attributes
	result, err := rt.client.Ingestion.Add(req.Context(), id.OwnerID(), attrs.Link, attrs.Kind, attrs.Title, attrs.Tags)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	resource := itemResource(result.Item(), result.VectorSynced())
	middleware.WriteJSON(w, http.StatusCreated, jsonapi.NewSingleResponse(resource))
}

// List handles GET /api/v1/items?page=N&page_size=M.
func (rt *ItemsRouter) List(w http.ResponseWriter, req *http.Request) {
	id, ok := requireIdentity(w, req)
	if !ok {
		return
	}

	pageNumber, pageSize := parsePagination(req)
	page, err := rt.client.Library.ListItems(req.Context(), id.OwnerID(), pageNumber, pageSize)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	resources := make([]*jsonapi.Resource, 0, len(page.Items()))
	for _, it := range page.Items() {
		resources = append(resources, itemResource(it, it.HasVector()))
	}

	doc := jsonapi.NewListResponse(resources)
	doc.Meta = &jsonapi.Meta{
		"total":     page.Total(),
		"page":      page.Page().Number(),
		"page_size": page.Page().Size(),
	}
	middleware.WriteJSON(w, http.StatusOK, doc)
}

// Get handles GET /api/v1/items/{itemID}.
func (rt *ItemsRouter) Get(w http.ResponseWriter, req *http.Request) {
	id, ok := requireIdentity(w, req)
	if !ok {
		return
	}

	it, err := rt.client.Library.GetItem(req.Context(), id.OwnerID(), chi.URLParam(req, "itemID"))
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, jsonapi.NewSingleResponse(itemResource(it, it.HasVector())))
}

// Delete handles DELETE /api/v1/items/{itemID}.
func (rt *ItemsRouter) Delete(w http.ResponseWriter, req *http.Request) {
	id, ok := requireIdentity(w, req)
	if !ok {
		return
	}

	if err := rt.client.Deletion.Delete(req.Context(), id.OwnerID(), chi.URLParam(req, "itemID")); err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusNoContent, nil)
}

// itemResource projects a domain item into a JSON:API resource.
func itemResource(it item.Item, searchable bool) *jsonapi.Resource {
	attrs := dto.ItemAttributes{
		Link:       it.Link(),
		Kind:       string(it.Kind()),
		Title:      it.Title(),
		TagIDs:     it.TagIDs(),
		Searchable: searchable,
		CreatedAt:  it.CreatedAt(),
	}
	if meta, ok := it.Metadata(); ok {
		attrs.FetchedTitle = ptr(meta.Title())
		attrs.FetchedDescription = ptr(meta.Description())
		attrs.ThumbnailURL = ptr(meta.ThumbnailURL())
	}
	return jsonapi.NewResource("items", it.ID(), attrs)
}

func ptr[T any](v T) *T { return &v }

// requireIdentity extracts the authenticated identity. The auth middleware
// guarantees one on every protected route; a missing identity means the
// route was mounted outside the auth group.
func requireIdentity(w http.ResponseWriter, req *http.Request) (middleware.Identity, bool) {
	id, ok := middleware.IdentityFrom(req.Context())
	if !ok {
		middleware.WriteJSON(w, http.StatusUnauthorized, jsonapi.NewErrorResponse(
			jsonapi.NewError("401", "Unauthorized", "authentication required")))
		return middleware.Identity{}, false
	}
	return id, true
}

// parsePagination reads page/page_size query parameters. Out-of-range values
// are passed through; the library clamps them.
func parsePagination(req *http.Request) (page, pageSize int) {
	page = 1
	pageSize = item.MaxPageSize
	if raw := req.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page = n
		}
	}
	if raw := req.URL.Query().Get("page_size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			pageSize = n
		}
	}
	return page, pageSize
}
