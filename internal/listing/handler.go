// AngelaMos | 2026
// handler.go

package listing

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/propsunday/classifieds-api/internal/core"
	"github.com/propsunday/classifieds-api/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/listings", func(r chi.Router) {
		r.Get("/", h.List)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Get("/my-listings", h.MyListings)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})

		r.Get("/{id}", h.Get)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter, err := ParseFilter(q)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	page, err := ParsePage(q)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	result, err := h.service.Search(r.Context(), filter, page)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, "Listings retrieved successfully", pagePayload(result))
}

func (h *Handler) MyListings(w http.ResponseWriter, r *http.Request) {
	page, err := ParsePage(r.URL.Query())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	result, err := h.service.ListByUser(r.Context(), middleware.GetUserID(r.Context()), page)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, "User listings retrieved successfully", pagePayload(result))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	l, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, "Listing found", core.Payload{"listing": l})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	l, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, "Listing created successfully", core.Payload{"listing": l})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	l, err := h.service.Update(
		r.Context(),
		chi.URLParam(r, "id"),
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, "Listing updated successfully", core.Payload{"listing": l})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(
		r.Context(),
		chi.URLParam(r, "id"),
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, "Listing deleted successfully", nil)
}

func pagePayload(res *SearchResult) core.Payload {
	return core.Payload{
		"listings":       res.Listings,
		"total_listings": res.Total,
		"total_pages":    res.TotalPages,
		"current_page":   res.Page.Number,
		"per_page":       res.Page.PerPage,
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case core.IsAppError(err):
		core.JSONError(w, err)
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "Listing values are out of range")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "listing")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "Forbidden: You do not own this listing")
	case errors.Is(err, core.ErrUnauthorized):
		core.Unauthorized(w, "")
	default:
		core.InternalServerError(w, err)
	}
}
