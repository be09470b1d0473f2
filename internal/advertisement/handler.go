// AngelaMos | 2026
// handler.go

package advertisement

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/propsunday/classifieds-api/internal/core"
)

const msgMissingFields = "Missing required fields: title, advertiser_name, " +
	"image_url, target_url, placement_area, start_date, end_date"

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

// RegisterRoutes mounts the ad routes. tracking wraps the public
// engagement endpoints, typically with a tighter rate limit.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	tracking func(http.Handler) http.Handler,
) {
	r.Route("/advertisements", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(tracking)
			r.Post("/{id}/track-click", h.TrackClick)
			r.Post("/{id}/track-impression", h.TrackImpression)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := ListParams{
		PlacementArea: strings.TrimSpace(q.Get("placement_area")),
		ActiveOnly:    true,
	}
	if v := q.Get("active_only"); v != "" {
		params.ActiveOnly = strings.EqualFold(v, "true")
	}

	ads, err := h.service.List(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, "Advertisements retrieved successfully", core.Payload{
		"advertisements": ads,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ad, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, "Advertisement found", core.Payload{"advertisement": ad})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAdvertisementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && verrs[0].Tag() == "required" {
			core.BadRequest(w, msgMissingFields)
			return
		}
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	ad, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, "Advertisement created successfully", core.Payload{
		"advertisement": ad,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateAdvertisementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	ad, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, "Advertisement updated successfully", core.Payload{
		"advertisement": ad,
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, "Advertisement deleted successfully", nil)
}

func (h *Handler) TrackClick(w http.ResponseWriter, r *http.Request) {
	target, err := h.service.TrackClick(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, "Click tracked successfully", core.Payload{"target_url": target})
}

func (h *Handler) TrackImpression(w http.ResponseWriter, r *http.Request) {
	if err := h.service.TrackImpression(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, "Impression tracked successfully", nil)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case core.IsAppError(err):
		core.JSONError(w, err)
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "Advertisement values are out of range")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "advertisement")
	default:
		core.InternalServerError(w, err)
	}
}
