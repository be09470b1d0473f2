// AngelaMos | 2026
// handler.go

package user

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

// RegisterRoutes mounts the caller's own profile. Role changes live under
// /admin/users.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/users", func(r chi.Router) {
		r.Use(authenticator)
		r.Get("/me", h.GetProfile)
		r.Put("/me", h.UpdateProfile)
	})
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.Profile(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, "User retrieved", core.Payload{"user": u.profile()})
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var update ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(update); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	u, err := h.service.UpdateProfile(r.Context(), middleware.GetUserID(r.Context()), update)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, "User updated", core.Payload{"user": u.profile()})
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "user")
	case errors.Is(err, core.ErrUnauthorized):
		core.Unauthorized(w, "")
	default:
		core.InternalServerError(w, err)
	}
}
