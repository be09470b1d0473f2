// AngelaMos | 2026
// handler.go

package payment

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/propsunday/classifieds-api/internal/core"
	"github.com/propsunday/classifieds-api/internal/middleware"
)

type UpgradeRequest struct {
	Tier          string `json:"tier"           validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"omitempty,max=50"`
}

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
	r.Route("/payments", func(r chi.Router) {
		r.Get("/pricing/tiers", h.Tiers)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Post("/listings/{id}/upgrade", h.Upgrade)
			r.Get("/listings/{id}/payment-status", h.PaymentStatus)
		})
	})
}

func (h *Handler) Tiers(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, "Pricing tiers retrieved successfully", core.Payload{
		"tiers":    h.service.Catalog(),
		"currency": h.service.currency,
	})
}

func (h *Handler) Upgrade(w http.ResponseWriter, r *http.Request) {
	var req UpgradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, "Missing required field: tier")
		return
	}

	result, err := h.service.Upgrade(
		r.Context(),
		chi.URLParam(r, "id"),
		middleware.GetUserID(r.Context()),
		req.Tier,
		req.PaymentMethod,
	)
	if err != nil {
		var failed *FailedError
		if errors.As(err, &failed) {
			core.Fail(w, http.StatusBadRequest, "PAYMENT_FAILED", "Payment failed",
				core.Payload{"payment": failed.Payment})
			return
		}
		writeError(w, err)
		return
	}

	core.OK(w, "Listing upgraded successfully", core.Payload{
		"payment":      result.Payment,
		"listing":      result.Listing,
		"tier_details": result.Tier,
	})
}

func (h *Handler) PaymentStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.PaymentStatus(
		r.Context(),
		chi.URLParam(r, "id"),
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, "Payment status retrieved successfully", core.Payload{
		"payment_info": status,
	})
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case core.IsAppError(err):
		core.JSONError(w, err)
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "listing")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "Forbidden: You do not own this listing")
	default:
		core.InternalServerError(w, err)
	}
}
