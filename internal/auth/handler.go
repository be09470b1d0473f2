// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

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
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/register", h.Register)
		r.Post("/refresh", h.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Get("/me", h.GetMe)
			r.Post("/logout", h.Logout)
			r.Post("/logout-all", h.LogoutAll)
		})
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.bind(w, r, &req, func() { req.Email = strings.TrimSpace(req.Email) }) {
		return
	}

	result, err := h.service.Login(r.Context(), req, clientOf(r))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, "Login successful", result.payload())
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.bind(w, r, &req, func() { req.Email = strings.TrimSpace(req.Email) }) {
		return
	}

	result, err := h.service.Register(r.Context(), req, clientOf(r))
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, "User registered successfully", result.payload())
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !h.bind(w, r, &req, nil) {
		return
	}

	result, err := h.service.Refresh(r.Context(), req.RefreshToken, clientOf(r))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, "Token refreshed", result.payload())
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	caller := middleware.PrincipalFrom(r.Context())
	if caller == nil {
		core.Unauthorized(w, "")
		return
	}

	// The body is optional; without it only the access token is revoked.
	var req LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.service.Logout(r.Context(), caller, req.RefreshToken); err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, "Logged out successfully", nil)
}

func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	if err := h.service.LogoutAll(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, "Logged out of all sessions", nil)
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	user, err := h.service.GetCurrentUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, "User retrieved", core.Payload{"user": user})
}

// bind decodes the JSON body into dst, applies normalize and validates the
// result. It writes the 400 itself and reports whether the handler should
// continue.
func (h *Handler) bind(w http.ResponseWriter, r *http.Request, dst any, normalize func()) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		core.BadRequest(w, "invalid request body")
		return false
	}
	if normalize != nil {
		normalize()
	}
	if err := h.validator.Struct(dst); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return false
	}
	return true
}

func clientOf(r *http.Request) Client {
	return Client{
		UserAgent: r.UserAgent(),
		IPAddress: middleware.ClientIP(r),
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		core.Unauthorized(w, "Invalid email or password")
	case errors.Is(err, ErrEmailExists):
		core.JSONError(w, core.DuplicateError("email"))
	case errors.Is(err, ErrTokenReuse):
		core.JSONError(w, core.NewAppError(
			core.ErrTokenRevoked,
			"Token reuse detected, all sessions in this chain were revoked",
			http.StatusUnauthorized,
			"TOKEN_REUSE_DETECTED",
		))
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenRevoked):
		core.JSONError(w, core.TokenRevokedError())
	case errors.Is(err, core.ErrTokenInvalid):
		core.JSONError(w, core.TokenInvalidError())
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "Cannot revoke another user's token")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "user")
	default:
		core.InternalServerError(w, err)
	}
}
