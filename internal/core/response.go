// AngelaMos | 2026
// response.go

package core

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// Payload holds the endpoint-specific keys merged next to "message".
type Payload map[string]any

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func respond(w http.ResponseWriter, status int, message string, payload Payload) {
	body := make(map[string]any, len(payload)+2)
	for k, v := range payload {
		body[k] = v
	}
	body["success"] = status < http.StatusBadRequest
	body["message"] = message
	JSON(w, status, body)
}

func OK(w http.ResponseWriter, message string, payload Payload) {
	respond(w, http.StatusOK, message, payload)
}

func Created(w http.ResponseWriter, message string, payload Payload) {
	respond(w, http.StatusCreated, message, payload)
}

// Fail writes an error envelope; payload lets callers attach diagnostics
// such as the attempted payment.
func Fail(
	w http.ResponseWriter,
	status int,
	code, message string,
	payload Payload,
) {
	body := make(Payload, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	body["error"] = errorBody{Code: code, Message: message}
	respond(w, status, message, body)
}

func JSONError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		Fail(w, appErr.StatusCode, appErr.Code, appErr.Message, nil)
		return
	}
	InternalServerError(w, err)
}

func BadRequest(w http.ResponseWriter, message string) {
	JSONError(w, ValidationError(message))
}

func Unauthorized(w http.ResponseWriter, message string) {
	JSONError(w, UnauthorizedError(message))
}

func Forbidden(w http.ResponseWriter, message string) {
	JSONError(w, ForbiddenError(message))
}

func NotFound(w http.ResponseWriter, resource string) {
	JSONError(w, NotFoundError(resource))
}

func InternalServerError(w http.ResponseWriter, err error) {
	slog.Error("internal server error", "error", err)
	Fail(
		w,
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"An unexpected error occurred",
		nil,
	)
}
