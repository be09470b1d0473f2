// AngelaMos | 2026
// handler.go

package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/propsunday/classifieds-api/internal/core"
	"github.com/propsunday/classifieds-api/internal/middleware"
)

const formField = "file"

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Uploader stores an object and returns its public URL.
type Uploader interface {
	Put(
		ctx context.Context,
		objectName string,
		body io.Reader,
		size int64,
		contentType string,
		metadata map[string]string,
	) (string, error)
}

type Handler struct {
	uploader Uploader
	maxSize  int64
}

func NewHandler(uploader Uploader, maxSize int64) *Handler {
	return &Handler{uploader: uploader, maxSize: maxSize}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/uploads", func(r chi.Router) {
		r.Use(authenticator)
		r.Post("/images", h.UploadImage)
	})
}

// UploadImage accepts a multipart "file" field, sniffs its content and
// stores it when it is one of the allowed image types.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize+1<<20)

	if err := r.ParseMultipartForm(h.maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			core.BadRequest(w, fmt.Sprintf("File too large (max %d MB)", h.maxSize>>20))
			return
		}
		core.BadRequest(w, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile(formField)
	if err != nil {
		core.BadRequest(w, "file is required")
		return
	}
	defer file.Close()

	if header.Size > h.maxSize {
		core.BadRequest(w, fmt.Sprintf("File too large (max %d MB)", h.maxSize>>20))
		return
	}

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		core.InternalServerError(w, fmt.Errorf("detect content type: %w", err))
		return
	}
	if !allowedTypes[mtype.String()] {
		core.BadRequest(w, "Only JPEG, PNG, GIF and WebP images are allowed")
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		core.InternalServerError(w, fmt.Errorf("rewind upload: %w", err))
		return
	}

	objectName := "images/" + uuid.New().String() + mtype.Extension()
	url, err := h.uploader.Put(r.Context(), objectName, file, header.Size, mtype.String(),
		map[string]string{"uploaded-by": middleware.GetUserID(r.Context())})
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, "Image uploaded successfully", core.Payload{
		"url":          url,
		"object_name":  objectName,
		"content_type": mtype.String(),
		"size":         header.Size,
	})
}
