// AngelaMos | 2026
// handler.go

package media

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/josealexandro/chaama/internal/core"
	"github.com/josealexandro/chaama/internal/middleware"
)

const multipartOverhead = 1 << 20

type UploadResponse struct {
	ImageRef    string `json:"image_ref"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/media", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/images", h.UploadImage)
	})
}

func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.service.MaxSize()+multipartOverhead)
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		core.BadRequest(w, "invalid multipart form or file too large")
		return
	}
	defer func() {
		//nolint:errcheck // temp file cleanup
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		core.BadRequest(w, "file is required")
		return
	}
	defer file.Close() //nolint:errcheck // read-only multipart file

	kind := Kind(r.FormValue("kind"))
	if kind == "" {
		kind = KindProvider
	}

	upload, err := h.service.UploadImage(r.Context(), userID, kind, file, header.Size)
	if err != nil {
		core.WriteError(w, err, "image")
		return
	}

	core.Created(w, UploadResponse{
		ImageRef:    upload.URL,
		Key:         upload.Key,
		ContentType: upload.ContentType,
		Size:        upload.Size,
	})
}
