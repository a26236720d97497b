// AngelaMos | 2026
// service.go

package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/josealexandro/chaama/internal/core"
)

type Kind string

const (
	KindProvider   Kind = "providers"
	KindCampaign   Kind = "campaigns"
	KindClassified Kind = "classifieds"
)

func (k Kind) Valid() bool {
	switch k {
	case KindProvider, KindCampaign, KindClassified:
		return true
	}
	return false
}

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

type Upload struct {
	Key         string
	URL         string
	ContentType string
	Size        int64
}

type Service struct {
	store   ObjectStore
	baseURL string
	maxSize int64
	logger  *slog.Logger
}

func NewService(store ObjectStore, publicBaseURL string, maxSize int64, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:   store,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
		maxSize: maxSize,
		logger:  logger,
	}
}

func (s *Service) MaxSize() int64 {
	return s.maxSize
}

// UploadImage stores an image under <kind>/<uid>/<uuid>.<ext>. The type is
// sniffed from the content, not taken from the client.
func (s *Service) UploadImage(
	ctx context.Context,
	uid string,
	kind Kind,
	r io.Reader,
	size int64,
) (*Upload, error) {
	if s.store == nil {
		return nil, fmt.Errorf("upload image: object store: %w", core.ErrNotConfigured)
	}
	if !kind.Valid() {
		return nil, core.Reason(core.ErrInvalidInput, "unknown upload kind %q", kind)
	}
	if size <= 0 {
		return nil, core.Reason(core.ErrInvalidInput, "file is empty")
	}
	if size > s.maxSize {
		return nil, core.Reason(core.ErrInvalidInput, "file exceeds %d bytes", s.maxSize)
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, core.Reason(core.ErrInvalidInput, "unreadable file")
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, core.Reason(core.ErrInvalidInput, "only JPEG, PNG and WebP images are accepted")
	}

	key := fmt.Sprintf("%s/%s/%s.%s", kind, uid, uuid.NewString(), ext)
	body := io.MultiReader(bytes.NewReader(head), r)

	if err := s.store.Put(ctx, key, body, size, contentType); err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	s.logger.Info("image uploaded", "key", key, "size", size, "user_id", uid)

	return &Upload{
		Key:         key,
		URL:         s.baseURL + "/" + key,
		ContentType: contentType,
		Size:        size,
	}, nil
}
