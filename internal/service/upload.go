package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedImage = errors.New("only jpeg, png, gif and webp images are accepted")
	ErrImageTooLarge    = errors.New("image is too large")
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ImageHost stores an image under key and returns its public URL.
type ImageHost interface {
	Upload(ctx context.Context, key string, data []byte) (string, error)
}

type UploadService struct {
	host    ImageHost
	maxSize int64
}

func NewUploadService(host ImageHost, maxSize int64) *UploadService {
	return &UploadService{
		host:    host,
		maxSize: maxSize,
	}
}

func (s *UploadService) UploadImage(ctx context.Context, userID string, data []byte) (string, error) {
	if s.maxSize > 0 && int64(len(data)) > s.maxSize {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrImageTooLarge, len(data), s.maxSize)
	}
	if !allowedImageTypes[http.DetectContentType(data)] {
		return "", ErrUnsupportedImage
	}

	key := fmt.Sprintf("users/%s/%s", userID, uuid.NewString())
	url, err := s.host.Upload(ctx, key, data)
	if err != nil {
		return "", fmt.Errorf("s.host.Upload -> %w", err)
	}

	return url, nil
}
