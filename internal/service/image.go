package service

import (
	"context"
	"errors"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/storage"
)

const (
	msgImageInvalid = "Загрузите правильное изображение."
	imagePrefix     = "recipes/images"
)

// ImageService stores recipe images in the configured backend.
type ImageService struct {
	store storage.ImageStore
}

func NewImageService(store storage.ImageStore) *ImageService {
	return &ImageService{store: store}
}

// SaveDataURI decodes a base64 data URI and stores it.
func (s *ImageService) SaveDataURI(ctx context.Context, uri string) (string, error) {
	img, err := storage.DecodeDataURI(uri)
	if err != nil {
		return "", imageError(err)
	}
	return s.save(ctx, img)
}

// SaveBytes stores raw uploaded bytes after checking they are an image.
func (s *ImageService) SaveBytes(ctx context.Context, data []byte) (string, error) {
	img, err := storage.Sniff(data)
	if err != nil {
		return "", imageError(err)
	}
	return s.save(ctx, img)
}

func (s *ImageService) save(ctx context.Context, img *storage.Image) (string, error) {
	return s.store.Save(ctx, img.Key(imagePrefix), img.Data, img.ContentType)
}

// Remove deletes a stored image. Failures are logged and otherwise ignored.
func (s *ImageService) Remove(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.store.Delete(ctx, url); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("image", url).Msg("failed to remove image")
	}
}

func imageError(err error) error {
	if errors.Is(err, storage.ErrInvalidDataURI) || errors.Is(err, storage.ErrNotImage) {
		return NewValidationError("image", msgImageInvalid)
	}
	return err
}
