// Package storage keeps uploaded recipe images either in a local media
// directory or in an S3 bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ErrNotImage is returned when uploaded bytes are not a recognised image.
var ErrNotImage = errors.New("uploaded file is not an image")

// ImageStore persists image bytes and returns the URL clients fetch them from.
type ImageStore interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// Image is a validated image ready to be stored.
type Image struct {
	Data        []byte
	ContentType string
	Extension   string
}

// Key returns a fresh object key for the image under prefix.
func (img *Image) Key(prefix string) string {
	return fmt.Sprintf("%s/%s%s", strings.TrimSuffix(prefix, "/"), uuid.NewString(), img.Extension)
}

// Sniff detects the image type from its content.
func Sniff(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrNotImage
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, ErrNotImage
	}
	return &Image{
		Data:        data,
		ContentType: mt.String(),
		Extension:   mt.Extension(),
	}, nil
}
