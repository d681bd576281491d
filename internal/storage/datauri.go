package storage

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrInvalidDataURI is returned for strings that are not base64 image data URIs.
var ErrInvalidDataURI = errors.New("invalid image data URI")

// DecodeDataURI decodes "data:image/<ext>;base64,<payload>" and checks that
// the payload really is an image.
func DecodeDataURI(uri string) (*Image, error) {
	header, payload, ok := strings.Cut(strings.TrimSpace(uri), ",")
	if !ok || !strings.HasPrefix(header, "data:image/") || !strings.HasSuffix(header, ";base64") {
		return nil, ErrInvalidDataURI
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some clients strip the padding.
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, ErrInvalidDataURI
		}
	}

	return Sniff(data)
}
