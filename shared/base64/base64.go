package base64

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	dataPrefix   = "data:"
	base64Marker = ";base64,"
)

var ErrInvalidDataURL = errors.New("invalid base64 data url")

// GetContentType returns the media type of a "data:<type>;base64,<payload>" string.
func GetContentType(file string) string {
	start := len(dataPrefix)
	end := strings.Index(file, base64Marker)

	if !strings.HasPrefix(file, dataPrefix) || end == -1 || end < start {
		return ""
	}

	return file[start:end]
}

// Decode splits a data url into its media type and decoded payload.
func Decode(file string) (content []byte, contentType string, err error) {
	contentType = GetContentType(file)
	if contentType == "" {
		return nil, "", ErrInvalidDataURL
	}

	payload := file[strings.Index(file, base64Marker)+len(base64Marker):]

	content, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidDataURL, err)
	}

	return content, contentType, nil
}

// Extension maps the media types accepted for uploads to a file extension.
func Extension(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	case "application/pdf":
		return ".pdf"
	default:
		return ""
	}
}
