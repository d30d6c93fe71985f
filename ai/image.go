package ai

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyImage is returned when an attachment carries no image data.
var ErrEmptyImage = errors.New("empty image payload")

// Image is a single image to embed: either a remote URL or raw bytes.
type Image struct {
	URL  string
	Data []byte
}

// IsURL reports whether the image refers to a remote URL.
func (i Image) IsURL() bool {
	return i.URL != ""
}

// String returns a short description suitable for logging.
func (i Image) String() string {
	if i.IsURL() {
		return i.URL
	}
	return fmt.Sprintf("<%d bytes>", len(i.Data))
}

// ImageFromURL wraps a remote image URL.
func ImageFromURL(url string) Image {
	return Image{URL: url}
}

// ImageFromBytes wraps raw image bytes.
func ImageFromBytes(data []byte) Image {
	return Image{Data: data}
}

// IsURLAttachment reports whether an attachment string is an http(s) URL.
func IsURLAttachment(attachment string) bool {
	return strings.HasPrefix(attachment, "http://") || strings.HasPrefix(attachment, "https://")
}

// ImageFromAttachment routes an attachment string to the right kind of Image.
// Strings starting with http:// or https:// are URLs; anything else is treated
// as a base64 payload, optionally wrapped in a data URI.
func ImageFromAttachment(attachment string) (Image, error) {
	attachment = strings.TrimSpace(attachment)
	if attachment == "" {
		return Image{}, ErrEmptyImage
	}
	if IsURLAttachment(attachment) {
		return ImageFromURL(attachment), nil
	}

	payload := attachment
	if strings.HasPrefix(payload, "data:") {
		idx := strings.Index(payload, ",")
		if idx < 0 {
			return Image{}, fmt.Errorf("malformed data URI")
		}
		payload = payload[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some clients strip padding
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return Image{}, fmt.Errorf("decode image payload: %w", err)
		}
	}
	if len(data) == 0 {
		return Image{}, ErrEmptyImage
	}
	return ImageFromBytes(data), nil
}
