package tasksolver

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strings"

	"golang.org/x/sync/semaphore"
)

// encodeGate serializes in-memory image encoding across the process. Network
// calls are never held behind it.
var encodeGate = semaphore.NewWeighted(1)

// EncodePNG encodes img as PNG. Only one encode runs at a time.
func EncodePNG(img image.Image) ([]byte, error) {
	if err := encodeGate.Acquire(context.Background(), 1); err != nil {
		return nil, err
	}
	defer encodeGate.Release(1)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Base64 signatures of the supported image formats.
var imageSignatures = []struct {
	prefix string
	mime   string
}{
	{"/9j/", "image/jpeg"},
	{"iVBORw0KGgo", "image/png"},
	{"R0lGOD", "image/gif"},
	{"UklGR", "image/webp"},
}

// DetectImageFormat returns the media type of a base64 encoded image from its
// leading signature.
func DetectImageFormat(b64 string) (string, error) {
	for _, sig := range imageSignatures {
		if strings.HasPrefix(b64, sig.prefix) {
			return sig.mime, nil
		}
	}
	return "", ErrUnknownImageFormat
}

// DetectMIMEType is DetectImageFormat for raw bytes.
func DetectMIMEType(data []byte) (string, error) {
	// 12 bytes cover the longest signature once base64 encoded.
	head := data
	if len(head) > 12 {
		head = head[:12]
	}
	return DetectImageFormat(base64.StdEncoding.EncodeToString(head))
}

// DataURL renders data as a base64 data URL. Unknown formats are labelled
// image/png.
func DataURL(data []byte) string {
	mime, err := DetectMIMEType(data)
	if err != nil {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// SplitDataURL returns the media type and base64 payload of a data URL.
func SplitDataURL(url string) (mime, payload string, ok bool) {
	rest, found := strings.CutPrefix(url, "data:")
	if !found {
		return "", "", false
	}
	meta, payload, found := strings.Cut(rest, ",")
	if !found {
		return "", "", false
	}
	mime, _, _ = strings.Cut(meta, ";")
	return mime, payload, true
}
