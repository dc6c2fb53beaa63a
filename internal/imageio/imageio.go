// Package imageio prepares image files for upload: raw bytes, media
// type detection for the data URL, standard base64 encoding, and an
// optional downscale pass for oversized pages.
package imageio

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	// Register decoders for formats image.Decode does not cover out of
	// the box so downscaling works across the supported input set
	// (png/jpg/jpeg/webp/tiff/bmp).
	_ "golang.org/x/image/webp"
)

// Payload holds upload-ready image bytes and their declared media type.
type Payload struct {
	Data []byte
	MIME string
}

// Load reads the image at path and prepares it for upload. When
// maxDimension is positive and the image's longest side exceeds it,
// the image is downscaled and re-encoded as PNG before upload.
func Load(path string, maxDimension int) (*Payload, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: reading user-provided image paths is the point
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", path, err)
	}

	if maxDimension > 0 {
		resized, err := downscale(data, maxDimension)
		if err != nil {
			return nil, fmt.Errorf("failed to downscale %s: %w", path, err)
		}
		if resized != nil {
			return &Payload{Data: resized, MIME: "image/png"}, nil
		}
	}

	return &Payload{Data: data, MIME: DetectMIME(data, path)}, nil
}

// Base64 returns the payload bytes as standard base64 text, no line
// wrapping.
func (p *Payload) Base64() string {
	return base64.StdEncoding.EncodeToString(p.Data)
}

// DataURL returns the payload as a data URL suitable for an
// OpenAI-style image_url content part.
func (p *Payload) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", p.MIME, p.Base64())
}

// DetectMIME returns the media type to declare in the data URL. It
// sniffs the content first, falls back to the file extension, and
// declares image/png when neither is conclusive.
func DetectMIME(data []byte, path string) string {
	sniffed := http.DetectContentType(data)
	if strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".tif", ".tiff":
		return "image/tiff"
	case ".bmp":
		return "image/bmp"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	}

	return "image/png"
}

// downscale shrinks the image so its longest side is at most
// maxDimension, preserving aspect ratio. It returns nil bytes when the
// image is already small enough.
func downscale(data []byte, maxDimension int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= maxDimension && bounds.Dy() <= maxDimension {
		return nil, nil
	}

	fitted := imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode resized image: %w", err)
	}
	return buf.Bytes(), nil
}
