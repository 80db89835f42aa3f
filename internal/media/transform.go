// Package media turns uploaded images into the small, size-capped JPEG data
// URIs the video provider accepts as a prompt image.
package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"math"
	"strings"

	"golang.org/x/image/draw"
)

// DataURIPrefix precedes every thumbnail produced by Thumbnail.
const DataURIPrefix = "data:image/jpeg;base64,"

var (
	// ErrUnsupportedMediaType is returned for content types outside Allowed.
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	// ErrDecode is returned when the bytes are not a decodable image.
	ErrDecode = errors.New("image could not be decoded")
	// ErrPayloadTooLarge is returned when the encoded thumbnail exceeds MaxEncodedLen.
	ErrPayloadTooLarge = errors.New("image too large after encoding")
)

// Transformer downsamples an image into a bounded JPEG thumbnail and wraps it
// as a data URI. The zero value is not usable; start from DefaultTransformer.
type Transformer struct {
	MaxWidth      int
	MaxHeight     int
	Quality       int // JPEG quality, 1..100
	MaxEncodedLen int // ceiling on the data URI length in characters
	Allowed       map[string]struct{}
}

// DefaultTransformer matches what the provider accepts on its smallest plan:
// 100x100 at quality 20, at most 2048 characters.
func DefaultTransformer() Transformer {
	return Transformer{
		MaxWidth:      100,
		MaxHeight:     100,
		Quality:       20,
		MaxEncodedLen: 2048,
		Allowed: map[string]struct{}{
			"image/jpeg": {},
			"image/jpg":  {},
			"image/png":  {},
		},
	}
}

// NormalizeContentType lowercases a Content-Type and strips parameters.
func NormalizeContentType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// Allows reports whether contentType is in the allow-set.
func (t Transformer) Allows(contentType string) bool {
	_, ok := t.Allowed[NormalizeContentType(contentType)]
	return ok
}

// Thumbnail decodes data, flattens any alpha onto white, shrinks it to fit
// MaxWidth x MaxHeight preserving aspect ratio (never upscaling), encodes it
// as JPEG at Quality, and returns the data URI.
func (t Transformer) Thumbnail(data []byte, contentType string) (string, error) {
	if !t.Allows(contentType) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMediaType, contentType)
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	w, h := fitWithin(src.Bounds().Dx(), src.Bounds().Dy(), t.MaxWidth, t.MaxHeight)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: t.Quality}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}

	uri := DataURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes())
	if len(uri) > t.MaxEncodedLen {
		return "", fmt.Errorf("%w: %d > %d characters", ErrPayloadTooLarge, len(uri), t.MaxEncodedLen)
	}
	return uri, nil
}

// fitWithin scales (w, h) down to fit inside (maxW, maxH), keeping the aspect
// ratio. Dimensions already inside the box are returned unchanged.
func fitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	scale := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	nw := int(math.Round(float64(w) * scale))
	nh := int(math.Round(float64(h) * scale))
	return max(nw, 1), max(nh, 1)
}
