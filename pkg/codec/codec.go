// Package codec decodes and encodes the image containers a raster travels in.
// The container is irrelevant to the transform; only lossless containers
// preserve an exact round trip once the result is written out.
package codec

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned for an unknown extension or codec name
var ErrUnsupportedFormat = errors.New("codec: unsupported format")

// Codec defines the interface for an image container
type Codec interface {
	// Name returns the codec identifier (e.g., "png")
	Name() string
	// Extensions lists the lower case file extensions, leading dot included
	Extensions() []string
	// Lossless reports whether Encode followed by Decode keeps every sample
	Lossless() bool
	// Decode reads a single image
	Decode(r io.Reader) (image.Image, error)
	// Encode writes img to w
	Encode(w io.Writer, img image.Image) error
}

// pngCodec implements Codec for PNG
type pngCodec struct{}

func (c *pngCodec) Name() string {
	return "png"
}

func (c *pngCodec) Extensions() []string {
	return []string{".png"}
}

func (c *pngCodec) Lossless() bool {
	return true
}

func (c *pngCodec) Decode(r io.Reader) (image.Image, error) {
	return png.Decode(r)
}

func (c *pngCodec) Encode(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	return enc.Encode(w, img)
}

// jpegCodec implements Codec for baseline JPEG
type jpegCodec struct {
	quality int
}

func (c *jpegCodec) Name() string {
	return "jpeg"
}

func (c *jpegCodec) Extensions() []string {
	return []string{".jpg", ".jpeg"}
}

func (c *jpegCodec) Lossless() bool {
	return false
}

func (c *jpegCodec) Decode(r io.Reader) (image.Image, error) {
	return jpeg.Decode(r)
}

func (c *jpegCodec) Encode(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: c.quality})
}

// gifCodec implements Codec for single frame GIF. Encoding quantizes to a
// 256 colour palette so it is not lossless for true colour input.
type gifCodec struct{}

func (c *gifCodec) Name() string {
	return "gif"
}

func (c *gifCodec) Extensions() []string {
	return []string{".gif"}
}

func (c *gifCodec) Lossless() bool {
	return false
}

func (c *gifCodec) Decode(r io.Reader) (image.Image, error) {
	return gif.Decode(r)
}

func (c *gifCodec) Encode(w io.Writer, img image.Image) error {
	return gif.Encode(w, img, nil)
}

// bmpCodec implements Codec for BMP
type bmpCodec struct{}

func (c *bmpCodec) Name() string {
	return "bmp"
}

func (c *bmpCodec) Extensions() []string {
	return []string{".bmp"}
}

func (c *bmpCodec) Lossless() bool {
	return true
}

func (c *bmpCodec) Decode(r io.Reader) (image.Image, error) {
	return bmp.Decode(r)
}

func (c *bmpCodec) Encode(w io.Writer, img image.Image) error {
	return bmp.Encode(w, img)
}

// tiffCodec implements Codec for TIFF with deflate compression
type tiffCodec struct{}

func (c *tiffCodec) Name() string {
	return "tiff"
}

func (c *tiffCodec) Extensions() []string {
	return []string{".tif", ".tiff"}
}

func (c *tiffCodec) Lossless() bool {
	return true
}

func (c *tiffCodec) Decode(r io.Reader) (image.Image, error) {
	return tiff.Decode(r)
}

func (c *tiffCodec) Encode(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
}

// webpCodec implements Codec for WebP; the encoder only writes VP8L (lossless)
type webpCodec struct{}

func (c *webpCodec) Name() string {
	return "webp"
}

func (c *webpCodec) Extensions() []string {
	return []string{".webp"}
}

func (c *webpCodec) Lossless() bool {
	return true
}

func (c *webpCodec) Decode(r io.Reader) (image.Image, error) {
	return webp.Decode(r)
}

func (c *webpCodec) Encode(w io.Writer, img image.Image) error {
	return nativewebp.Encode(w, img, nil)
}

// DefaultJPEGQuality is used by ForName/ForPath
const DefaultJPEGQuality = 95

// All returns every supported codec, JPEG at the given quality
func All(jpegQuality int) []Codec {
	if jpegQuality < 1 || jpegQuality > 100 {
		jpegQuality = DefaultJPEGQuality
	}
	return []Codec{
		&pngCodec{},
		&jpegCodec{quality: jpegQuality},
		&gifCodec{},
		&bmpCodec{},
		&tiffCodec{},
		&webpCodec{},
	}
}

// ForName returns the codec by its identifier; "jpg" and "tif" are accepted aliases
func ForName(name string) (Codec, error) {
	return ForNameQuality(name, DefaultJPEGQuality)
}

// ForNameQuality is ForName with an explicit JPEG quality
func ForNameQuality(name string, jpegQuality int) (Codec, error) {
	n := strings.ToLower(strings.TrimPrefix(name, "."))
	for _, c := range All(jpegQuality) {
		if c.Name() == n {
			return c, nil
		}
		for _, ext := range c.Extensions() {
			if ext[1:] == n {
				return c, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// ForPath picks a codec from the file extension
func ForPath(path string) (Codec, error) {
	return ForPathQuality(path, DefaultJPEGQuality)
}

// ForPathQuality is ForPath with an explicit JPEG quality
func ForPathQuality(path string, jpegQuality int) (Codec, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return nil, fmt.Errorf("%w: %q has no extension", ErrUnsupportedFormat, path)
	}
	return ForNameQuality(ext, jpegQuality)
}
