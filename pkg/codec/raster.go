package codec

import (
	"fmt"
	"image"
	"io"

	"github.com/jpfielding/pixcloak.go/pkg/raster"
)

// DecodeError wraps any failure to turn input bytes into a raster
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Format != "" {
		return fmt.Sprintf("codec: decode %s: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("codec: decode: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DecodeRaster sniffs the container (every codec in All is registered with
// package image by the imports in codec.go), decodes it and flattens it to RGB.
// The detected format name is returned alongside the raster.
func DecodeRaster(r io.Reader) (*raster.Raster, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, format, &DecodeError{Format: format, Err: err}
	}
	return raster.FromImage(img), format, nil
}

// DecodeRasterWith decodes with a specific codec instead of sniffing
func DecodeRasterWith(r io.Reader, c Codec) (*raster.Raster, error) {
	img, err := c.Decode(r)
	if err != nil {
		return nil, &DecodeError{Format: c.Name(), Err: err}
	}
	return raster.FromImage(img), nil
}

// EncodeRaster writes the raster as an opaque RGB image through c
func EncodeRaster(w io.Writer, r *raster.Raster, c Codec) error {
	if err := c.Encode(w, r.Image()); err != nil {
		return fmt.Errorf("codec: encode %s: %w", c.Name(), err)
	}
	return nil
}
