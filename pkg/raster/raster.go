// Package raster holds the in-memory RGB pixel grid that the transform engine
// reads and produces. A Raster is never modified after construction; every
// operation that changes pixels returns a new value.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Channels is the number of 8-bit samples stored per pixel (R, G, B)
const Channels = 3

// Pixel is a single RGB triple
type Pixel struct {
	R, G, B uint8
}

// PixelFunc maps one input pixel to one output pixel
type PixelFunc func(Pixel) Pixel

// Raster is a fixed size grid of RGB pixels stored row-major, 3 bytes per pixel
type Raster struct {
	width  int
	height int
	pix    []uint8
}

// New returns a black raster of the given size
func New(width, height int) (*Raster, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("raster: invalid dimensions %dx%d", width, height)
	}
	return &Raster{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*Channels),
	}, nil
}

// FromPixels builds a raster from row-major pixels; len(px) must equal width*height
func FromPixels(width, height int, px []Pixel) (*Raster, error) {
	r, err := New(width, height)
	if err != nil {
		return nil, err
	}
	if len(px) != width*height {
		return nil, fmt.Errorf("raster: got %d pixels for %dx%d", len(px), width, height)
	}
	for i, p := range px {
		o := i * Channels
		r.pix[o], r.pix[o+1], r.pix[o+2] = p.R, p.G, p.B
	}
	return r, nil
}

// FromImage flattens any decoded image into an RGB raster. Colour is taken
// un-premultiplied and the alpha channel is dropped.
func FromImage(img image.Image) *Raster {
	b := img.Bounds()
	r := &Raster{
		width:  b.Dx(),
		height: b.Dy(),
		pix:    make([]uint8, b.Dx()*b.Dy()*Channels),
	}
	switch src := img.(type) {
	case *image.RGBA:
		// opaque RGBA is by far the common case coming out of the codecs
		if src.Opaque() {
			r.copyRGBA(src)
			return r
		}
	case *image.NRGBA:
		r.copyNRGBA(src)
		return r
	}
	o := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			r.pix[o], r.pix[o+1], r.pix[o+2] = c.R, c.G, c.B
			o += Channels
		}
	}
	return r
}

func (r *Raster) copyRGBA(src *image.RGBA) {
	b := src.Bounds()
	o := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := src.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			r.pix[o], r.pix[o+1], r.pix[o+2] = src.Pix[i], src.Pix[i+1], src.Pix[i+2]
			o += Channels
			i += 4
		}
	}
}

func (r *Raster) copyNRGBA(src *image.NRGBA) {
	b := src.Bounds()
	o := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := src.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			r.pix[o], r.pix[o+1], r.pix[o+2] = src.Pix[i], src.Pix[i+1], src.Pix[i+2]
			o += Channels
			i += 4
		}
	}
}

// Image renders the raster as an opaque *image.RGBA anchored at (0,0)
func (r *Raster) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	o := 0
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = r.pix[o], r.pix[o+1], r.pix[o+2], 0xFF
		o += Channels
	}
	return img
}

func (r *Raster) Width() int  { return r.width }
func (r *Raster) Height() int { return r.height }

// Bounds matches image.Image.Bounds for the rendered image
func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.width, r.height)
}

// At returns the pixel at x,y; out of range coordinates return the zero Pixel
func (r *Raster) At(x, y int) Pixel {
	if x < 0 || y < 0 || x >= r.width || y >= r.height {
		return Pixel{}
	}
	o := (y*r.width + x) * Channels
	return Pixel{R: r.pix[o], G: r.pix[o+1], B: r.pix[o+2]}
}

// Bytes returns a copy of the packed RGB samples
func (r *Raster) Bytes() []uint8 {
	return bytes.Clone(r.pix)
}

// Equal reports whether both rasters have the same size and samples
func (r *Raster) Equal(o *Raster) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.width == o.width && r.height == o.height && bytes.Equal(r.pix, o.pix)
}

func (r *Raster) String() string {
	return fmt.Sprintf("raster(%dx%d)", r.width, r.height)
}

// Map applies fn to every pixel and returns a new raster of the same size.
// workers <= 0 uses GOMAXPROCS; 1 runs on the calling goroutine. Rows are
// split into contiguous bands, the output does not depend on workers.
func (r *Raster) Map(fn PixelFunc, workers int) *Raster {
	out := &Raster{
		width:  r.width,
		height: r.height,
		pix:    make([]uint8, len(r.pix)),
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > r.height {
		workers = r.height
	}
	if workers <= 1 {
		mapRows(fn, r.pix, out.pix)
		return out
	}

	stride := r.width * Channels
	band := (r.height + workers - 1) / workers
	var g errgroup.Group
	for y0 := 0; y0 < r.height; y0 += band {
		y1 := min(y0+band, r.height)
		lo, hi := y0*stride, y1*stride
		g.Go(func() error {
			mapRows(fn, r.pix[lo:hi], out.pix[lo:hi])
			return nil
		})
	}
	_ = g.Wait() // bands never fail
	return out
}

func mapRows(fn PixelFunc, src, dst []uint8) {
	for o := 0; o+Channels <= len(src); o += Channels {
		p := fn(Pixel{R: src[o], G: src[o+1], B: src[o+2]})
		dst[o], dst[o+1], dst[o+2] = p.R, p.G, p.B
	}
}
