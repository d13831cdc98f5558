// Package transform implements the reversible pixel mappings used to obfuscate
// a raster. Every mapping is pointwise and has an exact inverse:
//
//	Additive  forward (c+k) mod 256     inverse (c-k) mod 256
//	Bitwise   forward c^k               inverse c^k
//	Permute   forward (g,b,r)           inverse (b,r,g)
//
// The engine has no state and never logs; callers own retry and reporting.
package transform

import (
	"fmt"

	"github.com/jpfielding/pixcloak.go/pkg/raster"
)

// key bounds for Additive and Bitwise
const (
	MinKey = 1
	MaxKey = 255
)

// Options tunes execution without changing output
type Options struct {
	// Workers is the number of row bands processed concurrently; 0 or 1 is serial
	Workers int
}

// ValidateKey checks a key against the method's contract. Permute accepts any key.
func ValidateKey(m Method, key int) error {
	if !m.Valid() {
		return &UnsupportedMethodError{Method: m}
	}
	if m.Keyed() && (key < MinKey || key > MaxKey) {
		return &ValidationError{Method: m, Key: key}
	}
	return nil
}

// PixelFunc returns the per-pixel mapping for m in direction d. The key is
// validated first so no mapping is ever built from a bad key.
func PixelFunc(m Method, d Direction, key int) (raster.PixelFunc, error) {
	if err := ValidateKey(m, key); err != nil {
		return nil, err
	}
	if d != Forward && d != Inverse {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDirection, d)
	}
	k := uint8(key)
	switch m {
	case Additive:
		if d == Inverse {
			// uint8 arithmetic wraps, giving the non-negative residue
			return func(p raster.Pixel) raster.Pixel {
				return raster.Pixel{R: p.R - k, G: p.G - k, B: p.B - k}
			}, nil
		}
		return func(p raster.Pixel) raster.Pixel {
			return raster.Pixel{R: p.R + k, G: p.G + k, B: p.B + k}
		}, nil
	case Bitwise:
		return func(p raster.Pixel) raster.Pixel {
			return raster.Pixel{R: p.R ^ k, G: p.G ^ k, B: p.B ^ k}
		}, nil
	case Permute:
		if d == Inverse {
			return func(p raster.Pixel) raster.Pixel {
				return raster.Pixel{R: p.B, G: p.R, B: p.G}
			}, nil
		}
		return func(p raster.Pixel) raster.Pixel {
			return raster.Pixel{R: p.G, G: p.B, B: p.R}
		}, nil
	}
	return nil, &UnsupportedMethodError{Method: m}
}

// Transform maps every pixel of src and returns a new raster of the same size.
// src is never modified. On error no raster is returned.
func Transform(src *raster.Raster, m Method, d Direction, key int) (*raster.Raster, error) {
	return TransformWith(src, m, d, key, Options{})
}

// TransformWith is Transform with execution options
func TransformWith(src *raster.Raster, m Method, d Direction, key int, opts Options) (*raster.Raster, error) {
	fn, err := PixelFunc(m, d, key)
	if err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return src.Map(fn, workers), nil
}
