package transform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpfielding/pixcloak.go/pkg/raster"
)

var allMethods = []Method{Additive, Bitwise, Permute}

func single(t *testing.T, p raster.Pixel) *raster.Raster {
	t.Helper()
	r, err := raster.FromPixels(1, 1, []raster.Pixel{p})
	require.NoError(t, err)
	return r
}

// everyValue builds a 256x256 raster that covers every channel value in every position
func everyValue(t *testing.T) *raster.Raster {
	t.Helper()
	px := make([]raster.Pixel, 256*256)
	for y := 0; y < 256; y++ {
		for x := 0; x < 256; x++ {
			px[y*256+x] = raster.Pixel{R: uint8(x), G: uint8(y), B: uint8(x ^ y)}
		}
	}
	r, err := raster.FromPixels(256, 256, px)
	require.NoError(t, err)
	return r
}

func TestTransform_SinglePixel(t *testing.T) {
	tests := []struct {
		name   string
		method Method
		dir    Direction
		key    int
		in     raster.Pixel
		want   raster.Pixel
	}{
		{"AdditiveForward", Additive, Forward, 5, raster.Pixel{R: 10, G: 20, B: 30}, raster.Pixel{R: 15, G: 25, B: 35}},
		{"AdditiveInverse", Additive, Inverse, 5, raster.Pixel{R: 15, G: 25, B: 35}, raster.Pixel{R: 10, G: 20, B: 30}},
		{"BitwiseForward", Bitwise, Forward, 5, raster.Pixel{R: 10, G: 20, B: 30}, raster.Pixel{R: 15, G: 17, B: 27}},
		{"BitwiseForwardAgain", Bitwise, Forward, 5, raster.Pixel{R: 15, G: 17, B: 27}, raster.Pixel{R: 10, G: 20, B: 30}},
		{"BitwiseInverse", Bitwise, Inverse, 5, raster.Pixel{R: 15, G: 17, B: 27}, raster.Pixel{R: 10, G: 20, B: 30}},
		{"PermuteForward", Permute, Forward, 0, raster.Pixel{R: 10, G: 20, B: 30}, raster.Pixel{R: 20, G: 30, B: 10}},
		{"PermuteInverse", Permute, Inverse, 0, raster.Pixel{R: 20, G: 30, B: 10}, raster.Pixel{R: 10, G: 20, B: 30}},
		{"AdditiveWrapZero", Additive, Forward, 255, raster.Pixel{R: 0, G: 0, B: 0}, raster.Pixel{R: 255, G: 255, B: 255}},
		{"AdditiveWrapMax", Additive, Forward, 255, raster.Pixel{R: 255, G: 255, B: 255}, raster.Pixel{R: 254, G: 254, B: 254}},
		{"AdditiveInverseWrap", Additive, Inverse, 255, raster.Pixel{R: 0, G: 0, B: 0}, raster.Pixel{R: 1, G: 1, B: 1}},
		{"AdditiveInverseNegative", Additive, Inverse, 10, raster.Pixel{R: 0, G: 5, B: 9}, raster.Pixel{R: 246, G: 251, B: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Transform(single(t, tt.in), tt.method, tt.dir, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.At(0, 0))
		})
	}
}

func TestTransform_RoundTrip(t *testing.T) {
	src := everyValue(t)
	for _, m := range allMethods {
		for _, key := range []int{MinKey, 2, 5, 10, 127, 128, 200, MaxKey} {
			enc, err := Transform(src, m, Forward, key)
			require.NoError(t, err)
			dec, err := Transform(enc, m, Inverse, key)
			require.NoError(t, err)
			assert.True(t, src.Equal(dec), "%s key=%d", m, key)
		}
	}
}

func TestTransform_RoundTripParallel(t *testing.T) {
	src := everyValue(t)
	for _, m := range allMethods {
		serial, err := Transform(src, m, Forward, 42)
		require.NoError(t, err)
		parallel, err := TransformWith(src, m, Forward, 42, Options{Workers: 8})
		require.NoError(t, err)
		assert.True(t, serial.Equal(parallel), "%s", m)

		dec, err := TransformWith(parallel, m, Inverse, 42, Options{Workers: 3})
		require.NoError(t, err)
		assert.True(t, src.Equal(dec), "%s", m)
	}
}

func TestTransform_BitwiseSelfInverse(t *testing.T) {
	src := everyValue(t)
	for key := MinKey; key <= MaxKey; key++ {
		once, err := Transform(src, Bitwise, Forward, key)
		require.NoError(t, err)
		twice, err := Transform(once, Bitwise, Forward, key)
		require.NoError(t, err)
		require.True(t, src.Equal(twice), "key=%d", key)
	}
}

func TestTransform_PermuteCycle(t *testing.T) {
	src := everyValue(t)
	cur := src
	for i := 0; i < 3; i++ {
		next, err := Transform(cur, Permute, Forward, 0)
		require.NoError(t, err)
		if i < 2 {
			assert.False(t, src.Equal(next), "step %d should differ", i+1)
		}
		cur = next
	}
	assert.True(t, src.Equal(cur))
}

func TestTransform_PermuteIgnoresKey(t *testing.T) {
	src := everyValue(t)
	want, err := Transform(src, Permute, Forward, 0)
	require.NoError(t, err)
	for _, key := range []int{-1, 1, 256, 1 << 20} {
		got, err := Transform(src, Permute, Forward, key)
		require.NoError(t, err)
		assert.True(t, want.Equal(got), "key=%d", key)
	}
}

func TestTransform_InvalidKey(t *testing.T) {
	src := everyValue(t)
	before := src.Bytes()
	for _, m := range []Method{Additive, Bitwise} {
		for _, d := range []Direction{Forward, Inverse} {
			for _, key := range []int{0, -1, 256, 1000} {
				out, err := Transform(src, m, d, key)
				require.Error(t, err)
				assert.Nil(t, out)
				assert.ErrorIs(t, err, ErrInvalidKey)

				var verr *ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Equal(t, key, verr.Key)
				assert.Equal(t, m, verr.Method)
			}
		}
	}
	assert.Equal(t, before, src.Bytes(), "input must not be touched")
}

func TestTransform_UnsupportedMethod(t *testing.T) {
	src := single(t, raster.Pixel{R: 1, G: 2, B: 3})
	for _, m := range []Method{0, Method(4), Method(-1)} {
		out, err := Transform(src, m, Forward, 10)
		assert.Nil(t, out)
		assert.ErrorIs(t, err, ErrUnsupportedMethod)
		var merr *UnsupportedMethodError
		require.True(t, errors.As(err, &merr))
		assert.Equal(t, m, merr.Method)
	}
}

func TestTransform_UnsupportedDirection(t *testing.T) {
	out, err := Transform(single(t, raster.Pixel{R: 1, G: 2, B: 3}), Additive, Direction(7), 10)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrUnsupportedDirection)
}

func TestTransform_Dimensions(t *testing.T) {
	for _, size := range [][2]int{{0, 0}, {1, 1}, {3, 7}, {64, 1}, {1, 64}} {
		px := make([]raster.Pixel, size[0]*size[1])
		src, err := raster.FromPixels(size[0], size[1], px)
		require.NoError(t, err)
		for _, m := range allMethods {
			for _, d := range []Direction{Forward, Inverse} {
				out, err := Transform(src, m, d, 9)
				require.NoError(t, err)
				assert.Equal(t, size[0], out.Width())
				assert.Equal(t, size[1], out.Height())
			}
		}
	}
}

func TestTransform_Pure(t *testing.T) {
	src := everyValue(t)
	before := src.Bytes()
	a, err := Transform(src, Additive, Forward, 33)
	require.NoError(t, err)
	b, err := Transform(src, Additive, Forward, 33)
	require.NoError(t, err)
	assert.True(t, a.Equal(b), "repeat calls must agree")
	assert.NotSame(t, src, a)
	assert.Equal(t, before, src.Bytes())
}
