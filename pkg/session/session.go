// Package session tracks the rasters a user works with between operations:
// the image as loaded, the image currently shown and the last transform
// result. Rasters are immutable values; every operation replaces references
// and never edits pixels in place, so encrypt, decrypt and reset can be
// repeated without drift.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/nfnt/resize"

	"github.com/jpfielding/pixcloak.go/pkg/codec"
	"github.com/jpfielding/pixcloak.go/pkg/logging"
	"github.com/jpfielding/pixcloak.go/pkg/raster"
	"github.com/jpfielding/pixcloak.go/pkg/transform"
	"github.com/jpfielding/pixcloak.go/pkg/util"
)

var (
	// ErrNoImage is returned by operations that need a loaded image
	ErrNoImage = errors.New("session: no image loaded")

	// ErrNoResult is returned by Save before any transform ran
	ErrNoResult = errors.New("session: no processed image to save")
)

// Op names the last state transition
type Op int

const (
	OpNone Op = iota
	OpLoad
	OpEncrypt
	OpDecrypt
	OpReset
	OpSave
)

func (o Op) String() string {
	switch o {
	case OpLoad:
		return "load"
	case OpEncrypt:
		return "encrypt"
	case OpDecrypt:
		return "decrypt"
	case OpReset:
		return "reset"
	case OpSave:
		return "save"
	default:
		return "none"
	}
}

// Options tunes a session
type Options struct {
	// Workers for the transform; 0 uses GOMAXPROCS
	Workers int
	// JPEGQuality used when saving to .jpg/.jpeg
	JPEGQuality int
}

// Session is not safe for concurrent use
type Session struct {
	ID string

	opts   Options
	name   string
	format string

	original   *raster.Raster
	current    *raster.Raster
	lastResult *raster.Raster

	lastOp Op
	status string
}

// New starts an empty session
func New(opts Options) *Session {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.JPEGQuality == 0 {
		opts.JPEGQuality = codec.DefaultJPEGQuality
	}
	return &Session{
		ID:     util.NewID(),
		opts:   opts,
		status: "Ready to load an image",
	}
}

func (s *Session) ctx(ctx context.Context) context.Context {
	return logging.AppendCtx(ctx, slog.String("session", s.ID))
}

// Load decodes the image at path and makes it both the original and current image
func (s *Session) Load(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		s.status = fmt.Sprintf("Error loading image: %v", err)
		return fmt.Errorf("session: open: %w", err)
	}
	defer f.Close()
	return s.LoadFrom(ctx, f, filepath.Base(path))
}

// LoadFrom decodes r; name is only used for status and logging
func (s *Session) LoadFrom(ctx context.Context, r io.Reader, name string) error {
	ras, format, err := codec.DecodeRaster(r)
	if err != nil {
		s.status = fmt.Sprintf("Error loading image: %v", err)
		return err
	}
	s.setImage(ctx, name, format, ras)
	return nil
}

// SetImage adopts an already decoded raster as the loaded image
func (s *Session) SetImage(ctx context.Context, name string, r *raster.Raster) {
	s.setImage(ctx, name, "", r)
}

func (s *Session) setImage(ctx context.Context, name, format string, r *raster.Raster) {
	s.name = name
	s.format = format
	s.original = r
	s.current = r
	s.lastResult = nil
	s.lastOp = OpLoad
	s.status = fmt.Sprintf("Image loaded: %s", name)
	slog.InfoContext(s.ctx(ctx), "image loaded",
		"name", name,
		"format", format,
		"width", r.Width(),
		"height", r.Height(),
		"fingerprint", Fingerprint(r),
	)
}

// Encrypt applies the forward mapping to the current image
func (s *Session) Encrypt(ctx context.Context, m transform.Method, key int) (*raster.Raster, error) {
	return s.apply(ctx, m, transform.Forward, key)
}

// Decrypt applies the inverse mapping to the current image
func (s *Session) Decrypt(ctx context.Context, m transform.Method, key int) (*raster.Raster, error) {
	return s.apply(ctx, m, transform.Inverse, key)
}

func (s *Session) apply(ctx context.Context, m transform.Method, d transform.Direction, key int) (*raster.Raster, error) {
	if s.current == nil {
		return nil, ErrNoImage
	}
	out, err := transform.TransformWith(s.current, m, d, key, transform.Options{Workers: s.opts.Workers})
	if err != nil {
		s.status = fmt.Sprintf("Invalid request: %v", err)
		return nil, err
	}
	s.current = out
	s.lastResult = out
	if d == transform.Inverse {
		s.lastOp = OpDecrypt
	} else {
		s.lastOp = OpEncrypt
	}
	s.status = fmt.Sprintf("Image %sed using %s method!", d.Verb(), strings.ToUpper(m.ShortName()))
	slog.DebugContext(s.ctx(ctx), "transform applied",
		"method", m.String(),
		"direction", d.String(),
		"fingerprint", Fingerprint(out),
	)
	return out, nil
}

// Reset makes the original image current again. The last result is kept so
// it can still be saved.
func (s *Session) Reset(ctx context.Context) error {
	if s.original == nil {
		return ErrNoImage
	}
	s.current = s.original
	s.lastOp = OpReset
	s.status = "Image reset to original state"
	slog.DebugContext(s.ctx(ctx), "image reset")
	return nil
}

// Save writes the last transform result, choosing the container from the extension
func (s *Session) Save(ctx context.Context, path string) error {
	c, err := codec.ForPathQuality(path, s.opts.JPEGQuality)
	if err != nil {
		return err
	}
	if s.lastResult == nil {
		return ErrNoResult
	}
	f, err := os.Create(path)
	if err != nil {
		s.status = fmt.Sprintf("Error saving image: %v", err)
		return fmt.Errorf("session: create: %w", err)
	}
	if err := s.SaveTo(ctx, f, c); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("session: close: %w", err)
	}
	s.status = fmt.Sprintf("Image saved to: %s", filepath.Base(path))
	return nil
}

// SaveTo writes the last transform result to w through c
func (s *Session) SaveTo(ctx context.Context, w io.Writer, c codec.Codec) error {
	if s.lastResult == nil {
		return ErrNoResult
	}
	if !c.Lossless() {
		slog.WarnContext(s.ctx(ctx), "lossy container, the saved result will not decrypt exactly", "format", c.Name())
	}
	if err := codec.EncodeRaster(w, s.lastResult, c); err != nil {
		s.status = fmt.Sprintf("Error saving image: %v", err)
		return err
	}
	s.lastOp = OpSave
	slog.InfoContext(s.ctx(ctx), "result saved", "format", c.Name(), "fingerprint", Fingerprint(s.lastResult))
	return nil
}

// Preview scales the current image to fit within maxWidth x maxHeight keeping
// its aspect ratio. Images that already fit are returned unscaled.
func (s *Session) Preview(maxWidth, maxHeight int) (image.Image, error) {
	if s.current == nil {
		return nil, ErrNoImage
	}
	return Thumbnail(s.current, maxWidth, maxHeight), nil
}

// Thumbnail renders r scaled down to fit the bounds
func Thumbnail(r *raster.Raster, maxWidth, maxHeight int) image.Image {
	if maxWidth < 1 || maxHeight < 1 {
		return r.Image()
	}
	return resize.Thumbnail(uint(maxWidth), uint(maxHeight), r.Image(), resize.Lanczos3)
}

// Fingerprint identifies raster content: size plus samples
func Fingerprint(r *raster.Raster) string {
	if r == nil {
		return ""
	}
	return util.BytesUUID(append([]byte(r.String()), r.Bytes()...))
}

func (s *Session) Name() string {
	return s.name
}

func (s *Session) Format() string {
	return s.format
}

func (s *Session) Original() *raster.Raster {
	return s.original
}

func (s *Session) Current() *raster.Raster {
	return s.current
}

func (s *Session) LastResult() *raster.Raster {
	return s.lastResult
}

func (s *Session) LastOp() Op {
	return s.lastOp
}

func (s *Session) Status() string {
	return "Status: " + s.status
}
