package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpfielding/pixcloak.go/pkg/codec"
	"github.com/jpfielding/pixcloak.go/pkg/transform"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "add", cfg.Method)
	assert.Equal(t, 10, cfg.Key)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 750, cfg.Preview.MaxWidth)
	assert.Equal(t, 400, cfg.Preview.MaxHeight)
	assert.Equal(t, "png", cfg.Output.Format)
	assert.Equal(t, 95, cfg.Output.JPEGQuality)
	assert.Equal(t, "INFO", cfg.Log.Level)
	assert.False(t, cfg.Log.JSON)
	assert.Empty(t, cfg.Log.File)
	require.NoError(t, cfg.Validate())
}

func TestParse(t *testing.T) {
	data := []byte(`
method = "xor"
key = 200
workers = 4

[preview]
max_width = 320

[output]
format = "bmp"

[log]
level = "DEBUG"
json = true
file = "/tmp/pixcloak.log"
`)
	cfg, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "xor", cfg.Method)
	assert.Equal(t, 200, cfg.Key)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 320, cfg.Preview.MaxWidth)
	assert.Equal(t, 400, cfg.Preview.MaxHeight, "unset field keeps default")
	assert.Equal(t, "bmp", cfg.Output.Format)
	assert.Equal(t, 95, cfg.Output.JPEGQuality)
	assert.Equal(t, "DEBUG", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, 10, cfg.Log.MaxSizeMB)

	m, err := cfg.MethodValue()
	require.NoError(t, err)
	assert.Equal(t, transform.Bitwise, m)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		is   error
	}{
		{"KeyTooLarge", `key = 256`, transform.ErrInvalidKey},
		{"KeyZero", `method = "add"` + "\n" + `key = 0`, transform.ErrInvalidKey},
		{"KeyNegative", `method = "xor"` + "\n" + `key = -3`, transform.ErrInvalidKey},
		{"Method", `method = "rot13"`, transform.ErrUnsupportedMethod},
		{"Format", "[output]\nformat = \"psd\"", codec.ErrUnsupportedFormat},
		{"Workers", `workers = -1`, nil},
		{"Quality", "[output]\njpeg_quality = 101", nil},
		{"Preview", "[preview]\nmax_height = -5", nil},
		{"Syntax", `method = `, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestParse_PermuteIgnoresKey(t *testing.T) {
	cfg, err := Parse([]byte("method = \"swap\"\nkey = 999"))
	require.NoError(t, err)
	assert.Equal(t, 999, cfg.Key)

	cfg, err = Parse([]byte("method = \"swap\"\nkey = 0"))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Key, "explicit zero is kept")
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(t.TempDir(), "pixcloak.toml")
	require.NoError(t, os.WriteFile(path, []byte(`method = "permute"`), 0o600))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "permute", cfg.Method)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
