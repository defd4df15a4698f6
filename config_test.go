package inkboard

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/esimov/inkboard/imop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Decode(t *testing.T) {
	assert := assert.New(t)

	cfg, err := DecodeConfig(strings.NewReader(`
width = 640
height = 480
background = "white"
brush_color = "#1e88e5"
brush_radius = 4.5
blend = "multiply"
`))
	require.NoError(t, err)
	assert.Equal(640, cfg.Width)
	assert.Equal(480, cfg.Height)
	assert.Equal("white", cfg.Background)
	assert.Equal("#1e88e5", cfg.BrushColor)
	assert.Equal(float32(4.5), cfg.BrushRadius)
	assert.Equal(imop.Multiply, cfg.Blend)
	// Unset keys keep their defaults.
	assert.Equal(float32(30), cfg.EraserRadius)
	assert.Equal(DefaultKernelSize, cfg.KernelSize)
}

func TestConfig_DecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"unknown key", `brush_size = 3`},
		{"bad color", `brush_color = "blue-ish"`},
		{"bad blend", `blend = "dodge"`},
		{"bad syntax", `width = `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeConfig(strings.NewReader(tt.toml))
			assert.Error(t, err)
		})
	}
}

func TestConfig_Normalize(t *testing.T) {
	assert := assert.New(t)

	cfg := Config{Width: -1, BrushRadius: 0.2, StampDensity: -3}.Normalize()
	assert.Equal(1, cfg.Width)
	assert.Equal(1, cfg.Height)
	assert.Equal(float32(MinRadius), cfg.BrushRadius)
	assert.Equal(float32(MinRadius), cfg.EraserRadius)
	assert.Equal(1, cfg.KernelSize)
	assert.Equal(float32(DefaultStampDensity), cfg.StampDensity)
	assert.Equal(imop.Normal, cfg.Blend)
}

func TestConfig_LoadAndSave(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg.Width = 320
	cfg.BrushColor = "#ff8800"
	var buf bytes.Buffer
	require.NoError(t, cfg.Save(&buf))

	path := filepath.Join(dir, configFile)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	assert.True(t, strings.HasSuffix(DefaultConfigPath(), filepath.Join("inkboard", configFile)))
}
