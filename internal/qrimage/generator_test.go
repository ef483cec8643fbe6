package qrimage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrtrack/qrcode-service/internal/cache"
)

func TestNewGeneratorRejectsRelativeURL(t *testing.T) {
	_, err := NewGenerator("not-absolute", nil)
	assert.Error(t, err)
}

func TestScanURL(t *testing.T) {
	g, err := NewGenerator("https://app.example.com", nil)
	require.NoError(t, err)

	assert.Equal(t, "https://app.example.com/qrcodes/7/scan", g.ScanURL(7))
}

func TestDataURLIsPNGDataURL(t *testing.T) {
	g, err := NewGenerator("https://app.example.com", nil)
	require.NoError(t, err)

	img, err := g.DataURL(g.ScanURL(1))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(img, "data:image/png;base64,"))
}

func TestDataURLDeterministic(t *testing.T) {
	g, err := NewGenerator("https://app.example.com", cache.NewImageCache())
	require.NoError(t, err)

	target := g.ScanURL(42)
	first, err := g.DataURL(target)
	require.NoError(t, err)
	second, err := g.DataURL(target)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDataURLSafeConcurrently(t *testing.T) {
	g, err := NewGenerator("https://app.example.com", cache.NewImageCache())
	require.NoError(t, err)

	done := make(chan string, 16)
	for i := 0; i < 16; i++ {
		go func() {
			img, err := g.DataURL(g.ScanURL(9))
			assert.NoError(t, err)
			done <- img
		}()
	}

	first := <-done
	for i := 1; i < 16; i++ {
		assert.Equal(t, first, <-done)
	}
}
