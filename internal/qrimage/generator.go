package qrimage

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/qrtrack/qrcode-service/internal/cache"
)

const pngSize = 256

// Generator renders the tracking endpoint for a record as a scannable PNG.
// The encoded URL always points back at /qrcodes/{id}/scan, never at the
// final destination, so every physical scan is counted first.
type Generator struct {
	appURL *url.URL
	cache  *cache.ImageCache
}

// NewGenerator builds a Generator for the given public base URL of this
// service. The base URL is injected here rather than read from the
// environment at render time.
func NewGenerator(appURL string, c *cache.ImageCache) (*Generator, error) {
	base, err := url.Parse(appURL)
	if err != nil {
		return nil, fmt.Errorf("parse app url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("app url %q must be absolute", appURL)
	}
	return &Generator{appURL: base, cache: c}, nil
}

// ScanURL returns the fully-qualified tracking URL for a record id.
func (g *Generator) ScanURL(id int) string {
	ref := &url.URL{Path: fmt.Sprintf("/qrcodes/%d/scan", id)}
	return g.appURL.ResolveReference(ref).String()
}

// DataURL encodes target as a QR code and returns it as a PNG data URL.
// Pure CPU work, safe for arbitrary concurrent callers.
func (g *Generator) DataURL(target string) (string, error) {
	if g.cache != nil {
		if img, ok := g.cache.Get(target); ok {
			return img, nil
		}
	}

	png, err := qrcode.Encode(target, qrcode.Medium, pngSize)
	if err != nil {
		return "", fmt.Errorf("encode qr code: %w", err)
	}

	var b strings.Builder
	b.WriteString("data:image/png;base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(png))
	img := b.String()

	if g.cache != nil {
		g.cache.Set(target, img)
	}
	return img, nil
}
