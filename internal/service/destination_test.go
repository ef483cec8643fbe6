package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrtrack/qrcode-service/internal/models"
)

func TestDestinationURLProduct(t *testing.T) {
	q := &models.QRCode{
		Shop:          "s.myshopify.com",
		Destination:   models.DestinationProduct,
		ProductHandle: "blue-mug",
	}

	url, err := DestinationURL(q)
	require.NoError(t, err)
	assert.Equal(t, "https://s.myshopify.com/products/blue-mug", url)
}

func TestDestinationURLCart(t *testing.T) {
	q := &models.QRCode{
		Shop:             "s.myshopify.com",
		Destination:      models.DestinationCart,
		ProductVariantID: "gid://shopify/ProductVariant/42",
	}

	url, err := DestinationURL(q)
	require.NoError(t, err)
	assert.Equal(t, "https://s.myshopify.com/cart/42:1", url)
}

func TestDestinationURLCartMalformedVariant(t *testing.T) {
	q := &models.QRCode{
		Shop:             "s.myshopify.com",
		Destination:      models.DestinationCart,
		ProductVariantID: "not-a-gid",
	}

	url, err := DestinationURL(q)
	assert.ErrorIs(t, err, models.ErrUnrecognizedVariantID)
	assert.Empty(t, url)
}

func TestDestinationURLUnknownDestination(t *testing.T) {
	q := &models.QRCode{
		Shop:        "s.myshopify.com",
		Destination: "teleporter",
	}

	_, err := DestinationURL(q)
	assert.ErrorIs(t, err, ErrUnknownDestination)
}

func TestDestinationURLDeterministic(t *testing.T) {
	q := &models.QRCode{
		Shop:             "s.myshopify.com",
		Destination:      models.DestinationCart,
		ProductVariantID: "gid://shopify/ProductVariant/7",
	}

	first, err1 := DestinationURL(q)
	second, err2 := DestinationURL(q)
	assert.Equal(t, first, second)
	assert.Equal(t, err1, err2)
}
