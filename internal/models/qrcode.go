package models

import "time"

const (
	DestinationProduct = "product"
	DestinationCart    = "cart"
)

type QRCode struct {
	ID               int
	Shop             string
	Title            string
	Destination      string
	ProductID        string
	ProductHandle    string
	ProductVariantID string
	Scans            int
	CreatedAt        time.Time
}

// Merchant-editable fields only. ID, Shop, Scans and CreatedAt are owned by
// the store and never accepted from a caller.
type QRCodeDraft struct {
	Title            string
	Destination      string
	ProductID        string
	ProductHandle    string
	ProductVariantID string
}

// Read model joining a stored record with live catalog data and the rendered
// code image. Rebuilt on every read, never persisted or cached.

type SupplementedQRCode struct {
	QRCode
	ProductDeleted bool
	ProductTitle   *string
	ProductImage   *string
	ProductAlt     *string
	DestinationURL string
	Image          string
}
