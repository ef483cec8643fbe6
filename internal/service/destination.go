package service

import (
	"errors"
	"fmt"

	"github.com/qrtrack/qrcode-service/internal/models"
)

// ErrUnknownDestination reports a destination value outside {product, cart}.
// Like a malformed variant id it is fatal for the record until an update
// corrects it, and must not be confused with a transport failure.
var ErrUnknownDestination = errors.New("unsupported destination")

// DestinationURL maps a record to its final redirect URL. Pure: no I/O, same
// record always yields the same URL or the same error.
func DestinationURL(q *models.QRCode) (string, error) {
	switch q.Destination {
	case models.DestinationProduct:
		return fmt.Sprintf("https://%s/products/%s", q.Shop, q.ProductHandle), nil
	case models.DestinationCart:
		variant, err := models.ParseVariantID(q.ProductVariantID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("https://%s/cart/%s:1", q.Shop, variant), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDestination, q.Destination)
	}
}
