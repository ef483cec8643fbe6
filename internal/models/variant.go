package models

import (
	"errors"
	"regexp"
	"strconv"
)

// Product variants arrive as opaque platform gids of the form
// gid://shopify/ProductVariant/<digits>. Cart destinations need the numeric
// part; anything else is unresolvable until the merchant corrects the record.

var ErrUnrecognizedVariantID = errors.New("unrecognized product variant ID")

var variantGidPattern = regexp.MustCompile(`gid://shopify/ProductVariant/([0-9]+)`)

type VariantID int64

func ParseVariantID(gid string) (VariantID, error) {
	m := variantGidPattern.FindStringSubmatch(gid)
	if m == nil {
		return 0, ErrUnrecognizedVariantID
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, ErrUnrecognizedVariantID
	}
	return VariantID(n), nil
}

func (v VariantID) String() string {
	return strconv.FormatInt(int64(v), 10)
}
