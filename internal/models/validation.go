package models

// ValidationErrors maps a field name to a human-readable reason. A nil map
// means the draft is valid.
type ValidationErrors map[string]string

// Validate checks a draft for the fields required before persistence. It is
// not fail-fast: every missing field gets an entry. Only presence is checked
// here; whether Destination is a recognized value is decided at resolution
// time, so an unknown-but-non-empty destination passes.
func Validate(draft QRCodeDraft) ValidationErrors {
	errs := ValidationErrors{}

	if draft.Title == "" {
		errs["title"] = "Title is required"
	}
	if draft.ProductID == "" {
		errs["productId"] = "Product is required"
	}
	if draft.Destination == "" {
		errs["destination"] = "Destination is required"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
