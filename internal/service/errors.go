package service

import "errors"

var (
	// ErrPaymentsDisabled is returned when the gateway client has no
	// credentials or payments are switched off. Maps to 503; the rest of
	// the platform keeps working without payments configured.
	ErrPaymentsDisabled = errors.New("payments are not configured")

	// ErrInvalidAmount is returned when the requested amount is not positive.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidItemRef is returned when the item reference is malformed.
	ErrInvalidItemRef = errors.New("invalid item reference")

	// ErrItemNotFound is returned when the referenced catalog item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrItemNotPublished is returned when the referenced item is not purchasable.
	ErrItemNotPublished = errors.New("item is not available for purchase")

	// ErrInvalidSignature is returned when a webhook or checkout signature
	// does not authenticate. The only webhook error that maps to 400.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrMissingVerificationData is returned when required ids, signature
	// fields or notes fields are absent.
	ErrMissingVerificationData = errors.New("missing verification data")

	// ErrAmountMismatch is returned when a captured amount does not equal
	// the catalog price in minor units.
	ErrAmountMismatch = errors.New("payment amount does not match item price")

	// ErrCurrencyMismatch is returned when a captured payment is in a
	// currency other than the configured one.
	ErrCurrencyMismatch = errors.New("payment currency mismatch")
)
