package domain

import (
	"errors"
	"time"
)

// PaymentStatus represents the terminal status of a gateway payment.
type PaymentStatus string

const (
	PaymentStatusCaptured PaymentStatus = "captured"
	PaymentStatusFailed   PaymentStatus = "failed"
)

// PaymentRecord is the system-of-record entry for a terminal gateway event.
// Records are created only by the webhook reconciler and never mutated or
// deleted afterwards.
type PaymentRecord struct {
	ID            string
	PaymentID     string
	OrderID       string
	Status        PaymentStatus
	Amount        int64 // smallest currency unit (paise)
	Currency      string
	ItemType      ItemType
	ItemID        string
	UserID        string
	FailureReason string
	Payload       []byte // sanitized copy of the raw gateway event
	ProcessedAt   time.Time
}

// PurchaseRef carries the purchase intent through the gateway round-trip.
// It is serialized into the order notes at order creation and parsed back
// out of the webhook payload.
type PurchaseRef struct {
	ItemType ItemType
	ItemID   string
	UserID   string
}

// Note keys used in the gateway order notes bag.
const (
	noteKeyItemType = "item_type"
	noteKeyItemID   = "item_id"
	noteKeyUserID   = "user_id"
)

// ErrIncompleteNotes is returned when a webhook payload's notes are missing
// the fields needed to reconstruct the purchase intent.
var ErrIncompleteNotes = errors.New("notes missing purchase reference fields")

// EncodeNotes serializes the purchase reference into a gateway notes bag.
func (r PurchaseRef) EncodeNotes() map[string]string {
	return map[string]string{
		noteKeyItemType: string(r.ItemType),
		noteKeyItemID:   r.ItemID,
		noteKeyUserID:   r.UserID,
	}
}

// ParsePurchaseRef reconstructs a purchase reference from a notes bag.
// All three fields must be present and the item type must be known.
func ParsePurchaseRef(notes map[string]string) (PurchaseRef, error) {
	ref := PurchaseRef{
		ItemType: ItemType(notes[noteKeyItemType]),
		ItemID:   notes[noteKeyItemID],
		UserID:   notes[noteKeyUserID],
	}

	if ref.ItemID == "" || ref.UserID == "" || !ValidItemType(ref.ItemType) {
		return PurchaseRef{}, ErrIncompleteNotes
	}

	return ref, nil
}
