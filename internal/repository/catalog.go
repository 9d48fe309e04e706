package repository

import (
	"context"

	"edupay/internal/domain"
)

// CatalogRepository is the payment subsystem's view of the content catalog.
// The catalog owns courses, books and live classes; payments only read
// price/availability and grant entitlement on capture.
type CatalogRepository interface {
	// FindItem retrieves a purchasable item by type and id.
	// Returns ErrNotFound if the item does not exist.
	FindItem(ctx context.Context, itemType domain.ItemType, itemID string) (*domain.CatalogItem, error)

	// GrantAccess enrolls the user in the purchased item. The grant must be
	// idempotent: granting access a second time is a no-op, not an error.
	GrantAccess(ctx context.Context, itemType domain.ItemType, itemID, userID string) error
}

// UserRepository is the payment subsystem's view of the user profile store.
type UserRepository interface {
	// GetByID retrieves a user by id. Returns ErrNotFound if the user does
	// not exist.
	GetByID(ctx context.Context, id string) (*domain.User, error)
}
