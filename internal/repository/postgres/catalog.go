package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"edupay/internal/domain"
	"edupay/internal/repository"
)

// CatalogRepository is a PostgreSQL implementation of
// repository.CatalogRepository over the catalog's courses, books and
// live_classes tables. Enrollments live in a single table keyed by
// (item_type, item_id, user_id).
type CatalogRepository struct {
	q Querier
}

// NewCatalogRepository creates a new PostgreSQL catalog repository.
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{q: db}
}

// itemTable maps an item type to its catalog table. Table names are taken
// from a fixed set, never from request input.
func itemTable(itemType domain.ItemType) (string, error) {
	switch itemType {
	case domain.ItemTypeCourse:
		return "courses", nil
	case domain.ItemTypeBook:
		return "books", nil
	case domain.ItemTypeLiveClass:
		return "live_classes", nil
	default:
		return "", fmt.Errorf("unknown item type %q", itemType)
	}
}

// FindItem retrieves a purchasable item by type and id.
func (r *CatalogRepository) FindItem(ctx context.Context, itemType domain.ItemType, itemID string) (*domain.CatalogItem, error) {
	table, err := itemTable(itemType)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, title, price, is_published
		FROM %s WHERE id = $1
	`, table)

	item := domain.CatalogItem{Type: itemType}
	err = r.q.QueryRowContext(ctx, query, itemID).Scan(
		&item.ID,
		&item.Title,
		&item.Price,
		&item.IsPublished,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &item, nil
}

// GrantAccess enrolls the user in the purchased item. Re-granting is a
// no-op thanks to the primary key on (item_type, item_id, user_id).
func (r *CatalogRepository) GrantAccess(ctx context.Context, itemType domain.ItemType, itemID, userID string) error {
	if _, err := itemTable(itemType); err != nil {
		return err
	}

	query := `
		INSERT INTO enrollments (item_type, item_id, user_id, enrolled_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (item_type, item_id, user_id) DO NOTHING
	`

	_, err := r.q.ExecContext(ctx, query, itemType, itemID, userID)
	return err
}
