package domain

// ItemType identifies the kind of purchasable catalog item.
type ItemType string

const (
	ItemTypeCourse    ItemType = "course"
	ItemTypeBook      ItemType = "book"
	ItemTypeLiveClass ItemType = "live_class"
)

// ValidItemType reports whether t is one of the known item types.
func ValidItemType(t ItemType) bool {
	switch t {
	case ItemTypeCourse, ItemTypeBook, ItemTypeLiveClass:
		return true
	}
	return false
}

// CatalogItem is a purchasable item as seen by the payment subsystem.
// The catalog owns the full entity; payments only need price and
// availability.
type CatalogItem struct {
	Type        ItemType
	ID          string
	Title       string
	Price       float64
	IsPublished bool
}

// User is the purchasing party as seen by the payment subsystem.
type User struct {
	ID    string
	Name  string
	Email string
}
