package outfit

import (
	"github.com/google/uuid"
)

// IndexItem is the engine-side view of one wardrobe item. Cells hold only
// subcategory strings and item ids, never handles into wardrobe storage.
type IndexItem struct {
	ID          uuid.UUID
	Category    string
	Subcategory string
	ImageURL    string
	Available   bool
}

// Index is a read-only view over the owned wardrobe. It is rebuilt from a
// fresh wardrobe read whenever the wardrobe changes, never patched.
type Index struct {
	items []IndexItem
}

func NewIndex(items []IndexItem) *Index {
	return &Index{items: append([]IndexItem(nil), items...)}
}

// ItemsForSubcategories returns available items matching any entry of the
// set, in underlying collection order. Entries match the fine subcategory
// first and fall back to the coarse category so that fallback and
// user-added cells (which bind coarse categories) resolve too.
func (ix *Index) ItemsForSubcategories(subcats []string) []IndexItem {
	var out []IndexItem
	for _, item := range ix.items {
		if !item.Available {
			continue
		}
		for _, s := range subcats {
			if s == NoGarment {
				continue
			}
			if item.Subcategory == s || item.Category == s {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// UniqueOwnedSubcategories returns the set of subcategories the user can
// actually wear right now (unavailable items do not count).
func (ix *Index) UniqueOwnedSubcategories() map[string]bool {
	owned := make(map[string]bool)
	for _, item := range ix.items {
		if item.Available && item.Subcategory != "" {
			owned[item.Subcategory] = true
		}
	}
	return owned
}

// OwnedCategories returns the distinct coarse categories with at least one
// available item, in discovery order. The fallback generation path builds
// one cell per entry.
func (ix *Index) OwnedCategories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range ix.items {
		if !item.Available || item.Category == "" {
			continue
		}
		if !seen[item.Category] {
			seen[item.Category] = true
			out = append(out, item.Category)
		}
	}
	return out
}

// Len reports the total item count, including unavailable items.
func (ix *Index) Len() int {
	return len(ix.items)
}
