package outfit

import (
	"testing"

	"github.com/google/uuid"
)

func testItem(category, subcategory string, available bool) IndexItem {
	return IndexItem{
		ID:          uuid.New(),
		Category:    category,
		Subcategory: subcategory,
		Available:   available,
	}
}

func TestIndex_ItemsForSubcategories(t *testing.T) {
	items := []IndexItem{
		testItem("Взуття", "Черевики", true),
		testItem("Взуття", "Кросівки", true),
		testItem("Взуття", "Черевики", false),
		testItem("Низ", "Штани", true),
	}
	ix := NewIndex(items)

	got := ix.ItemsForSubcategories([]string{"Черевики"})
	if len(got) != 1 {
		t.Fatalf("fine match returned %d items, want 1 (unavailable excluded)", len(got))
	}

	// Coarse category match picks up every available shoe.
	got = ix.ItemsForSubcategories([]string{"Взуття"})
	if len(got) != 2 {
		t.Fatalf("coarse match returned %d items, want 2", len(got))
	}

	// NoGarment entries never match anything.
	if got := ix.ItemsForSubcategories([]string{NoGarment}); len(got) != 0 {
		t.Fatalf("NoGarment matched %d items, want 0", len(got))
	}
}

func TestIndex_UniqueOwnedSubcategories(t *testing.T) {
	ix := NewIndex([]IndexItem{
		testItem("Взуття", "Черевики", true),
		testItem("Взуття", "Черевики", true),
		testItem("Низ", "Штани", false),
	})
	owned := ix.UniqueOwnedSubcategories()
	if !owned["Черевики"] {
		t.Error("available subcategory missing from owned set")
	}
	if owned["Штани"] {
		t.Error("laundry-flagged subcategory counted as owned")
	}
	if len(owned) != 1 {
		t.Errorf("owned set size = %d, want 1", len(owned))
	}
}

func TestIndex_OwnedCategoriesDiscoveryOrder(t *testing.T) {
	ix := NewIndex([]IndexItem{
		testItem("Взуття", "Черевики", true),
		testItem("Низ", "Штани", true),
		testItem("Взуття", "Кросівки", true),
		testItem("Головні убори", "Шапки", false),
	})
	got := ix.OwnedCategories()
	want := []string{"Взуття", "Низ"}
	if len(got) != len(want) {
		t.Fatalf("categories = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("categories = %v, want %v", got, want)
		}
	}
}
