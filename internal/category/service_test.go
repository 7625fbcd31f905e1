package category_test

import (
	"errors"
	"testing"

	"stockroom/internal/audit"
	"stockroom/internal/category"
	"stockroom/internal/item"
	"stockroom/internal/testutil"

	"github.com/google/uuid"
)

func TestDeleteUnlinksItems(t *testing.T) {
	db := testutil.SetupTestDB(t, &category.Category{}, &item.Item{}, &audit.Entry{})
	sink := audit.NewSink(db)
	svc := category.NewService(db, sink)
	items := item.NewService(db)

	cat, err := svc.Create("Tools", "🔧")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	tagged, err := items.Create(item.ItemInput{
		Name:       "Drill",
		CategoryID: &cat.ID,
		LocationID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	actorID := uuid.New()
	if err := svc.Delete(cat.ID, actorID, "Admin"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// The item survives the category, with the reference severed.
	got, err := items.Get(tagged.ID)
	if err != nil {
		t.Fatalf("item should still be active: %v", err)
	}
	if got.CategoryID != nil {
		t.Errorf("category_id = %v, want nil", got.CategoryID)
	}

	if _, err := svc.Get(cat.ID); !errors.Is(err, category.ErrNotFound) {
		t.Error("deleted category must not be fetchable")
	}

	entries, err := sink.List(audit.ActionDeleteCategory, 10)
	if err != nil {
		t.Fatalf("list audit: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(entries))
	}
	if got, ok := entries[0].Details["affected_items_count"].(float64); !ok || int(got) != 1 {
		t.Errorf("affected_items_count = %v, want 1", entries[0].Details["affected_items_count"])
	}
}

func TestDeleteIgnoresAlreadyDeletedItems(t *testing.T) {
	db := testutil.SetupTestDB(t, &category.Category{}, &item.Item{}, &audit.Entry{})
	sink := audit.NewSink(db)
	svc := category.NewService(db, sink)
	items := item.NewService(db)

	cat, _ := svc.Create("Tools", "")
	ghost, err := items.Create(item.ItemInput{
		Name:       "Ghost",
		CategoryID: &cat.ID,
		LocationID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if err := db.Exec("UPDATE items SET deleted_at = CURRENT_TIMESTAMP WHERE id = ?", ghost.ID).Error; err != nil {
		t.Fatalf("mark deleted: %v", err)
	}

	if err := svc.Delete(cat.ID, uuid.New(), "Admin"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	entries, _ := sink.List(audit.ActionDeleteCategory, 10)
	if got, ok := entries[0].Details["affected_items_count"].(float64); !ok || int(got) != 0 {
		t.Errorf("affected_items_count = %v, want 0 (deleted items excluded)", entries[0].Details["affected_items_count"])
	}
}

func TestUpdateAndList(t *testing.T) {
	db := testutil.SetupTestDB(t, &category.Category{}, &item.Item{}, &audit.Entry{})
	svc := category.NewService(db, audit.NewSink(db))

	cat, _ := svc.Create("Elektronics", "💡")
	if _, err := svc.Update(cat.ID, "Electronics", "💡"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := svc.Create("Art Supplies", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	all, err := svc.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("categories = %d, want 2", len(all))
	}
	if all[0].Name != "Art Supplies" || all[1].Name != "Electronics" {
		t.Errorf("list should be name-ordered: %q, %q", all[0].Name, all[1].Name)
	}
}
