package store

import (
	"testing"

	"github.com/google/uuid"

	"lokaal/internal/models"
)

func TestCategoryStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	name := "TestCategory-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanCategories(t, db, name) })

	created, err := s.Create(&models.Category{Name: name})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}

	byName, err := s.FindByName(name)
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if byName == nil || byName.ID != created.ID {
		t.Fatalf("FindByName: got %+v", byName)
	}

	missing, err := s.FindByName("no-such-category-" + uuid.NewString()[:8])
	if err != nil {
		t.Fatalf("FindByName missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown name")
	}
}

func TestCategoryStoreRenameCascades(t *testing.T) {
	db := testDB(t)
	categories := NewCategoryStore(db)
	locations := NewLocationStore(db)

	suffix := uuid.NewString()[:8]
	oldName := "OldCat-" + suffix
	newName := "NewCat-" + suffix
	t.Cleanup(func() { cleanCategories(t, db, oldName, newName) })

	cat, err := categories.Create(&models.Category{Name: oldName})
	if err != nil {
		t.Fatalf("Create category: %v", err)
	}

	loc := newTestLocation(suffix)
	loc.Category = oldName
	created := mustCreateLocation(t, locations, db, loc)

	renamed, err := categories.Rename(cat.ID, newName)
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if renamed.Name != newName {
		t.Errorf("renamed category: got %q, want %q", renamed.Name, newName)
	}

	// The location's denormalized category string follows the rename.
	reloaded, err := locations.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if reloaded.Category != newName {
		t.Errorf("location category after rename: got %q, want %q", reloaded.Category, newName)
	}
}

func TestCategoryStoreRenameUnknown(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	renamed, err := s.Rename(uuid.New(), "Whatever")
	if err != nil {
		t.Fatalf("Rename unknown: %v", err)
	}
	if renamed != nil {
		t.Error("expected nil renaming an unknown category")
	}
}
