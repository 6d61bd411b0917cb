package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kerbaras/mangadesk/pkg/bundle"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "mangadesk-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := InitDuckDB(dbPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to init DB: %v", err)
	}

	repo := NewRepository(db)

	cleanup := func() {
		db.Close()
		os.RemoveAll(tmpDir)
	}

	return repo, cleanup
}

func TestLoadMissingBundle(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	b, err := repo.LoadBundle("sources_menu")
	if err != nil {
		t.Fatalf("Failed to load bundle: %v", err)
	}

	if len(b.Keys()) != 0 {
		t.Errorf("Expected empty bundle, got keys %v", b.Keys())
	}
}

func TestSaveAndLoadBundle(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	b := bundle.New()
	b.PutInt64s("source_tabs", []int64{5, 7})
	b.PutInt64("selected_tab", 7)
	b.PutString("5", "one piece")

	if err := repo.SaveBundle("sources_menu", b); err != nil {
		t.Fatalf("Failed to save bundle: %v", err)
	}

	loaded, err := repo.LoadBundle("sources_menu")
	if err != nil {
		t.Fatalf("Failed to load bundle: %v", err)
	}

	ids, ok := loaded.Int64s("source_tabs")
	if !ok {
		t.Fatal("Expected source_tabs to be present")
	}
	if len(ids) != 2 || ids[0] != 5 || ids[1] != 7 {
		t.Errorf("Expected [5 7], got %v", ids)
	}

	if got := loaded.Int64("selected_tab", -1); got != 7 {
		t.Errorf("Expected selected_tab 7, got %d", got)
	}

	if q, _ := loaded.String("5"); q != "one piece" {
		t.Errorf("Expected query 'one piece', got '%s'", q)
	}
}

func TestSaveBundleReplacesPreviousKeys(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	b := bundle.New()
	b.PutInt64("selected_tab", 7)
	if err := repo.SaveBundle("sources_menu", b); err != nil {
		t.Fatalf("Failed to save bundle: %v", err)
	}

	b.Remove("selected_tab")
	b.PutInt64s("source_tabs", []int64{})
	if err := repo.SaveBundle("sources_menu", b); err != nil {
		t.Fatalf("Failed to save bundle: %v", err)
	}

	loaded, err := repo.LoadBundle("sources_menu")
	if err != nil {
		t.Fatalf("Failed to load bundle: %v", err)
	}

	if loaded.Contains("selected_tab") {
		t.Error("Expected selected_tab to be removed")
	}
	if !loaded.Contains("source_tabs") {
		t.Error("Expected source_tabs to be present")
	}
}

func TestBundlesAreScoped(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	a := bundle.New()
	a.PutInt64("selected_tab", 1)
	b := bundle.New()
	b.PutInt64("selected_tab", 2)

	if err := repo.SaveBundle("a", a); err != nil {
		t.Fatalf("Failed to save bundle a: %v", err)
	}
	if err := repo.SaveBundle("b", b); err != nil {
		t.Fatalf("Failed to save bundle b: %v", err)
	}

	if err := repo.DeleteBundle("a"); err != nil {
		t.Fatalf("Failed to delete bundle: %v", err)
	}

	loadedA, _ := repo.LoadBundle("a")
	if loadedA.Contains("selected_tab") {
		t.Error("Expected bundle a to be deleted")
	}

	loadedB, _ := repo.LoadBundle("b")
	if got := loadedB.Int64("selected_tab", -1); got != 2 {
		t.Errorf("Expected bundle b selected_tab 2, got %d", got)
	}
}
