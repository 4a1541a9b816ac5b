package classify

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/codemarc/mailmind/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCategoryFilePath(t *testing.T) {
	got := CategoryFilePath("/data", "work")
	want := filepath.Join("/data", "work.cats.yml")
	if got != want {
		t.Errorf("CategoryFilePath() = %s, want %s", got, want)
	}
}

func TestLoadCategoryTable_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.cats.yml")
	table := LoadCategoryTable(path, discardLogger())
	if table.Len() != 1 || !table.Has(string(model.CategoryUndefined)) {
		t.Errorf("missing file should yield the empty table with undefined, got %v", table.Names())
	}
}

func TestLoadCategoryTable_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.cats.yml")
	if err := os.WriteFile(path, []byte("- not\n- a\n- mapping\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	table := LoadCategoryTable(path, discardLogger())
	if table.Len() != 1 || !table.Has(string(model.CategoryUndefined)) {
		t.Errorf("malformed file should degrade to the empty table, got %v", table.Names())
	}
}

func TestCategoryTable_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acct.cats.yml")
	table := learnedTable(t)

	if err := SaveCategoryTable(path, table); err != nil {
		t.Fatalf("SaveCategoryTable() error = %v", err)
	}

	loaded := LoadCategoryTable(path, discardLogger())
	if loaded.Len() != table.Len() {
		t.Fatalf("loaded %d categories, want %d", loaded.Len(), table.Len())
	}
	for i, name := range table.Names() {
		if loaded.Names()[i] != name {
			t.Errorf("Names()[%d] = %s, want %s", i, loaded.Names()[i], name)
		}
	}
}

func TestLoadCategoryTable_AddsUndefined(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no-undef.cats.yml")
	src := "work:\n  domains: [corp.example]\n  keywords: [standup]\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	table := LoadCategoryTable(path, discardLogger())
	if !table.Has(string(model.CategoryUndefined)) {
		t.Error("loaded table is missing the undefined bucket")
	}
}
