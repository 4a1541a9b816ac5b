package classify

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/codemarc/mailmind/model"
)

// CategoryFilePath returns the per-account category artifact path,
// {dataDir}/{account}.cats.yml.
func CategoryFilePath(dataDir, account string) string {
	return filepath.Join(dataDir, account+".cats.yml")
}

// LoadCategoryTable reads a category artifact. A missing or malformed file
// is logged and degrades to an empty table so classification can continue;
// the undefined bucket is guaranteed either way.
func LoadCategoryTable(path string, logger *slog.Logger) *CategoryTable {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Error("read category file", "file", path, "err", err)
		}
		return NewCategoryTable()
	}

	table := NewCategoryTable()
	if err := yaml.Unmarshal(data, table); err != nil {
		logger.Error("malformed category file, continuing with empty table", "file", path, "err", err)
		return NewCategoryTable()
	}
	if !table.Has(string(model.CategoryUndefined)) {
		table.Set(string(model.CategoryUndefined), CategoryRule{})
	}
	return table
}

// SaveCategoryTable rewrites a category artifact.
func SaveCategoryTable(path string, table *CategoryTable) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	data, err := yaml.Marshal(table)
	if err != nil {
		return fmt.Errorf("encode category table: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write category file: %w", err)
	}
	return nil
}
