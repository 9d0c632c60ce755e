package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "Add Stock Levels Table", "stock level balances per item and warehouse")
	require.NoError(t, err)

	assert.Contains(t, filepath.Base(mf.UpPath), "add_stock_levels_table.up.sql")
	assert.Contains(t, filepath.Base(mf.DownPath), "add_stock_levels_table.down.sql")

	upContent, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(upContent), "Add Stock Levels Table")
	assert.Contains(t, string(upContent), "stock level balances")

	downContent, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(downContent), "Rollback")
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "AddItems", "additems"},
		{"replaces spaces", "add stock levels", "add_stock_levels"},
		{"collapses separators", "add--stock  levels", "add_stock_levels"},
		{"strips special characters", "add/stock@levels!", "addstocklevels"},
		{"trims trailing underscore", "add stock ", "add_stock"},
		{"keeps digits", "v2 schema", "v2_schema"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestListMigrations(t *testing.T) {
	t.Run("returns empty for missing directory", func(t *testing.T) {
		migrations, err := ListMigrations(filepath.Join(t.TempDir(), "missing"))
		require.NoError(t, err)
		assert.Empty(t, migrations)
	})

	t.Run("lists unique base names", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{
			"001_create_items.up.sql",
			"001_create_items.down.sql",
			"002_create_stock_levels.up.sql",
			"002_create_stock_levels.down.sql",
			"notes.txt",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- sql"), 0644))
		}

		migrations, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"001_create_items", "002_create_stock_levels"}, migrations)
	})
}
