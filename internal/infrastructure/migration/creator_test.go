package migration

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/partnerpro/product-manager/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add product sku", "add_product_sku"},
		{"Add-Product-SKU", "add_product_sku"},
		{"add__users__index", "add_users_index"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading and trailing_", "leading_and_trailing"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration_Sequential(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "create products", "Products table")
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_create_products.up.sql"), first.UpPath)

	second, err := CreateMigration(dir, "add sku", "")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Version)
	assert.Equal(t, filepath.Join(dir, "000002_add_sku.down.sql"), second.DownPath)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(up), "-- Migration: create products"))
	assert.Contains(t, string(up), "-- Products table")

	down, err := os.ReadFile(second.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "-- Rollback: add sku")
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")

	_, err := CreateMigration(dir, "init", "")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"000010_add_index.up.sql":      {},
		"000010_add_index.down.sql":    {},
		"000002_create_users.up.sql":   {},
		"000002_create_users.down.sql": {},
		"README.md":                    {},
		"nover.up.sql":                 {},
		"abc_create_things.up.sql":     {},
		"archive/000001_old.up.sql":    {},
	}

	got, err := ListMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []Migration{
		{Version: 2, Name: "create_users"},
		{Version: 10, Name: "add_index"},
	}, got)
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	got, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "missing")))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEmbeddedMigrations(t *testing.T) {
	got, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "create_products", got[0].Name)
	assert.Equal(t, "create_users", got[1].Name)

	for _, m := range got {
		down := fmt.Sprintf("%0*d_%s%s", versionDigits, m.Version, m.Name, downSuffix)
		_, err := fs.Stat(migrations.FS, down)
		assert.NoError(t, err, "missing down migration for %s", m.Name)
	}
}
