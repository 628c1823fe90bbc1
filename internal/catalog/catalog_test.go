package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsDuplicateNames(t *testing.T) {
	_, err := New([]Company{
		{ID: 1, Name: "Acme"},
		{ID: 2, Name: "Acme"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestNewRejectsEmptyName(t *testing.T) {
	_, err := New([]Company{{ID: 1, Name: "   "}})
	assert.Error(t, err)
}

func TestFindByName(t *testing.T) {
	cat, err := New([]Company{
		{ID: 1, Name: "Acme", Industry: "AI"},
		{ID: 2, Name: "Zenith", Industry: "Fintech"},
	})
	require.NoError(t, err)

	c, ok := cat.FindByName("Zenith")
	require.True(t, ok)
	assert.Equal(t, "Fintech", c.Industry)

	_, ok = cat.FindByName("Ghost")
	assert.False(t, ok)
}

func TestCompaniesReturnsCopy(t *testing.T) {
	cat, err := New([]Company{{ID: 1, Name: "Acme"}})
	require.NoError(t, err)

	got := cat.Companies()
	got[0].Name = "Mutated"

	again := cat.Companies()
	assert.Equal(t, "Acme", again[0].Name)
}

func TestDistinctFilterValues(t *testing.T) {
	cat, err := New([]Company{
		{ID: 1, Name: "A", Industry: "Fintech", Stage: "Seed"},
		{ID: 2, Name: "B", Industry: "AI", Stage: "Seed"},
		{ID: 3, Name: "C", Industry: "AI", Stage: "Series A"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"AI", "Fintech"}, cat.Industries())
	assert.Equal(t, []string{"Seed", "Series A"}, cat.Stages())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":1,"name":"Acme","industry":"AI","stage":"Seed","location":"SF","website":"https://acme.ai"}]`), 0o644))

	cat, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cat.Len())

	_, err = LoadFile(filepath.Join(dir, "nope.json"))
	assert.Error(t, err)
}

func TestEnsureUserCatalog(t *testing.T) {
	src := filepath.Join(t.TempDir(), "default.json")
	require.NoError(t, os.WriteFile(src, []byte(`[]`), 0o644))

	dataDir := t.TempDir()
	got, err := EnsureUserCatalog(dataDir, src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "catalog.json"), got)

	// Second run keeps the user copy instead of re-copying.
	require.NoError(t, os.WriteFile(got, []byte(`[{"id":1,"name":"Edited"}]`), 0o644))
	again, err := EnsureUserCatalog(dataDir, src)
	require.NoError(t, err)
	b, err := os.ReadFile(again)
	require.NoError(t, err)
	assert.Contains(t, string(b), "Edited")
}
