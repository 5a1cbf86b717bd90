package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("a,b\n"), 0o644))
}

func TestFindCSVFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.csv")
	writeFile(t, dir, "a.CSV")
	writeFile(t, dir, "notes.txt")

	d := NewDiscovery("")
	files, err := d.FindCSVFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.CSV", files[0].Name)
	assert.Equal(t, "b.csv", files[1].Name)
}

func TestFindCSVByPrefix(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "행정구역_시도__교육정도별_취업자_20250101000000.csv")
	writeFile(t, dir, "행정구역_시도__교육정도별_취업자_20251117204725.csv")
	writeFile(t, dir, "other.csv")

	d := NewDiscovery("")
	got := d.FindCSVByPrefix(dir, "행정구역_시도__교육정도별_취업자_")
	assert.Equal(t, filepath.Join(dir, "행정구역_시도__교육정도별_취업자_20251117204725.csv"), got)
}

func TestFindCSVByPrefixMissingDir(t *testing.T) {
	d := NewDiscovery("")
	assert.Empty(t, d.FindCSVByPrefix(filepath.Join(t.TempDir(), "nope"), "x"))
}
