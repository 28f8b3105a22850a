package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeWithoutConfigIsSilent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Initialize(dir))
	t.Cleanup(CloseAll)

	assert.False(t, IsDebugMode())
	Get(CategoryTurn).Info("should go nowhere")

	_, err := os.Stat(filepath.Join(dir, "logs"))
	assert.True(t, os.IsNotExist(err), "no logs dir should be created in production mode")
}

func TestInitializeDebugModeWritesFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := []byte("logging:\n  debug_mode: true\n  level: debug\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hivemind.yaml"), cfg, 0o644))

	require.NoError(t, Initialize(dir))
	t.Cleanup(CloseAll)

	assert.True(t, IsDebugMode())
	Turn("turn %d executed", 1)

	entries, err := os.ReadDir(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestCategoryFilter(t *testing.T) {
	dir := t.TempDir()
	cfg := []byte("logging:\n  debug_mode: true\n  categories:\n    llm: false\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hivemind.yaml"), cfg, 0o644))

	require.NoError(t, Initialize(dir))
	t.Cleanup(CloseAll)

	assert.True(t, categoryEnabled(CategoryTurn))
	assert.False(t, categoryEnabled(CategoryLLM))
}
