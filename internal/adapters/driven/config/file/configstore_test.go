package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".interlink", "config.toml"), store.Path())
}

func TestNewConfigStore_WithNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[[[ not toml"), 0600))

	store, err := NewConfigStore(dir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

// get returns the stored value at key, failing the test if it is missing.
func get(t *testing.T, store *ConfigStore, key string) any {
	t.Helper()
	val, ok := store.Get(key)
	require.True(t, ok, key)
	return val
}

func TestConfigStore_GetKeepsSetTypes(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("linking.url_prefix", "/en"))
	require.NoError(t, store.Set("linking.max_links_per_page", 7))
	require.NoError(t, store.Set("linking.deny_ids", []string{"a", "b"}))

	assert.Equal(t, "/en", get(t, store, "linking.url_prefix"))
	assert.Equal(t, 7, get(t, store, "linking.max_links_per_page"))
	assert.Equal(t, []string{"a", "b"}, get(t, store, "linking.deny_ids"))

	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_SetMany(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SetMany(map[string]any{
		"linking.enabled":    false,
		"linking.url_prefix": "/fr",
	}))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "enabled = false")
	assert.Contains(t, string(data), "/fr")
}

func TestConfigStore_SetMany_RollsBackOnConflict(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("linking", "flat"))

	err := store.SetMany(map[string]any{
		"linking":         "replaced",
		"linking.enabled": true,
	})

	require.Error(t, err)
	assert.Equal(t, "flat", get(t, store, "linking"))
	_, ok := store.Get("linking.enabled")
	assert.False(t, ok)
}

func TestConfigStore_SetMany_EmptyKey(t *testing.T) {
	store := newTestStore(t)

	err := store.SetMany(map[string]any{"linking.enabled": true, "": "x"})

	assert.Error(t, err)
	_, ok := store.Get("linking.enabled")
	assert.False(t, ok, "nothing is stored when any key is invalid")
}

func TestConfigStore_WritesNestedTables(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("linking.enabled", false))
	require.NoError(t, store.Set("linking.max_links_per_page", 3))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "[linking]")
	assert.Contains(t, content, "enabled = false")
	assert.NotContains(t, content, "'linking.enabled'")
}

func TestConfigStore_SaveReload_PreservesData(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("linking.url_prefix", "/docs"))
	require.NoError(t, store.Set("linking.max_links_per_page", 9))
	require.NoError(t, store.Set("linking.prefer_nested", false))
	require.NoError(t, store.Set("linking.containers", []string{"p", "li"}))

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "/docs", get(t, reloaded, "linking.url_prefix"))
	assert.Equal(t, int64(9), get(t, reloaded, "linking.max_links_per_page"), "TOML integers decode as int64")
	assert.Equal(t, false, get(t, reloaded, "linking.prefer_nested"))
	assert.Equal(t, []any{"p", "li"}, get(t, reloaded, "linking.containers"), "TOML arrays decode as []any")
	assert.Equal(t, []string{
		"linking.containers",
		"linking.max_links_per_page",
		"linking.prefer_nested",
		"linking.url_prefix",
	}, reloaded.Keys())
}

func TestConfigStore_ReadsHandWrittenFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[linking]
enabled = true
max_links_per_page = 4
excluded_tags = ["a", "code"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, true, get(t, store, "linking.enabled"))
	assert.Equal(t, int64(4), get(t, store, "linking.max_links_per_page"))
	assert.Equal(t, []any{"a", "code"}, get(t, store, "linking.excluded_tags"))
}

func TestConfigStore_Load_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), nil, 0600))

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.Empty(t, store.Keys())
}

func TestConfigStore_Load_DiscardsUnsavedValues(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("kept", "yes"))

	store.mu.Lock()
	store.data["unsaved"] = "value"
	store.mu.Unlock()

	require.NoError(t, store.Load())

	_, ok := store.Get("unsaved")
	assert.False(t, ok)
	assert.Equal(t, "yes", get(t, store, "kept"))
}

func TestConfigStore_Set_ConflictingKeys(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("linking", "flat"))

	err := store.Set("linking.enabled", true)

	require.Error(t, err)
	_, ok := store.Get("linking.enabled")
	assert.False(t, ok, "failed set must not stay in memory")
	assert.Equal(t, "flat", get(t, store, "linking"))
}

func TestConfigStore_Set_EmptyKey(t *testing.T) {
	store := newTestStore(t)

	assert.Error(t, store.Set("", "value"))
}

func TestConfigStore_Set_WriteFileError(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.Chmod(dir, 0500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0700) })

	assert.Error(t, store.Set("linking.enabled", true))
	_, ok := store.Get("linking.enabled")
	assert.False(t, ok)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("key", "value"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("linking.key_%d", n)
			assert.NoError(t, store.Set(key, n))
			_, _ = store.Get(key)
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.Keys(), 10)
}

func TestUnflattenMap(t *testing.T) {
	tree, err := unflattenMap(map[string]any{
		"top":           1,
		"linking.a":     true,
		"linking.sub.b": "x",
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"top": 1,
		"linking": map[string]any{
			"a":   true,
			"sub": map[string]any{"b": "x"},
		},
	}, tree)
	assert.Equal(t, map[string]any{"top": 1, "linking.a": true, "linking.sub.b": "x"}, flattenMap(tree, ""))
}
