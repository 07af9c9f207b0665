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
	assert.Equal(t, filepath.Join(home, DefaultDirName, "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("index.type", "sqlite"))

	val, ok := store.Get("index.type")
	assert.True(t, ok)
	assert.Equal(t, "sqlite", val)
}

func TestConfigStore_Get_NotFound(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	val, ok := store.Get("nonexistent")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_GetString(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("recaptcha.site_key", "site"))
	require.NoError(t, store.Set("recaptcha.timeout_seconds", 5))

	assert.Equal(t, "site", store.GetString("recaptcha.site_key"))
	assert.Equal(t, "", store.GetString("nonexistent"))
	assert.Equal(t, "", store.GetString("recaptcha.timeout_seconds"), "wrong type")
}

func TestConfigStore_GetInt(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int
	}{
		{"int", 42, 42},
		{"int64", int64(7), 7},
		{"numeric string", " 15 ", 15},
		{"non-numeric string", "soon", 0},
		{"bool", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewConfigStore(t.TempDir())
			require.NoError(t, err)
			require.NoError(t, store.Set("recaptcha.timeout_seconds", tt.value))

			assert.Equal(t, tt.want, store.GetInt("recaptcha.timeout_seconds"))
		})
	}
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()

	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store1.Set("index.type", "sqlite"))
	require.NoError(t, store1.Set("index.data_dir", "/var/lib/formflow"))
	require.NoError(t, store1.Set("recaptcha.timeout_seconds", 12))

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", store2.GetString("index.type"))
	assert.Equal(t, "/var/lib/formflow", store2.GetString("index.data_dir"))
	assert.Equal(t, 12, store2.GetInt("recaptcha.timeout_seconds"))
}

func TestConfigStore_WritesNestedTables(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("mailchimp.api_key", "abc-us1"))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[mailchimp]")
	assert.Contains(t, string(raw), "api_key = ")
	assert.Contains(t, string(raw), "abc-us1")
}

func TestConfigStore_LoadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := []byte(`
[index]
type = "sqlite"

[recaptcha]
site_key = "site"
secret_key = "secret"
timeout_seconds = 3
`)
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), content, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", store.GetString("index.type"))
	assert.Equal(t, "secret", store.GetString("recaptcha.secret_key"))
	assert.Equal(t, 3, store.GetInt("recaptcha.timeout_seconds"))
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	_, ok := store.Get("any_key")
	assert.False(t, ok)
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte{}, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	_, ok := store.Get("any_key")
	assert.False(t, ok)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("mailchimp.api_key", "abc-us1"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_OverwriteValue(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("index.type", "memory"))
	require.NoError(t, store.Set("index.type", "sqlite"))

	assert.Equal(t, "sqlite", store.GetString("index.type"))
}

func TestConfigStore_Save_Explicit(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	store.mu.Lock()
	store.data["index.type"] = "sqlite"
	store.mu.Unlock()

	require.NoError(t, store.Save())

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", store2.GetString("index.type"))
}

func TestConfigStore_Save_WriteFileError(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("index.type", "memory"))

	// Replace the file with a directory to cause a write error
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Set("index.type", "sqlite"))
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("this is not valid TOML {{{[["), 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := fmt.Sprintf("merge.field%d", id)
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_ = store.GetString(key)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 10; i++ {
		assert.Equal(t, i, store.GetInt(fmt.Sprintf("merge.field%d", i)))
	}
}

func TestFlattenAndNestMap(t *testing.T) {
	nested := map[string]any{
		"index": map[string]any{"type": "sqlite"},
		"top":   "value",
	}

	flat := flattenMap(nested, "")
	assert.Equal(t, map[string]any{"index.type": "sqlite", "top": "value"}, flat)
	assert.Equal(t, nested, nestMap(flat))
}

func TestNestMap_ValueShadowsTable(t *testing.T) {
	got := nestMap(map[string]any{"index": "flat", "index.type": "sqlite"})

	assert.Equal(t, "flat", got["index"])
}
