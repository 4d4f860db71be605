package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/interlink/internal/core/domain"
)

func writePage(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewPageStore_DefaultsOutputToContentDir(t *testing.T) {
	store := NewPageStore("/content", "")

	assert.Equal(t, "/content", store.ContentDir())
	assert.Equal(t, "/content", store.OutputDir())
}

func TestPageStore_List(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "pm.html", "<p>pm</p>")
	writePage(t, dir, "crm.html", "<p>crm</p>")
	writePage(t, dir, "notes.txt", "ignored")
	writePage(t, dir, ".draft.html", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.html"), 0755))

	pages, err := NewPageStore(dir, "").List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []domain.PageSource{
		{EntityID: "crm", Path: filepath.Join(dir, "crm.html")},
		{EntityID: "pm", Path: filepath.Join(dir, "pm.html")},
	}, pages)
}

func TestPageStore_ListMissingDir(t *testing.T) {
	_, err := NewPageStore("/non/existent/path", "").List(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "content dir error")
}

func TestPageStore_Read(t *testing.T) {
	dir := t.TempDir()
	path := writePage(t, dir, "crm.html", "<p>CRM</p>")
	store := NewPageStore(dir, "")
	ctx := context.Background()

	content, err := store.Read(ctx, domain.PageSource{EntityID: "crm", Path: path})
	require.NoError(t, err)
	assert.Equal(t, "<p>CRM</p>", content)

	t.Run("derives path from entity ID", func(t *testing.T) {
		content, err := store.Read(ctx, domain.PageSource{EntityID: "crm"})
		require.NoError(t, err)
		assert.Equal(t, "<p>CRM</p>", content)
	})

	t.Run("missing page", func(t *testing.T) {
		_, err := store.Read(ctx, domain.PageSource{EntityID: "missing"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestPageStore_Write(t *testing.T) {
	contentDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "public")
	store := NewPageStore(contentDir, outputDir)
	page := domain.PageSource{EntityID: "crm"}

	require.NoError(t, store.Write(context.Background(), page, `<p><a href="/pm">PM</a></p>`))

	data, err := os.ReadFile(filepath.Join(outputDir, "crm.html"))
	require.NoError(t, err)
	assert.Equal(t, `<p><a href="/pm">PM</a></p>`, string(data))

	entries, err := os.ReadDir(outputDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestPageStore_WriteSkipsIdenticalContent(t *testing.T) {
	dir := t.TempDir()
	path := writePage(t, dir, "crm.html", "<p>same</p>")
	old := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(path, old, old))

	store := NewPageStore(dir, "")
	require.NoError(t, store.Write(context.Background(), domain.PageSource{EntityID: "crm"}, "<p>same</p>"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(old))
}

func TestPageStore_Watch(t *testing.T) {
	t.Run("reports created pages", func(t *testing.T) {
		dir := t.TempDir()
		store := NewPageStore(dir, "")
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := store.Watch(ctx)
		require.NoError(t, err)

		go func() {
			time.Sleep(50 * time.Millisecond)
			os.WriteFile(filepath.Join(dir, "crm.html"), []byte("<p>new</p>"), 0644)
		}()

		select {
		case id := <-changes:
			assert.Equal(t, "crm", id)
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for page change")
		}
	})

	t.Run("closes channel when context is cancelled", func(t *testing.T) {
		store := NewPageStore(t.TempDir(), "")
		ctx, cancel := context.WithCancel(context.Background())

		changes, err := store.Watch(ctx)
		require.NoError(t, err)
		cancel()

		select {
		case _, ok := <-changes:
			if ok {
				for range changes {
				}
			}
		case <-time.After(time.Second):
			t.Fatal("channel did not close after context cancellation")
		}
	})

	t.Run("returns error for non-existent directory", func(t *testing.T) {
		changes, err := NewPageStore("/non/existent/path", "").Watch(context.Background())

		assert.Error(t, err)
		assert.Nil(t, changes)
		assert.Contains(t, err.Error(), "content dir error")
	})

	t.Run("returns error when closed", func(t *testing.T) {
		store := NewPageStore(t.TempDir(), "")
		require.NoError(t, store.Close())

		changes, err := store.Watch(context.Background())

		assert.Error(t, err)
		assert.Nil(t, changes)
		assert.Contains(t, err.Error(), "closed")
	})
}

func TestHandleFsEvent(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		create    bool
		operation fsnotify.Op
		wantID    string
		wantOK    bool
	}{
		{name: "create page", file: "crm.html", create: true, operation: fsnotify.Create, wantID: "crm", wantOK: true},
		{name: "write page", file: "crm.html", create: true, operation: fsnotify.Write, wantID: "crm", wantOK: true},
		{name: "write and chmod", file: "crm.html", create: true, operation: fsnotify.Write | fsnotify.Chmod, wantID: "crm", wantOK: true},
		{name: "remove page", file: "crm.html", operation: fsnotify.Remove},
		{name: "rename page", file: "crm.html", operation: fsnotify.Rename},
		{name: "chmod only", file: "crm.html", create: true, operation: fsnotify.Chmod},
		{name: "hidden temp file", file: ".crm-123.tmp", create: true, operation: fsnotify.Create},
		{name: "hidden page", file: ".crm.html", create: true, operation: fsnotify.Write},
		{name: "other extension", file: "crm.md", create: true, operation: fsnotify.Create},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, tt.file)
			if tt.create {
				writePage(t, dir, tt.file, "<p>x</p>")
			}

			id, ok := NewPageStore(dir, "").handleFsEvent(fsnotify.Event{Name: path, Op: tt.operation})

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}

	t.Run("directory named like a page", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "crm.html")
		require.NoError(t, os.Mkdir(path, 0755))

		_, ok := NewPageStore(dir, "").handleFsEvent(fsnotify.Event{Name: path, Op: fsnotify.Create})
		assert.False(t, ok)
	})
}
