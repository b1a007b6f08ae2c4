package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/dbseed/internal/logging"
	"github.com/vvka-141/dbseed/internal/services"
	"github.com/vvka-141/dbseed/pkg/dbseed"
)

func resetInspectFlags() {
	inspectFlags = inspectFlagValues{}
}

func TestRenderInspection(t *testing.T) {
	inspection := &services.Inspection{
		Files: []services.InspectedFile{
			{Path: "f1.json", Fixtures: []dbseed.Fixture{{Table: "users"}}},
			{Path: "f2.yml", Fixtures: []dbseed.Fixture{{Table: "users"}, {Table: "posts"}}},
		},
		Fixtures: []dbseed.Fixture{{Table: "users"}, {Table: "users"}, {Table: "posts"}},
	}

	var buf bytes.Buffer
	renderInspection(&buf, inspection, newStyles(false))

	want := "f1.json 1 fixture\n" +
		"  users  1\n" +
		"f2.yml 2 fixtures\n" +
		"  users  1\n" +
		"  posts  1\n" +
		"\n" +
		"Total: 3 fixtures in 2 files\n" +
		"  users  2\n" +
		"  posts  1\n"
	assert.Equal(t, want, buf.String())
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "0 files", pluralize(0, "file"))
	assert.Equal(t, "1 file", pluralize(1, "file"))
	assert.Equal(t, "3 fixtures", pluralize(3, "fixture"))
}

func TestRunInspect(t *testing.T) {
	resetInspectFlags()
	f1, f2 := writeFixtures(t)

	var buf bytes.Buffer
	inspectCmd.SetOut(&buf)
	t.Cleanup(func() { inspectCmd.SetOut(nil) })

	require.NoError(t, runInspect(inspectCmd, []string{f1, f2}))
	assert.Contains(t, buf.String(), "Total: 2 fixtures in 2 files")
	assert.Contains(t, buf.String(), filepath.Base(f2))
}

func TestRunInspect_NoSources(t *testing.T) {
	resetInspectFlags()
	err := runInspect(inspectCmd, nil)
	assert.Equal(t, dbseed.ExitUsageError, dbseed.ExitCodeForError(err))
}

func TestSourceWatcher_Matches(t *testing.T) {
	dir := t.TempDir()
	w, err := newSourceWatcher([]string{filepath.Join(dir, "**", "*.json")}, logging.NewNullLogger())
	require.NoError(t, err)
	defer w.Close()

	assert.True(t, w.matches(filepath.Join(dir, "users.json")))
	assert.True(t, w.matches(filepath.Join(dir, "nested", "posts.json")))
	assert.False(t, w.matches(filepath.Join(dir, "notes.txt")))
	assert.False(t, w.matches(filepath.Join(dir, ".users.json")))
	assert.True(t, w.recursive())
}

func TestSourceWatcher_MissingDirectory(t *testing.T) {
	_, err := newSourceWatcher([]string{filepath.Join(t.TempDir(), "missing", "*.json")}, logging.NewNullLogger())
	assert.Error(t, err)
}

func TestSourceWatcher_Run(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "users.json")
	require.NoError(t, os.WriteFile(target, []byte("[]"), 0644))

	w, err := newSourceWatcher([]string{filepath.Join(dir, "*.json")}, logging.NewNullLogger())
	require.NoError(t, err)
	defer w.Close()
	w.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var changes atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() {
			changes.Add(1)
			cancel()
		})
	}()

	// Unrelated files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(target, []byte(`[{"table":"users"}]`), 0644))

	require.NoError(t, <-done)
	assert.GreaterOrEqual(t, changes.Load(), int32(1))
}
