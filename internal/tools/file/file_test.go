package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierlabs/workbench/internal/config"
	"github.com/atelierlabs/workbench/internal/tools/file"
	"github.com/atelierlabs/workbench/pkg/dispatch"
	"github.com/atelierlabs/workbench/pkg/domain"
	"github.com/atelierlabs/workbench/pkg/registry"
)

// newDispatcher routes calls through schema validation so declared
// defaults (like overwrite) apply exactly as they do in production.
func newDispatcher(t *testing.T, workspace string) *dispatch.Dispatcher {
	t.Helper()
	reg := registry.New()
	require.NoError(t, file.New(config.Default(workspace)).Register(reg))
	return dispatch.New(reg)
}

func call(t *testing.T, d *dispatch.Dispatcher, tool string, args map[string]any) domain.Result {
	t.Helper()
	return d.Dispatch(context.Background(), domain.Invocation{Tool: tool, Args: args}).Result
}

func TestWriteAndReadFile(t *testing.T) {
	ws := t.TempDir()
	d := newDispatcher(t, ws)

	res := call(t, d, "write_file", map[string]any{
		"path":    "notes/todo.txt",
		"content": "ship it",
	})
	require.False(t, res.IsError, res.Text())

	res = call(t, d, "read_file", map[string]any{"path": "notes/todo.txt"})
	require.False(t, res.IsError)
	assert.Equal(t, "ship it", res.Text())
}

func TestWriteFile_NoOverwrite(t *testing.T) {
	ws := t.TempDir()
	d := newDispatcher(t, ws)
	require.NoError(t, os.WriteFile(filepath.Join(ws, "a.txt"), []byte("old"), 0o644))

	res := call(t, d, "write_file", map[string]any{
		"path":      "a.txt",
		"content":   "new",
		"overwrite": false,
	})

	assert.True(t, res.IsError)
	assert.Contains(t, res.Text(), "destination_exists")

	data, err := os.ReadFile(filepath.Join(ws, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}

func TestReadFile_NotFound(t *testing.T) {
	d := newDispatcher(t, t.TempDir())

	res := call(t, d, "read_file", map[string]any{"path": "missing.txt"})

	assert.True(t, res.IsError)
	assert.Contains(t, res.Text(), "file_not_found")
}

func TestReadFile_RejectsEscape(t *testing.T) {
	d := newDispatcher(t, t.TempDir())

	res := call(t, d, "read_file", map[string]any{"path": "../../etc/passwd"})

	assert.True(t, res.IsError)
	assert.Contains(t, res.Text(), "outside the workspace")
}

func TestAppendFile(t *testing.T) {
	ws := t.TempDir()
	d := newDispatcher(t, ws)
	require.NoError(t, os.WriteFile(filepath.Join(ws, "log.txt"), []byte("one\n"), 0o644))

	res := call(t, d, "append_file", map[string]any{
		"path":    "log.txt",
		"content": "two\n",
	})
	require.False(t, res.IsError, res.Text())

	data, err := os.ReadFile(filepath.Join(ws, "log.txt"))
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(data))
}

func TestAppendFile_RequiresExistingFile(t *testing.T) {
	d := newDispatcher(t, t.TempDir())

	res := call(t, d, "append_file", map[string]any{
		"path":    "missing.txt",
		"content": "x",
	})

	assert.True(t, res.IsError)
	assert.Contains(t, res.Text(), "file_not_found")
}

func TestCopyFile(t *testing.T) {
	ws := t.TempDir()
	d := newDispatcher(t, ws)
	require.NoError(t, os.WriteFile(filepath.Join(ws, "src.txt"), []byte("payload"), 0o644))

	res := call(t, d, "copy_file", map[string]any{
		"source":      "src.txt",
		"destination": "sub/dst.txt",
	})
	require.False(t, res.IsError, res.Text())

	data, err := os.ReadFile(filepath.Join(ws, "sub", "dst.txt"))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	// Source untouched.
	_, err = os.Stat(filepath.Join(ws, "src.txt"))
	assert.NoError(t, err)
}

func TestCopyFile_DestinationExists(t *testing.T) {
	ws := t.TempDir()
	d := newDispatcher(t, ws)
	require.NoError(t, os.WriteFile(filepath.Join(ws, "src.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(ws, "dst.txt"), []byte("b"), 0o644))

	res := call(t, d, "copy_file", map[string]any{
		"source":      "src.txt",
		"destination": "dst.txt",
	})

	assert.True(t, res.IsError)
	assert.Contains(t, res.Text(), "destination_exists")
}

func TestMoveFile(t *testing.T) {
	ws := t.TempDir()
	d := newDispatcher(t, ws)
	require.NoError(t, os.WriteFile(filepath.Join(ws, "old.txt"), []byte("x"), 0o644))

	res := call(t, d, "move_file", map[string]any{
		"source":      "old.txt",
		"destination": "new.txt",
	})
	require.False(t, res.IsError, res.Text())

	_, err := os.Stat(filepath.Join(ws, "old.txt"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(ws, "new.txt"))
	assert.NoError(t, err)
}

func TestDeleteFile_RefusesDirectory(t *testing.T) {
	ws := t.TempDir()
	d := newDispatcher(t, ws)
	require.NoError(t, os.Mkdir(filepath.Join(ws, "dir"), 0o755))

	res := call(t, d, "delete_file", map[string]any{"path": "dir"})

	assert.True(t, res.IsError)
	assert.Contains(t, res.Text(), "not_a_file")
}

func TestListDirectory(t *testing.T) {
	ws := t.TempDir()
	d := newDispatcher(t, ws)
	require.NoError(t, os.Mkdir(filepath.Join(ws, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(ws, "a.txt"), []byte("x"), 0o644))

	res := call(t, d, "list_directory", map[string]any{})
	require.False(t, res.IsError, res.Text())

	assert.Contains(t, res.Text(), "a.txt")
	assert.Contains(t, res.Text(), "sub/")
}

func TestMakeAndRemoveDirectory(t *testing.T) {
	ws := t.TempDir()
	d := newDispatcher(t, ws)

	res := call(t, d, "make_directory", map[string]any{"path": "a/b/c"})
	require.False(t, res.IsError, res.Text())

	info, err := os.Stat(filepath.Join(ws, "a", "b", "c"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Non-recursive removal of a non-empty directory fails.
	res = call(t, d, "remove_directory", map[string]any{"path": "a"})
	assert.True(t, res.IsError)
	assert.Contains(t, res.Text(), "rmdir_failed")

	res = call(t, d, "remove_directory", map[string]any{"path": "a", "recursive": true})
	require.False(t, res.IsError, res.Text())

	_, err = os.Stat(filepath.Join(ws, "a"))
	assert.True(t, os.IsNotExist(err))
}
