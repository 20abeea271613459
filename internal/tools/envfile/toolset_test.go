package envfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierlabs/workbench/internal/config"
	"github.com/atelierlabs/workbench/internal/tools/envfile"
	"github.com/atelierlabs/workbench/pkg/dispatch"
	"github.com/atelierlabs/workbench/pkg/domain"
	"github.com/atelierlabs/workbench/pkg/registry"
)

func newDispatcher(t *testing.T, workspace string) *dispatch.Dispatcher {
	t.Helper()
	reg := registry.New()
	require.NoError(t, envfile.New(config.Default(workspace)).Register(reg))
	return dispatch.New(reg)
}

func call(t *testing.T, d *dispatch.Dispatcher, tool string, args map[string]any) domain.Result {
	t.Helper()
	return d.Dispatch(context.Background(), domain.Invocation{Tool: tool, Args: args}).Result
}

func TestEnvSetAndRead(t *testing.T) {
	ws := t.TempDir()
	d := newDispatcher(t, ws)

	res := call(t, d, "env_set", map[string]any{"key": "APP_NAME", "value": "demo"})
	require.False(t, res.IsError, res.Text())
	assert.Equal(t, "APP_NAME=demo", res.Text())

	res = call(t, d, "env_read", map[string]any{})
	require.False(t, res.IsError)
	assert.Equal(t, "APP_NAME=demo", res.Text())

	// The default path is .env in the workspace.
	data, err := os.ReadFile(filepath.Join(ws, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "APP_NAME=demo\n", string(data))
}

func TestEnvSet_PreservesCommentsAndOrder(t *testing.T) {
	ws := t.TempDir()
	content := "# header\nA=1\nB=2\n"
	require.NoError(t, os.WriteFile(filepath.Join(ws, ".env"), []byte(content), 0o644))
	d := newDispatcher(t, ws)

	res := call(t, d, "env_set", map[string]any{"key": "A", "value": "9"})
	require.False(t, res.IsError, res.Text())

	data, err := os.ReadFile(filepath.Join(ws, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "# header\nA=9\nB=2\n", string(data))
}

func TestEnvSet_RejectsBadKeyAndMultilineValue(t *testing.T) {
	d := newDispatcher(t, t.TempDir())

	res := call(t, d, "env_set", map[string]any{"key": "1BAD", "value": "x"})
	assert.True(t, res.IsError)
	assert.Contains(t, res.Text(), "invalid key")

	res = call(t, d, "env_set", map[string]any{"key": "GOOD", "value": "a\nb"})
	assert.True(t, res.IsError)
	assert.Contains(t, res.Text(), "single line")
}

func TestEnvDelete_MissingKey(t *testing.T) {
	d := newDispatcher(t, t.TempDir())

	res := call(t, d, "env_delete", map[string]any{"key": "NOPE"})
	assert.True(t, res.IsError)
	assert.Contains(t, res.Text(), "not found")
}

func TestVersionBump_InitializesWhenAbsent(t *testing.T) {
	ws := t.TempDir()
	d := newDispatcher(t, ws)

	res := call(t, d, "version_bump", map[string]any{})
	require.False(t, res.IsError, res.Text())
	assert.Equal(t, "VERSION=0.0.1", res.Text())
}

func TestVersionBump_Increments(t *testing.T) {
	ws := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(ws, ".env"), []byte("VERSION=1.2.3\n"), 0o644))
	d := newDispatcher(t, ws)

	res := call(t, d, "version_bump", map[string]any{"part": "minor"})
	require.False(t, res.IsError, res.Text())
	assert.Equal(t, "VERSION=1.3.0", res.Text())

	data, err := os.ReadFile(filepath.Join(ws, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "VERSION=1.3.0\n", string(data))
}

func TestVersionBump_RejectsBadPart(t *testing.T) {
	d := newDispatcher(t, t.TempDir())

	res := call(t, d, "version_bump", map[string]any{"part": "nano"})
	assert.True(t, res.IsError)
	assert.Contains(t, res.Text(), "invalid_enum:part")
}

func TestVersionBump_MalformedStoredVersion(t *testing.T) {
	ws := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(ws, ".env"), []byte("VERSION=banana\n"), 0o644))
	d := newDispatcher(t, ws)

	res := call(t, d, "version_bump", map[string]any{})
	assert.True(t, res.IsError)
	assert.Contains(t, res.Text(), "invalid version")
}
