package registry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierlabs/workbench/pkg/domain"
	"github.com/atelierlabs/workbench/pkg/registry"
)

func noopHandler(ctx context.Context, args map[string]any) (domain.Result, error) {
	return domain.TextResult("ok"), nil
}

func def(name string) registry.Definition {
	return registry.Definition{Name: name, Handler: noopHandler}
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register(def("read_file")))

	got, err := reg.Lookup("read_file")
	require.NoError(t, err)
	assert.Equal(t, "read_file", got.Name)
}

func TestRegistry_DuplicateName(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register(def("read_file")))

	err := reg.Register(def("read_file"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicateName))

	// The original registration is untouched.
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_LookupUnknown(t *testing.T) {
	reg := registry.New()

	_, err := reg.Lookup("nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrToolNotFound))
}

func TestRegistry_RejectsInvalidDefinitions(t *testing.T) {
	reg := registry.New()

	assert.Error(t, reg.Register(registry.Definition{Handler: noopHandler}))
	assert.Error(t, reg.Register(registry.Definition{Name: "no_handler"}))
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_ListPreservesRegistrationOrder(t *testing.T) {
	reg := registry.New()
	names := []string{"zeta", "alpha", "mid"}
	for _, n := range names {
		require.NoError(t, reg.Register(def(n)))
	}

	listed := reg.List()
	require.Len(t, listed, len(names))
	for i, n := range names {
		assert.Equal(t, n, listed[i].Name)
	}
}

func TestRegistry_RegisterAllStopsAtFirstFailure(t *testing.T) {
	reg := registry.New()
	err := reg.RegisterAll(def("a"), def("a"), def("b"))
	require.Error(t, err)

	// "b" never registered because "a" collided first.
	_, lookupErr := reg.Lookup("b")
	assert.Error(t, lookupErr)
}
