package schema_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierlabs/workbench/pkg/schema"
)

func buildSchema() schema.Schema {
	return schema.Schema{
		schema.String("path", "File path").Req(),
		schema.Enum("mode", "Access mode", "read", "write").Def("read"),
		schema.Number("limit", "Row limit").Def(float64(10)),
		schema.Bool("recursive", "Recurse into directories"),
		schema.StringSlice("paths", "Paths to stage"),
		schema.StringMap("headers", "Request headers"),
	}
}

func TestValidate_AppliesDefaults(t *testing.T) {
	out, err := schema.Validate(buildSchema(), map[string]any{"path": "a.txt"})
	require.NoError(t, err)

	assert.Equal(t, "a.txt", out["path"])
	assert.Equal(t, "read", out["mode"])
	assert.Equal(t, float64(10), out["limit"])

	// No default declared, field stays absent.
	_, ok := out["recursive"]
	assert.False(t, ok)
}

func TestValidate_DefaultNotAppliedWhenPresent(t *testing.T) {
	out, err := schema.Validate(buildSchema(), map[string]any{
		"path":  "a.txt",
		"mode":  "write",
		"limit": float64(3),
	})
	require.NoError(t, err)

	assert.Equal(t, "write", out["mode"])
	assert.Equal(t, float64(3), out["limit"])
}

func TestValidate_MissingRequired(t *testing.T) {
	_, err := schema.Validate(buildSchema(), map[string]any{})
	require.Error(t, err)
	assert.Equal(t, "missing_field:path", err.Error())

	var fe *schema.FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, schema.CodeMissingField, fe.Code)
	assert.Equal(t, "path", fe.Field)
}

func TestValidate_TypeMismatch(t *testing.T) {
	_, err := schema.Validate(buildSchema(), map[string]any{
		"path": 42,
	})
	require.Error(t, err)

	var fe *schema.FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, schema.CodeTypeMismatch, fe.Code)
	assert.Equal(t, "path", fe.Field)
}

func TestValidate_InvalidEnum(t *testing.T) {
	_, err := schema.Validate(buildSchema(), map[string]any{
		"path": "a.txt",
		"mode": "append",
	})
	require.Error(t, err)

	var fe *schema.FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, schema.CodeInvalidEnum, fe.Code)
	assert.Equal(t, "mode", fe.Field)
}

func TestValidate_FirstErrorInDeclarationOrder(t *testing.T) {
	// Both path (missing) and mode (bad enum) are wrong; path is declared
	// first so it wins.
	_, err := schema.Validate(buildSchema(), map[string]any{"mode": "append"})
	require.Error(t, err)

	var fe *schema.FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "path", fe.Field)
}

func TestValidate_IgnoresUndeclaredFields(t *testing.T) {
	out, err := schema.Validate(buildSchema(), map[string]any{
		"path":    "a.txt",
		"unknown": "whatever",
	})
	require.NoError(t, err)

	_, ok := out["unknown"]
	assert.False(t, ok)
}

func TestValidate_CoercesJSONShapes(t *testing.T) {
	out, err := schema.Validate(buildSchema(), map[string]any{
		"path":    "a.txt",
		"paths":   []any{"x", "y"},
		"headers": map[string]any{"Accept": "text/plain"},
		"limit":   7,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "y"}, out["paths"])
	assert.Equal(t, map[string]string{"Accept": "text/plain"}, out["headers"])
	assert.Equal(t, float64(7), out["limit"])
}

func TestValidate_SliceElementMismatch(t *testing.T) {
	_, err := schema.Validate(buildSchema(), map[string]any{
		"path":  "a.txt",
		"paths": []any{"x", 1},
	})
	require.Error(t, err)

	var fe *schema.FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, schema.CodeTypeMismatch, fe.Code)
	assert.Equal(t, "paths", fe.Field)
}

func TestValidate_DoesNotMutateInput(t *testing.T) {
	raw := map[string]any{"path": "a.txt"}
	_, err := schema.Validate(buildSchema(), raw)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"path": "a.txt"}, raw)
}
