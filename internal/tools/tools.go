// Package tools holds helpers shared by all tool families: workspace path
// resolution and decoding of validated parameter maps into typed inputs.
package tools

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Resolve joins path onto the workspace root and rejects escapes.
// Absolute paths are allowed only when they already sit inside the
// workspace.
func Resolve(workspace, path string) (string, error) {
	if path == "" {
		return workspace, nil
	}

	target := path
	if !filepath.IsAbs(target) {
		target = filepath.Join(workspace, target)
	}
	target = filepath.Clean(target)

	rel, err := filepath.Rel(workspace, target)
	if err != nil {
		return "", fmt.Errorf("path %q is outside the workspace", path)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q is outside the workspace", path)
	}
	return target, nil
}

// Decode maps validated parameters onto a typed input struct. The schema
// validator has already checked kinds, so decode failures indicate a
// declaration bug rather than bad caller input.
func Decode(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("building decoder: %w", err)
	}
	if err := dec.Decode(args); err != nil {
		return fmt.Errorf("decoding parameters: %w", err)
	}
	return nil
}
