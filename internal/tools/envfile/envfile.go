// Package envfile manages flat KEY=VALUE files: ordered lines, no quoting
// or escaping, trailing newline on write. Writes always rewrite the whole
// file; there is no partial-line update.
package envfile

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var keyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Line is one line of an env file. Non-assignment lines (comments, blanks)
// keep Key empty and survive rewrites untouched.
type Line struct {
	Key   string
	Value string
	Raw   string
}

// File is an ordered sequence of env-file lines.
type File struct {
	Lines []Line
}

// Parse reads content into an ordered line sequence.
func Parse(content string) *File {
	f := &File{}
	if content == "" {
		return f
	}
	raw := strings.Split(strings.TrimRight(content, "\n"), "\n")
	for _, line := range raw {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || !strings.Contains(line, "=") {
			f.Lines = append(f.Lines, Line{Raw: line})
			continue
		}
		key, value, _ := strings.Cut(line, "=")
		f.Lines = append(f.Lines, Line{Key: strings.TrimSpace(key), Value: value, Raw: line})
	}
	return f
}

// Load parses the file at path. A missing file yields an empty File.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &File{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(string(data)), nil
}

// Get returns the value for key and whether it is present.
func (f *File) Get(key string) (string, bool) {
	for _, line := range f.Lines {
		if line.Key == key {
			return line.Value, true
		}
	}
	return "", false
}

// Set rewrites the line for key or appends a new one. Order and content of
// all other lines are preserved.
func (f *File) Set(key, value string) {
	for i, line := range f.Lines {
		if line.Key == key {
			f.Lines[i] = Line{Key: key, Value: value, Raw: key + "=" + value}
			return
		}
	}
	f.Lines = append(f.Lines, Line{Key: key, Value: value, Raw: key + "=" + value})
}

// Delete removes the line for key. It reports whether a line was removed.
func (f *File) Delete(key string) bool {
	for i, line := range f.Lines {
		if line.Key == key {
			f.Lines = append(f.Lines[:i], f.Lines[i+1:]...)
			return true
		}
	}
	return false
}

// Render serializes the file with a trailing newline.
func (f *File) Render() string {
	if len(f.Lines) == 0 {
		return ""
	}
	var b strings.Builder
	for _, line := range f.Lines {
		b.WriteString(line.Raw)
		b.WriteByte('\n')
	}
	return b.String()
}

// Save writes the rendered file to path.
func (f *File) Save(path string) error {
	if err := os.WriteFile(path, []byte(f.Render()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ValidKey reports whether key is a legal env-file key.
func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}
