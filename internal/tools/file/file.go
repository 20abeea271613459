// Package file implements single-operation filesystem tools. Preconditions
// are checked before acting and reported as named errors instead of relying
// on the raw OS failure.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atelierlabs/workbench/internal/config"
	"github.com/atelierlabs/workbench/internal/tools"
	"github.com/atelierlabs/workbench/pkg/domain"
	"github.com/atelierlabs/workbench/pkg/registry"
	"github.com/atelierlabs/workbench/pkg/schema"
)

// Toolset exposes the file and directory tools.
type Toolset struct {
	cfg *config.Config
}

// New creates the file toolset.
func New(cfg *config.Config) *Toolset {
	return &Toolset{cfg: cfg}
}

// Register adds all file tools to reg.
func (t *Toolset) Register(reg *registry.Registry) error {
	return reg.RegisterAll(
		t.readFile(),
		t.writeFile(),
		t.appendFile(),
		t.copyFile(),
		t.moveFile(),
		t.deleteFile(),
		t.listDirectory(),
		t.makeDirectory(),
		t.removeDirectory(),
	)
}

func (t *Toolset) resolve(path string) (string, error) {
	return tools.Resolve(t.cfg.Workspace, path)
}

// fail builds an execution error with a named precondition code.
func fail(code, format string, args ...any) domain.Result {
	return domain.Errorf(domain.FailureExecution, "%s: %s", code, fmt.Sprintf(format, args...))
}

func (t *Toolset) readFile() registry.Definition {
	return registry.Definition{
		Name:        "read_file",
		Description: "Read the content of a text file.",
		Schema: schema.Schema{
			schema.String("path", "File path relative to the workspace").Req(),
		},
		Handler: func(_ context.Context, args map[string]any) (domain.Result, error) {
			path, _ := args["path"].(string)
			abs, err := t.resolve(path)
			if err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}

			info, err := os.Stat(abs)
			if os.IsNotExist(err) {
				return fail("file_not_found", "%s", path), nil
			}
			if err == nil && info.IsDir() {
				return fail("not_a_file", "%s is a directory", path), nil
			}

			data, err := os.ReadFile(abs)
			if err != nil {
				return fail("read_failed", "%s: %v", path, err), nil
			}
			return domain.TextResult(string(data)), nil
		},
	}
}

func (t *Toolset) writeFile() registry.Definition {
	return registry.Definition{
		Name:        "write_file",
		Description: "Write content to a file, creating or replacing it.",
		Schema: schema.Schema{
			schema.String("path", "File path relative to the workspace").Req(),
			schema.String("content", "Content to write").Req(),
			schema.Bool("overwrite", "Replace the file if it exists").Def(true),
		},
		Handler: func(_ context.Context, args map[string]any) (domain.Result, error) {
			var in struct {
				Path      string `json:"path"`
				Content   string `json:"content"`
				Overwrite bool   `json:"overwrite"`
			}
			if err := tools.Decode(args, &in); err != nil {
				return domain.Result{}, err
			}
			abs, err := t.resolve(in.Path)
			if err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}

			if !in.Overwrite {
				if _, err := os.Stat(abs); err == nil {
					return fail("destination_exists", "%s", in.Path), nil
				}
			}
			if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
				return fail("write_failed", "%s: %v", in.Path, err), nil
			}
			if err := os.WriteFile(abs, []byte(in.Content), 0o644); err != nil {
				return fail("write_failed", "%s: %v", in.Path, err), nil
			}
			return domain.TextResult(fmt.Sprintf("wrote %d bytes to %s", len(in.Content), in.Path)), nil
		},
	}
}

func (t *Toolset) appendFile() registry.Definition {
	return registry.Definition{
		Name:        "append_file",
		Description: "Append content to an existing file.",
		Schema: schema.Schema{
			schema.String("path", "File path relative to the workspace").Req(),
			schema.String("content", "Content to append").Req(),
		},
		Handler: func(_ context.Context, args map[string]any) (domain.Result, error) {
			var in struct {
				Path    string `json:"path"`
				Content string `json:"content"`
			}
			if err := tools.Decode(args, &in); err != nil {
				return domain.Result{}, err
			}
			abs, err := t.resolve(in.Path)
			if err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}

			if _, err := os.Stat(abs); os.IsNotExist(err) {
				return fail("file_not_found", "%s", in.Path), nil
			}

			f, err := os.OpenFile(abs, os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return fail("write_failed", "%s: %v", in.Path, err), nil
			}
			defer f.Close()

			if _, err := f.WriteString(in.Content); err != nil {
				return fail("write_failed", "%s: %v", in.Path, err), nil
			}
			return domain.TextResult(fmt.Sprintf("appended %d bytes to %s", len(in.Content), in.Path)), nil
		},
	}
}

func (t *Toolset) copyFile() registry.Definition {
	return registry.Definition{
		Name:        "copy_file",
		Description: "Copy a file to a new location.",
		Schema: schema.Schema{
			schema.String("source", "Source file path").Req(),
			schema.String("destination", "Destination file path").Req(),
			schema.Bool("overwrite", "Replace the destination if it exists").Def(false),
		},
		Handler: func(_ context.Context, args map[string]any) (domain.Result, error) {
			var in struct {
				Source      string `json:"source"`
				Destination string `json:"destination"`
				Overwrite   bool   `json:"overwrite"`
			}
			if err := tools.Decode(args, &in); err != nil {
				return domain.Result{}, err
			}
			src, err := t.resolve(in.Source)
			if err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}
			dst, err := t.resolve(in.Destination)
			if err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}

			info, err := os.Stat(src)
			if os.IsNotExist(err) {
				return fail("file_not_found", "%s", in.Source), nil
			}
			if err == nil && info.IsDir() {
				return fail("not_a_file", "%s is a directory", in.Source), nil
			}
			if !in.Overwrite {
				if _, err := os.Stat(dst); err == nil {
					return fail("destination_exists", "%s", in.Destination), nil
				}
			}

			if err := copyContents(src, dst); err != nil {
				return fail("copy_failed", "%s -> %s: %v", in.Source, in.Destination, err), nil
			}
			return domain.TextResult(fmt.Sprintf("copied %s to %s", in.Source, in.Destination)), nil
		},
	}
}

func (t *Toolset) moveFile() registry.Definition {
	return registry.Definition{
		Name:        "move_file",
		Description: "Move or rename a file.",
		Schema: schema.Schema{
			schema.String("source", "Source file path").Req(),
			schema.String("destination", "Destination file path").Req(),
		},
		Handler: func(_ context.Context, args map[string]any) (domain.Result, error) {
			var in struct {
				Source      string `json:"source"`
				Destination string `json:"destination"`
			}
			if err := tools.Decode(args, &in); err != nil {
				return domain.Result{}, err
			}
			src, err := t.resolve(in.Source)
			if err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}
			dst, err := t.resolve(in.Destination)
			if err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}

			if _, err := os.Stat(src); os.IsNotExist(err) {
				return fail("file_not_found", "%s", in.Source), nil
			}
			if _, err := os.Stat(dst); err == nil {
				return fail("destination_exists", "%s", in.Destination), nil
			}

			if err := os.Rename(src, dst); err != nil {
				return fail("move_failed", "%s -> %s: %v", in.Source, in.Destination, err), nil
			}
			return domain.TextResult(fmt.Sprintf("moved %s to %s", in.Source, in.Destination)), nil
		},
	}
}

func (t *Toolset) deleteFile() registry.Definition {
	return registry.Definition{
		Name:        "delete_file",
		Description: "Delete a single file.",
		Schema: schema.Schema{
			schema.String("path", "File path relative to the workspace").Req(),
		},
		Handler: func(_ context.Context, args map[string]any) (domain.Result, error) {
			path, _ := args["path"].(string)
			abs, err := t.resolve(path)
			if err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}

			info, err := os.Stat(abs)
			if os.IsNotExist(err) {
				return fail("file_not_found", "%s", path), nil
			}
			if err == nil && info.IsDir() {
				return fail("not_a_file", "%s is a directory; use remove_directory", path), nil
			}

			if err := os.Remove(abs); err != nil {
				return fail("delete_failed", "%s: %v", path, err), nil
			}
			return domain.TextResult(fmt.Sprintf("deleted %s", path)), nil
		},
	}
}

func (t *Toolset) listDirectory() registry.Definition {
	return registry.Definition{
		Name:        "list_directory",
		Description: "List the entries of a directory.",
		Schema: schema.Schema{
			schema.String("path", "Directory path relative to the workspace").Def(""),
		},
		Handler: func(_ context.Context, args map[string]any) (domain.Result, error) {
			path, _ := args["path"].(string)
			abs, err := t.resolve(path)
			if err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}

			info, err := os.Stat(abs)
			if os.IsNotExist(err) {
				return fail("file_not_found", "%s", path), nil
			}
			if err == nil && !info.IsDir() {
				return fail("not_a_directory", "%s", path), nil
			}

			entries, err := os.ReadDir(abs)
			if err != nil {
				return fail("read_failed", "%s: %v", path, err), nil
			}

			var b strings.Builder
			for _, e := range entries {
				if e.IsDir() {
					fmt.Fprintf(&b, "%s/\n", e.Name())
				} else {
					fmt.Fprintf(&b, "%s\n", e.Name())
				}
			}
			return domain.TextResult(strings.TrimRight(b.String(), "\n")), nil
		},
	}
}

func (t *Toolset) makeDirectory() registry.Definition {
	return registry.Definition{
		Name:        "make_directory",
		Description: "Create a directory, including missing parents.",
		Schema: schema.Schema{
			schema.String("path", "Directory path relative to the workspace").Req(),
		},
		Handler: func(_ context.Context, args map[string]any) (domain.Result, error) {
			path, _ := args["path"].(string)
			abs, err := t.resolve(path)
			if err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}

			if info, err := os.Stat(abs); err == nil {
				if info.IsDir() {
					return fail("destination_exists", "%s", path), nil
				}
				return fail("not_a_directory", "%s exists and is a file", path), nil
			}

			if err := os.MkdirAll(abs, 0o755); err != nil {
				return fail("mkdir_failed", "%s: %v", path, err), nil
			}
			return domain.TextResult(fmt.Sprintf("created %s", path)), nil
		},
	}
}

func (t *Toolset) removeDirectory() registry.Definition {
	return registry.Definition{
		Name:        "remove_directory",
		Description: "Remove a directory; empty only unless recursive.",
		Schema: schema.Schema{
			schema.String("path", "Directory path relative to the workspace").Req(),
			schema.Bool("recursive", "Remove contents recursively").Def(false),
		},
		Handler: func(_ context.Context, args map[string]any) (domain.Result, error) {
			var in struct {
				Path      string `json:"path"`
				Recursive bool   `json:"recursive"`
			}
			if err := tools.Decode(args, &in); err != nil {
				return domain.Result{}, err
			}
			abs, err := t.resolve(in.Path)
			if err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}

			info, err := os.Stat(abs)
			if os.IsNotExist(err) {
				return fail("file_not_found", "%s", in.Path), nil
			}
			if err == nil && !info.IsDir() {
				return fail("not_a_directory", "%s", in.Path), nil
			}

			if in.Recursive {
				err = os.RemoveAll(abs)
			} else {
				err = os.Remove(abs)
			}
			if err != nil {
				return fail("rmdir_failed", "%s: %v", in.Path, err), nil
			}
			return domain.TextResult(fmt.Sprintf("removed %s", in.Path)), nil
		},
	}
}

func copyContents(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
