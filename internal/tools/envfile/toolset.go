package envfile

import (
	"context"
	"fmt"
	"strings"

	"github.com/atelierlabs/workbench/internal/config"
	"github.com/atelierlabs/workbench/internal/tools"
	"github.com/atelierlabs/workbench/pkg/domain"
	"github.com/atelierlabs/workbench/pkg/registry"
	"github.com/atelierlabs/workbench/pkg/schema"
)

// Toolset exposes the env-file tools.
type Toolset struct {
	cfg *config.Config
}

// New creates the env-file toolset.
func New(cfg *config.Config) *Toolset {
	return &Toolset{cfg: cfg}
}

// Register adds all env-file tools to reg.
func (t *Toolset) Register(reg *registry.Registry) error {
	return reg.RegisterAll(
		t.envRead(),
		t.envSet(),
		t.envDelete(),
		t.versionBump(),
	)
}

func (t *Toolset) resolve(path string) (string, error) {
	return tools.Resolve(t.cfg.Workspace, path)
}

func (t *Toolset) envRead() registry.Definition {
	return registry.Definition{
		Name:        "env_read",
		Description: "Read all KEY=VALUE pairs from an env file.",
		Schema: schema.Schema{
			schema.String("path", "Env file path relative to the workspace").Def(".env"),
		},
		Handler: func(_ context.Context, args map[string]any) (domain.Result, error) {
			path, _ := args["path"].(string)
			abs, err := t.resolve(path)
			if err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}

			f, err := Load(abs)
			if err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}

			var b strings.Builder
			for _, line := range f.Lines {
				if line.Key == "" {
					continue
				}
				fmt.Fprintf(&b, "%s=%s\n", line.Key, line.Value)
			}
			return domain.TextResult(strings.TrimRight(b.String(), "\n")), nil
		},
	}
}

func (t *Toolset) envSet() registry.Definition {
	return registry.Definition{
		Name:        "env_set",
		Description: "Create or update one key in an env file. Other lines keep their order and content.",
		Schema: schema.Schema{
			schema.String("path", "Env file path relative to the workspace").Def(".env"),
			schema.String("key", "Key to set").Req(),
			schema.String("value", "Value to assign").Req(),
		},
		Handler: func(_ context.Context, args map[string]any) (domain.Result, error) {
			var in struct {
				Path  string `json:"path"`
				Key   string `json:"key"`
				Value string `json:"value"`
			}
			if err := tools.Decode(args, &in); err != nil {
				return domain.Result{}, err
			}
			if !ValidKey(in.Key) {
				return domain.Errorf(domain.FailureExecution, "invalid key %q", in.Key), nil
			}
			if strings.ContainsAny(in.Value, "\n\r") {
				return domain.Errorf(domain.FailureExecution, "value for %q must be a single line", in.Key), nil
			}

			abs, err := t.resolve(in.Path)
			if err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}
			f, err := Load(abs)
			if err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}

			f.Set(in.Key, in.Value)
			if err := f.Save(abs); err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}
			return domain.TextResult(fmt.Sprintf("%s=%s", in.Key, in.Value)), nil
		},
	}
}

func (t *Toolset) envDelete() registry.Definition {
	return registry.Definition{
		Name:        "env_delete",
		Description: "Remove one key from an env file.",
		Schema: schema.Schema{
			schema.String("path", "Env file path relative to the workspace").Def(".env"),
			schema.String("key", "Key to remove").Req(),
		},
		Handler: func(_ context.Context, args map[string]any) (domain.Result, error) {
			var in struct {
				Path string `json:"path"`
				Key  string `json:"key"`
			}
			if err := tools.Decode(args, &in); err != nil {
				return domain.Result{}, err
			}

			abs, err := t.resolve(in.Path)
			if err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}
			f, err := Load(abs)
			if err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}

			if !f.Delete(in.Key) {
				return domain.Errorf(domain.FailureExecution, "key %q not found in %s", in.Key, in.Path), nil
			}
			if err := f.Save(abs); err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}
			return domain.TextResult(fmt.Sprintf("deleted %s", in.Key)), nil
		},
	}
}

func (t *Toolset) versionBump() registry.Definition {
	return registry.Definition{
		Name:        "version_bump",
		Description: "Bump the semantic version stored in an env file. Initializes to 0.0.1 when absent.",
		Schema: schema.Schema{
			schema.String("path", "Env file path relative to the workspace").Def(".env"),
			schema.Enum("part", "Version part to increment", "major", "minor", "patch").Def("patch"),
		},
		Handler: func(_ context.Context, args map[string]any) (domain.Result, error) {
			var in struct {
				Path string `json:"path"`
				Part string `json:"part"`
			}
			if err := tools.Decode(args, &in); err != nil {
				return domain.Result{}, err
			}

			abs, err := t.resolve(in.Path)
			if err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}
			f, err := Load(abs)
			if err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}

			key := t.cfg.VersionKey
			next := InitialVersion
			if current, ok := f.Get(key); ok {
				v, err := ParseVersion(current)
				if err != nil {
					return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
				}
				next, err = v.Bump(in.Part)
				if err != nil {
					return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
				}
			}

			f.Set(key, next.String())
			if err := f.Save(abs); err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}
			return domain.TextResult(fmt.Sprintf("%s=%s", key, next)), nil
		},
	}
}
