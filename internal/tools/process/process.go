// Package process implements the tools that spawn external programs:
// Flutter, Composer/Artisan, npm and git. Commands are executed as argument
// vectors with an explicit working directory; combined stdout and stderr is
// returned verbatim.
package process

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"github.com/atelierlabs/workbench/internal/config"
	"github.com/atelierlabs/workbench/internal/tools"
	"github.com/atelierlabs/workbench/pkg/domain"
	"github.com/atelierlabs/workbench/pkg/registry"
	"github.com/atelierlabs/workbench/pkg/schema"
)

// Toolset exposes the process-spawning tools.
type Toolset struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New creates the process toolset.
func New(cfg *config.Config, logger *slog.Logger) *Toolset {
	return &Toolset{cfg: cfg, logger: logger}
}

// run executes one command under the workspace and envelopes the outcome.
// There is no default timeout: a hanging external command hangs the call,
// bounded only by ctx.
func (t *Toolset) run(ctx context.Context, dir, bin string, args ...string) (domain.Result, error) {
	workdir, err := tools.Resolve(t.cfg.Workspace, dir)
	if err != nil {
		return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = workdir

	t.logger.Debug("spawning", "bin", bin, "args", args, "dir", workdir)
	out, err := cmd.CombinedOutput()
	output := strings.TrimSpace(string(out))

	if err != nil {
		msg := fmt.Sprintf("%s failed: %v", bin, err)
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg = fmt.Sprintf("%s exited with code %d", bin, exitErr.ExitCode())
		}
		if output != "" {
			msg += "\n" + output
		}
		return domain.ErrorResult(domain.FailureExecution, msg), nil
	}

	return domain.TextResult(output), nil
}

// Register adds all process tools to reg.
func (t *Toolset) Register(reg *registry.Registry) error {
	return reg.RegisterAll(
		t.flutterCreate(),
		t.flutterPubGet(),
		t.flutterBuild(),
		t.flutterDoctor(),
		t.composerInstall(),
		t.artisanCommand(),
		t.npmInstall(),
		t.npmRunScript(),
		t.gitStatus(),
		t.gitAdd(),
		t.gitCommit(),
		t.gitLog(),
		t.runCommand(),
	)
}

func (t *Toolset) flutterCreate() registry.Definition {
	return registry.Definition{
		Name:        "flutter_create",
		Description: "Create a new Flutter project in the workspace.",
		Schema: schema.Schema{
			schema.String("project_name", "Name of the project directory to create").Req(),
			schema.String("org", "Organization in reverse domain notation").Def("com.example"),
			schema.StringSlice("platforms", "Target platforms (e.g. android, ios, web)"),
		},
		Handler: func(ctx context.Context, args map[string]any) (domain.Result, error) {
			var in struct {
				ProjectName string   `json:"project_name"`
				Org         string   `json:"org"`
				Platforms   []string `json:"platforms"`
			}
			if err := tools.Decode(args, &in); err != nil {
				return domain.Result{}, err
			}
			if err := checkArg("project_name", in.ProjectName); err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}
			if err := checkArg("org", in.Org); err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}

			cmdArgs := []string{"create", "--org", in.Org}
			if len(in.Platforms) > 0 {
				if err := checkArgs("platforms", in.Platforms); err != nil {
					return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
				}
				cmdArgs = append(cmdArgs, "--platforms", strings.Join(in.Platforms, ","))
			}
			cmdArgs = append(cmdArgs, in.ProjectName)
			return t.run(ctx, "", "flutter", cmdArgs...)
		},
	}
}

func (t *Toolset) flutterPubGet() registry.Definition {
	return registry.Definition{
		Name:        "flutter_pub_get",
		Description: "Fetch dependencies for a Flutter project.",
		Schema: schema.Schema{
			schema.String("project_path", "Project directory relative to the workspace").Req(),
		},
		Handler: func(ctx context.Context, args map[string]any) (domain.Result, error) {
			var in struct {
				ProjectPath string `json:"project_path"`
			}
			if err := tools.Decode(args, &in); err != nil {
				return domain.Result{}, err
			}
			return t.run(ctx, in.ProjectPath, "flutter", "pub", "get")
		},
	}
}

func (t *Toolset) flutterBuild() registry.Definition {
	return registry.Definition{
		Name:        "flutter_build",
		Description: "Build a Flutter project for a target platform.",
		Schema: schema.Schema{
			schema.String("project_path", "Project directory relative to the workspace").Req(),
			schema.Enum("target", "Build target", "apk", "appbundle", "ios", "web", "macos", "linux", "windows").Req(),
			schema.Bool("release", "Build in release mode").Def(true),
		},
		Handler: func(ctx context.Context, args map[string]any) (domain.Result, error) {
			var in struct {
				ProjectPath string `json:"project_path"`
				Target      string `json:"target"`
				Release     bool   `json:"release"`
			}
			if err := tools.Decode(args, &in); err != nil {
				return domain.Result{}, err
			}
			cmdArgs := []string{"build", in.Target}
			if in.Release {
				cmdArgs = append(cmdArgs, "--release")
			} else {
				cmdArgs = append(cmdArgs, "--debug")
			}
			return t.run(ctx, in.ProjectPath, "flutter", cmdArgs...)
		},
	}
}

func (t *Toolset) flutterDoctor() registry.Definition {
	return registry.Definition{
		Name:        "flutter_doctor",
		Description: "Run flutter doctor and report environment status.",
		Schema:      schema.Schema{},
		Handler: func(ctx context.Context, _ map[string]any) (domain.Result, error) {
			return t.run(ctx, "", "flutter", "doctor", "-v")
		},
	}
}

func (t *Toolset) composerInstall() registry.Definition {
	return registry.Definition{
		Name:        "composer_install",
		Description: "Install PHP dependencies with Composer.",
		Schema: schema.Schema{
			schema.String("project_path", "Project directory relative to the workspace").Req(),
			schema.Bool("no_dev", "Skip development dependencies").Def(false),
		},
		Handler: func(ctx context.Context, args map[string]any) (domain.Result, error) {
			var in struct {
				ProjectPath string `json:"project_path"`
				NoDev       bool   `json:"no_dev"`
			}
			if err := tools.Decode(args, &in); err != nil {
				return domain.Result{}, err
			}
			cmdArgs := []string{"install", "--no-interaction"}
			if in.NoDev {
				cmdArgs = append(cmdArgs, "--no-dev")
			}
			return t.run(ctx, in.ProjectPath, "composer", cmdArgs...)
		},
	}
}

func (t *Toolset) artisanCommand() registry.Definition {
	return registry.Definition{
		Name:        "artisan_command",
		Description: "Run an allow-listed Laravel artisan command.",
		Schema: schema.Schema{
			schema.String("project_path", "Laravel project directory relative to the workspace").Req(),
			schema.String("command", "Artisan subcommand (e.g. migrate, route:list)").Req(),
			schema.StringSlice("arguments", "Additional arguments passed to artisan"),
		},
		Handler: func(ctx context.Context, args map[string]any) (domain.Result, error) {
			var in struct {
				ProjectPath string   `json:"project_path"`
				Command     string   `json:"command"`
				Arguments   []string `json:"arguments"`
			}
			if err := tools.Decode(args, &in); err != nil {
				return domain.Result{}, err
			}
			if !t.cfg.ArtisanAllowed(in.Command) {
				return domain.Errorf(domain.FailureExecution, "artisan command %q is not allow-listed", in.Command), nil
			}
			if err := checkArgs("arguments", in.Arguments); err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}
			cmdArgs := append([]string{"artisan", in.Command, "--no-interaction"}, in.Arguments...)
			return t.run(ctx, in.ProjectPath, "php", cmdArgs...)
		},
	}
}

func (t *Toolset) npmInstall() registry.Definition {
	return registry.Definition{
		Name:        "npm_install",
		Description: "Install npm dependencies, optionally a single package.",
		Schema: schema.Schema{
			schema.String("project_path", "Project directory relative to the workspace").Req(),
			schema.String("package", "Package to add; empty installs from the lockfile"),
			schema.Bool("dev", "Save as a development dependency").Def(false),
		},
		Handler: func(ctx context.Context, args map[string]any) (domain.Result, error) {
			var in struct {
				ProjectPath string `json:"project_path"`
				Package     string `json:"package"`
				Dev         bool   `json:"dev"`
			}
			if err := tools.Decode(args, &in); err != nil {
				return domain.Result{}, err
			}
			cmdArgs := []string{"install"}
			if in.Package != "" {
				if err := checkArg("package", in.Package); err != nil {
					return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
				}
				cmdArgs = append(cmdArgs, in.Package)
				if in.Dev {
					cmdArgs = append(cmdArgs, "--save-dev")
				}
			}
			return t.run(ctx, in.ProjectPath, "npm", cmdArgs...)
		},
	}
}

func (t *Toolset) npmRunScript() registry.Definition {
	return registry.Definition{
		Name:        "npm_run_script",
		Description: "Run a script from package.json.",
		Schema: schema.Schema{
			schema.String("project_path", "Project directory relative to the workspace").Req(),
			schema.String("script", "Script name as declared in package.json").Req(),
		},
		Handler: func(ctx context.Context, args map[string]any) (domain.Result, error) {
			var in struct {
				ProjectPath string `json:"project_path"`
				Script      string `json:"script"`
			}
			if err := tools.Decode(args, &in); err != nil {
				return domain.Result{}, err
			}
			if err := checkArg("script", in.Script); err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}
			return t.run(ctx, in.ProjectPath, "npm", "run", in.Script)
		},
	}
}

func (t *Toolset) gitStatus() registry.Definition {
	return registry.Definition{
		Name:        "git_status",
		Description: "Show the working tree status of a repository.",
		Schema: schema.Schema{
			schema.String("repo_path", "Repository directory relative to the workspace").Req(),
		},
		Handler: func(ctx context.Context, args map[string]any) (domain.Result, error) {
			var in struct {
				RepoPath string `json:"repo_path"`
			}
			if err := tools.Decode(args, &in); err != nil {
				return domain.Result{}, err
			}
			return t.run(ctx, in.RepoPath, "git", "status", "--porcelain=v1", "--branch")
		},
	}
}

func (t *Toolset) gitAdd() registry.Definition {
	return registry.Definition{
		Name:        "git_add",
		Description: "Stage files in a repository.",
		Schema: schema.Schema{
			schema.String("repo_path", "Repository directory relative to the workspace").Req(),
			schema.StringSlice("paths", "Paths to stage").Def([]string{"."}),
		},
		Handler: func(ctx context.Context, args map[string]any) (domain.Result, error) {
			var in struct {
				RepoPath string   `json:"repo_path"`
				Paths    []string `json:"paths"`
			}
			if err := tools.Decode(args, &in); err != nil {
				return domain.Result{}, err
			}
			if err := checkArgs("paths", in.Paths); err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}
			cmdArgs := append([]string{"add", "--"}, in.Paths...)
			return t.run(ctx, in.RepoPath, "git", cmdArgs...)
		},
	}
}

func (t *Toolset) gitCommit() registry.Definition {
	return registry.Definition{
		Name:        "git_commit",
		Description: "Create a commit from the staged changes.",
		Schema: schema.Schema{
			schema.String("repo_path", "Repository directory relative to the workspace").Req(),
			schema.String("message", "Commit message").Req(),
		},
		Handler: func(ctx context.Context, args map[string]any) (domain.Result, error) {
			var in struct {
				RepoPath string `json:"repo_path"`
				Message  string `json:"message"`
			}
			if err := tools.Decode(args, &in); err != nil {
				return domain.Result{}, err
			}
			// The message goes through argv, not a shell, so spaces and
			// quotes are fine; only control metacharacters are rejected.
			if err := checkArg("message", in.Message); err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}
			return t.run(ctx, in.RepoPath, "git", "commit", "-m", in.Message)
		},
	}
}

func (t *Toolset) gitLog() registry.Definition {
	return registry.Definition{
		Name:        "git_log",
		Description: "Show recent commit history.",
		Schema: schema.Schema{
			schema.String("repo_path", "Repository directory relative to the workspace").Req(),
			schema.Number("limit", "Number of commits to show").Def(float64(10)),
		},
		Handler: func(ctx context.Context, args map[string]any) (domain.Result, error) {
			var in struct {
				RepoPath string  `json:"repo_path"`
				Limit    float64 `json:"limit"`
			}
			if err := tools.Decode(args, &in); err != nil {
				return domain.Result{}, err
			}
			limit := int(in.Limit)
			if limit <= 0 {
				limit = 10
			}
			return t.run(ctx, in.RepoPath, "git", "log", "--oneline", "-n", strconv.Itoa(limit))
		},
	}
}

func (t *Toolset) runCommand() registry.Definition {
	return registry.Definition{
		Name:        "run_command",
		Description: "Run an allow-listed binary with arguments.",
		Schema: schema.Schema{
			schema.String("command", "Binary name; must be on the configured allow-list").Req(),
			schema.StringSlice("arguments", "Arguments passed to the binary"),
			schema.String("dir", "Working directory relative to the workspace"),
		},
		Handler: func(ctx context.Context, args map[string]any) (domain.Result, error) {
			var in struct {
				Command   string   `json:"command"`
				Arguments []string `json:"arguments"`
				Dir       string   `json:"dir"`
			}
			if err := tools.Decode(args, &in); err != nil {
				return domain.Result{}, err
			}
			if !t.cfg.CommandAllowed(in.Command) {
				return domain.Errorf(domain.FailureExecution, "command %q is not allow-listed", in.Command), nil
			}
			if err := checkArgs("arguments", in.Arguments); err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}
			return t.run(ctx, in.Dir, in.Command, in.Arguments...)
		},
	}
}
