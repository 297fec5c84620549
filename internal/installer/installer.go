// Package installer runs the package managers of a generated project.
package installer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes an external command in dir and returns its combined output.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes name with args in dir.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return out.Bytes(), fmt.Errorf("exit code %d", exitErr.ExitCode())
		}
		return out.Bytes(), err
	}
	return out.Bytes(), nil
}

// Command is one package manager invocation.
type Command struct {
	Name string
	Args []string
}

func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// DefaultCommands installs node modules, then bower components.
func DefaultCommands() []Command {
	return []Command{
		{Name: "npm", Args: []string{"install"}},
		{Name: "bower", Args: []string{"install"}},
	}
}

// DelegateFailure reports a package manager that did not succeed. File
// generation is already complete when it happens, so callers treat it as a
// warning.
type DelegateFailure struct {
	Command string
	Output  string
	Err     error
}

func (e *DelegateFailure) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Command, e.Err)
}

func (e *DelegateFailure) Unwrap() error {
	return e.Err
}

// Installer runs Commands in order, stopping at the first failure.
type Installer struct {
	Runner   Runner
	Commands []Command
}

// New returns an Installer running npm install and bower install.
func New() *Installer {
	return &Installer{Runner: ExecRunner{}, Commands: DefaultCommands()}
}

// Install runs every command in dir. A failure is returned as *DelegateFailure.
func (i *Installer) Install(ctx context.Context, dir string) error {
	for _, c := range i.Commands {
		out, err := i.Runner.Run(ctx, dir, c.Name, c.Args...)
		if err != nil {
			return &DelegateFailure{
				Command: c.String(),
				Output:  strings.TrimSpace(string(out)),
				Err:     err,
			}
		}
	}
	return nil
}
