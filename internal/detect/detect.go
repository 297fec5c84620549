// Package detect inspects the toolchain and the state of a generated project.
package detect

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/company/ember-less/internal/installer"
)

// Tool is an external program a generated project needs.
type Tool struct {
	Name    string
	Command string
	Args    []string
	// Minimum is a semver constraint, e.g. ">= 0.10".
	Minimum string
}

// Tools returns the programs checked by doctor.
func Tools() []Tool {
	return []Tool{
		{Name: "node", Command: "node", Args: []string{"--version"}, Minimum: ">= 0.10"},
		{Name: "npm", Command: "npm", Args: []string{"--version"}, Minimum: ">= 1.3"},
		{Name: "bower", Command: "bower", Args: []string{"--version"}, Minimum: ">= 1.0"},
		{Name: "grunt-cli", Command: "grunt", Args: []string{"--version"}, Minimum: ">= 0.1"},
	}
}

// ToolResult is the outcome of checking one tool.
type ToolResult struct {
	Tool    Tool
	Found   bool
	Version string
	OK      bool
	Err     error
}

// Detector runs version commands through a Runner.
type Detector struct {
	Runner installer.Runner
}

// NewDetector returns a Detector using os/exec.
func NewDetector() *Detector {
	return &Detector{Runner: installer.ExecRunner{}}
}

// Detect checks every tool in order.
func (d *Detector) Detect(ctx context.Context, tools []Tool) []ToolResult {
	results := make([]ToolResult, 0, len(tools))
	for _, t := range tools {
		results = append(results, d.check(ctx, t))
	}
	return results
}

func (d *Detector) check(ctx context.Context, t Tool) ToolResult {
	result := ToolResult{Tool: t}

	out, err := d.Runner.Run(ctx, "", t.Command, t.Args...)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return result
		}
		result.Found = true
		result.Err = fmt.Errorf("%s %s: %w", t.Command, strings.Join(t.Args, " "), err)
		return result
	}
	result.Found = true

	v, err := ParseVersion(string(out))
	if err != nil {
		result.Err = err
		return result
	}
	result.Version = v.String()

	ok, err := Satisfies(v, t.Minimum)
	if err != nil {
		result.Err = err
		return result
	}
	result.OK = ok
	return result
}

var versionPattern = regexp.MustCompile(`v?(\d+(?:\.\d+){0,2})`)

// ParseVersion extracts the first version number from command output such
// as "v0.10.48" or "grunt-cli v1.4.3".
func ParseVersion(output string) (*semver.Version, error) {
	m := versionPattern.FindStringSubmatch(output)
	if m == nil {
		return nil, fmt.Errorf("no version in %q", strings.TrimSpace(output))
	}
	v, err := semver.NewVersion(m[1])
	if err != nil {
		return nil, fmt.Errorf("parsing version %q: %w", m[1], err)
	}
	return v, nil
}

// Satisfies reports whether v meets constraint.
func Satisfies(v *semver.Version, constraint string) (bool, error) {
	if constraint == "" {
		return true, nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("invalid constraint %q: %w", constraint, err)
	}
	return c.Check(v), nil
}
