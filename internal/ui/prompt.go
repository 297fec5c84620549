package ui

import (
	"context"
	"os"

	"github.com/charmbracelet/huh"
)

// IsCI returns true if running in a CI environment.
// gitlab-ci-local sets GITLAB_CI=false, which should not be treated as CI.
func IsCI() bool {
	return isTruthy(os.Getenv("CI")) ||
		isTruthy(os.Getenv("EMBER_LESS_CI")) ||
		isTruthy(os.Getenv("GITHUB_ACTIONS")) ||
		isTruthy(os.Getenv("GITLAB_CI"))
}

func isTruthy(v string) bool {
	return v != "" && v != "false" && v != "0"
}

// HuhDriver asks questions on the terminal with huh forms.
// It satisfies collector.Driver.
type HuhDriver struct {
	Accessible bool
}

// NewHuhDriver returns a terminal prompt driver.
func NewHuhDriver() *HuhDriver {
	return &HuhDriver{Accessible: isTruthy(os.Getenv("ACCESSIBLE"))}
}

func (d *HuhDriver) run(ctx context.Context, field huh.Field) error {
	return huh.NewForm(huh.NewGroup(field)).
		WithAccessible(d.Accessible).
		RunWithContext(ctx)
}

// Input asks a free-text question.
func (d *HuhDriver) Input(ctx context.Context, message, def string) (string, error) {
	value := def
	err := d.run(ctx, huh.NewInput().
		Title(message).
		Placeholder(def).
		Value(&value))
	if err != nil {
		return "", err
	}
	if value == "" {
		value = def
	}
	return value, nil
}

// Select asks a single-choice question.
func (d *HuhDriver) Select(ctx context.Context, message string, choices []string, def string) (string, error) {
	value := def
	err := d.run(ctx, huh.NewSelect[string]().
		Title(message).
		Options(huh.NewOptions(choices...)...).
		Value(&value))
	return value, err
}

// Confirm asks a yes/no question.
func (d *HuhDriver) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	value := def
	err := d.run(ctx, huh.NewConfirm().
		Title(message).
		Affirmative("Yes").
		Negative("No").
		Value(&value))
	return value, err
}
