package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh/spinner"
)

// WithSpinner runs fn behind a spinner titled title. Under CI, or when
// interactive is false, fn runs directly and nothing is drawn.
func WithSpinner(ctx context.Context, title string, interactive bool, fn func(context.Context) error) error {
	if !interactive || IsCI() {
		return fn(ctx)
	}

	var actionErr error
	err := spinner.New().
		Context(ctx).
		Title(title).
		Action(func() {
			actionErr = fn(ctx)
		}).
		Run()
	if err != nil {
		return fmt.Errorf("spinner: %w", err)
	}
	return actionErr
}
