package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/company/ember-less/internal/cli"
	"github.com/company/ember-less/internal/exitcodes"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx)
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	app := cli.NewApp(version, commit, date)
	err := app.ExecuteContext(ctx)
	if err == nil {
		return exitcodes.Success
	}

	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		fmt.Fprintf(os.Stderr, "ember-less: %s\n", exitErr.Message)
		return exitErr.Code
	}
	fmt.Fprintf(os.Stderr, "ember-less: %v\n", err)
	return exitcodes.GeneralError
}
