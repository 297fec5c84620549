package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/company/ember-less/internal/config"
	"github.com/company/ember-less/internal/detect"
	"github.com/company/ember-less/internal/exitcodes"
	"github.com/company/ember-less/internal/generator"
	"github.com/company/ember-less/internal/ui"
)

// App is the dependency container for all CLI commands.
type App struct {
	rootCmd    *cobra.Command
	version    string
	commit     string
	date       string
	fs         afero.Fs
	config     *config.Config
	output     *ui.Output
	settings   *Settings
	projectDir string
	debug      bool
	noColor    bool

	// Overridden by tests.
	newDriver    func() driver
	newInstaller func() generator.Installer
	interactive  func() bool
	newDetector  func() *detect.Detector
}

// NewApp creates the root command and registers all subcommands.
func NewApp(version, commit, date string) *App {
	app := &App{
		version:  version,
		commit:   commit,
		date:     date,
		fs:       afero.NewOsFs(),
		output:   ui.NewOutput(),
		settings: NewSettings(),
	}
	app.newDriver = defaultDriver
	app.newInstaller = defaultInstaller
	app.interactive = defaultInteractive
	app.newDetector = detect.NewDetector

	root := &cobra.Command{
		Use:   "ember-less",
		Short: "Scaffold Ember applications styled with LESS",
		Long:  "Generates an Ember project with Bootstrap, LESS, Grunt and Bower wiring from a short set of questions.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.settings.Apply(cmd); err != nil {
				return &ExitError{Code: exitcodes.UsageError, Message: err.Error()}
			}
			app.output.SetNoColor(app.noColor)
			ui.SetupLogging(app.debug)

			// Commands that need the config call RequireProject.
			_ = app.LoadProjectConfig()
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&app.projectDir, "dir", ".", "project directory (overrides EMBER_LESS_DIR)")
	root.PersistentFlags().BoolVar(&app.debug, "debug", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&app.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		app.newNewCmd(),
		app.newDoctorCmd(),
		app.newVerifyCmd(),
		app.newListCmd(),
		app.newVersionCmd(),
	)

	app.rootCmd = root
	return app
}

// Execute runs the root command.
func (a *App) Execute() error {
	return a.ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx. Prompts and dependency
// installation stop when ctx is cancelled.
func (a *App) ExecuteContext(ctx context.Context) error {
	return mapError(a.rootCmd.ExecuteContext(ctx))
}

// LoadProjectConfig loads ember-less.yml from the project directory. Returns
// nil error if no config is found.
func (a *App) LoadProjectConfig() error {
	if !config.ConfigExists(a.fs, a.projectDir) {
		return nil
	}
	c, err := config.LoadConfig(a.fs, a.projectDir)
	if err != nil {
		return err
	}
	a.config = c
	return nil
}

// RequireProject loads config and returns an error if it doesn't exist.
func (a *App) RequireProject() error {
	if a.config == nil {
		if err := a.LoadProjectConfig(); err != nil {
			return &ExitError{Code: exitcodes.ConfigError, Message: err.Error()}
		}
	}
	if a.config == nil {
		return &ExitError{
			Code:    exitcodes.ConfigError,
			Message: "no " + config.ConfigFile + " found, run 'ember-less new' first",
		}
	}
	return nil
}

func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			a.output.Info("ember-less %s (commit: %s, built: %s)", a.version, a.commit, a.date)
		},
	}
}

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// mapError turns domain errors into an ExitError with the matching code.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	code := exitcodes.GeneralError
	switch {
	case errors.Is(err, config.ErrInvalidInput):
		code = exitcodes.ValidationError
	case errors.Is(err, generator.ErrIO):
		code = exitcodes.IOError
	}
	return &ExitError{Code: code, Message: err.Error()}
}

// debugf logs a debug message through the structured logger.
func (a *App) debugf(format string, args ...any) {
	ui.Debug(fmt.Sprintf(format, args...))
}
