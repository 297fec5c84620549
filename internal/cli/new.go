package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/company/ember-less/internal/collector"
	"github.com/company/ember-less/internal/config"
	"github.com/company/ember-less/internal/document"
	"github.com/company/ember-less/internal/exitcodes"
	"github.com/company/ember-less/internal/generator"
	"github.com/company/ember-less/internal/installer"
	"github.com/company/ember-less/internal/ui"
)

type driver = collector.Driver

func defaultDriver() driver {
	return ui.NewHuhDriver()
}

func defaultInstaller() generator.Installer {
	return installer.New()
}

func defaultInteractive() bool {
	return !ui.IsCI()
}

type newOptions struct {
	coffee        bool
	testFramework string
	karma         bool
	skipInstall   bool
	yes           bool
	dryRun        bool

	modelLib     string
	noBootstrap  bool
	noComponents bool
	noBootswatch bool
	noRsync      bool
}

func (a *App) newNewCmd() *cobra.Command {
	var opts newOptions

	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Generate a new Ember project",
		Long: "Asks for the project answers and scaffolds the project in --dir.\n" +
			"Answers stored in ember-less.yml (or a yeoman .yo-rc.json) are offered as defaults.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Saved options apply unless the flag was given.
			if a.config != nil && a.config.Options != nil {
				saved := a.config.Options
				if !cmd.Flags().Changed("coffee") {
					opts.coffee = saved.Coffee
				}
				if !cmd.Flags().Changed("karma") {
					opts.karma = saved.Karma
				}
				if !cmd.Flags().Changed("test-framework") && saved.TestFramework != "" {
					opts.testFramework = saved.TestFramework
				}
			}
			return a.runNew(cmd.Context(), args, opts)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.coffee, "coffee", false, "generate CoffeeScript instead of JavaScript")
	f.StringVar(&opts.testFramework, "test-framework", config.DefaultTestFramework, "test framework sub-generator (overrides EMBER_LESS_TEST_FRAMEWORK)")
	f.BoolVar(&opts.karma, "karma", false, "add the karma test harness")
	f.BoolVar(&opts.skipInstall, "skip-install", false, "do not run npm install and bower install")
	f.BoolVarP(&opts.yes, "yes", "y", false, "accept defaults without prompting")
	f.BoolVar(&opts.dryRun, "dry-run", false, "print the file plan and bundles without writing")
	f.StringVar(&opts.modelLib, "model-lib", "", "model library: ember-data or ember-model")
	f.BoolVar(&opts.noBootstrap, "no-bootstrap", false, "default to no Twitter Bootstrap")
	f.BoolVar(&opts.noComponents, "no-components", false, "default to no Bootstrap for Ember components")
	f.BoolVar(&opts.noBootswatch, "no-bootswatch", false, "default to no Bootswatch themes")
	f.BoolVar(&opts.noRsync, "no-rsync", false, "default to no rsync deployment")

	return cmd
}

func (a *App) runNew(ctx context.Context, args []string, opts newOptions) error {
	defaults, err := a.answerDefaults()
	if err != nil {
		return err
	}
	if err := seedDefaults(defaults, args, opts); err != nil {
		return err
	}

	interactive := a.interactive() && !opts.yes
	var d driver = collector.DefaultsDriver{}
	if interactive {
		d = a.newDriver()
	}

	cfg, err := collector.Collect(ctx, d, defaults)
	if err != nil {
		return err
	}
	a.debugf("answers collected: name=%s model_lib=%s bootstrap=%t", cfg.Name, cfg.ModelLib, cfg.Bootstrap)

	gen, err := generator.New(cfg, generator.Options{
		TargetDir:     a.projectDir,
		FS:            a.fs,
		Coffee:        opts.coffee,
		TestFramework: opts.testFramework,
		Karma:         opts.karma,
		SkipInstall:   opts.skipInstall,
		DryRun:        opts.dryRun,
		Installer:     &spinnerInstaller{inner: a.newInstaller(), interactive: interactive},
		Logger:        ui.Logger,
		Version:       a.version,
	})
	if err != nil {
		return err
	}

	res, err := gen.Run(ctx)
	if err != nil {
		return err
	}

	if opts.dryRun {
		a.printPlan(res)
		a.printBundles(res.Bundles)
		return nil
	}

	for _, w := range res.Warnings {
		a.output.Warning("%s", w)
	}
	a.output.Success("Generated %s with %d files in %s", cfg.Name, len(res.Files), a.output.Path(a.projectDir))
	if opts.skipInstall {
		a.output.Info("Run 'npm install && bower install' to fetch dependencies.")
	}
	a.output.Info("\nRemember to commit %s; 'ember-less verify' uses it.", config.ConfigFile)
	return nil
}

// answerDefaults returns the answers offered as defaults: the saved config,
// an imported yeoman answer file, or the built-in defaults.
func (a *App) answerDefaults() (*config.Config, error) {
	if a.config != nil {
		return a.config.Answers(), nil
	}
	if config.ConfigExists(a.fs, a.projectDir) {
		if err := a.LoadProjectConfig(); err != nil {
			return nil, &ExitError{Code: exitcodes.ConfigError, Message: err.Error()}
		}
		return a.config.Answers(), nil
	}
	if config.LegacyExists(a.fs, a.projectDir) {
		legacy, err := config.ImportLegacy(a.fs, a.projectDir)
		if err != nil {
			a.output.Warning("Ignoring %s: %v", config.LegacyFile, err)
		} else {
			a.debugf("imported answers from %s", config.LegacyFile)
			return legacy, nil
		}
	}
	return config.Defaults(a.projectDir), nil
}

// seedDefaults applies the name argument and the answer flags to defaults.
func seedDefaults(defaults *config.Config, args []string, opts newOptions) error {
	if len(args) == 1 {
		defaults.Name = strings.TrimSpace(args[0])
	}
	if opts.modelLib != "" {
		lib, err := config.ParseModelLib(opts.modelLib)
		if err != nil {
			return err
		}
		defaults.ModelLib = lib
	}
	if opts.noBootstrap {
		defaults.Bootstrap = false
	}
	if opts.noComponents {
		defaults.BootstrapComponents = false
	}
	if opts.noBootswatch {
		defaults.Bootswatch = false
	}
	if opts.noRsync {
		defaults.Rsync = false
		defaults.Deploy = nil
	}
	return nil
}

func (a *App) printPlan(res *generator.Result) {
	a.output.Println("File plan for %s:", a.output.Path(res.TargetDir))
	rows := make([][]string, 0, len(res.Plan))
	for _, op := range res.Plan {
		source := op.Source
		if source == "" {
			source = "-"
		}
		rows = append(rows, []string{string(op.Action), source, op.Dest})
	}
	a.output.Table([]string{"ACTION", "SOURCE", "DESTINATION"}, rows)
	a.output.Println("")
	a.output.Println("%s (nothing written)", generator.IndexFile)
}

func (a *App) printBundles(bundles []document.Bundle) {
	rows := make([][]string, 0, len(bundles))
	for _, b := range bundles {
		rows = append(rows, []string{b.Output, string(b.Kind), fmt.Sprintf("%d", len(b.Sources))})
	}
	a.output.Table([]string{"BUNDLE", "KIND", "SOURCES"}, rows)

	for _, b := range bundles {
		a.output.Println("")
		a.output.Println("%s:", b.Output)
		for _, s := range b.Sources {
			a.output.Println("  %s", s)
		}
	}
}

// spinnerInstaller shows a spinner while dependencies install.
type spinnerInstaller struct {
	inner       generator.Installer
	interactive bool
}

func (s *spinnerInstaller) Install(ctx context.Context, dir string) error {
	return ui.WithSpinner(ctx, "Installing dependencies (npm, bower)...", s.interactive, func(ctx context.Context) error {
		return s.inner.Install(ctx, dir)
	})
}
