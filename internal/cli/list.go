package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/company/ember-less/internal/generator"
	"github.com/company/ember-less/internal/ui"
)

func (a *App) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the bundles and scripts of the project",
		Long:  "Derives the bundles and the script manifest from ember-less.yml without writing anything.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList(cmd.Context())
		},
	}
}

func (a *App) runList(ctx context.Context) error {
	if err := a.RequireProject(); err != nil {
		return err
	}

	opts := generator.Options{
		TargetDir: a.projectDir,
		FS:        a.fs,
		DryRun:    true,
		Logger:    ui.Logger,
		Version:   a.version,
	}
	if saved := a.config.Options; saved != nil {
		opts.Coffee = saved.Coffee
		opts.TestFramework = saved.TestFramework
		opts.Karma = saved.Karma
	}

	gen, err := generator.New(a.config.Answers(), opts)
	if err != nil {
		return err
	}
	res, err := gen.Run(ctx)
	if err != nil {
		return err
	}

	a.output.Println("%s (%s, bootstrap: %t, components: %t)",
		a.config.Name, a.config.ModelLib, a.config.Bootstrap, a.config.Bootstrap && a.config.BootstrapComponents)
	a.output.Println("")
	a.printBundles(res.Bundles)

	a.output.Println("")
	a.output.Println("%d third-party scripts", len(res.Scripts))
	return nil
}
