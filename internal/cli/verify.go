package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/company/ember-less/internal/config"
	"github.com/company/ember-less/internal/document"
	"github.com/company/ember-less/internal/exitcodes"
	"github.com/company/ember-less/internal/filemanager"
	"github.com/company/ember-less/internal/generator"
)

func (a *App) newVerifyCmd() *cobra.Command {
	var allowEdits bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify generated files are intact",
		Long:  "CI command: compares generated files with the hashes in ember-less.yml and checks the index.html markers. Exit 0 = OK, exit 6 = failed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runVerify(allowEdits)
		},
	}

	cmd.Flags().BoolVar(&allowEdits, "allow-edits", false, "report modified files as warnings; only missing files fail")
	return cmd
}

func (a *App) runVerify(allowEdits bool) error {
	if err := a.RequireProject(); err != nil {
		return err
	}
	if len(a.config.Generated) == 0 {
		return &ExitError{
			Code:    exitcodes.ConfigError,
			Message: "no generated files recorded in " + config.ConfigFile + ", run 'ember-less new' first",
		}
	}

	result := filemanager.VerifyGenerated(a.fs, a.projectDir, a.config.Generated)
	marks := document.VerifyFile(a.fs, filepath.Join(a.projectDir, filepath.FromSlash(generator.IndexFile)))

	failed := len(result.Missing) > 0 || !marks.OK()
	if !allowEdits && len(result.Modified) > 0 {
		failed = true
	}

	if !failed {
		a.output.Success("All %d generated files verified", result.Checked)
		a.debugf("tree hash %s", filemanager.TreeHash(a.config.Generated))
		if len(result.Modified) > 0 {
			a.output.Warning("%d generated files were edited since generation", len(result.Modified))
		}
		return nil
	}

	a.output.Error("Verification failed")
	a.output.Println("")

	if len(result.Missing) > 0 {
		a.output.Println("Missing files:")
		for _, f := range result.Missing {
			a.output.Println("  %s", f)
		}
		a.output.Println("")
	}

	if len(result.Modified) > 0 {
		a.output.Println("Modified files (don't match the recorded hashes):")
		for _, f := range result.Modified {
			a.output.Println("  %s", f)
		}
		a.output.Println("")
	}

	if marks.Exists && !marks.OK() {
		a.output.Println("%s: ember-less insertion markers not found", generator.IndexFile)
		a.output.Println("")
	}

	a.output.Println("Run: ember-less new --yes to regenerate")

	return &ExitError{Code: exitcodes.VerifyFailed, Message: "verification failed"}
}
