package cli

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/company/ember-less/internal/config"
	"github.com/company/ember-less/internal/detect"
	"github.com/company/ember-less/internal/document"
	"github.com/company/ember-less/internal/filemanager"
	"github.com/company/ember-less/internal/generator"
	"github.com/company/ember-less/internal/resolver"
)

func (a *App) newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose common issues",
		Long:  "Checks the saved answers, the generated index.html, the script order, the toolchain and the installed dependencies.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDoctor(cmd.Context())
		},
	}
}

func (a *App) runDoctor(ctx context.Context) error {
	allOK := true

	// 0. Yeoman answers
	if config.LegacyExists(a.fs, a.projectDir) {
		a.output.Warning("Old %s detected, 'ember-less new' imports its answers", config.LegacyFile)
	}

	// 1. Config file
	if config.ConfigExists(a.fs, a.projectDir) {
		a.output.Success("%s found", config.ConfigFile)
	} else {
		a.output.Error("%s not found, run: ember-less new", config.ConfigFile)
		return nil // Can't check further without config
	}

	if err := a.LoadProjectConfig(); err != nil {
		a.output.Error("Config file invalid: %v", err)
		return nil
	}
	if err := config.ValidateConfig(a.config); err != nil {
		a.output.Error("Config answers invalid: %v", err)
		allOK = false
	}

	// 2. Document markers
	indexPath := filepath.Join(a.projectDir, filepath.FromSlash(generator.IndexFile))
	marks := document.VerifyFile(a.fs, indexPath)
	switch {
	case marks.OK():
		a.output.Success("%s has both insertion markers", generator.IndexFile)
	case marks.Exists:
		a.output.Error("%s is missing an insertion marker (styles: %t, scripts: %t)", generator.IndexFile, marks.HasStyles, marks.HasScripts)
		allOK = false
	default:
		a.output.Error("%s not found, run: ember-less new", generator.IndexFile)
		allOK = false
	}

	// 3. Script order
	if marks.Exists {
		if err := a.checkScriptOrder(indexPath); err != nil {
			a.output.Error("Script order: %v", err)
			allOK = false
		} else {
			a.output.Success("Scripts load after their dependencies")
		}
	}

	// 4. Toolchain
	for _, r := range a.newDetector().Detect(ctx, detect.Tools()) {
		switch {
		case !r.Found:
			a.output.Error("%s not found on PATH", r.Tool.Name)
			allOK = false
		case r.Err != nil:
			a.output.Error("%s: %v", r.Tool.Name, r.Err)
			allOK = false
		case !r.OK:
			a.output.Error("%s %s does not satisfy %s", r.Tool.Name, r.Version, r.Tool.Minimum)
			allOK = false
		default:
			a.output.Success("%s %s", r.Tool.Name, r.Version)
		}
	}

	// 5. Installed dependencies
	project, err := detect.DetectProject(a.fs, a.projectDir)
	if err != nil {
		a.output.Error("Project manifests: %v", err)
		allOK = false
	} else if !project.Installed() {
		a.output.Warning("Dependencies not installed (node_modules: %t, %s: %t), run: npm install && bower install",
			project.NodeModules, project.BowerDir, project.ComponentsPresent)
	} else {
		a.output.Success("node_modules and %s present", project.BowerDir)
	}

	// 6. Hash verification
	if len(a.config.Generated) > 0 {
		result := filemanager.VerifyGenerated(a.fs, a.projectDir, a.config.Generated)
		if result.OK {
			a.output.Success("All %d generated files match", result.Checked)
		} else {
			a.output.Error("%d generated files changed or missing, see: ember-less verify", len(result.Missing)+len(result.Modified))
			allOK = false
		}
	}

	if allOK {
		a.output.Println("")
		a.output.Success("Everything looks good!")
	}

	return nil
}

// checkScriptOrder reads the written document and checks every script in its
// bundles against the library catalog.
func (a *App) checkScriptOrder(path string) error {
	data, err := afero.ReadFile(a.fs, path)
	if err != nil {
		return err
	}
	bundles, err := document.ParseBundles(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parsing build blocks: %w", err)
	}

	var scripts []string
	for _, b := range bundles {
		if b.Kind == document.JS {
			scripts = append(scripts, b.Sources...)
		}
	}
	return resolver.NewResolver(resolver.Catalog()).CheckOrder(scripts)
}
