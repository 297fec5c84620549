// Package generator scaffolds an Ember project: it plans and applies the file
// operations, enriches the HTML entry point with bundle references, writes it,
// records the answers and runs the package managers.
package generator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/company/ember-less/internal/config"
	"github.com/company/ember-less/internal/document"
	"github.com/company/ember-less/internal/filemanager"
	"github.com/company/ember-less/internal/resolver"
	"github.com/company/ember-less/internal/templates"
	"github.com/company/ember-less/internal/ui"
)

// IndexFile is the generated HTML entry point, relative to the target.
const IndexFile = "app/index.html"

// Bundle names written into the entry point.
const (
	StylesBundle     = "styles/main.css"
	ComponentsBundle = "scripts/components.js"
	TemplatesBundle  = "scripts/templates.js"
	MainBundle       = "scripts/main.js"
	PluginsBundle    = "scripts/plugins.js"
)

// BuildDir holds intermediate build output referenced by the template and
// main bundles.
const BuildDir = ".tmp"

// Installer installs the generated project's dependencies.
type Installer interface {
	Install(ctx context.Context, dir string) error
}

// Options are the invocation flags of a run.
type Options struct {
	TargetDir string
	FS        afero.Fs

	// Coffee switches script stubs to CoffeeScript.
	Coffee bool
	// TestFramework names the test framework hook. Defaults to mocha.
	TestFramework string
	// Karma adds the karma test harness files.
	Karma bool

	SkipInstall bool
	DryRun      bool

	Installer Installer
	Hooks     []Hook
	Renderer  *templates.Renderer
	Logger    *log.Logger

	// Version is stamped into the generated Gruntfile.
	Version string
}

// Step is one named unit of a run. Phase is the run state while it executes;
// When, if set, decides whether it runs at all.
type Step struct {
	Name  string
	Phase State
	When  func() bool
	Run   func(ctx context.Context) error
}

// Result summarizes a run.
type Result struct {
	TargetDir string
	State     State
	Plan      []Op
	Files     []string
	Scripts   []string
	Bundles   []document.Bundle
	Warnings  []string
}

// Generator holds the state of one project generation. The document and the
// script manifest live as long as the Generator: running it twice appends
// every bundle a second time.
type Generator struct {
	cfg      *config.Config
	opts     Options
	renderer *templates.Renderer
	resolver *resolver.Resolver
	data     templates.Data
	log      *log.Logger

	doc      *document.Document
	manifest *Manifest

	state    State
	plan     *Plan
	applied  int
	files    []string
	hashes   map[string]string
	warnings []string
}

// New validates cfg and loads the document template. Invalid answers are
// rejected here, before any file operation.
func New(cfg *config.Config, opts Options) (*Generator, error) {
	if cfg == nil {
		return nil, &config.ValidationError{Message: "no configuration"}
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	if opts.TargetDir == "" {
		opts.TargetDir = "."
	}
	if opts.FS == nil {
		opts.FS = afero.NewOsFs()
	}
	if opts.TestFramework == "" {
		opts.TestFramework = config.DefaultTestFramework
	}
	if opts.Hooks == nil {
		opts.Hooks = DefaultHooks(opts.TestFramework)
	}
	if opts.Logger == nil {
		opts.Logger = ui.Logger
	}
	if opts.Renderer == nil {
		r, err := templates.New()
		if err != nil {
			return nil, err
		}
		opts.Renderer = r
	}

	src, err := opts.Renderer.Read(templates.IndexTemplate)
	if err != nil {
		return nil, &IOError{Op: "read", Path: templates.IndexTemplate, Err: err}
	}
	doc, err := document.Load(src)
	if err != nil {
		return nil, &IOError{Op: "load", Path: templates.IndexTemplate, Err: err}
	}

	g := &Generator{
		cfg:      cfg,
		opts:     opts,
		renderer: opts.Renderer,
		resolver: resolver.NewResolver(resolver.Catalog()),
		data:     templateData(cfg, opts),
		log:      opts.Logger,
		doc:      doc,
		manifest: &Manifest{},
		state:    StateConfigured,
	}
	return g, nil
}

func templateData(cfg *config.Config, opts Options) templates.Data {
	d := templates.Data{
		Name:                cfg.Name,
		Namespace:           templates.Namespace(cfg.Name),
		ModelLib:            string(cfg.ModelLib),
		Bootstrap:           cfg.Bootstrap,
		BootstrapComponents: cfg.BootstrapComponents,
		Bootswatch:          cfg.Bootswatch,
		Rsync:               cfg.Rsync,
		Coffee:              opts.Coffee,
		TestFramework:       opts.TestFramework,
		Karma:               opts.Karma,
		Version:             opts.Version,
	}
	if cfg.Deploy != nil {
		d.DeployServer = cfg.Deploy.Server
		d.DeployUser = cfg.Deploy.User
		d.DeployDir = cfg.Deploy.Dir
	}
	return d
}

// State returns the current run state.
func (g *Generator) State() State {
	return g.state
}

// Document returns the in-memory entry point.
func (g *Generator) Document() *document.Document {
	return g.doc
}

// Manifest returns the script manifest.
func (g *Generator) Manifest() *Manifest {
	return g.manifest
}

// Run executes Steps in order. A failing step stops the run in StateFailed;
// already written files stay. Install failures do not fail the run and are
// reported in Result.Warnings.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	if g.state == StateFailed {
		return nil, errors.New("generator has already failed")
	}

	g.state = StateConfigured
	g.plan = &Plan{}
	g.applied = 0
	g.files = nil
	g.hashes = make(map[string]string)
	g.warnings = nil

	for _, s := range g.Steps() {
		if s.Phase > g.state {
			g.state = s.Phase
		}
		if s.When != nil && !s.When() {
			g.log.Debug("step skipped", "step", s.Name)
			continue
		}
		g.log.Debug("step", "step", s.Name, "state", g.state)
		if err := s.Run(ctx); err != nil {
			g.state = StateFailed
			return g.result(), fmt.Errorf("%s: %w", s.Name, err)
		}
	}

	g.state = StateDone
	return g.result(), nil
}

func (g *Generator) result() *Result {
	r := &Result{
		TargetDir: g.opts.TargetDir,
		State:     g.state,
		Scripts:   g.manifest.Paths(),
		Files:     append([]string(nil), g.files...),
		Warnings:  append([]string(nil), g.warnings...),
	}
	if g.plan != nil {
		r.Plan = g.plan.Ops()
	}
	if bundles, err := g.doc.Bundles(); err == nil {
		r.Bundles = bundles
	}
	return r
}

func (g *Generator) writing() bool {
	return !g.opts.DryRun
}

// Steps returns the ordered steps of a run.
func (g *Generator) Steps() []Step {
	cfg := g.cfg
	return []Step{
		{Name: "createDirLayout", Phase: StatePlanning, Run: g.planDirLayout},
		{Name: "git", Phase: StatePlanning, Run: g.planCopies(
			[2]string{"gitignore", ".gitignore"},
			[2]string{"gitattributes", ".gitattributes"},
		)},
		{Name: "bower", Phase: StatePlanning, Run: g.planCopies(
			[2]string{"bowerrc", ".bowerrc"},
			[2]string{"_bower.json", "bower.json"},
		)},
		{Name: "packageFile", Phase: StatePlanning, Run: g.planCopies([2]string{"_package.json", "package.json"})},
		{Name: "jshint", Phase: StatePlanning, Run: g.planCopies([2]string{"_jshintrc", ".jshintrc"})},
		{Name: "tests", Phase: StatePlanning, When: func() bool { return g.opts.Karma }, Run: g.planTestHarness},
		{Name: "editorConfig", Phase: StatePlanning, Run: g.planCopies([2]string{"editorconfig", ".editorconfig"})},
		{Name: "gruntfile", Phase: StatePlanning, Run: g.planRender("Gruntfile.js", "Gruntfile.js")},
		{Name: "templates", Phase: StatePlanning, Run: g.planCopies(
			[2]string{"hbs/application.hbs", "app/templates/application.hbs"},
			[2]string{"hbs/index.hbs", "app/templates/index.hbs"},
		)},
		{Name: "stylesheets", Phase: StatePlanning, Run: g.planStylesheets},
		{Name: "appScripts", Phase: StatePlanning, Run: g.planAppScripts},
		{Name: "applyPlan", Phase: StatePlanning, When: g.writing, Run: g.applyPending},
		{Name: "hooks", Phase: StatePlanning, Run: g.runHooks},

		{Name: "styles", Phase: StateEnriching, Run: g.enrichStyles},
		{Name: "baseScripts", Phase: StateEnriching, Run: g.enrichBaseScripts},
		{Name: "modelLibScript", Phase: StateEnriching, Run: g.enrichModelLib},
		{Name: "buildOutputRefs", Phase: StateEnriching, Run: g.enrichBuildOutputs},
		{Name: "frameworkPlugins", Phase: StateEnriching, When: func() bool { return cfg.Bootstrap }, Run: g.enrichFrameworkPlugins},
		// The component library needs the framework: without bootstrap it is
		// skipped whatever its own toggle says.
		{Name: "componentLibPlugins", Phase: StateEnriching, When: func() bool { return cfg.Bootstrap && cfg.BootstrapComponents }, Run: g.enrichComponentLib},
		{Name: "checkOrder", Phase: StateEnriching, Run: g.checkOrder},

		{Name: "write", Phase: StateWriting, When: g.writing, Run: g.writeIndex},
		{Name: "persist", Phase: StateWriting, When: g.writing, Run: g.persist},

		{Name: "install", Phase: StateInstalling, When: func() bool {
			return !g.opts.DryRun && !g.opts.SkipInstall && g.opts.Installer != nil
		}, Run: g.install},
	}
}

func (g *Generator) planDirLayout(context.Context) error {
	for _, dir := range []string{
		"app/templates",
		"app/styles",
		"app/images",
		"app/scripts",
		"app/scripts/models",
		"app/scripts/controllers",
		"app/scripts/routes",
		"app/scripts/views",
	} {
		g.plan.Mkdir(dir)
	}
	return nil
}

func (g *Generator) planCopies(pairs ...[2]string) func(context.Context) error {
	return func(context.Context) error {
		for _, p := range pairs {
			g.plan.Copy(p[0], p[1])
		}
		return nil
	}
}

func (g *Generator) planRender(source, dest string) func(context.Context) error {
	return func(context.Context) error {
		g.plan.Render(source, dest)
		return nil
	}
}

func (g *Generator) planTestHarness(context.Context) error {
	coffee := g.opts.Coffee
	g.plan.Mkdir("test")
	g.plan.Mkdir("test/support")
	g.plan.Mkdir("test/integration")
	g.plan.Copy("karma.conf.js", "karma.conf.js")
	g.plan.Render(templates.ScriptPath("test/_initializer", coffee), templates.ScriptPath("test/support/initializer", coffee))
	g.plan.Render(templates.ScriptPath("test/integration/_index", coffee), templates.ScriptPath("test/integration/index", coffee))
	return nil
}

func (g *Generator) planStylesheets(context.Context) error {
	if g.cfg.Bootstrap {
		g.plan.Copy("styles/style_bootstrap.less", "app/styles/style.less")
		return nil
	}
	g.plan.Copy("styles/normalize.css", "app/styles/normalize.css")
	g.plan.Copy("styles/style.css", "app/styles/style.css")
	return nil
}

func (g *Generator) planAppScripts(context.Context) error {
	coffee := g.opts.Coffee
	for _, base := range []string{"scripts/app", "scripts/store", "scripts/routes/application_route"} {
		g.plan.Render(templates.ScriptPath(base, coffee), templates.ScriptPath("app/"+base, coffee))
	}
	return nil
}

func (g *Generator) runHooks(ctx context.Context) error {
	for _, h := range g.opts.Hooks {
		start := g.plan.Len()
		warnings := h.Contribute(g.plan, g.opts)
		for _, w := range warnings {
			g.log.Warn(w, "hook", h.Name())
		}
		g.warnings = append(g.warnings, warnings...)
		g.log.Debug("hook planned", "hook", h.Name(), "count", g.plan.Len()-start)
	}
	if !g.writing() {
		return nil
	}
	return g.applyPending(ctx)
}

// applyPending applies the plan operations not yet applied in this run.
func (g *Generator) applyPending(context.Context) error {
	ops := g.plan.Ops()
	for _, op := range ops[g.applied:] {
		if err := g.apply(op); err != nil {
			return err
		}
		g.applied++
	}
	return nil
}

func (g *Generator) apply(op Op) error {
	g.log.Debug("apply", "action", op.Action, "path", op.Dest, "source", op.Source)

	dest, err := filemanager.SafeJoin(g.opts.TargetDir, filepath.FromSlash(op.Dest))
	if err != nil {
		return &IOError{Op: string(op.Action), Path: op.Dest, Err: err}
	}

	var data []byte
	switch op.Action {
	case CreateDirectory:
		if err := g.opts.FS.MkdirAll(dest, 0755); err != nil {
			return &IOError{Op: string(op.Action), Path: op.Dest, Err: err}
		}
		return nil
	case CopyVerbatim:
		data, err = g.renderer.Read(op.Source)
	case RenderTemplate:
		data, err = g.renderer.Render(op.Source, g.data)
	default:
		err = fmt.Errorf("unknown action %q", op.Action)
	}
	if err != nil {
		return &IOError{Op: string(op.Action), Path: op.Source, Err: err}
	}

	return g.writeFile(op.Dest, dest, data)
}

func (g *Generator) writeFile(rel, path string, data []byte) error {
	if err := g.opts.FS.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &IOError{Op: "mkdir", Path: rel, Err: err}
	}
	if err := afero.WriteFile(g.opts.FS, path, data, 0644); err != nil {
		return &IOError{Op: "write", Path: rel, Err: err}
	}
	g.files = append(g.files, rel)
	g.hashes[rel] = filemanager.HashBytes(data)
	return nil
}

func (g *Generator) enrichStyles(context.Context) error {
	sources := []string{"styles/style.css"}
	if !g.cfg.Bootstrap {
		sources = []string{"styles/normalize.css", "styles/style.css"}
	}
	g.doc.AppendStyles(StylesBundle, sources)
	g.log.Debug("bundle", "bundle", StylesBundle, "count", len(sources))
	return nil
}

func (g *Generator) enrichBaseScripts(context.Context) error {
	g.manifest.Append(resolver.BaseScripts...)
	return nil
}

// enrichModelLib appends the model library after the base chain and writes
// the components bundle holding both.
func (g *Generator) enrichModelLib(context.Context) error {
	start := g.manifest.Len() - len(resolver.BaseScripts)
	switch g.cfg.ModelLib {
	case config.EmberData:
		g.manifest.Append(resolver.EmberDataScript)
	case config.EmberModel:
		g.manifest.Append(resolver.EmberModelScript)
	}

	batch := g.manifest.Paths()[start:]
	g.doc.AppendScripts(ComponentsBundle, batch)
	g.log.Debug("bundle", "bundle", ComponentsBundle, "count", len(batch))
	return nil
}

func (g *Generator) enrichBuildOutputs(context.Context) error {
	if err := g.doc.AppendFiles(document.JS, TemplatesBundle, []string{"scripts/compiled-templates.js"}, BuildDir); err != nil {
		return err
	}
	return g.doc.AppendFiles(document.JS, MainBundle, []string{"scripts/combined-scripts.js"}, BuildDir)
}

func (g *Generator) enrichFrameworkPlugins(context.Context) error {
	plugins := resolver.BootstrapPlugins()
	g.manifest.Append(plugins...)
	g.doc.AppendScripts(PluginsBundle, plugins)
	g.log.Debug("bundle", "bundle", PluginsBundle, "count", len(plugins))
	return nil
}

func (g *Generator) enrichComponentLib(context.Context) error {
	components := resolver.ComponentLibrary()
	g.manifest.Append(components...)
	g.doc.AppendScripts(PluginsBundle, components)
	g.log.Debug("bundle", "bundle", PluginsBundle, "count", len(components))
	return nil
}

func (g *Generator) checkOrder(context.Context) error {
	return g.resolver.CheckOrder(g.manifest.Paths())
}

func (g *Generator) writeIndex(context.Context) error {
	path, err := filemanager.SafeJoin(g.opts.TargetDir, filepath.FromSlash(IndexFile))
	if err != nil {
		return &IOError{Op: "write", Path: IndexFile, Err: err}
	}
	if err := g.doc.WriteFile(g.opts.FS, path); err != nil {
		return &IOError{Op: "write", Path: IndexFile, Err: err}
	}
	g.files = append(g.files, IndexFile)
	g.hashes[IndexFile] = filemanager.HashBytes(g.doc.Bytes())
	g.log.Debug("wrote document", "path", IndexFile)
	return nil
}

func (g *Generator) persist(context.Context) error {
	rec := g.cfg.Answers()
	rec.Options = &config.Options{
		Coffee:        g.opts.Coffee,
		TestFramework: g.opts.TestFramework,
		Karma:         g.opts.Karma,
	}
	rec.Generated = make(map[string]string, len(g.hashes))
	for k, v := range g.hashes {
		rec.Generated[k] = v
	}

	if err := config.SaveConfig(g.opts.FS, g.opts.TargetDir, rec); err != nil {
		return &IOError{Op: "write", Path: config.ConfigFile, Err: err}
	}
	return nil
}

func (g *Generator) install(ctx context.Context) error {
	if err := g.opts.Installer.Install(ctx, g.opts.TargetDir); err != nil {
		g.log.Warn("dependency installation failed", "err", err)
		g.warnings = append(g.warnings, err.Error())
	}
	return nil
}
