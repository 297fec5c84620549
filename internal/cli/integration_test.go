package cli

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/company/ember-less/internal/config"
	"github.com/company/ember-less/internal/detect"
	"github.com/company/ember-less/internal/exitcodes"
	"github.com/company/ember-less/internal/generator"
	"github.com/company/ember-less/internal/installer"
	"github.com/company/ember-less/internal/ui"
)

const projectDir = "/work/shop"

type fakeInstaller struct {
	calls int
	err   error
}

func (f *fakeInstaller) Install(context.Context, string) error {
	f.calls++
	return f.err
}

type toolRunner map[string]string

func (r toolRunner) Run(_ context.Context, _, name string, _ ...string) ([]byte, error) {
	out, ok := r[name]
	if !ok {
		return nil, &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	return []byte(out), nil
}

var allTools = toolRunner{"node": "v0.10.48", "npm": "1.3.11", "bower": "1.2.8", "grunt": "grunt-cli v0.1.13"}

type testApp struct {
	*App
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	installer *fakeInstaller
}

func newTestApp(fs afero.Fs, tools toolRunner) *testApp {
	var stdout, stderr bytes.Buffer
	inst := &fakeInstaller{}

	app := NewApp("1.0.0", "abc123", "2024-01-01")
	app.fs = fs
	app.output = ui.NewOutputTo(&stdout, &stderr)
	app.interactive = func() bool { return false }
	app.newInstaller = func() generator.Installer { return inst }
	app.newDetector = func() *detect.Detector { return &detect.Detector{Runner: tools} }

	return &testApp{App: app, stdout: &stdout, stderr: &stderr, installer: inst}
}

func run(t *testing.T, fs afero.Fs, args ...string) (*testApp, error) {
	t.Helper()
	app := newTestApp(fs, allTools)
	app.rootCmd.SetArgs(append(args, "--dir", projectDir, "--no-color"))
	return app, app.Execute()
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "want ExitError, got %v", err)
	return exitErr.Code
}

func TestNewVerifyListFlow(t *testing.T) {
	fs := afero.NewMemMapFs()

	app, err := run(t, fs, "new", "--yes")
	require.NoError(t, err)
	assert.Contains(t, app.stdout.String(), "OK Generated shop")
	assert.Equal(t, 1, app.installer.calls)

	cfg, err := config.LoadConfig(fs, projectDir)
	require.NoError(t, err)
	assert.Equal(t, "shop", cfg.Name)
	assert.NotEmpty(t, cfg.Generated)

	app, err = run(t, fs, "verify")
	require.NoError(t, err)
	assert.Contains(t, app.stdout.String(), "generated files verified")

	app, err = run(t, fs, "list")
	require.NoError(t, err)
	out := app.stdout.String()
	assert.Contains(t, out, "styles/main.css")
	assert.Contains(t, out, "scripts/components.js")
	assert.Contains(t, out, "bower_components/ember-addons.bs_for_ember/dist/js/bs-core.max.js")
	assert.Contains(t, out, "29 third-party scripts")

	// Edit a generated file.
	require.NoError(t, afero.WriteFile(fs, projectDir+"/Gruntfile.js", []byte("// edited\n"), 0644))

	app, err = run(t, fs, "verify")
	require.Error(t, err)
	assert.Equal(t, exitcodes.VerifyFailed, exitCode(t, err))
	assert.Contains(t, app.stdout.String(), "Modified files")
	assert.Contains(t, app.stdout.String(), "Gruntfile.js")

	app, err = run(t, fs, "verify", "--allow-edits")
	require.NoError(t, err)
	assert.Contains(t, app.stderr.String(), "1 generated files were edited")

	require.NoError(t, fs.Remove(projectDir+"/bower.json"))
	_, err = run(t, fs, "verify", "--allow-edits")
	assert.Equal(t, exitcodes.VerifyFailed, exitCode(t, err))
}

func TestNewDryRunWritesNothing(t *testing.T) {
	fs := afero.NewMemMapFs()

	app, err := run(t, fs, "new", "--yes", "--dry-run")
	require.NoError(t, err)

	out := app.stdout.String()
	assert.Contains(t, out, "create-directory")
	assert.Contains(t, out, "render-template")
	assert.Contains(t, out, "scripts/plugins.js")
	assert.Zero(t, app.installer.calls)

	exists, err := afero.DirExists(fs, projectDir)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestNewSeedsAnswersFromFlags(t *testing.T) {
	fs := afero.NewMemMapFs()

	app, err := run(t, fs, "new", "store", "--yes", "--model-lib", "Ember-Model",
		"--no-bootstrap", "--no-rsync", "--skip-install", "--coffee", "--karma")
	require.NoError(t, err)
	assert.Zero(t, app.installer.calls)

	cfg, err := config.LoadConfig(fs, projectDir)
	require.NoError(t, err)
	assert.Equal(t, "store", cfg.Name)
	assert.Equal(t, config.EmberModel, cfg.ModelLib)
	assert.False(t, cfg.Bootstrap)
	assert.False(t, cfg.Rsync)
	assert.Nil(t, cfg.Deploy)
	require.NotNil(t, cfg.Options)
	assert.True(t, cfg.Options.Coffee)

	for _, f := range []string{"app/scripts/app.coffee", "test/support/initializer.coffee", "app/styles/normalize.css"} {
		ok, err := afero.Exists(fs, projectDir+"/"+f)
		require.NoError(t, err)
		assert.True(t, ok, "missing %s", f)
	}
}

func TestNewReusesSavedAnswersAndOptions(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := run(t, fs, "new", "--yes", "--coffee", "--model-lib", "ember-model", "--skip-install")
	require.NoError(t, err)

	_, err = run(t, fs, "new", "--yes", "--skip-install")
	require.NoError(t, err)

	cfg, err := config.LoadConfig(fs, projectDir)
	require.NoError(t, err)
	assert.Equal(t, config.EmberModel, cfg.ModelLib)
	require.NotNil(t, cfg.Options)
	assert.True(t, cfg.Options.Coffee)
}

func TestNewImportsLegacyAnswers(t *testing.T) {
	fs := afero.NewMemMapFs()
	legacy := `{"generator-ember-less": {"name": "legacy", "emberModelLib": "Ember-Model", "useRsync": false}}`
	require.NoError(t, afero.WriteFile(fs, projectDir+"/"+config.LegacyFile, []byte(legacy), 0644))

	_, err := run(t, fs, "new", "--yes", "--skip-install")
	require.NoError(t, err)

	cfg, err := config.LoadConfig(fs, projectDir)
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.Name)
	assert.Equal(t, config.EmberModel, cfg.ModelLib)
	assert.Nil(t, cfg.Deploy)
}

func TestNewInvalidModelLib(t *testing.T) {
	_, err := run(t, afero.NewMemMapFs(), "new", "--yes", "--model-lib", "backbone")
	require.Error(t, err)
	assert.Equal(t, exitcodes.ValidationError, exitCode(t, err))
}

func TestNewInstallFailureIsWarning(t *testing.T) {
	fs := afero.NewMemMapFs()
	app := newTestApp(fs, allTools)
	app.installer.err = &installer.DelegateFailure{Command: "bower install", Err: errors.New("exit code 1")}
	app.rootCmd.SetArgs([]string{"new", "--yes", "--dir", projectDir, "--no-color"})

	require.NoError(t, app.Execute())
	assert.Contains(t, app.stderr.String(), "WARN bower install failed")
	assert.Contains(t, app.stdout.String(), "OK Generated")
}

func TestVerifyWithoutConfig(t *testing.T) {
	_, err := run(t, afero.NewMemMapFs(), "verify")
	require.Error(t, err)
	assert.Equal(t, exitcodes.ConfigError, exitCode(t, err))
}

func TestDoctor(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := run(t, fs, "new", "--yes", "--skip-install")
	require.NoError(t, err)

	t.Run("healthy", func(t *testing.T) {
		app, err := run(t, fs, "doctor")
		require.NoError(t, err)
		out := app.stdout.String()
		assert.Contains(t, out, "app/index.html has both insertion markers")
		assert.Contains(t, out, "Scripts load after their dependencies")
		assert.Contains(t, out, "node 0.10.48")
		assert.Contains(t, out, "Everything looks good!")
		assert.Contains(t, app.stderr.String(), "Dependencies not installed")
	})

	t.Run("missing tool", func(t *testing.T) {
		app := newTestApp(fs, toolRunner{"node": "v0.8.0", "npm": "1.3.11", "bower": "1.2.8"})
		app.rootCmd.SetArgs([]string{"doctor", "--dir", projectDir, "--no-color"})
		require.NoError(t, app.Execute())

		assert.Contains(t, app.stderr.String(), "FAIL node 0.8.0 does not satisfy >= 0.10")
		assert.Contains(t, app.stderr.String(), "FAIL grunt-cli not found on PATH")
		assert.NotContains(t, app.stdout.String(), "Everything looks good!")
	})

	t.Run("broken markers", func(t *testing.T) {
		require.NoError(t, afero.WriteFile(fs, projectDir+"/app/index.html", []byte("<html></html>"), 0644))
		app, err := run(t, fs, "doctor")
		require.NoError(t, err)
		assert.Contains(t, app.stderr.String(), "missing an insertion marker")
	})
}

func TestDoctorWithoutConfig(t *testing.T) {
	app, err := run(t, afero.NewMemMapFs(), "doctor")
	require.NoError(t, err)
	assert.Contains(t, app.stderr.String(), "FAIL ember-less.yml not found")
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("EMBER_LESS_SKIP_INSTALL", "1")
	t.Setenv("EMBER_LESS_DIR", "/env/project")

	fs := afero.NewMemMapFs()
	app := newTestApp(fs, allTools)
	app.rootCmd.SetArgs([]string{"new", "--yes", "--no-color"})
	require.NoError(t, app.Execute())

	assert.Zero(t, app.installer.calls)
	assert.True(t, config.ConfigExists(fs, "/env/project"))
}

func TestExplicitFlagBeatsEnvironment(t *testing.T) {
	t.Setenv("EMBER_LESS_DIR", "/env/project")

	fs := afero.NewMemMapFs()
	_, err := run(t, fs, "new", "--yes", "--skip-install")
	require.NoError(t, err)

	assert.True(t, config.ConfigExists(fs, projectDir))
	assert.False(t, config.ConfigExists(fs, "/env/project"))
}

func TestVersion(t *testing.T) {
	app, err := run(t, afero.NewMemMapFs(), "version")
	require.NoError(t, err)
	assert.Equal(t, "ember-less 1.0.0 (commit: abc123, built: 2024-01-01)\n", app.stdout.String())
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: &config.ValidationError{Field: "name", Message: "required"}, want: exitcodes.ValidationError},
		{name: "io", err: &generator.IOError{Op: "write", Path: "x", Err: errors.New("denied")}, want: exitcodes.IOError},
		{name: "other", err: errors.New("boom"), want: exitcodes.GeneralError},
		{name: "exit error kept", err: &ExitError{Code: exitcodes.UsageError, Message: "bad"}, want: exitcodes.UsageError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(t, mapError(tt.err)))
		})
	}
	assert.NoError(t, mapError(nil))
}
