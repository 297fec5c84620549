package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const generatedSeparator = "\n# Generated by ember-less — do not edit below this line\n"

// ErrInvalidInput marks answers that are malformed or out of range.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError describes a single invalid answer.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// Config is the resolved answer record, persisted as ember-less.yml next to
// the generated project.
type Config struct {
	Version             int      `yaml:"version"`
	Name                string   `yaml:"name"`
	ModelLib            ModelLib `yaml:"model_lib"`
	Bootstrap           bool     `yaml:"bootstrap"`
	BootstrapComponents bool     `yaml:"bootstrap_components"`
	Bootswatch          bool     `yaml:"bootswatch"`
	Rsync               bool     `yaml:"rsync"`
	Deploy              *Deploy  `yaml:"deploy,omitempty"`

	Options   *Options          `yaml:"options,omitempty"`
	Generated map[string]string `yaml:"generated,omitempty"`
}

// configAnswerFields is the part of Config produced by the prompts.
// Used for two-pass marshaling so the generated section stays below a comment.
type configAnswerFields struct {
	Version             int      `yaml:"version"`
	Name                string   `yaml:"name"`
	ModelLib            ModelLib `yaml:"model_lib"`
	Bootstrap           bool     `yaml:"bootstrap"`
	BootstrapComponents bool     `yaml:"bootstrap_components"`
	Bootswatch          bool     `yaml:"bootswatch"`
	Rsync               bool     `yaml:"rsync"`
	Deploy              *Deploy  `yaml:"deploy,omitempty"`
}

// configGeneratedFields is written by the generator after a run.
type configGeneratedFields struct {
	Options   *Options          `yaml:"options,omitempty"`
	Generated map[string]string `yaml:"generated,omitempty"`
}

var reservedName = regexp.MustCompile(`^[Ee]mber$`)

// Defaults returns the answers offered when nothing has been persisted yet.
// The project name comes from the target directory.
func Defaults(targetDir string) *Config {
	return &Config{
		Version:             CurrentVersion,
		Name:                DefaultName(targetDir),
		ModelLib:            EmberData,
		Bootstrap:           true,
		BootstrapComponents: true,
		Bootswatch:          true,
		Rsync:               true,
		Deploy: &Deploy{
			Server: DefaultDeployServer,
			User:   DefaultDeployUser,
			Dir:    DefaultDeployDir,
		},
	}
}

// DefaultName derives the project name from a directory. A bare "ember" or
// "Ember" would shadow the framework global, so it becomes "ember_app".
func DefaultName(targetDir string) string {
	name := filepath.Base(filepath.Clean(targetDir))
	if abs, err := filepath.Abs(targetDir); err == nil {
		name = filepath.Base(abs)
	}
	if reservedName.MatchString(name) {
		name += "_app"
	}
	return name
}

// ConfigExists checks whether the config file exists in the given directory.
func ConfigExists(fsys afero.Fs, dir string) bool {
	_, err := fsys.Stat(filepath.Join(dir, ConfigFile))
	return err == nil
}

// LoadConfig reads, schema-checks and parses the config file from the given directory.
func LoadConfig(fsys afero.Fs, dir string) (*Config, error) {
	data, err := afero.ReadFile(fsys, filepath.Join(dir, ConfigFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: run 'ember-less new' first")
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	result, err := ValidateDocument(data)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		issue := result.Issues[0]
		return nil, &ValidationError{Field: issue.Path, Message: issue.Message}
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(&c)

	if err := ValidateConfig(&c); err != nil {
		return nil, err
	}

	return &c, nil
}

// SaveConfig writes the config file to the given directory.
// It uses two-pass marshaling: answers first, then a comment separator,
// then the options and generated file hashes.
func SaveConfig(fsys afero.Fs, dir string, c *Config) error {
	applyDefaults(c)

	answers := configAnswerFields{
		Version:             c.Version,
		Name:                c.Name,
		ModelLib:            c.ModelLib,
		Bootstrap:           c.Bootstrap,
		BootstrapComponents: c.BootstrapComponents,
		Bootswatch:          c.Bootswatch,
		Rsync:               c.Rsync,
		Deploy:              c.Deploy,
	}

	answerBytes, err := yaml.Marshal(answers)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	content := append([]byte("---\n"), answerBytes...)
	if c.Options != nil || len(c.Generated) > 0 {
		generated := configGeneratedFields{Options: c.Options, Generated: c.Generated}
		generatedBytes, marshalErr := yaml.Marshal(generated)
		if marshalErr != nil {
			return fmt.Errorf("marshaling generated: %w", marshalErr)
		}
		content = append(content, []byte(generatedSeparator)...)
		content = append(content, generatedBytes...)
	}

	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	path := filepath.Join(dir, ConfigFile)
	tmpPath := path + ".tmp"

	if err := afero.WriteFile(fsys, tmpPath, content, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := fsys.Rename(tmpPath, path); err != nil {
		fsys.Remove(tmpPath)
		return fmt.Errorf("saving config: %w", err)
	}

	return nil
}

// ValidateConfig checks the answer invariants: a known model library, a
// project name, and deploy details present if and only if rsync is enabled.
func ValidateConfig(c *Config) error {
	if c.Version < 1 {
		return &ValidationError{Field: "version", Message: fmt.Sprintf("invalid config version: %d", c.Version)}
	}
	if c.Name == "" {
		return &ValidationError{Field: "name", Message: "project name is required"}
	}
	if _, err := ParseModelLib(string(c.ModelLib)); err != nil {
		return err
	}
	if c.Rsync {
		if c.Deploy == nil {
			return &ValidationError{Field: "deploy", Message: "deploy server, user and dir are required when rsync is enabled"}
		}
		if c.Deploy.Server == "" {
			return &ValidationError{Field: "deploy.server", Message: "deploy server is required"}
		}
		if c.Deploy.User == "" {
			return &ValidationError{Field: "deploy.user", Message: "deploy user is required"}
		}
		if c.Deploy.Dir == "" {
			return &ValidationError{Field: "deploy.dir", Message: "deploy dir is required"}
		}
	} else if c.Deploy != nil {
		return &ValidationError{Field: "deploy", Message: "deploy details are only allowed when rsync is enabled"}
	}
	return nil
}

// Answers returns a copy of c without the generated section.
func (c *Config) Answers() *Config {
	out := &Config{
		Version:             c.Version,
		Name:                c.Name,
		ModelLib:            c.ModelLib,
		Bootstrap:           c.Bootstrap,
		BootstrapComponents: c.BootstrapComponents,
		Bootswatch:          c.Bootswatch,
		Rsync:               c.Rsync,
	}
	if c.Deploy != nil {
		d := *c.Deploy
		out.Deploy = &d
	}
	return out
}

func applyDefaults(c *Config) {
	if c.Version == 0 {
		c.Version = CurrentVersion
	}
	if c.Options != nil && c.Options.TestFramework == "" {
		c.Options.TestFramework = DefaultTestFramework
	}
}
