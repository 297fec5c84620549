// Package collector asks the project questions and turns the answers into a
// config.Config.
package collector

import (
	"context"
	"fmt"
	"strings"

	"github.com/company/ember-less/internal/config"
	"github.com/company/ember-less/internal/ui"
)

// Kind is the type of answer a question produces.
type Kind int

const (
	Input Kind = iota
	Select
	Confirm
)

// Answer names, also the keys of Answers.
const (
	Name                = "name"
	ModelLib            = "modelLib"
	Bootstrap           = "bootstrap"
	BootstrapComponents = "bootstrapComponents"
	Bootswatch          = "bootswatch"
	Rsync               = "rsync"
	DeployServer        = "deployServer"
	DeployUser          = "deployUser"
	DeployDir           = "deployDir"
)

// Answers holds the values collected so far, keyed by question name.
// Input and Select answers are strings, Confirm answers are bools.
type Answers map[string]any

// Bool returns a confirm answer, false if unset.
func (a Answers) Bool(name string) bool {
	b, _ := a[name].(bool)
	return b
}

// String returns a text answer, "" if unset.
func (a Answers) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Question is one prompt. When, if set, is evaluated against the answers
// collected so far; a question whose When returns false is not asked.
type Question struct {
	Name    string
	Kind    Kind
	Message string
	Default any
	Choices []string
	When    func(Answers) bool
}

// Driver presents a single question to the user. The terminal implementation
// is ui.HuhDriver; DefaultsDriver answers every question with its default.
type Driver interface {
	Input(ctx context.Context, message, def string) (string, error)
	Select(ctx context.Context, message string, choices []string, def string) (string, error)
	Confirm(ctx context.Context, message string, def bool) (bool, error)
}

// DefaultsDriver accepts every default without prompting. Used for --yes and CI.
type DefaultsDriver struct{}

func (DefaultsDriver) Input(_ context.Context, _ string, def string) (string, error) {
	return def, nil
}

func (DefaultsDriver) Select(_ context.Context, _ string, _ []string, def string) (string, error) {
	return def, nil
}

func (DefaultsDriver) Confirm(_ context.Context, _ string, def bool) (bool, error) {
	return def, nil
}

func rsyncEnabled(a Answers) bool { return a.Bool(Rsync) }

// Questions returns the prompt sequence, seeded with defaults.
// The model library choices are shown in their display form.
func Questions(defaults *config.Config) []Question {
	deploy := config.Deploy{
		Server: config.DefaultDeployServer,
		User:   config.DefaultDeployUser,
		Dir:    config.DefaultDeployDir,
	}
	if defaults.Deploy != nil {
		deploy = *defaults.Deploy
	}

	return []Question{
		{Name: Name, Kind: Input, Message: "Your project name", Default: defaults.Name},
		{Name: ModelLib, Kind: Select, Message: "Which model/store library do you want to use?",
			Choices: []string{"Ember-Data", "Ember-Model"}, Default: displayModelLib(defaults.ModelLib)},
		{Name: Bootstrap, Kind: Confirm, Message: "Would you like to include Twitter Bootstrap 3.0.0?", Default: defaults.Bootstrap},
		{Name: BootstrapComponents, Kind: Confirm, Message: "Would you like to include Ember-components Bootstrap for Ember?", Default: defaults.BootstrapComponents},
		{Name: Bootswatch, Kind: Confirm, Message: "Would you like to include Bootswatch templates for Bootstrap 3.0.0?", Default: defaults.Bootswatch},
		{Name: Rsync, Kind: Confirm, Message: "Would you like to use rsync deployment to server using SSH?", Default: defaults.Rsync},
		{Name: DeployServer, Kind: Input, Message: "Your project deployment server full URL", Default: deploy.Server, When: rsyncEnabled},
		{Name: DeployUser, Kind: Input, Message: "Your project deployment SSH / Rsync username", Default: deploy.User, When: rsyncEnabled},
		{Name: DeployDir, Kind: Input, Message: "Your project deployment absolute path", Default: deploy.Dir, When: rsyncEnabled},
	}
}

func displayModelLib(lib config.ModelLib) string {
	if lib == config.EmberModel {
		return "Ember-Model"
	}
	return "Ember-Data"
}

// Ask presents the questions in order and returns the raw answers.
// Questions hidden by their When predicate get no entry.
func Ask(ctx context.Context, d Driver, questions []Question) (Answers, error) {
	answers := Answers{}
	for _, q := range questions {
		if q.When != nil && !q.When(answers) {
			ui.Debug("question skipped", "question", q.Name)
			continue
		}

		var (
			value any
			err   error
		)
		switch q.Kind {
		case Input:
			def, _ := q.Default.(string)
			value, err = d.Input(ctx, q.Message, def)
		case Select:
			def, _ := q.Default.(string)
			value, err = d.Select(ctx, q.Message, q.Choices, def)
		case Confirm:
			def, _ := q.Default.(bool)
			value, err = d.Confirm(ctx, q.Message, def)
		default:
			return nil, fmt.Errorf("question %q: unknown kind %d", q.Name, q.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("asking %s: %w", q.Name, err)
		}
		answers[q.Name] = value
	}
	return answers, nil
}

// Collect asks the questions and builds a validated Config. defaults supplies
// the offered defaults, typically config.Defaults or a previously saved file.
func Collect(ctx context.Context, d Driver, defaults *config.Config) (*config.Config, error) {
	answers, err := Ask(ctx, d, Questions(defaults))
	if err != nil {
		return nil, err
	}
	return FromAnswers(answers)
}

// FromAnswers converts raw answers into a Config and validates it.
// The model library answer is normalized to lower case.
func FromAnswers(a Answers) (*config.Config, error) {
	lib, err := config.ParseModelLib(a.String(ModelLib))
	if err != nil {
		return nil, err
	}

	cfg := &config.Config{
		Version:             config.CurrentVersion,
		Name:                strings.TrimSpace(a.String(Name)),
		ModelLib:            lib,
		Bootstrap:           a.Bool(Bootstrap),
		BootstrapComponents: a.Bool(BootstrapComponents),
		Bootswatch:          a.Bool(Bootswatch),
		Rsync:               a.Bool(Rsync),
	}
	if cfg.Rsync {
		cfg.Deploy = &config.Deploy{
			Server: strings.TrimSpace(a.String(DeployServer)),
			User:   strings.TrimSpace(a.String(DeployUser)),
			Dir:    strings.TrimSpace(a.String(DeployDir)),
		}
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
