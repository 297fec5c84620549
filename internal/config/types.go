package config

import (
	"fmt"
	"strings"
)

const ConfigFile = "ember-less.yml"
const CurrentVersion = 1

const DefaultTestFramework = "mocha"
const DefaultDeployServer = "my-server.com"
const DefaultDeployUser = "myusername"
const DefaultDeployDir = "/my/server/path/to-deploy-folder/"

// ModelLib is the model/store library wired into the generated application.
type ModelLib string

const (
	EmberData  ModelLib = "ember-data"
	EmberModel ModelLib = "ember-model"
)

// ModelLibs returns the valid model library names in prompt order.
func ModelLibs() []string {
	return []string{string(EmberData), string(EmberModel)}
}

// ParseModelLib normalizes a model library answer ("Ember-Data" -> "ember-data").
func ParseModelLib(s string) (ModelLib, error) {
	lib := ModelLib(strings.ToLower(strings.TrimSpace(s)))
	switch lib {
	case EmberData, EmberModel:
		return lib, nil
	default:
		return "", &ValidationError{
			Field:   "model_lib",
			Message: fmt.Sprintf("unknown model library %q (valid: %s)", s, strings.Join(ModelLibs(), ", ")),
		}
	}
}

// Deploy holds the rsync-over-SSH deployment target.
type Deploy struct {
	Server string `yaml:"server"`
	User   string `yaml:"user"`
	Dir    string `yaml:"dir"`
}

// Options records the invocation flags a project was generated with.
type Options struct {
	Coffee        bool   `yaml:"coffee"`
	TestFramework string `yaml:"test_framework"`
	Karma         bool   `yaml:"karma"`
}
