package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// LegacyFile is the answers file written by the yeoman flavour of this
// generator. JSON is valid YAML, so yaml.v3 reads it directly.
const LegacyFile = ".yo-rc.json"

// LegacyGeneratorKey is the top-level key holding the answers in LegacyFile.
const LegacyGeneratorKey = "generator-ember-less"

// legacyAnswers mirrors the prompt names of the yeoman generator.
type legacyAnswers struct {
	Name           string `yaml:"name"`
	EmberModelLib  string `yaml:"emberModelLib"`
	LessBootstrap  *bool  `yaml:"lessBootstrap"`
	EmberBootstrap *bool  `yaml:"emberBootstrap"`
	LessBootswatch *bool  `yaml:"lessBootswatch"`
	UseRsync       *bool  `yaml:"useRsync"`
	DeployServer   string `yaml:"deployServer"`
	DeployUser     string `yaml:"deployUser"`
	DeployDir      string `yaml:"deployDir"`
}

// LegacyExists checks whether a yeoman answers file exists in the given directory.
func LegacyExists(fsys afero.Fs, dir string) bool {
	_, err := fsys.Stat(filepath.Join(dir, LegacyFile))
	return err == nil
}

// ImportLegacy reads .yo-rc.json and converts its answers into a Config.
// Missing answers fall back to Defaults. It does NOT delete the old file.
func ImportLegacy(fsys afero.Fs, dir string) (*Config, error) {
	data, err := afero.ReadFile(fsys, filepath.Join(dir, LegacyFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("legacy answers file not found")
		}
		return nil, fmt.Errorf("reading legacy answers: %w", err)
	}

	var rc map[string]legacyAnswers
	if err := yaml.Unmarshal(data, &rc); err != nil {
		return nil, fmt.Errorf("parsing legacy answers: %w", err)
	}

	old, ok := rc[LegacyGeneratorKey]
	if !ok {
		return nil, fmt.Errorf("legacy answers file has no %q section", LegacyGeneratorKey)
	}

	cfg := Defaults(dir)
	if old.Name != "" {
		cfg.Name = old.Name
	}
	if old.EmberModelLib != "" {
		lib, err := ParseModelLib(old.EmberModelLib)
		if err != nil {
			return nil, err
		}
		cfg.ModelLib = lib
	}
	if old.LessBootstrap != nil {
		cfg.Bootstrap = *old.LessBootstrap
	}
	if old.EmberBootstrap != nil {
		cfg.BootstrapComponents = *old.EmberBootstrap
	}
	if old.LessBootswatch != nil {
		cfg.Bootswatch = *old.LessBootswatch
	}
	if old.UseRsync != nil {
		cfg.Rsync = *old.UseRsync
	}

	if !cfg.Rsync {
		cfg.Deploy = nil
	} else {
		if old.DeployServer != "" {
			cfg.Deploy.Server = old.DeployServer
		}
		if old.DeployUser != "" {
			cfg.Deploy.User = old.DeployUser
		}
		if old.DeployDir != "" {
			cfg.Deploy.Dir = old.DeployDir
		}
	}

	return cfg, nil
}
