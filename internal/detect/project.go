package detect

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const defaultBowerDir = "bower_components"

// Project describes what is on disk in a generated project.
type Project struct {
	HasPackageJSON bool
	HasBowerJSON   bool
	// EngineNode is the engines.node range from package.json, if any.
	EngineNode string
	// BowerDir is where bower installs components, from .bowerrc.
	BowerDir          string
	NodeModules       bool
	ComponentsPresent bool
}

// Installed reports whether both package managers have run.
func (p *Project) Installed() bool {
	return p.NodeModules && p.ComponentsPresent
}

type packageJSON struct {
	Engines struct {
		Node string `yaml:"node"`
	} `yaml:"engines"`
}

type bowerrc struct {
	Directory string `yaml:"directory"`
}

// DetectProject reads package.json and .bowerrc in dir. Both are JSON, which
// yaml.v3 parses as a subset of YAML.
func DetectProject(fsys afero.Fs, dir string) (*Project, error) {
	p := &Project{BowerDir: defaultBowerDir}

	if data, err := afero.ReadFile(fsys, filepath.Join(dir, "package.json")); err == nil {
		p.HasPackageJSON = true
		var pkg packageJSON
		if err := yaml.Unmarshal(data, &pkg); err != nil {
			return nil, fmt.Errorf("parsing package.json: %w", err)
		}
		p.EngineNode = pkg.Engines.Node
	}

	if ok, _ := afero.Exists(fsys, filepath.Join(dir, "bower.json")); ok {
		p.HasBowerJSON = true
	}

	if data, err := afero.ReadFile(fsys, filepath.Join(dir, ".bowerrc")); err == nil {
		var rc bowerrc
		if err := yaml.Unmarshal(data, &rc); err != nil {
			return nil, fmt.Errorf("parsing .bowerrc: %w", err)
		}
		if rc.Directory != "" {
			p.BowerDir = filepath.Clean(rc.Directory)
		}
	}

	p.NodeModules, _ = afero.DirExists(fsys, filepath.Join(dir, "node_modules"))
	p.ComponentsPresent, _ = afero.DirExists(fsys, filepath.Join(dir, p.BowerDir))

	return p, nil
}
