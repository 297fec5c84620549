// Package templates provides the embedded project templates and renders them.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"unicode"

	"github.com/flosch/pongo2/v6"
)

//go:embed all:files
var embedded embed.FS

// IndexTemplate is the HTML entry point template carrying the insertion markers.
const IndexTemplate = "index.html"

var autoescapeOnce sync.Once

// Data contains data for template rendering.
type Data struct {
	// Name is the project name as answered (e.g. "ember_app").
	Name string

	// Namespace is the PascalCase application global (e.g. "EmberApp").
	Namespace string

	ModelLib            string
	Bootstrap           bool
	BootstrapComponents bool
	Bootswatch          bool
	Rsync               bool
	DeployServer        string
	DeployUser          string
	DeployDir           string

	Coffee        bool
	TestFramework string
	Karma         bool

	// Version is the ember-less version stamped into generated build files.
	Version string
}

func (d Data) context() pongo2.Context {
	return pongo2.Context{
		"name":                 d.Name,
		"namespace":            d.Namespace,
		"model_lib":            d.ModelLib,
		"ember_data":           d.ModelLib == "ember-data",
		"bootstrap":            d.Bootstrap,
		"bootstrap_components": d.BootstrapComponents,
		"bootswatch":           d.Bootswatch,
		"rsync":                d.Rsync,
		"deploy_server":        d.DeployServer,
		"deploy_user":          d.DeployUser,
		"deploy_dir":           d.DeployDir,
		"coffee":               d.Coffee,
		"test_framework":       d.TestFramework,
		"karma":                d.Karma,
		"version":              d.Version,
	}
}

// Renderer reads and renders templates from a filesystem rooted at the
// template directory.
type Renderer struct {
	files fs.FS
	set   *pongo2.TemplateSet
}

// New returns a Renderer over the embedded templates.
func New() (*Renderer, error) {
	sub, err := fs.Sub(embedded, "files")
	if err != nil {
		return nil, fmt.Errorf("opening embedded templates: %w", err)
	}
	return NewFromFS(sub), nil
}

// NewFromFS returns a Renderer over files. Used by tests to swap in a
// fstest.MapFS.
func NewFromFS(files fs.FS) *Renderer {
	// Generated sources are JavaScript, not HTML.
	autoescapeOnce.Do(func() { pongo2.SetAutoescape(false) })
	return &Renderer{
		files: files,
		set:   pongo2.NewSet("ember-less", pongo2.NewFSLoader(files)),
	}
}

// Exists reports whether a template is present.
func (r *Renderer) Exists(name string) bool {
	_, err := fs.Stat(r.files, name)
	return err == nil
}

// Read returns a template's bytes unchanged, for verbatim copies.
func (r *Renderer) Read(name string) ([]byte, error) {
	data, err := fs.ReadFile(r.files, name)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", name, err)
	}
	return data, nil
}

// Render substitutes data into the named template.
func (r *Renderer) Render(name string, data Data) ([]byte, error) {
	src, err := r.Read(name)
	if err != nil {
		return nil, err
	}

	tpl, err := r.set.FromString(string(src))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tpl.ExecuteWriter(data.context(), &buf); err != nil {
		return nil, fmt.Errorf("rendering template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Files lists every template path, for diagnostics.
func (r *Renderer) Files() ([]string, error) {
	var names []string
	err := fs.WalkDir(r.files, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			names = append(names, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	return names, nil
}

// Namespace converts a project name into the PascalCase application global:
// "ember_app" -> "EmberApp", "my-shop" -> "MyShop". Names that do not start
// with a letter get an "App" prefix.
func Namespace(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
		} else {
			b.WriteRune(r)
		}
	}

	ns := b.String()
	if ns == "" {
		return "App"
	}
	if first := []rune(ns)[0]; !unicode.IsLetter(first) {
		ns = "App" + ns
	}
	return ns
}

// ScriptPath appends the script extension chosen by the alternate-syntax toggle.
func ScriptPath(base string, coffee bool) string {
	if coffee {
		return base + ".coffee"
	}
	return base + ".js"
}
