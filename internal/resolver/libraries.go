package resolver

// Library is a third-party script referenced from the generated document.
type Library struct {
	ID      string
	Path    string
	Depends []string
}

const (
	bowerDir     = "bower_components/"
	bootstrapDir = bowerDir + "bootstrap/js/"
	bsForEmber   = bowerDir + "ember-addons.bs_for_ember/dist/js/"
)

// Base script chain, in load order.
var BaseScripts = []string{
	bowerDir + "console-polyfill/index.js",
	bowerDir + "jquery/jquery.js",
	bowerDir + "handlebars/handlebars.js",
	bowerDir + "ember/ember.js",
}

// Model library scripts, appended after the base chain.
const (
	EmberDataScript  = bowerDir + "ember-data-shim/ember-data.js"
	EmberModelScript = bowerDir + "ember-model/ember-model.js"
)

var bootstrapPlugins = []string{
	"affix", "alert", "dropdown", "tooltip", "modal", "transition",
	"button", "popover", "carousel", "scrollspy", "collapse", "tab",
}

var bsComponents = []string{
	"bs-core", "bs-basic", "bs-alert", "bs-badge", "bs-button", "bs-label",
	"bs-list-group", "bs-modal", "bs-nav", "bs-progressbar", "bs-notifications", "bs-wizard",
}

// BootstrapPlugins returns the twelve Twitter Bootstrap jQuery plugin scripts.
func BootstrapPlugins() []string {
	out := make([]string, len(bootstrapPlugins))
	for i, p := range bootstrapPlugins {
		out[i] = bootstrapDir + p + ".js"
	}
	return out
}

// ComponentLibrary returns the twelve Bootstrap for Ember component scripts.
func ComponentLibrary() []string {
	out := make([]string, len(bsComponents))
	for i, c := range bsComponents {
		out[i] = bsForEmber + c + ".max.js"
	}
	return out
}

// Catalog returns every known script library keyed by ID.
func Catalog() map[string]Library {
	libs := map[string]Library{
		"console-polyfill": {ID: "console-polyfill", Path: BaseScripts[0]},
		"jquery":           {ID: "jquery", Path: BaseScripts[1], Depends: []string{"console-polyfill"}},
		"handlebars":       {ID: "handlebars", Path: BaseScripts[2], Depends: []string{"jquery"}},
		"ember":            {ID: "ember", Path: BaseScripts[3], Depends: []string{"jquery", "handlebars"}},
		"ember-data":       {ID: "ember-data", Path: EmberDataScript, Depends: []string{"ember"}},
		"ember-model":      {ID: "ember-model", Path: EmberModelScript, Depends: []string{"ember"}},
	}

	for _, p := range bootstrapPlugins {
		id := "bootstrap-" + p
		deps := []string{"jquery"}
		if p == "popover" {
			deps = append(deps, "bootstrap-tooltip")
		}
		libs[id] = Library{ID: id, Path: bootstrapDir + p + ".js", Depends: deps}
	}

	for _, c := range bsComponents {
		deps := []string{"bs-core"}
		if c == "bs-core" {
			deps = []string{"ember"}
		}
		libs[c] = Library{ID: c, Path: bsForEmber + c + ".max.js", Depends: deps}
	}

	return libs
}
