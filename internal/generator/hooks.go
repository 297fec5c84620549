package generator

import (
	"fmt"

	"github.com/company/ember-less/internal/templates"
)

// Hook is a sub-generator run after the main File Plan is applied. It adds
// its own operations to the plan and may report warnings.
type Hook interface {
	Name() string
	Contribute(p *Plan, opts Options) []string
}

// RouterHook scaffolds the application router.
type RouterHook struct{}

func (RouterHook) Name() string { return "router" }

func (RouterHook) Contribute(p *Plan, opts Options) []string {
	p.Render(templates.ScriptPath("scripts/router", opts.Coffee), templates.ScriptPath("app/scripts/router", opts.Coffee))
	return nil
}

// MochaHook scaffolds a browser mocha runner with one spec.
type MochaHook struct{}

func (MochaHook) Name() string { return "mocha" }

func (MochaHook) Contribute(p *Plan, opts Options) []string {
	p.Mkdir("test")
	p.Mkdir("test/spec")
	p.Render("mocha/index.html", "test/index.html")
	p.Render(templates.ScriptPath("mocha/spec/test", opts.Coffee), templates.ScriptPath("test/spec/test", opts.Coffee))
	return nil
}

// missingFrameworkHook stands in for a test framework with no sub-generator.
type missingFrameworkHook struct {
	framework string
}

func (h missingFrameworkHook) Name() string { return h.framework }

func (h missingFrameworkHook) Contribute(*Plan, Options) []string {
	return []string{fmt.Sprintf("no sub-generator for test framework %q; skipping test scaffolding", h.framework)}
}

// TestFrameworks lists the test framework hooks by name.
var TestFrameworks = map[string]Hook{
	"mocha": MochaHook{},
}

// DefaultHooks returns the router hook followed by the hook for framework.
func DefaultHooks(framework string) []Hook {
	fw, ok := TestFrameworks[framework]
	if !ok {
		fw = missingFrameworkHook{framework: framework}
	}
	return []Hook{RouterHook{}, fw}
}
