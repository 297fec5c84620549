package generator

// Action is the kind of file operation in a Plan.
type Action string

const (
	CreateDirectory Action = "create-directory"
	CopyVerbatim    Action = "copy-verbatim"
	RenderTemplate  Action = "render-template"
)

// Op is one planned file operation. Dest is relative to the target
// directory and uses forward slashes. Source is a template name and is empty
// for CreateDirectory.
type Op struct {
	Action Action
	Source string
	Dest   string
}

// Plan is the ordered File Plan of a run. Steps append to it independently;
// duplicate destinations are kept.
type Plan struct {
	ops []Op
}

// Mkdir plans a directory.
func (p *Plan) Mkdir(dest string) {
	p.ops = append(p.ops, Op{Action: CreateDirectory, Dest: dest})
}

// Copy plans a verbatim copy of a template.
func (p *Plan) Copy(source, dest string) {
	p.ops = append(p.ops, Op{Action: CopyVerbatim, Source: source, Dest: dest})
}

// Render plans a rendered template.
func (p *Plan) Render(source, dest string) {
	p.ops = append(p.ops, Op{Action: RenderTemplate, Source: source, Dest: dest})
}

// Ops returns a copy of the planned operations in order.
func (p *Plan) Ops() []Op {
	out := make([]Op, len(p.ops))
	copy(out, p.ops)
	return out
}

// Len returns the number of planned operations.
func (p *Plan) Len() int {
	return len(p.ops)
}

// Manifest is the ordered list of third-party scripts referenced by the
// document. It only grows; entries are never reordered or deduplicated.
type Manifest struct {
	paths []string
}

// Append adds a batch of paths after the existing entries.
func (m *Manifest) Append(paths ...string) {
	m.paths = append(m.paths, paths...)
}

// Paths returns a copy of the manifest in inclusion order.
func (m *Manifest) Paths() []string {
	out := make([]string, len(m.paths))
	copy(out, m.paths)
	return out
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	return len(m.paths)
}
