// Package document holds the generated HTML entry point in memory and
// inserts usemin build blocks at its style and script markers.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/net/html"
)

const (
	StylesMarker  = "<!-- ember-less:styles -->"
	ScriptsMarker = "<!-- ember-less:scripts -->"
)

// Kind is the asset type of a build block.
type Kind string

const (
	CSS Kind = "css"
	JS  Kind = "js"
)

// ErrMissingMarker is returned when a template lacks an insertion marker.
var ErrMissingMarker = errors.New("insertion marker not found")

// Document is the HTML entry point being enriched. It is loaded once, mutated
// by Append* calls, and written once. Appends are not deduplicated: calling
// AppendScripts twice with the same bundle produces two blocks.
type Document struct {
	content string
}

// Load parses a template and checks that both markers are present.
func Load(data []byte) (*Document, error) {
	content := string(data)
	for _, m := range []string{StylesMarker, ScriptsMarker} {
		if !strings.Contains(content, m) {
			return nil, fmt.Errorf("%w: %s", ErrMissingMarker, m)
		}
	}
	return &Document{content: content}, nil
}

// AppendStyles adds a css bundle block before the styles marker.
func (d *Document) AppendStyles(bundle string, sources []string) {
	d.insert(StylesMarker, BuildBlock(CSS, bundle, sources, ""))
}

// AppendScripts adds a js bundle block before the scripts marker.
func (d *Document) AppendScripts(bundle string, sources []string) {
	d.insert(ScriptsMarker, BuildBlock(JS, bundle, sources, ""))
}

// AppendFiles adds a bundle block of the given kind. searchPath, when set,
// names the directory the sources are resolved from at build time (".tmp"
// for compiled output).
func (d *Document) AppendFiles(kind Kind, bundle string, sources []string, searchPath string) error {
	switch kind {
	case CSS:
		d.insert(StylesMarker, BuildBlock(kind, bundle, sources, searchPath))
	case JS:
		d.insert(ScriptsMarker, BuildBlock(kind, bundle, sources, searchPath))
	default:
		return fmt.Errorf("unknown bundle kind %q", kind)
	}
	return nil
}

// BuildBlock generates one usemin build block, one reference per source.
func BuildBlock(kind Kind, bundle string, sources []string, searchPath string) string {
	var b strings.Builder

	b.WriteString("<!-- build:")
	b.WriteString(string(kind))
	if searchPath != "" {
		fmt.Fprintf(&b, "(%s)", searchPath)
	}
	fmt.Fprintf(&b, " %s -->\n", bundle)

	for _, src := range sources {
		if kind == CSS {
			fmt.Fprintf(&b, "<link rel=\"stylesheet\" href=\"%s\">\n", src)
		} else {
			fmt.Fprintf(&b, "<script src=\"%s\"></script>\n", src)
		}
	}

	b.WriteString("<!-- endbuild -->")
	return b.String()
}

// insert places block on the lines directly above the marker, indented like
// the marker, so successive blocks keep their call order.
func (d *Document) insert(marker, block string) {
	idx := strings.Index(d.content, marker)
	lineStart := strings.LastIndex(d.content[:idx], "\n") + 1
	indent := d.content[lineStart:idx]
	if strings.TrimSpace(indent) != "" {
		indent = ""
		lineStart = idx
	}

	var b strings.Builder
	for _, line := range strings.Split(block, "\n") {
		b.WriteString(indent)
		b.WriteString(line)
		b.WriteString("\n")
	}

	d.content = d.content[:lineStart] + b.String() + d.content[lineStart:]
}

// String returns the current document.
func (d *Document) String() string {
	return d.content
}

// Bytes returns the current document.
func (d *Document) Bytes() []byte {
	return []byte(d.content)
}

// WriteFile writes the document to path on fsys using a temp file and rename.
func (d *Document) WriteFile(fsys afero.Fs, path string) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := afero.WriteFile(fsys, tmpPath, d.Bytes(), 0644); err != nil {
		return err
	}

	if err := fsys.Rename(tmpPath, path); err != nil {
		fsys.Remove(tmpPath)
		return err
	}
	return nil
}

// Bundle is a build block read back from a document.
type Bundle struct {
	Kind       Kind
	Output     string
	SearchPath string
	Sources    []string
}

// Bundles returns the build blocks in document order.
func (d *Document) Bundles() ([]Bundle, error) {
	return ParseBundles(strings.NewReader(d.content))
}

// ParseBundles reads usemin build blocks from HTML.
func ParseBundles(r io.Reader) ([]Bundle, error) {
	z := html.NewTokenizer(r)

	var (
		bundles []Bundle
		current *Bundle
	)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				if current != nil {
					return nil, fmt.Errorf("build block %s is not closed", current.Output)
				}
				return bundles, nil
			}
			return nil, fmt.Errorf("parsing document: %w", z.Err())

		case html.CommentToken:
			text := strings.TrimSpace(string(z.Token().Data))
			if text == "endbuild" {
				if current == nil {
					return nil, errors.New("endbuild without build block")
				}
				bundles = append(bundles, *current)
				current = nil
				continue
			}
			if b, ok := parseBuildComment(text); ok {
				if current != nil {
					return nil, fmt.Errorf("build block %s opened inside %s", b.Output, current.Output)
				}
				current = &b
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			if current == nil {
				continue
			}
			tok := z.Token()
			switch {
			case tok.Data == "script" && current.Kind == JS:
				if src := attr(tok, "src"); src != "" {
					current.Sources = append(current.Sources, src)
				}
			case tok.Data == "link" && current.Kind == CSS:
				if href := attr(tok, "href"); href != "" {
					current.Sources = append(current.Sources, href)
				}
			}
		}
	}
}

// parseBuildComment reads "build:js(.tmp) scripts/main.js".
func parseBuildComment(text string) (Bundle, bool) {
	rest, ok := strings.CutPrefix(text, "build:")
	if !ok {
		return Bundle{}, false
	}
	spec, output, ok := strings.Cut(rest, " ")
	if !ok {
		return Bundle{}, false
	}

	b := Bundle{Output: strings.TrimSpace(output)}
	if open := strings.Index(spec, "("); open >= 0 && strings.HasSuffix(spec, ")") {
		b.SearchPath = spec[open+1 : len(spec)-1]
		spec = spec[:open]
	}
	b.Kind = Kind(spec)
	return b, b.Kind == CSS || b.Kind == JS
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// ScriptSources flattens the sources of every js bundle writing to output,
// in document order.
func ScriptSources(bundles []Bundle, output string) []string {
	var out []string
	for _, b := range bundles {
		if b.Kind == JS && b.Output == output {
			out = append(out, b.Sources...)
		}
	}
	return out
}

// VerifyResult contains the marker check for a written document.
type VerifyResult struct {
	Exists     bool
	HasStyles  bool
	HasScripts bool
}

// OK reports whether both markers are intact.
func (v VerifyResult) OK() bool {
	return v.Exists && v.HasStyles && v.HasScripts
}

// VerifyFile checks that a written document still carries both markers.
func VerifyFile(fsys afero.Fs, path string) VerifyResult {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return VerifyResult{}
	}
	return VerifyResult{
		Exists:     true,
		HasStyles:  bytes.Contains(data, []byte(StylesMarker)),
		HasScripts: bytes.Contains(data, []byte(ScriptsMarker)),
	}
}
