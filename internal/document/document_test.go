package document

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const template = `<html>
  <head>
    <!-- ember-less:styles -->
  </head>
  <body>
    <!-- ember-less:scripts -->
  </body>
</html>
`

func load(t *testing.T) *Document {
	t.Helper()
	d, err := Load([]byte(template))
	require.NoError(t, err)
	return d
}

func TestLoadRequiresMarkers(t *testing.T) {
	_, err := Load([]byte("<html><!-- ember-less:styles --></html>"))
	require.ErrorIs(t, err, ErrMissingMarker)
	assert.Contains(t, err.Error(), ScriptsMarker)
}

func TestBuildBlock(t *testing.T) {
	block := BuildBlock(JS, "scripts/templates.js", []string{"scripts/compiled-templates.js"}, ".tmp")
	assert.Equal(t, "<!-- build:js(.tmp) scripts/templates.js -->\n"+
		"<script src=\"scripts/compiled-templates.js\"></script>\n"+
		"<!-- endbuild -->", block)

	block = BuildBlock(CSS, "styles/main.css", []string{"styles/normalize.css", "styles/style.css"}, "")
	assert.Equal(t, "<!-- build:css styles/main.css -->\n"+
		"<link rel=\"stylesheet\" href=\"styles/normalize.css\">\n"+
		"<link rel=\"stylesheet\" href=\"styles/style.css\">\n"+
		"<!-- endbuild -->", block)
}

func TestAppendKeepsIndentAndMarker(t *testing.T) {
	d := load(t)
	d.AppendStyles("styles/main.css", []string{"styles/style.css"})

	want := `<html>
  <head>
    <!-- build:css styles/main.css -->
    <link rel="stylesheet" href="styles/style.css">
    <!-- endbuild -->
    <!-- ember-less:styles -->
  </head>`
	assert.True(t, strings.HasPrefix(d.String(), want), d.String())
}

func TestAppendOrderPerKind(t *testing.T) {
	d := load(t)
	d.AppendScripts("scripts/components.js", []string{"a.js", "b.js"})
	d.AppendStyles("styles/main.css", []string{"styles/style.css"})
	require.NoError(t, d.AppendFiles(JS, "scripts/templates.js", []string{"scripts/compiled-templates.js"}, ".tmp"))
	d.AppendScripts("scripts/plugins.js", []string{"c.js"})

	bundles, err := d.Bundles()
	require.NoError(t, err)

	want := []Bundle{
		{Kind: CSS, Output: "styles/main.css", Sources: []string{"styles/style.css"}},
		{Kind: JS, Output: "scripts/components.js", Sources: []string{"a.js", "b.js"}},
		{Kind: JS, Output: "scripts/templates.js", SearchPath: ".tmp", Sources: []string{"scripts/compiled-templates.js"}},
		{Kind: JS, Output: "scripts/plugins.js", Sources: []string{"c.js"}},
	}
	if diff := cmp.Diff(want, bundles); diff != "" {
		t.Errorf("bundles mismatch (-want +got):\n%s", diff)
	}

	styles := strings.Index(d.String(), StylesMarker)
	firstScript := strings.Index(d.String(), "build:js")
	assert.Less(t, styles, firstScript, "style blocks stay in the head")
}

func TestAppendIsNotDeduplicated(t *testing.T) {
	d := load(t)
	d.AppendScripts("scripts/plugins.js", []string{"x.js"})
	d.AppendScripts("scripts/plugins.js", []string{"x.js"})

	bundles, err := d.Bundles()
	require.NoError(t, err)
	require.Len(t, bundles, 2)
	assert.Equal(t, []string{"x.js", "x.js"}, ScriptSources(bundles, "scripts/plugins.js"))
}

func TestAppendFilesUnknownKind(t *testing.T) {
	d := load(t)
	err := d.AppendFiles(Kind("less"), "x", nil, "")
	require.Error(t, err)
	assert.Equal(t, template, d.String(), "document unchanged")
}

func TestParseBundlesErrors(t *testing.T) {
	_, err := ParseBundles(strings.NewReader("<!-- build:js a.js --><script src=\"x.js\"></script>"))
	assert.ErrorContains(t, err, "not closed")

	_, err = ParseBundles(strings.NewReader("<!-- endbuild -->"))
	assert.ErrorContains(t, err, "endbuild")
}

func TestParseBundlesIgnoresOtherComments(t *testing.T) {
	html := `<!--[if lt IE 10]><p>old</p><![endif]-->
<script src="outside.js"></script>
<!-- build:js scripts/main.js -->
<script src="scripts/app.js"></script>
<!-- endbuild -->`
	bundles, err := ParseBundles(strings.NewReader(html))
	require.NoError(t, err)
	require.Len(t, bundles, 1)
	assert.Equal(t, []string{"scripts/app.js"}, bundles[0].Sources)
}

func TestWriteFileAndVerify(t *testing.T) {
	fsys := afero.NewMemMapFs()
	d := load(t)
	d.AppendScripts("scripts/components.js", []string{"a.js"})

	require.NoError(t, d.WriteFile(fsys, "/p/app/index.html"))

	data, err := afero.ReadFile(fsys, "/p/app/index.html")
	require.NoError(t, err)
	assert.Equal(t, d.String(), string(data))

	exists, err := afero.Exists(fsys, "/p/app/index.html.tmp")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.True(t, VerifyFile(fsys, "/p/app/index.html").OK())
	assert.False(t, VerifyFile(fsys, "/p/missing.html").Exists)

	require.NoError(t, afero.WriteFile(fsys, "/p/broken.html", []byte(StylesMarker), 0644))
	v := VerifyFile(fsys, "/p/broken.html")
	assert.True(t, v.HasStyles)
	assert.False(t, v.HasScripts)
	assert.False(t, v.OK())
}
