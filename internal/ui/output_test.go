package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputNoColorPrefixes(t *testing.T) {
	var out, errOut bytes.Buffer
	o := NewOutputTo(&out, &errOut)
	o.SetNoColor(true)

	o.Success("wrote %s", "app/index.html")
	o.Warning("bower install failed")
	o.Error("missing template")
	o.Info("plain")

	assert.Equal(t, "OK wrote app/index.html\nplain\n", out.String())
	assert.Equal(t, "WARN bower install failed\nFAIL missing template\n", errOut.String())
	assert.Equal(t, "app/index.html", o.Path("app/index.html"))
}

func TestOutputTable(t *testing.T) {
	var out bytes.Buffer
	o := NewOutputTo(&out, &out)
	o.SetNoColor(true)

	o.Table([]string{"BUNDLE", "SOURCES"}, [][]string{
		{"styles/main.css", "1"},
		{"scripts/components.js", "5"},
	})

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "BUNDLE                 SOURCES", lines[0])
	assert.Equal(t, "---------------------  -------", lines[1])
	assert.Equal(t, "scripts/components.js  5", lines[3])
}

func TestOutputTableEmpty(t *testing.T) {
	var out bytes.Buffer
	NewOutputTo(&out, &out).Table([]string{"A"}, nil)
	assert.Empty(t, out.String())
}

func TestIsCI(t *testing.T) {
	for _, key := range []string{"CI", "EMBER_LESS_CI", "GITHUB_ACTIONS", "GITLAB_CI"} {
		t.Setenv(key, "")
	}
	assert.False(t, IsCI())

	t.Setenv("GITLAB_CI", "false")
	assert.False(t, IsCI())

	t.Setenv("EMBER_LESS_CI", "1")
	assert.True(t, IsCI())
}

func TestWithSpinnerNonInteractive(t *testing.T) {
	want := errors.New("boom")
	called := false
	err := WithSpinner(context.Background(), "working", false, func(ctx context.Context) error {
		called = true
		return want
	})
	assert.True(t, called)
	assert.ErrorIs(t, err, want)
}
