package filemanager

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyGenerated(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/p/.gitignore", []byte("node_modules\n"), 0644))
	require.NoError(t, afero.WriteFile(fsys, "/p/app/index.html", []byte("<html></html>"), 0644))

	expected, err := HashFiles(fsys, "/p", []string{".gitignore", "app/index.html"})
	require.NoError(t, err)

	result := VerifyGenerated(fsys, "/p", expected)
	assert.True(t, result.OK)
	assert.Equal(t, 2, result.Checked)

	require.NoError(t, afero.WriteFile(fsys, "/p/app/index.html", []byte("tampered"), 0644))
	require.NoError(t, fsys.Remove("/p/.gitignore"))

	result = VerifyGenerated(fsys, "/p", expected)
	assert.False(t, result.OK)
	assert.Equal(t, []string{".gitignore"}, result.Missing)
	assert.Equal(t, []string{"app/index.html"}, result.Modified)
}

func TestVerifyGeneratedEmpty(t *testing.T) {
	result := VerifyGenerated(afero.NewMemMapFs(), "/p", nil)
	assert.True(t, result.OK)
	assert.Zero(t, result.Checked)
}
