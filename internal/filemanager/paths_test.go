package filemanager

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeJoin(t *testing.T) {
	base := t.TempDir()

	tests := []struct {
		rel     string
		wantErr bool
	}{
		{rel: "app/index.html"},
		{rel: ".gitignore"},
		{rel: "app/scripts/routes"},
		{rel: "", wantErr: true},
		{rel: "../escape", wantErr: true},
		{rel: "/etc/passwd", wantErr: true},
		{rel: "app/../../escape", wantErr: true},
		{rel: "..", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			got, err := SafeJoin(base, tt.rel)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(base, tt.rel), got)
		})
	}
}

func TestValidateRelPathAllowsDotPrefixedNames(t *testing.T) {
	assert.NoError(t, ValidateRelPath("..hidden"))
}
