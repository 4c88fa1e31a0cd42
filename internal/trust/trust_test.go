package trust

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	assert.True(t, Static(true).IsDeviceCompromised())
	assert.False(t, Static(false).IsDeviceCompromised())
}

func TestProbe(t *testing.T) {
	fs := afero.NewMemMapFs()
	p := &Probe{Fs: fs, Paths: DefaultProbePaths}

	assert.False(t, p.IsDeviceCompromised())

	require.NoError(t, afero.WriteFile(fs, "/system/xbin/su", []byte{}, 0o755))
	assert.True(t, p.IsDeviceCompromised())
}

func TestNewProbe_DefaultPaths(t *testing.T) {
	p := NewProbe(nil)
	assert.Equal(t, DefaultProbePaths, p.Paths)

	p = NewProbe([]string{"/custom/su"})
	assert.Equal(t, []string{"/custom/su"}, p.Paths)
}
