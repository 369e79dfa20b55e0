package sim

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.Nr = 2
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Rk = 3
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.OuterRadius = 1.5
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Noise = -0.1
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.NumThreads = 0
	assert.Error(t, bad.Validate())
}

func TestConfigDerivedExtents(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Nr = 16
	cfg.OuterRadius = 10
	cfg.NumBlocks = 1
	assert.Equal(t, 16, cfg.BlockSize())

	cfg.OuterRadius = 100
	cfg.NumBlocks = 4
	assert.Equal(t, 8, cfg.BlockSize())
}

func TestConfigParseYAML(t *testing.T) {
	data := []byte(`
nr: 24
rk: 2
outer_radius: 50
heating_rate: 1.5
num_blocks: 3
`)
	cfg, err := ParseConfig(data)
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.Nr)
	assert.Equal(t, 2, cfg.Rk)
	assert.Equal(t, 50.0, cfg.OuterRadius)
	assert.Equal(t, 1.5, cfg.HeatingRate)
	assert.Equal(t, 3, cfg.NumBlocks)
	// Unset keys keep their defaults
	assert.Equal(t, DefaultConfig().Tfinal, cfg.Tfinal)
}

func TestConfigFilenames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Outdir = "out"
	assert.Equal(t, filepath.Join("out", "chkpt.0007"), cfg.MakeFilenameChkpt(7))
	assert.Equal(t, filepath.Join("out", "0012.vtk"), cfg.MakeFilenameVtk(12))
	assert.Equal(t, filepath.Join("out", "chkpt.0000", "status.json"), cfg.MakeFilenameStatus(0))

	cfg.Restart = "out/chkpt.0003"
	assert.Equal(t, "out/chkpt.0003", cfg.MakeFilenameChkpt(-1))
}

func TestLoadConfigMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope", "config.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "restart file not found")
}
