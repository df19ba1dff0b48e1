package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m5lapp/decoplanner/params"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	p := params.Default()
	p.GFLo = 0.35
	p.GFHi = 0.75
	p.ENDLimit = 25

	path := filepath.Join(t.TempDir(), "parameters.yaml")
	require.NoError(t, Save(path, p))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, p.GFLo, got.GFLo)
	assert.Equal(t, p.GFHi, got.GFHi)
	assert.Equal(t, p.ENDLimit, got.ENDLimit)
	assert.Equal(t, p.Atmosphere, got.Atmosphere)
	assert.Equal(t, p.O2Narcotic, got.O2Narcotic)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parameters.yaml")
	data := []byte("gf_lo: 0.3\ngf_hi: 0.7\nnot_a_real_field: 42\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err := Load(path)
	assert.Error(t, err, "strict decoding should reject an unknown key")
}

func TestLoadMissingFileReturnsNotExistError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
