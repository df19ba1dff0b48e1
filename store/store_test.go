package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m5lapp/decoplanner/gas"
	"github.com/m5lapp/decoplanner/setpoint"
)

func TestGasListRoundTrip(t *testing.T) {
	air, err := gas.New(21, 0, gas.Bottom, gas.Active)
	require.NoError(t, err)
	ean50, err := gas.New(50, 0, gas.Deco, gas.Inactive)
	require.NoError(t, err)
	l := gas.NewList(air, ean50)

	path := filepath.Join(t.TempDir(), "gaslist.dat")
	require.NoError(t, SaveGasList(path, l))

	got, err := LoadGasList(path)
	require.NoError(t, err)

	assert.Equal(t, l.Gases(), got.Gases())
}

func TestSetPointsRoundTrip(t *testing.T) {
	l := setpoint.DefaultList()

	path := filepath.Join(t.TempDir(), "setpoints.dat")
	require.NoError(t, SaveSetPoints(path, l))

	got, err := LoadSetPoints(path)
	require.NoError(t, err)

	assert.Equal(t, l.Points(), got.Points())
}

func TestLoadGasListMissingFileSeedsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.dat")

	got, err := LoadGasList(path)
	require.NoError(t, err)
	assert.Equal(t, gas.DefaultList().Gases(), got.Gases())
}

func TestLoadSetPointsMissingFileSeedsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.dat")

	got, err := LoadSetPoints(path)
	require.NoError(t, err)
	assert.Equal(t, setpoint.DefaultList().Points(), got.Points())
}

func TestLoadGasListRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gaslist.dat")
	require.NoError(t, os.WriteFile(path, []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x01}, 0o644))

	_, err := LoadGasList(path)
	assert.Error(t, err)
}

func TestLoadGasListRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gaslist.dat")
	data := []byte{0x44, 0x50, 0x4C, 0x4E, 0xFF, 0xFF}
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err := LoadGasList(path)
	assert.Error(t, err)
}
