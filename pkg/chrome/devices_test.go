package chrome

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupDevice(t *testing.T) {
	info, ok := LookupDevice("")
	assert.True(t, ok)
	assert.Equal(t, DefaultDevice, info.Name)
	assert.False(t, info.Mobile)

	info, ok = LookupDevice("iPhone 12 Pro")
	assert.True(t, ok)
	assert.True(t, info.Touch)
	assert.EqualValues(t, 390, info.Width)

	_, ok = LookupDevice("Nokia 3310")
	assert.False(t, ok)
}

func TestDeviceNamesSorted(t *testing.T) {
	names := DeviceNames()
	assert.Len(t, names, len(Devices))
	assert.IsIncreasing(t, names)
	for _, name := range names {
		assert.Equal(t, name, Devices[name].Name)
	}
}

func TestGetChromePathOverride(t *testing.T) {
	exe := filepath.Join(t.TempDir(), "my-chrome")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755))

	assert.Equal(t, exe, GetChromePath(exe))
}

func TestCandidatePaths(t *testing.T) {
	assert.Contains(t, candidatePaths("linux"), "/usr/bin/google-chrome")
	assert.NotEmpty(t, candidatePaths("darwin"))
	assert.Empty(t, candidatePaths("plan9"))
}
