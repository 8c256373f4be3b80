package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessInput(t *testing.T) {
	{ // No file gives the defaults
		ip, err := processInput("")
		require.NoError(t, err)
		assert.Equal(t, "sedov", ip.Problem)
		assert.Equal(t, 2, ip.Dim)
	}
	{
		fileName := filepath.Join(t.TempDir(), "input.yaml")
		data := []byte(`
Title: "small blast"
Problem: sedov
Dim: 1
Zones: 4
OrderV: 2
FinalTime: 0.002
`)
		require.NoError(t, os.WriteFile(fileName, data, 0644))
		ip, err := processInput(fileName)
		require.NoError(t, err)
		assert.Equal(t, "small blast", ip.Title)
		assert.Equal(t, 1, ip.Dim)
		assert.Equal(t, 4, ip.Zones)
		assert.Equal(t, 1, ip.OrderE)
		require.NoError(t, RunHydro(ip))
	}
	{
		_, err := processInput(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	}
	{
		fileName := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(fileName, []byte("Problem: noh\n"), 0644))
		_, err := processInput(fileName)
		assert.Error(t, err)
	}
}

func TestBench(t *testing.T) {
	ip, err := processInput("")
	require.NoError(t, err)
	ip.Dim, ip.Zones = 1, 4
	b := &Bench{Steps: 2}
	require.NoError(t, b.Run(ip))
	assert.Equal(t, 4, b.Zones)
	assert.True(t, b.Elapsed > 0)
	assert.Error(t, (&Bench{}).Run(ip))
}
