package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 1\n"), 0o644))

	w, err := Watch(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("tuning: {sensor: {fov_deg: 140}}\n"), 0o644))

	select {
	case tn := <-w.Tunings:
		assert.Equal(t, 140.0, tn.Sensor.FOVDeg)
	case err := <-w.Errors:
		t.Fatalf("unexpected watch error: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload after write")
	}
}

func TestWatch_BadFileReportsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 1\n"), 0o644))

	w, err := Watch(path)
	require.NoError(t, err)
	defer w.Close()

	// Writes to neighbours are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("tuning: {sensor: {fov_deg: 999}}\n"), 0o644))

	select {
	case err := <-w.Errors:
		assert.Contains(t, err.Error(), "scene.yaml")
	case tn := <-w.Tunings:
		t.Fatalf("invalid file produced tuning %+v", tn.Sensor)
	case <-time.After(3 * time.Second):
		t.Fatal("no error after invalid write")
	}
}

func TestWatch_CloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	w, err := Watch(path)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	_, open := <-w.Tunings
	assert.False(t, open)
}
