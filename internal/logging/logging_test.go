package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoticeGoesToFallbackWithoutFile(t *testing.T) {
	var buf bytes.Buffer
	l := New("", &buf)

	l.Debug("added path", "path", "/srv")
	assert.Empty(t, buf.String())

	l.Notice("could not parse line", "line", 3)
	assert.Contains(t, buf.String(), "could not parse line")
	assert.Contains(t, buf.String(), "line=3")
	assert.NoError(t, l.Close())
}

func TestBothLevelsGoToFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "waypoint.log")
	l := New(path, &buf)

	l.Debug("added path", "path", "/srv")
	l.Notice("persist failed")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "added path")
	assert.Contains(t, string(data), "persist failed")
	assert.Empty(t, buf.String())
}

func TestUnopenableFileFallsBack(t *testing.T) {
	var buf bytes.Buffer
	dir := t.TempDir()
	// A directory cannot be opened for appending.
	l := New(dir, &buf)

	l.Notice("still visible")
	assert.Contains(t, buf.String(), "still visible")
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Notice("nothing")
	l.Debug("nothing")
	assert.NoError(t, l.Close())
}
