package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag in the tree to its default; cobra keeps
// parsed values between Execute calls.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

type fixture struct {
	data string
	root string
}

func newFixture(t *testing.T, dataName string) fixture {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)
	for _, k := range []string{"WAYPOINT_METHOD", "WAYPOINT_DATAFILE", "WAYPOINT_LOGFILE", "WAYPOINT_MAXLINES", "WAYPOINT_STRICT", "WAYPOINT_CASE_SENSITIVE"} {
		t.Setenv(k, "")
	}

	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	for _, d := range []string{"projects/alpha", "projects/beta", "music"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "projects", "alpha", "notes.txt"), []byte("x"), 0o644))
	return fixture{data: filepath.Join(home, "data", dataName), root: root}
}

func (f fixture) path(rel string) string {
	return filepath.Join(f.root, rel)
}

func TestEndToEndFlatFile(t *testing.T) {
	testEndToEnd(t, "waypoint.dat")
}

func TestEndToEndSQLite(t *testing.T) {
	testEndToEnd(t, "waypoint.db")
}

func testEndToEnd(t *testing.T, dataName string) {
	f := newFixture(t, dataName)
	df := "--datafile=" + f.data

	out, _, err := run(t, "init", df)
	require.NoError(t, err)
	assert.Contains(t, out, "initialized")

	_, _, err = run(t, "init", df)
	assert.Error(t, err, "init must not clobber without --force")

	_, _, err = run(t, "add", df, f.path("projects/alpha"), f.path("projects/beta"), f.path("projects/alpha/notes.txt"), f.path("missing"))
	require.NoError(t, err)
	_, _, err = run(t, "add", df, "-a", "p", f.path("projects/alpha"))
	require.NoError(t, err)

	out, _, err = run(t, "find", df, "proj")
	require.NoError(t, err)
	assert.Equal(t, f.path("projects/alpha")+"\n", out)

	out, _, err = run(t, "find", df, "-d", "alpha")
	require.NoError(t, err)
	assert.Equal(t, f.path("projects/alpha")+"\n", out)

	out, _, err = run(t, "find", df, "-f", "alpha")
	require.NoError(t, err)
	assert.Equal(t, f.path("projects/alpha/notes.txt")+"\n", out)

	_, _, err = run(t, "find", df, "nothing-here")
	assert.ErrorIs(t, err, ErrNoMatch)

	out, _, err = run(t, "find-all", df, "-v", "proj")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[2], " "+f.path("projects/alpha")), lines[2])
	assert.Contains(t, lines[2], " p ")

	_, _, err = run(t, "remove", df, f.path("projects/beta"))
	require.NoError(t, err)
	out, _, err = run(t, "find-all", df, "beta")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, _, err = run(t, "clean", df, "--maxlines=1")
	require.NoError(t, err)
	assert.Contains(t, out, "evicted 1 of 2 records")

	out, _, err = run(t, "find-all", df)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 1)

	_, _, err = run(t, "init", df, "--force")
	require.NoError(t, err)
	out, _, err = run(t, "find-all", df)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestAddBlacklistedCommand(t *testing.T) {
	f := newFixture(t, "waypoint.dat")
	df := "--datafile=" + f.data

	_, _, err := run(t, "add", df, "--", "ls", f.path("music"))
	require.NoError(t, err)
	_, err = os.Stat(f.data)
	assert.True(t, os.IsNotExist(err), "nothing recorded, nothing written")

	_, _, err = run(t, "add", df, "--", "vim", f.path("music"))
	require.NoError(t, err)
	out, _, err := run(t, "find", df, "music")
	require.NoError(t, err)
	assert.Equal(t, f.path("music")+"\n", out)
}

func TestMalformedLinesAreSurfaced(t *testing.T) {
	f := newFixture(t, "waypoint.dat")
	require.NoError(t, os.MkdirAll(filepath.Dir(f.data), 0o755))
	content := f.path("music") + "|2|100|\nbroken|line\n"
	require.NoError(t, os.WriteFile(f.data, []byte(content), 0o644))

	out, stderr, err := run(t, "find", "--datafile="+f.data, "music")
	require.NoError(t, err)
	assert.Equal(t, f.path("music")+"\n", out)
	assert.Contains(t, stderr, "skipping stored record")
}

func TestRemoveMissingIsNotAnError(t *testing.T) {
	f := newFixture(t, "waypoint.dat")
	_, stderr, err := run(t, "remove", "--datafile="+f.data, "/not/there")
	require.NoError(t, err)
	assert.Contains(t, stderr, "path not in database")
}

func TestInvalidMethod(t *testing.T) {
	f := newFixture(t, "waypoint.dat")
	_, _, err := run(t, "find", "--datafile="+f.data, "-m", "popularity", "x")
	assert.Error(t, err)
}

func TestShellCommand(t *testing.T) {
	out, _, err := run(t, "shell", "zsh", "--jump", "z")
	require.NoError(t, err)
	assert.Contains(t, out, "z() {")

	_, _, err = run(t, "shell", "tcsh")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "waypoint dev"))
}

func TestCommandFlagsBuildConfig(t *testing.T) {
	f := newFixture(t, "waypoint.dat")
	df := "--datafile=" + f.data

	_, _, err := run(t, "add", df, "-a", "xy", f.path("music"))
	require.NoError(t, err)
	_, _, err = run(t, "add", df, "-r", "x", f.path("music"))
	require.NoError(t, err)
	out, _, err := run(t, "find-all", df, "-v", "music")
	require.NoError(t, err)
	assert.Contains(t, out, " y ")
	assert.NotContains(t, out, "xy")

	_, _, err = run(t, "find", df, "MUSIC")
	require.NoError(t, err)
	_, _, err = run(t, "find", df, "-c", "MUSIC")
	assert.ErrorIs(t, err, ErrNoMatch)

	t.Setenv("WAYPOINT_CASE_SENSITIVE", "true")
	_, _, err = run(t, "find", df, "MUSIC")
	assert.ErrorIs(t, err, ErrNoMatch)
	_, _, err = run(t, "find", df, "--case-sensitive=false", "MUSIC")
	assert.NoError(t, err)

	_, _, err = run(t, "find", df, "-d", "-f", "music")
	assert.Error(t, err)
}
