package store

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/lazypower/waypoint/internal/frecency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLineFourFields(t *testing.T) {
	e, err := ParseLine("/home/tim/tmp|4.5|1234567|x")
	require.NoError(t, err)
	assert.Equal(t, "/home/tim/tmp", e.Path)
	assert.Equal(t, 4.5, e.Record.Rating)
	assert.Equal(t, int64(1234567), e.Record.LastAccess)
	assert.Equal(t, frecency.Flags("x"), e.Record.Flags)
}

func TestParseLineThreeFields(t *testing.T) {
	e, err := ParseLine("/home/tim/Documents|6.7|1237890")
	require.NoError(t, err)
	assert.Equal(t, frecency.Flags(""), e.Record.Flags)
}

func TestParseLineDedupesFlags(t *testing.T) {
	e, err := ParseLine("/srv|1|1|abba\r")
	require.NoError(t, err)
	assert.Equal(t, frecency.Flags("ab"), e.Record.Flags)
}

func TestParseLineMalformed(t *testing.T) {
	bad := []string{
		"/home/tim/tmp|4.5",
		"/home/tim/tmp|4.5|1234567|x|",
		"/home/tim/tmp|four|1234567|x",
		"/home/tim/tmp|4.5|yesterday|x",
		"/home/tim/tmp|0|1234567|x",
		"/home/tim/tmp|-2|1234567|x",
		"/home/tim/tmp|NaN|1234567|x",
		"/home/tim/tmp|4.5|-1|x",
		"|4.5|1234567|x",
	}
	for _, line := range bad {
		_, err := ParseLine(line)
		assert.True(t, errors.Is(err, ErrMalformed), "line %q: %v", line, err)
	}
}

func TestFormatLine(t *testing.T) {
	e := Entry{Path: "/srv/www", Record: frecency.Record{Rating: 1.25, LastAccess: 42, Flags: "ab"}}
	assert.Equal(t, "/srv/www|1.25|42|ab", FormatLine(e))

	back, err := ParseLine(FormatLine(e))
	require.NoError(t, err)
	assert.Equal(t, e, back)
}

func TestDecodeSkipsBadLines(t *testing.T) {
	input := strings.Join([]string{
		"/home/tim/tmp|4.5|1234567|x",
		"",
		"/home/tim/broken|4.5",
		"   ",
		"/root/src|1.2|1235566|",
	}, "\n")

	var good []Entry
	var badLines []int
	err := Decode(strings.NewReader(input), func(lineNo int, e Entry, err error) {
		if err != nil {
			badLines = append(badLines, lineNo)
			return
		}
		good = append(good, e)
	})
	require.NoError(t, err)
	assert.Equal(t, []int{3}, badLines)
	require.Len(t, good, 2)
	assert.Equal(t, "/home/tim/tmp", good[0].Path)
	assert.Equal(t, "/root/src", good[1].Path)
}

func TestDecodeSkipsOverlongLine(t *testing.T) {
	input := "/good|1|1|\n" + strings.Repeat("x", 2*MaxLineLen) + "\n/good2|1|1|"

	var good []string
	var bad []int
	err := Decode(strings.NewReader(input), func(lineNo int, e Entry, err error) {
		if err != nil {
			assert.ErrorIs(t, err, ErrMalformed)
			bad = append(bad, lineNo)
			return
		}
		good = append(good, e.Path)
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2}, bad)
	assert.Equal(t, []string{"/good", "/good2"}, good)
}

func TestEncodeSortedByPath(t *testing.T) {
	entries := []Entry{
		{Path: "/b", Record: frecency.Record{Rating: 2, LastAccess: 2}},
		{Path: "/a", Record: frecency.Record{Rating: 1, LastAccess: 1, Flags: "z"}},
	}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, entries))
	assert.Equal(t, "/a|1|1|z\n/b|2|2|\n", buf.String())
	assert.Equal(t, "/b", entries[0].Path, "input slice must not be reordered")
}

func TestValidPath(t *testing.T) {
	assert.True(t, ValidPath("/home/tim/tmp"))
	assert.False(t, ValidPath("/home/tim/a|b"))
	assert.False(t, ValidPath("/home/tim/a\nb"))
}
