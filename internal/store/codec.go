package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/lazypower/waypoint/internal/frecency"
)

// Separator splits the fields of a stored line.
const Separator = "|"

// ErrMalformed marks a stored record that cannot be decoded.
var ErrMalformed = errors.New("malformed record")

// Entry is one path and its usage record.
type Entry struct {
	Path   string
	Record frecency.Record
}

// ParseLine decodes "path|rating|lastAccess|flags". The flags field may be
// omitted entirely. Blank lines are the caller's concern.
func ParseLine(line string) (Entry, error) {
	line = strings.TrimSuffix(line, "\r")
	fields := strings.Split(line, Separator)
	switch len(fields) {
	case 3:
		fields = append(fields, "")
	case 4:
	default:
		return Entry{}, fmt.Errorf("%w: %d fields, want 3 or 4", ErrMalformed, len(fields))
	}

	rating, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: rating %q", ErrMalformed, fields[1])
	}
	lastAccess, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: timestamp %q", ErrMalformed, fields[2])
	}

	e := Entry{
		Path: fields[0],
		Record: frecency.Record{
			Rating:     rating,
			LastAccess: lastAccess,
			Flags:      frecency.ParseFlags(fields[3]),
		},
	}
	if err := Validate(e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Validate checks the invariants every stored entry must hold.
func Validate(e Entry) error {
	if e.Path == "" {
		return fmt.Errorf("%w: empty path", ErrMalformed)
	}
	if !ValidPath(e.Path) {
		return fmt.Errorf("%w: path contains %q", ErrMalformed, Separator)
	}
	r := e.Record.Rating
	if math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
		return fmt.Errorf("%w: rating %v must be a positive number", ErrMalformed, r)
	}
	if e.Record.LastAccess < 0 {
		return fmt.Errorf("%w: negative timestamp %d", ErrMalformed, e.Record.LastAccess)
	}
	return nil
}

// ValidPath reports whether path can be stored without corrupting the line format.
func ValidPath(path string) bool {
	return !strings.ContainsAny(path, Separator+"\n")
}

// FormatLine encodes e as a single line without the trailing newline.
func FormatLine(e Entry) string {
	return strings.Join([]string{
		e.Path,
		strconv.FormatFloat(e.Record.Rating, 'g', -1, 64),
		strconv.FormatInt(e.Record.LastAccess, 10),
		string(e.Record.Flags),
	}, Separator)
}

// Encode writes entries one per line, sorted by path.
func Encode(w io.Writer, entries []Entry) error {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	bw := bufio.NewWriter(w)
	for _, e := range sorted {
		if _, err := bw.WriteString(FormatLine(e) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// MaxLineLen bounds a single stored line. Longer lines are reported as
// malformed and skipped.
const MaxLineLen = 1 << 20

// Decode reads r line by line, skipping blank lines. visit receives the
// 1-based line number and either the decoded entry or a parse error; a bad
// line never stops the scan. The returned error is a read failure.
func Decode(r io.Reader, visit func(lineNo int, e Entry, err error)) error {
	br := bufio.NewReader(r)
	lineNo := 0
	for {
		line, tooLong, err := readLine(br)
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if len(line) > 0 || tooLong {
			lineNo++
			switch text := strings.TrimSuffix(string(line), "\n"); {
			case tooLong:
				visit(lineNo, Entry{}, fmt.Errorf("%w: line longer than %d bytes", ErrMalformed, MaxLineLen))
			case strings.TrimSpace(text) != "":
				e, perr := ParseLine(text)
				visit(lineNo, e, perr)
			}
		}
		if err != nil {
			return nil
		}
	}
}

// readLine returns the next line including its newline. A line over
// MaxLineLen is consumed in full but returned empty with tooLong set.
func readLine(br *bufio.Reader) (line []byte, tooLong bool, err error) {
	for {
		frag, err := br.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(frag) > MaxLineLen+1 {
				tooLong, line = true, nil
			} else {
				line = append(line, frag...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return line, tooLong, err
	}
}
