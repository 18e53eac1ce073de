package store

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FlatFile stores records as "path|rating|lastAccess|flags" lines.
type FlatFile struct {
	path string
	// TempDir receives the scratch file written before the swap.
	// Empty means os.TempDir().
	TempDir string
}

// NewFlatFile returns a FlatFile backend for path.
func NewFlatFile(path string) *FlatFile {
	return &FlatFile{path: path}
}

func (f *FlatFile) Path() string { return f.path }

func (f *FlatFile) Close() error { return nil }

// Load decodes the file. A missing file is an empty database.
func (f *FlatFile) Load(visit func(lineNo int, e Entry, err error)) error {
	file, err := os.Open(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open data file: %w", err)
	}
	defer file.Close()

	if err := Decode(file, visit); err != nil {
		return fmt.Errorf("read data file: %w", err)
	}
	return nil
}

// Save encodes entries and swaps them in atomically.
func (f *FlatFile) Save(entries []Entry) error {
	var buf bytes.Buffer
	if err := Encode(&buf, entries); err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	return WriteAtomic(f.path, f.TempDir, buf.Bytes())
}

// rename is os.Rename, swapped out in tests to force the copy path.
var rename = os.Rename

// WriteAtomic writes data to a fresh temp file in tempDir and renames it
// over dest. When the rename fails (typically across devices) the temp
// file is copied to a sibling of dest and renamed from there. dest holds
// either its previous contents or data, never a partial write.
func WriteAtomic(dest, tempDir string, data []byte) error {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	tmp, err := writeTemp(tempDir, bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer os.Remove(tmp)

	if err := rename(tmp, dest); err == nil {
		return nil
	}

	src, err := os.Open(tmp)
	if err != nil {
		return fmt.Errorf("reopen temp file: %w", err)
	}
	defer src.Close()

	sibling, err := writeTemp(filepath.Dir(dest), src)
	if err != nil {
		return err
	}
	if err := rename(sibling, dest); err != nil {
		os.Remove(sibling)
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

// writeTemp copies r into a new temp file in dir, syncs it and returns its name.
func writeTemp(dir string, r io.Reader) (string, error) {
	f, err := os.CreateTemp(dir, ".waypoint-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	name := f.Name()
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(name)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(name)
		return "", fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return name, nil
}
