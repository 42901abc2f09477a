package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const (
	slotExt = ".txt"
	// maxSlotName is NAME_MAX on common filesystems.
	maxSlotName = 255
)

// File implements Store with one plain text file per key in a flat directory.
type File struct {
	dir    string
	pinned map[string]string
	log    *slog.Logger
}

// NewFile returns a Store rooted at dir, creating the directory if needed.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &IOError{Op: "mkdir", Path: dir, Err: err}
	}
	return &File{dir: dir, pinned: map[string]string{}, log: slog.Default()}, nil
}

// Pin stores key at an exact path instead of a slot under the directory.
func (f *File) Pin(key, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &IOError{Op: "mkdir", Path: filepath.Dir(path), Err: err}
	}
	f.pinned[key] = path
	return nil
}

// SlotName maps a key to a file name. Path separators and escape characters are
// percent-encoded, so distinct keys never share a slot. Names that would exceed
// maxSlotName keep an escaped prefix followed by '#' and the sha256 of the key;
// PathEscape always escapes '#', so hashed names cannot match unhashed ones.
func SlotName(key string) string {
	name := url.PathEscape(key)
	if len(name)+len(slotExt) <= maxSlotName {
		return name + slotExt
	}
	sum := sha256.Sum256([]byte(key))
	digest := hex.EncodeToString(sum[:])
	prefix := name[:maxSlotName-len(slotExt)-1-len(digest)]
	return prefix + "#" + digest + slotExt
}

// Path returns the file that holds key.
func (f *File) Path(key string) string {
	if p, ok := f.pinned[key]; ok {
		return p
	}
	return filepath.Join(f.dir, SlotName(key))
}

// ReadPointer implements Store. Surrounding whitespace is trimmed.
func (f *File) ReadPointer(_ context.Context, key string) (string, bool, error) {
	p := f.Path(key)
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &IOError{Op: "read", Path: p, Err: err}
	}
	return strings.TrimSpace(string(b)), true, nil
}

// WritePointer implements Store.
func (f *File) WritePointer(_ context.Context, key, sha string) error {
	p := f.Path(key)
	if err := os.WriteFile(p, []byte(sha), 0o644); err != nil {
		return &IOError{Op: "write", Path: p, Err: err}
	}
	f.log.Debug("pointer written", "key", key, "path", p)
	return nil
}
