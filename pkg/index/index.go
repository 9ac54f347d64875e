// Package index decodes the binary staging-area file ("DIRC" format).
//
// The file starts with a 12-byte header: the 4-byte signature "DIRC", a
// big-endian uint32 version and a big-endian uint32 entry count. Each entry
// then holds a 62-byte fixed portion:
//
//	ctime sec, ctime nsec, mtime sec, mtime nsec  4 x uint32
//	dev, ino, mode, uid, gid, size                6 x uint32
//	sha1                                          20 bytes
//	flags                                         uint16 (low 12 bits = path length)
//
// Version 3 entries with the extended flag set carry 2 more flag bytes. The
// path follows, then 1 to 8 NUL bytes pad the entry to a multiple of 8 bytes.
// Extensions and the trailing checksum after the entry table are ignored.
package index

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/odvcencio/gitplumb/pkg/object"
)

// ErrFormat marks a malformed or truncated index file.
var ErrFormat = errors.New("index format")

const (
	signature = "DIRC"

	headerSize = 12
	// entryFixedSize covers every field before the path in a non-extended entry.
	entryFixedSize = 62

	flagExtended  = 0x4000
	flagStageMask = 0x3000
	flagNameMask  = 0x0fff
)

// Supported versions. Version 4 prefix-compresses paths and is rejected.
const (
	VersionMin = 2
	VersionMax = 3
)

// Timestamp is a seconds/nanoseconds pair as stored in an entry.
type Timestamp struct {
	Sec  uint32
	Nsec uint32
}

// Time converts the timestamp to a time.Time.
func (ts Timestamp) Time() time.Time {
	return time.Unix(int64(ts.Sec), int64(ts.Nsec))
}

// Entry is one staged file.
type Entry struct {
	CTime         Timestamp
	MTime         Timestamp
	Dev           uint32
	Inode         uint32
	Mode          uint32
	UID           uint32
	GID           uint32
	FileSize      uint32
	ID            object.ID
	Flags         uint16
	ExtendedFlags uint16
	Path          string
}

// Stage returns the merge stage recorded in the flags (0 for normal entries).
func (e Entry) Stage() int {
	return int(e.Flags&flagStageMask) >> 12
}

// String renders the entry as "<octal mode> <hash> <path>".
func (e Entry) String() string {
	return fmt.Sprintf("%o %s %s", e.Mode, e.ID, e.Path)
}

// Index is a decoded staging-area snapshot.
type Index struct {
	Version uint32
	Entries []Entry
}

// Load reads and decodes the index file at path. A missing file is reported
// as object.ErrNotFound.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load index %s: %w", path, object.ErrNotFound)
		}
		return nil, fmt.Errorf("load index: %w", &object.IOError{Op: "read", Path: path, Err: err})
	}
	idx, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("load index %s: %w", path, err)
	}
	return idx, nil
}

// Decode parses an index buffer. Every field read is bounds checked, so a
// truncated or corrupted buffer yields ErrFormat rather than a panic.
func Decode(data []byte) (*Index, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: file too short (%d bytes)", ErrFormat, len(data))
	}
	r := &reader{buf: data}

	sig, err := r.bytes(len(signature), "signature")
	if err != nil {
		return nil, err
	}
	if string(sig) != signature {
		return nil, fmt.Errorf("%w: invalid signature %q", ErrFormat, sig)
	}
	version, err := r.uint32("version")
	if err != nil {
		return nil, err
	}
	if version < VersionMin || version > VersionMax {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrFormat, version)
	}
	count, err := r.uint32("entry count")
	if err != nil {
		return nil, err
	}

	idx := &Index{Version: version}
	for i := uint32(0); i < count; i++ {
		e, err := r.entry(version)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		idx.Entries = append(idx.Entries, e)
	}
	return idx, nil
}

// padding returns the number of NUL bytes after an entry of n bytes. Paths
// are always NUL terminated, so an entry already on an 8-byte boundary gets a
// full 8 bytes of padding.
func padding(n int) int {
	return 8 - n%8
}

type reader struct {
	buf []byte
	off int
}

func (r *reader) bytes(n int, field string) ([]byte, error) {
	if n < 0 || len(r.buf)-r.off < n {
		return nil, fmt.Errorf("%w: %s at offset %d: need %d bytes, have %d", ErrFormat, field, r.off, n, len(r.buf)-r.off)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) uint32(field string) (uint32, error) {
	b, err := r.bytes(4, field)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *reader) uint16(field string) (uint16, error) {
	b, err := r.bytes(2, field)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *reader) entry(version uint32) (Entry, error) {
	var e Entry
	start := r.off

	u32 := []struct {
		dst   *uint32
		field string
	}{
		{&e.CTime.Sec, "ctime"},
		{&e.CTime.Nsec, "ctime nsec"},
		{&e.MTime.Sec, "mtime"},
		{&e.MTime.Nsec, "mtime nsec"},
		{&e.Dev, "dev"},
		{&e.Inode, "inode"},
		{&e.Mode, "mode"},
		{&e.UID, "uid"},
		{&e.GID, "gid"},
		{&e.FileSize, "file size"},
	}
	for _, f := range u32 {
		v, err := r.uint32(f.field)
		if err != nil {
			return e, err
		}
		*f.dst = v
	}

	id, err := r.bytes(object.HashSize, "sha1")
	if err != nil {
		return e, err
	}
	copy(e.ID[:], id)

	if e.Flags, err = r.uint16("flags"); err != nil {
		return e, err
	}
	if e.Flags&flagExtended != 0 {
		if version < 3 {
			return e, fmt.Errorf("%w: extended flag set in version %d entry", ErrFormat, version)
		}
		if e.ExtendedFlags, err = r.uint16("extended flags"); err != nil {
			return e, err
		}
	}

	nameLen := int(e.Flags & flagNameMask)
	var name []byte
	if nameLen == flagNameMask {
		// Length did not fit in 12 bits; the path runs to the next NUL.
		nul := bytes.IndexByte(r.buf[r.off:], 0)
		if nul < 0 {
			return e, fmt.Errorf("%w: path at offset %d: unterminated long path", ErrFormat, r.off)
		}
		name, err = r.bytes(nul, "path")
	} else {
		name, err = r.bytes(nameLen, "path")
	}
	if err != nil {
		return e, err
	}
	e.Path = strings.ToValidUTF8(string(name), "\uFFFD")

	if _, err := r.bytes(padding(r.off-start), "padding"); err != nil {
		return e, err
	}
	return e, nil
}
