package index

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/odvcencio/gitplumb/pkg/object"
)

func encodeEntry(e Entry) []byte {
	var buf []byte
	for _, v := range []uint32{
		e.CTime.Sec, e.CTime.Nsec, e.MTime.Sec, e.MTime.Nsec,
		e.Dev, e.Inode, e.Mode, e.UID, e.GID, e.FileSize,
	} {
		buf = binary.BigEndian.AppendUint32(buf, v)
	}
	buf = append(buf, e.ID[:]...)
	buf = binary.BigEndian.AppendUint16(buf, e.Flags)
	if e.Flags&flagExtended != 0 {
		buf = binary.BigEndian.AppendUint16(buf, e.ExtendedFlags)
	}
	buf = append(buf, e.Path...)
	return append(buf, make([]byte, padding(len(buf)))...)
}

func encodeIndex(version uint32, count uint32, entries []Entry) []byte {
	buf := []byte(signature)
	buf = binary.BigEndian.AppendUint32(buf, version)
	buf = binary.BigEndian.AppendUint32(buf, count)
	for _, e := range entries {
		buf = append(buf, encodeEntry(e)...)
	}
	// Trailing checksum; never validated.
	return append(buf, bytes.Repeat([]byte{0xee}, object.HashSize)...)
}

func makeEntry(path string, b byte) Entry {
	var id object.ID
	for i := range id {
		id[i] = b
	}
	return Entry{
		CTime:    Timestamp{Sec: 1700000000, Nsec: 1},
		MTime:    Timestamp{Sec: 1700000001, Nsec: 2},
		Dev:      66306,
		Inode:    1234,
		Mode:     0o100644,
		UID:      1000,
		GID:      1000,
		FileSize: 12,
		ID:       id,
		Flags:    uint16(len(path)),
		Path:     path,
	}
}

func TestDecodeEntries(t *testing.T) {
	want := []Entry{
		makeEntry("a", 0x01),           // 63 bytes, 1 byte of padding
		makeEntry("ab", 0x02),          // 64 bytes, 8 bytes of padding
		makeEntry("src/main.go", 0x03), // 73 bytes, 7 bytes of padding
		makeEntry("docs/readme", 0x04),
	}
	want[3].Mode = 0o100755

	idx, err := Decode(encodeIndex(2, uint32(len(want)), want))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if idx.Version != 2 {
		t.Errorf("Version = %d, want 2", idx.Version)
	}
	if diff := cmp.Diff(want, idx.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestPaddingOnBoundary(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{entryFixedSize, 2},
		{entryFixedSize + 1, 1},
		{entryFixedSize + 2, 8},
		{entryFixedSize + 3, 7},
		{entryFixedSize + 10, 8},
	}
	for _, tt := range tests {
		if got := padding(tt.n); got != tt.want {
			t.Errorf("padding(%d) = %d, want %d", tt.n, got, tt.want)
		}
		if (tt.n+padding(tt.n))%8 != 0 {
			t.Errorf("padding(%d) does not align to 8", tt.n)
		}
	}
}

func TestDecodeEmptyIndex(t *testing.T) {
	idx, err := Decode(encodeIndex(2, 0, nil))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(idx.Entries) != 0 {
		t.Errorf("Entries = %d, want 0", len(idx.Entries))
	}
}

func TestDecodeHeaderErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"nil", nil},
		{"signature only", []byte("DIRC")},
		{"eleven bytes", []byte("DIRC\x00\x00\x00\x02\x00\x00\x00")},
		{"bad signature", []byte("DIRX\x00\x00\x00\x02\x00\x00\x00\x00")},
		{"lowercase signature", []byte("dirc\x00\x00\x00\x02\x00\x00\x00\x00")},
		{"version 1", []byte("DIRC\x00\x00\x00\x01\x00\x00\x00\x00")},
		{"version 4", []byte("DIRC\x00\x00\x00\x04\x00\x00\x00\x00")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.data); !errors.Is(err, ErrFormat) {
				t.Fatalf("Decode error = %v, want ErrFormat", err)
			}
		})
	}
}

func TestDecodeCountExceedsBuffer(t *testing.T) {
	data := encodeIndex(2, 3, []Entry{makeEntry("only", 0x01)})
	_, err := Decode(data)
	if !errors.Is(err, ErrFormat) {
		t.Fatalf("Decode error = %v, want ErrFormat", err)
	}
	if !strings.Contains(err.Error(), "entry 1") {
		t.Errorf("error %q does not name the failing entry", err)
	}
}

func TestDecodeTruncatedNeverPanics(t *testing.T) {
	full := encodeIndex(2, 2, []Entry{makeEntry("one.txt", 1), makeEntry("two.txt", 2)})
	entriesEnd := len(full) - object.HashSize
	for n := 0; n < entriesEnd; n++ {
		if _, err := Decode(full[:n]); !errors.Is(err, ErrFormat) {
			t.Fatalf("Decode(%d bytes) error = %v, want ErrFormat", n, err)
		}
	}
	if _, err := Decode(full[:entriesEnd]); err != nil {
		t.Fatalf("Decode without trailer: %v", err)
	}
}

func TestDecodeLongPath(t *testing.T) {
	e := makeEntry(strings.Repeat("d/", 2500)+"f", 0x05)
	e.Flags = flagNameMask
	idx, err := Decode(encodeIndex(2, 1, []Entry{e}))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := idx.Entries[0].Path; got != e.Path {
		t.Errorf("Path length = %d, want %d", len(got), len(e.Path))
	}
}

func TestDecodeExtendedEntry(t *testing.T) {
	e := makeEntry("sparse/dir/", 0x06)
	e.Flags |= flagExtended
	e.ExtendedFlags = 0x4000
	next := makeEntry("z", 0x07)

	idx, err := Decode(encodeIndex(3, 2, []Entry{e, next}))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := cmp.Diff([]Entry{e, next}, idx.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	if _, err := Decode(encodeIndex(2, 2, []Entry{e, next})); !errors.Is(err, ErrFormat) {
		t.Errorf("extended entry in version 2: error = %v, want ErrFormat", err)
	}
}

func TestDecodeLossyPath(t *testing.T) {
	e := makeEntry("bad\xffname", 0x08)
	idx, err := Decode(encodeIndex(2, 1, []Entry{e}))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := idx.Entries[0].Path; got != "bad\uFFFDname" {
		t.Errorf("Path = %q", got)
	}
}

func TestEntryStringAndStage(t *testing.T) {
	e := makeEntry("hello.txt", 0xab)
	want := "100644 " + strings.Repeat("ab", object.HashSize) + " hello.txt"
	if got := e.String(); got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
	if e.Stage() != 0 {
		t.Errorf("Stage = %d, want 0", e.Stage())
	}
	e.Flags |= 2 << 12
	if e.Stage() != 2 {
		t.Errorf("Stage = %d, want 2", e.Stage())
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index")

	if _, err := Load(path); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("Load missing error = %v, want ErrNotFound", err)
	}

	want := []Entry{makeEntry("file.txt", 0x09)}
	if err := os.WriteFile(path, encodeIndex(2, 1, want), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	idx, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(want, idx.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); !errors.Is(err, ErrFormat) {
		t.Errorf("Load garbage error = %v, want ErrFormat", err)
	}

	if _, err := Load(dir); !errors.Is(err, object.ErrIO) {
		t.Errorf("Load directory error = %v, want ErrIO", err)
	}
}
