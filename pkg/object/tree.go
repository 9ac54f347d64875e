package object

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// TreeEntry is one "<mode> <name>\0<id>" record of a tree.
type TreeEntry struct {
	Mode uint32
	ID   ID
	Name string
}

// Tree holds an ordered list of entries. Order is exactly the order the
// entries were constructed or parsed in; trees are never sorted.
type Tree struct {
	entries []TreeEntry
	byName  map[string]int // rebuilt from entries, never serialized
}

// NewTree builds a Tree from entries, keeping their order. Names must be
// non-empty and free of NUL bytes so the tree can be decoded again.
func NewTree(entries []TreeEntry) (*Tree, error) {
	for i, e := range entries {
		if e.Name == "" {
			return nil, decodeErrorf("tree entry %d: empty name", i)
		}
		if strings.IndexByte(e.Name, 0) >= 0 {
			return nil, decodeErrorf("tree entry %d: name %q contains NUL", i, e.Name)
		}
		if !utf8.ValidString(e.Name) {
			return nil, decodeErrorf("tree entry %d: name is not valid UTF-8", i)
		}
	}
	out := make([]TreeEntry, len(entries))
	copy(out, entries)
	return newTree(out), nil
}

func newTree(entries []TreeEntry) *Tree {
	byName := make(map[string]int, len(entries))
	for i, e := range entries {
		// Duplicate names resolve to the first occurrence.
		if _, ok := byName[e.Name]; !ok {
			byName[e.Name] = i
		}
	}
	return &Tree{entries: entries, byName: byName}
}

// ParseTree decodes tree content. An empty buffer yields an empty tree.
func ParseTree(data []byte) (*Tree, error) {
	var entries []TreeEntry
	off := 0
	for off < len(data) {
		sp := bytes.IndexByte(data[off:], ' ')
		if sp < 0 {
			return nil, decodeErrorf("tree entry at offset %d: missing mode terminator", off)
		}
		modeField := data[off : off+sp]
		mode, err := parseMode(modeField)
		if err != nil {
			return nil, decodeErrorf("tree entry at offset %d: %v", off, err)
		}

		nameStart := off + sp + 1
		nul := bytes.IndexByte(data[nameStart:], 0)
		if nul < 0 {
			return nil, decodeErrorf("tree entry at offset %d: unterminated name", off)
		}
		name := data[nameStart : nameStart+nul]
		if !utf8.Valid(name) {
			return nil, decodeErrorf("tree entry at offset %d: name is not valid UTF-8", off)
		}

		idStart := nameStart + nul + 1
		if len(data)-idStart < HashSize {
			return nil, decodeErrorf("tree entry at offset %d: truncated object id (%d of %d bytes)", off, len(data)-idStart, HashSize)
		}
		var id ID
		copy(id[:], data[idStart:idStart+HashSize])

		entries = append(entries, TreeEntry{Mode: mode, ID: id, Name: string(name)})
		off = idStart + HashSize
	}
	return newTree(entries), nil
}

func parseMode(field []byte) (uint32, error) {
	if len(field) == 0 {
		return 0, fmt.Errorf("empty mode")
	}
	for _, c := range field {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("non-numeric mode %q", field)
		}
	}
	mode, err := strconv.ParseUint(string(field), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("mode %q: %v", field, err)
	}
	return uint32(mode), nil
}

func (t *Tree) Type() Type { return TypeTree }

// Content encodes the entries back into tree content.
func (t *Tree) Content() []byte {
	var buf bytes.Buffer
	for _, e := range t.entries {
		buf.WriteString(strconv.FormatUint(uint64(e.Mode), 10))
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(e.ID[:])
	}
	return buf.Bytes()
}

func (t *Tree) Size() int {
	n := 0
	for _, e := range t.entries {
		n += len(strconv.FormatUint(uint64(e.Mode), 10)) + 1 + len(e.Name) + 1 + HashSize
	}
	return n
}

// Render lists one "<mode> <hash>  <name>" line per entry with no trailing
// newline.
func (t *Tree) Render() string {
	lines := make([]string, len(t.entries))
	for i, e := range t.entries {
		lines[i] = fmt.Sprintf("%06d %s  %s", e.Mode, e.ID, e.Name)
	}
	return strings.Join(lines, "\n")
}

// Entries returns a copy of the entries in tree order.
func (t *Tree) Entries() []TreeEntry {
	out := make([]TreeEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len reports the number of entries.
func (t *Tree) Len() int { return len(t.entries) }

// Lookup finds an entry by name.
func (t *Tree) Lookup(name string) (TreeEntry, bool) {
	i, ok := t.byName[name]
	if !ok {
		return TreeEntry{}, false
	}
	return t.entries[i], true
}

func (*Tree) sealed() {}
