package object

import "strings"

// Blob holds opaque file data.
type Blob struct {
	data []byte
}

// NewBlob returns a Blob holding a copy of data.
func NewBlob(data []byte) *Blob {
	out := make([]byte, len(data))
	copy(out, data)
	return &Blob{data: out}
}

func (b *Blob) Type() Type { return TypeBlob }

func (b *Blob) Content() []byte {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

func (b *Blob) Size() int { return len(b.data) }

// Render returns the content as text. Invalid UTF-8 sequences are replaced
// with U+FFFD.
func (b *Blob) Render() string {
	return strings.ToValidUTF8(string(b.data), "\uFFFD")
}

func (*Blob) sealed() {}
