package object

import (
	"bytes"
	"strconv"
)

// Encode builds the uncompressed record "type len\0content" from the object's
// current type and content.
func Encode(obj Object) []byte {
	content := obj.Content()
	header := string(obj.Type()) + " " + strconv.Itoa(len(content))
	record := make([]byte, 0, len(header)+1+len(content))
	record = append(record, header...)
	record = append(record, 0)
	record = append(record, content...)
	return record
}

// HashObject returns the object id without compressing anything.
func HashObject(obj Object) Hash {
	return HashRecord(Encode(obj))
}

// Serialize returns the object id and the compressed record at the default
// level. The hash and the stored bytes come from the same record buffer.
func Serialize(obj Object) (Hash, []byte, error) {
	return serializeLevel(obj, DefaultCompressionLevel)
}

func serializeLevel(obj Object, level int) (Hash, []byte, error) {
	record := Encode(obj)
	h := HashRecord(record)
	compressed, err := compress(record, level)
	if err != nil {
		return "", nil, err
	}
	return h, compressed, nil
}

// Parse inflates a stored record and decodes it into its variant.
func Parse(compressed []byte) (Object, error) {
	record, err := decompress(compressed)
	if err != nil {
		return nil, err
	}
	return ParseRecord(record)
}

// ParseRecord decodes an uncompressed "type len\0content" record. The
// declared length must match the content that follows the NUL.
func ParseRecord(record []byte) (Object, error) {
	objType, content, err := splitRecord(record)
	if err != nil {
		return nil, err
	}
	return FromContent(objType, content)
}

func splitRecord(record []byte) (Type, []byte, error) {
	nul := bytes.IndexByte(record, 0)
	if nul < 0 {
		return "", nil, decodeErrorf("invalid record (no NUL)")
	}
	header := record[:nul]
	content := record[nul+1:]

	sp := bytes.IndexByte(header, ' ')
	if sp < 0 {
		return "", nil, decodeErrorf("invalid header %q", header)
	}
	sizeField := header[sp+1:]
	if len(sizeField) == 0 {
		return "", nil, decodeErrorf("invalid header %q: empty length", header)
	}
	for _, c := range sizeField {
		if c < '0' || c > '9' {
			return "", nil, decodeErrorf("invalid length %q", sizeField)
		}
	}
	size, err := strconv.ParseUint(string(sizeField), 10, 63)
	if err != nil {
		return "", nil, decodeErrorf("invalid length %q: %v", sizeField, err)
	}
	if size != uint64(len(content)) {
		return "", nil, decodeErrorf("length mismatch (header=%d, actual=%d)", size, len(content))
	}
	return Type(header[:sp]), content, nil
}
