package object

// Type identifies the kind of object stored. It is the first word of the
// on-disk record header.
type Type string

const (
	TypeBlob   Type = "blob"
	TypeTree   Type = "tree"
	TypeCommit Type = "commit"
	TypeTag    Type = "tag"
)

const (
	// Tree mode values as they appear on the wire. Git writes the octal
	// digits, and they are read back as a decimal number.
	ModeDir        uint32 = 40000
	ModeFile       uint32 = 100644
	ModeExecutable uint32 = 100755
	ModeSymlink    uint32 = 120000
	ModeGitlink    uint32 = 160000
)

// Object is an immutable, hash-identified unit of stored content. The set of
// implementations is closed: only *Blob and *Tree satisfy it.
type Object interface {
	// Type reports the header type word.
	Type() Type
	// Content returns a copy of the canonical content bytes.
	Content() []byte
	// Size is always len(Content()).
	Size() int
	// Render returns a human-readable form of the object.
	Render() string

	sealed()
}

// FromContent builds the variant for objType from its canonical content.
// Commit and tag objects report ErrNotImplemented.
func FromContent(objType Type, content []byte) (Object, error) {
	switch objType {
	case TypeBlob:
		return NewBlob(content), nil
	case TypeTree:
		return ParseTree(content)
	case TypeCommit, TypeTag:
		return nil, notImplemented(objType)
	default:
		return nil, decodeErrorf("unknown object type %q", string(objType))
	}
}
