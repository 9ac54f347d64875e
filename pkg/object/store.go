package object

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// MinPrefixLen is the shortest hash prefix Resolve accepts.
const MinPrefixLen = 4

// Store is a loose object store with a 2-character fan-out directory
// layout: <root>/ab/cdef0123...
type Store struct {
	root   string
	level  int
	logger *zap.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for store operations.
func WithLogger(logger *zap.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCompressionLevel sets the zlib level used for new objects. Levels
// outside the zlib range are ignored.
func WithCompressionLevel(level int) StoreOption {
	return func(s *Store) {
		if ValidCompressionLevel(level) {
			s.level = level
		}
	}
}

// NewStore creates a Store rooted at the given objects directory. The
// directory is created lazily on first write.
func NewStore(root string, opts ...StoreOption) *Store {
	s := &Store{
		root:   root,
		level:  DefaultCompressionLevel,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the objects directory.
func (s *Store) Root() string {
	return s.root
}

// Path returns the filesystem path for a given hash.
func (s *Store) Path(h Hash) (string, error) {
	if err := validateHash(h); err != nil {
		return "", err
	}
	return s.objectPath(h), nil
}

func (s *Store) objectPath(h Hash) string {
	return filepath.Join(s.root, string(h[:2]), string(h[2:]))
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) bool {
	p, err := s.Path(h)
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// Write stores an object and returns its hash. Writing an object that is
// already present is a no-op. New objects are written to a temp file in the
// fan-out directory and renamed into place.
func (s *Store) Write(obj Object) (Hash, error) {
	h, compressed, err := serializeLevel(obj, s.level)
	if err != nil {
		return "", fmt.Errorf("object write: %w", err)
	}

	if s.Has(h) {
		s.logger.Debug("object exists", zap.String("hash", string(h)))
		return h, nil
	}

	dir := filepath.Join(s.root, string(h[:2]))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("object write: %w", &IOError{Op: "mkdir", Path: dir, Err: err})
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("object write: %w", &IOError{Op: "create temp", Path: dir, Err: err})
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("object write: %w", &IOError{Op: "write", Path: tmpName, Err: err})
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("object write: %w", &IOError{Op: "close", Path: tmpName, Err: err})
	}

	dest := s.objectPath(h)
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("object write: %w", &IOError{Op: "rename", Path: dest, Err: err})
	}

	s.logger.Debug("object written",
		zap.String("hash", string(h)),
		zap.String("type", string(obj.Type())),
		zap.Int("size", obj.Size()),
		zap.Int("stored", len(compressed)),
	)
	return h, nil
}

// Read returns the compressed record stored under h.
func (s *Store) Read(h Hash) ([]byte, error) {
	p, err := s.Path(h)
	if err != nil {
		return nil, fmt.Errorf("object read: %w", err)
	}
	raw, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("object read %s: %w", h, ErrNotFound)
		}
		return nil, fmt.Errorf("object read %s: %w", h, &IOError{Op: "read", Path: p, Err: err})
	}
	s.logger.Debug("object read", zap.String("hash", string(h)), zap.Int("stored", len(raw)))
	return raw, nil
}

// ReadObject reads and decodes the object stored under h.
func (s *Store) ReadObject(h Hash) (Object, error) {
	raw, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	obj, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("object read %s: %w", h, err)
	}
	return obj, nil
}

// Resolve expands a hex prefix of at least MinPrefixLen characters to the
// unique full hash it names.
func (s *Store) Resolve(prefix string) (Hash, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if len(prefix) == HashHexSize {
		h, err := ParseHash(prefix)
		if err != nil {
			return "", fmt.Errorf("resolve: %w", err)
		}
		if !s.Has(h) {
			return "", fmt.Errorf("resolve %s: %w", prefix, ErrNotFound)
		}
		return h, nil
	}
	if len(prefix) < MinPrefixLen || len(prefix) > HashHexSize || !isLowerHex(prefix) {
		return "", fmt.Errorf("resolve: %w %q", ErrInvalidHash, prefix)
	}

	dir := filepath.Join(s.root, prefix[:2])
	names, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("resolve %s: %w", prefix, ErrNotFound)
		}
		return "", fmt.Errorf("resolve %s: %w", prefix, &IOError{Op: "readdir", Path: dir, Err: err})
	}

	var matches []Hash
	for _, d := range names {
		if d.IsDir() || !strings.HasPrefix(d.Name(), prefix[2:]) {
			continue
		}
		h := Hash(prefix[:2] + d.Name())
		if validateHash(h) != nil {
			continue
		}
		matches = append(matches, h)
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("resolve %s: %w", prefix, ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("resolve %s: %w (%d candidates)", prefix, ErrAmbiguous, len(matches))
	}
}
