package repo

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/odvcencio/gitplumb/pkg/index"
	"github.com/odvcencio/gitplumb/pkg/object"
)

// Repo is an opened repository: the git directory, its settings and the
// object store built from them.
type Repo struct {
	GitDir    string        // .git/ directory
	Config    Config        // settings from gitplumb.toml, or defaults
	Store     *object.Store // loose object store
	IndexPath string        // staging-area file

	logger *zap.Logger
}

// Option configures how a Repo is opened.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger for the repository and its store.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// OpenGitDir opens the repository whose git directory is gitDir, without
// searching parents.
func OpenGitDir(gitDir string, opts ...Option) (*Repo, error) {
	o := newOptions(opts)
	cfg, err := ReadConfig(gitDir)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	r := &Repo{
		GitDir:    gitDir,
		Config:    cfg,
		IndexPath: resolvePath(gitDir, cfg.IndexFile),
		logger:    o.logger,
	}
	r.Store = object.NewStore(
		resolvePath(gitDir, cfg.ObjectsDir),
		object.WithLogger(o.logger),
		object.WithCompressionLevel(cfg.CompressionLevel),
	)
	o.logger.Debug("repository opened",
		zap.String("git_dir", gitDir),
		zap.String("objects", r.Store.Root()),
		zap.String("index", r.IndexPath),
	)
	return r, nil
}

// HashContent computes the blob id of data, storing the blob when write is
// set.
func (r *Repo) HashContent(data []byte, write bool) (object.Hash, error) {
	blob := object.NewBlob(data)
	if !write {
		return object.HashObject(blob), nil
	}
	h, err := r.Store.Write(blob)
	if err != nil {
		return "", fmt.Errorf("hash content: %w", err)
	}
	return h, nil
}

// ReadObject resolves a full hash or unique prefix and decodes the object.
func (r *Repo) ReadObject(hashOrPrefix string) (object.Hash, object.Object, error) {
	h, err := r.Store.Resolve(hashOrPrefix)
	if err != nil {
		return "", nil, err
	}
	obj, err := r.Store.ReadObject(h)
	if err != nil {
		return "", nil, err
	}
	return h, obj, nil
}

// LoadIndex decodes the staging-area file.
func (r *Repo) LoadIndex() ([]index.Entry, error) {
	idx, err := index.Load(r.IndexPath)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("index loaded",
		zap.String("path", r.IndexPath),
		zap.Uint32("version", idx.Version),
		zap.Int("entries", len(idx.Entries)),
	)
	return idx.Entries, nil
}
