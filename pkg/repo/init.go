package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// GitDirName is the repository directory looked up by Open.
const GitDirName = ".git"

// ErrNotRepository is returned by Open when no git directory is found.
var ErrNotRepository = errors.New("not a git repository (or any parent up to /)")

// Init creates a new repository at path: the .git/ directory and its
// objects/ store. Returns an error if a .git/ entry already exists.
func Init(path string, opts ...Option) (*Repo, error) {
	gitDir := filepath.Join(path, GitDirName)

	if _, err := os.Stat(gitDir); err == nil {
		return nil, fmt.Errorf("init: repository already exists at %s", gitDir)
	}

	objects := filepath.Join(gitDir, DefaultConfig().ObjectsDir)
	if err := os.MkdirAll(objects, 0o755); err != nil {
		return nil, fmt.Errorf("init: mkdir %s: %w", objects, err)
	}

	return OpenGitDir(gitDir, opts...)
}

// Open searches upward from path for a .git/ directory and opens the
// repository.
func Open(path string, opts ...Option) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		gitDir := filepath.Join(cur, GitDirName)
		info, err := os.Stat(gitDir)
		if err == nil && info.IsDir() {
			return OpenGitDir(gitDir, opts...)
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open: %w", ErrNotRepository)
		}
		cur = parent
	}
}
