package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/odvcencio/gitplumb/pkg/object"
)

// ConfigFileName is the optional per-repository settings file inside the git
// directory.
const ConfigFileName = "gitplumb.toml"

// Config holds repository-local settings. Relative paths are resolved
// against the git directory.
type Config struct {
	ObjectsDir       string `toml:"objects_dir"`
	IndexFile        string `toml:"index_file"`
	CompressionLevel int    `toml:"compression_level"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	return Config{
		ObjectsDir:       "objects",
		IndexFile:        "index",
		CompressionLevel: object.DefaultCompressionLevel,
	}
}

// ReadConfig reads <gitDir>/gitplumb.toml. A missing file yields
// DefaultConfig. Keys the file sets override the defaults; unknown keys are
// an error.
func ReadConfig(gitDir string) (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(gitDir, ConfigFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("read config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.ObjectsDir) == "" {
		return fmt.Errorf("objects_dir must not be empty")
	}
	if strings.TrimSpace(c.IndexFile) == "" {
		return fmt.Errorf("index_file must not be empty")
	}
	if !object.ValidCompressionLevel(c.CompressionLevel) {
		return fmt.Errorf("compression_level %d out of range", c.CompressionLevel)
	}
	return nil
}

func resolvePath(gitDir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(gitDir, p)
}
