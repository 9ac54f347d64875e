package repo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, gitDir, body string) {
	t.Helper()
	if err := os.MkdirAll(gitDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(gitDir, ConfigFileName), []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestReadConfigMissingReturnsDefaults(t *testing.T) {
	cfg, err := ReadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestReadConfigOverrides(t *testing.T) {
	gitDir := t.TempDir()
	writeConfig(t, gitDir, "objects_dir = \"/srv/objects\"\ncompression_level = 9\n")

	cfg, err := ReadConfig(gitDir)
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	want := Config{ObjectsDir: "/srv/objects", IndexFile: "index", CompressionLevel: 9}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestReadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "objects = \"x\"\n", "unknown keys: objects"},
		{"bad level", "compression_level = 12\n", "out of range"},
		{"empty index", "index_file = \"\"\n", "index_file"},
		{"bad toml", "objects_dir = \n", "read config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gitDir := t.TempDir()
			writeConfig(t, gitDir, tt.body)
			_, err := ReadConfig(gitDir)
			if err == nil {
				t.Fatal("ReadConfig succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestOpenUsesConfiguredPaths(t *testing.T) {
	dir := t.TempDir()
	gitDir := filepath.Join(dir, ".git")
	external := filepath.Join(dir, "elsewhere")
	writeConfig(t, gitDir, "objects_dir = \""+filepath.ToSlash(external)+"\"\nindex_file = \"staging\"\n")

	r, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if r.Store.Root() != filepath.Clean(external) {
		t.Errorf("Store.Root = %q, want %q", r.Store.Root(), external)
	}
	if r.IndexPath != filepath.Join(gitDir, "staging") {
		t.Errorf("IndexPath = %q", r.IndexPath)
	}

	h, err := r.HashContent([]byte("configured\n"), true)
	if err != nil {
		t.Fatalf("HashContent: %v", err)
	}
	if _, err := os.Stat(filepath.Join(external, string(h[:2]), string(h[2:]))); err != nil {
		t.Errorf("object not written under configured objects_dir: %v", err)
	}
}
