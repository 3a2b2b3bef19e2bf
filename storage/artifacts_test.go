package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	base := t.TempDir()
	s := NewArtifactStore(base)
	abs := filepath.Join(base, "elsewhere", "x.png")

	tests := []struct {
		path, def, want string
	}{
		{"", DefaultHTMLName, filepath.Join(base, "mindmap.html")},
		{"  ", DefaultImageName, filepath.Join(base, "mindmap.png")},
		{"out/map.html", DefaultHTMLName, filepath.Join(base, "out", "map.html")},
		{abs, DefaultImageName, abs},
	}
	for _, tt := range tests {
		if got := s.Resolve(tt.path, tt.def); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestNewArtifactStoreDefaultsToCurrentDir(t *testing.T) {
	if got := NewArtifactStore("").Resolve("", "a.json"); got != "a.json" {
		t.Errorf("expected a.json, got %q", got)
	}
}

func TestWriteAndReadJSON(t *testing.T) {
	s := NewArtifactStore(t.TempDir())
	path, err := s.WriteJSON("nested/dir/result.json", DefaultJSONName, map[string]any{"topic": "<中文>"})
	if err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), `"topic": "<中文>"`) {
		t.Errorf("unexpected content %s", data)
	}

	var out map[string]string
	if err := s.ReadJSON("nested/dir/result.json", &out); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if out["topic"] != "<中文>" {
		t.Errorf("unexpected value %q", out["topic"])
	}
}

func TestWriteBytesDefaultName(t *testing.T) {
	base := t.TempDir()
	s := NewArtifactStore(base)
	path, err := s.WriteBytes("", DefaultImageName, []byte("png"))
	if err != nil {
		t.Fatalf("WriteBytes: %v", err)
	}
	if path != filepath.Join(base, DefaultImageName) {
		t.Errorf("unexpected path %q", path)
	}
}

func TestReadJSONMissing(t *testing.T) {
	var v map[string]any
	if err := NewArtifactStore(t.TempDir()).ReadJSON("missing.json", &v); err == nil {
		t.Error("expected error for missing file")
	}
}
