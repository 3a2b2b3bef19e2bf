package utils

import (
	"testing"
)

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"人工智能发展", 4, "人工智能"},
		{"", 5, ""},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := TruncateRunes(tt.in, tt.n); got != tt.want {
			t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestMarshalIndentKeepsHTMLAndCJK(t *testing.T) {
	b, err := MarshalIndent(map[string]string{"topic": "<a> & 中文"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := "{\n  \"topic\": \"<a> & 中文\"\n}"
	if string(b) != want {
		t.Errorf("expected %q, got %q", want, string(b))
	}
}

func TestNewIDUnique(t *testing.T) {
	if NewID() == NewID() {
		t.Error("expected distinct ids")
	}
}

func TestRedactKVs(t *testing.T) {
	out := redactKVs([]interface{}{"api_key", "sk-123", "url", "https://example.com", "dangling"})
	if out[1] != "[REDACTED]" {
		t.Errorf("expected api_key redacted, got %v", out[1])
	}
	if out[3] != "https://example.com" {
		t.Errorf("expected url kept, got %v", out[3])
	}
	if len(out) != 5 || out[4] != "dangling" {
		t.Errorf("expected dangling key preserved, got %v", out)
	}
}
