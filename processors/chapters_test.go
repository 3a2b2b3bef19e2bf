package processors

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"

	"videoMindmap/core"
)

func TestNormalizeChapters(t *testing.T) {
	chapters := []map[string]any{
		{"title": "A", "summary": "B", "start": 5, "end": 2},
		{"title": "第二章\n开始", "summary": nil, "start": "12.5", "end": json.Number("30")},
		{"start": -3.0, "end": math.NaN()},
		{"title": 7, "summary": "s", "start": true, "end": []int{1}},
	}
	got := NormalizeChapters(chapters)
	want := []core.KeyTimepoint{
		{Title: "A", Summary: "B", Start: 5, End: 2},
		{Title: "第二章 开始", Summary: "", Start: 12.5, End: 30},
		{Title: "", Summary: "", Start: 0, End: 0},
		{Title: "7", Summary: "s", Start: 1, End: 0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestNormalizeChaptersEmpty(t *testing.T) {
	got := NormalizeChapters(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
	b, _ := json.Marshal(got)
	if string(b) != "[]" {
		t.Errorf("expected [] when serialized, got %s", b)
	}
}

func TestToSeconds(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{nil, 0},
		{int64(90), 90},
		{float32(1.5), 1.5},
		{uint8(3), 3},
		{" 42 ", 42},
		{"abc", 0},
		{json.Number("x"), 0},
		{math.Inf(1), 0},
		{false, 0},
		{map[string]any{}, 0},
	}
	for _, tt := range tests {
		if got := toSeconds(tt.in); got != tt.want {
			t.Errorf("toSeconds(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
