package processors

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"videoMindmap/core"
)

func TestBibiGPTClientChapterSummary(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("url")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"overallSummary":"整体摘要","chapters":[{"title":"A","summary":"B","start":5,"end":2}]}`))
	}))
	defer srv.Close()

	c := NewBibiGPTClient(srv.URL+"/api/open/", "secret-key", 5*time.Second)
	video := "https://www.bilibili.com/video/BV1xx?p=1&t=30"
	data, err := c.ChapterSummary(context.Background(), video)
	if err != nil {
		t.Fatalf("ChapterSummary: %v", err)
	}
	if gotPath != "/api/open/secret-key/chapter-summary" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotQuery != video {
		t.Errorf("expected url query %q, got %q", video, gotQuery)
	}
	if data.OverallSummary != "整体摘要" || len(data.Chapters) != 1 {
		t.Errorf("unexpected data %+v", data)
	}
}

func TestBibiGPTClientFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"unsuccessful", http.StatusOK, `{"success":false}`},
		{"http error", http.StatusUnauthorized, `{"error":"bad key"}`},
		{"bad json", http.StatusOK, `<html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewBibiGPTClient(srv.URL, "k", time.Second).ChapterSummary(context.Background(), "https://example.com/v")
			if !core.IsKind(err, core.KindUpstream) {
				t.Fatalf("expected upstream error, got %v", err)
			}
		})
	}
}

func TestBibiGPTClientTransportErrorHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	_, err := NewBibiGPTClient(base, "very-secret", time.Second).ChapterSummary(context.Background(), "https://example.com/v")
	if err == nil {
		t.Fatal("expected transport error")
	}
	if strings.Contains(err.Error(), "very-secret") {
		t.Errorf("error leaks api key: %v", err)
	}
}

type fakeSummarizer struct {
	data *core.ChapterSummary
	err  error
	urls []string
}

func (f *fakeSummarizer) ChapterSummary(ctx context.Context, videoURL string) (*core.ChapterSummary, error) {
	f.urls = append(f.urls, videoURL)
	return f.data, f.err
}

func TestVideoAnalyzerAnalyze(t *testing.T) {
	sum := &fakeSummarizer{data: &core.ChapterSummary{
		Success:        true,
		OverallSummary: "machine learning and deep learning are transforming ai ai ai",
		Chapters: []map[string]any{
			{"title": "A", "summary": "B", "start": 5, "end": 2},
		},
	}}
	a := NewVideoAnalyzer(sum, NewKeywordExtractor(nil, nil), nil)

	res, err := a.Analyze(context.Background(), " https://example.com/video ")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Summary != sum.data.OverallSummary {
		t.Errorf("unexpected summary %q", res.Summary)
	}
	if len(res.Keywords) == 0 || res.Keywords[0] != "learning" {
		t.Errorf("expected learning first, got %v", res.Keywords)
	}
	want := []core.KeyTimepoint{{Title: "A", Summary: "B", Start: 5, End: 2}}
	if !reflect.DeepEqual(res.KeyTimepoints, want) {
		t.Errorf("expected %+v, got %+v", want, res.KeyTimepoints)
	}
	if sum.urls[0] != "https://example.com/video" {
		t.Errorf("expected trimmed url, got %q", sum.urls[0])
	}
}

func TestVideoAnalyzerErrors(t *testing.T) {
	ok := &fakeSummarizer{data: &core.ChapterSummary{Success: true}}

	if _, err := NewVideoAnalyzer(ok, nil, nil).Analyze(context.Background(), ""); !errors.Is(err, core.ErrMissingURL) {
		t.Errorf("expected missing url, got %v", err)
	}
	if _, err := NewVideoAnalyzer(ok, nil, nil).Analyze(context.Background(), "not a url"); !core.IsKind(err, core.KindPrecondition) {
		t.Errorf("expected precondition error, got %v", err)
	}
	if _, err := NewVideoAnalyzer(nil, nil, nil).Analyze(context.Background(), "https://example.com/v"); !errors.Is(err, core.ErrSummarizationKeyMissing) {
		t.Errorf("expected missing key, got %v", err)
	}

	failing := &fakeSummarizer{err: core.ErrSummarizationUnsucceeded}
	if _, err := NewVideoAnalyzer(failing, nil, nil).Analyze(context.Background(), "https://example.com/v"); !core.IsKind(err, core.KindUpstream) {
		t.Errorf("expected upstream error, got %v", err)
	}
}

func TestVideoAnalyzerAddsMissingScheme(t *testing.T) {
	sum := &fakeSummarizer{data: &core.ChapterSummary{Success: true}}
	if _, err := NewVideoAnalyzer(sum, nil, nil).Analyze(context.Background(), "www.bilibili.com/video/BV1xx"); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if sum.urls[0] != "https://www.bilibili.com/video/BV1xx" {
		t.Errorf("expected https scheme added, got %q", sum.urls[0])
	}

	if _, err := NewVideoAnalyzer(sum, nil, nil).Analyze(context.Background(), "ftp://example.com/v"); !core.IsKind(err, core.KindPrecondition) {
		t.Errorf("expected precondition error for ftp, got %v", err)
	}
}

func TestVideoAnalyzerEmptyResult(t *testing.T) {
	sum := &fakeSummarizer{data: &core.ChapterSummary{Success: true}}
	res, err := NewVideoAnalyzer(sum, nil, nil).Analyze(context.Background(), "https://example.com/v")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Keywords == nil || res.KeyTimepoints == nil {
		t.Errorf("expected empty, non-nil slices: %+v", res)
	}
}
