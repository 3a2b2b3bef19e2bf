package render

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"videoMindmap/config"
	"videoMindmap/core"
	"videoMindmap/storage"
)

func sampleDocument(topic string) *core.MindmapDocument {
	return &core.MindmapDocument{
		Meta:   core.MindmapMeta{Name: "测试", Author: "AI Assistant", Version: "1.0"},
		Format: core.FormatNodeTree,
		Data: &core.MindmapNode{
			ID:    core.RootNodeID,
			Topic: "根节点",
			Children: []*core.MindmapNode{
				{ID: "a", Topic: topic, Direction: core.DirectionRight, Expanded: core.Bool(true), BackgroundColor: "#3DA0FF"},
			},
		},
	}
}

func embeddedMindmap(t *testing.T, page string) *core.MindmapDocument {
	t.Helper()
	const marker = "var mindmapData = "
	start := strings.Index(page, marker)
	if start < 0 {
		t.Fatal("mindmap data not found in page")
	}
	rest := page[start+len(marker):]
	end := strings.Index(rest, ";\n")
	if end < 0 {
		t.Fatal("mindmap data not terminated")
	}
	var doc core.MindmapDocument
	if err := json.Unmarshal([]byte(rest[:end]), &doc); err != nil {
		t.Fatalf("embedded data is not valid JSON: %v", err)
	}
	return &doc
}

func TestHTMLRenderEscaping(t *testing.T) {
	title := `<script>alert("t")</script>`
	topic := `</script><img src=x onerror=alert(1)> & "引号"`
	page, err := NewHTMLRenderer(nil, nil).Render(sampleDocument(topic), title)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if strings.Contains(page, "<img src=x") {
		t.Error("topic markup leaked into the page")
	}
	if !strings.Contains(page, `\u003c/script\u003e`) {
		t.Error("expected script-safe escaping of the topic")
	}

	dom, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	if got := dom.Find("title").Text(); got != title {
		t.Errorf("expected title text %q, got %q", title, got)
	}
	if got := dom.Find("h1.title").Text(); got != title {
		t.Errorf("expected heading text %q, got %q", title, got)
	}
	if dom.Find("h1.title script").Length() != 0 {
		t.Error("title was not escaped")
	}
	if dom.Find("img").Length() != 0 {
		t.Error("unexpected img element")
	}

	doc := embeddedMindmap(t, page)
	if doc.Data.Children[0].Topic != topic {
		t.Errorf("expected topic to round-trip, got %q", doc.Data.Children[0].Topic)
	}
	if doc.Data.Children[0].BackgroundColor != "#3DA0FF" {
		t.Errorf("expected jsMind color field, got %+v", doc.Data.Children[0])
	}
}

func TestHTMLRenderPageStructure(t *testing.T) {
	page, err := NewHTMLRenderer(nil, nil).Render(sampleDocument("主题"), "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	dom, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	if got := dom.Find("title").Text(); got != DefaultTitle {
		t.Errorf("expected default title, got %q", got)
	}
	if n := dom.Find(".toolbar button").Length(); n != 7 {
		t.Errorf("expected 7 toolbar buttons, got %d", n)
	}
	if dom.Find("#jsmind_container").Length() != 1 {
		t.Error("missing jsmind container")
	}
	var scripts []string
	dom.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		scripts = append(scripts, src)
	})
	if len(scripts) != 2 || !strings.Contains(scripts[0], "jsmind@0.8.7") {
		t.Errorf("unexpected script sources %v", scripts)
	}
}

func TestHTMLRenderToleratesInvalidStructure(t *testing.T) {
	doc := &core.MindmapDocument{Format: "freemind"}
	if _, err := NewHTMLRenderer(nil, nil).Render(doc, "t"); err != nil {
		t.Fatalf("expected page despite invalid structure, got %v", err)
	}
	if _, err := NewHTMLRenderer(nil, nil).Render(nil, "t"); !errors.Is(err, core.ErrMissingMindmap) {
		t.Errorf("expected missing mindmap error, got %v", err)
	}
}

func TestHTMLWriteFile(t *testing.T) {
	base := t.TempDir()
	r := NewHTMLRenderer(storage.NewArtifactStore(base), nil)

	res, err := r.WriteFile(sampleDocument("主题"), "", "")
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if res.Path != filepath.Join(base, "mindmap.html") {
		t.Errorf("unexpected path %q", res.Path)
	}
	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != res.HTML {
		t.Error("file content differs from returned HTML")
	}
}

type fakeShooter struct {
	png []byte
	err error
	url string
}

func (f *fakeShooter) Screenshot(ctx context.Context, pageURL string) ([]byte, error) {
	f.url = pageURL
	if f.err != nil {
		return nil, f.err
	}
	return f.png, nil
}

func TestImageRender(t *testing.T) {
	base := t.TempDir()
	store := storage.NewArtifactStore(base)
	shooter := &fakeShooter{png: []byte("\x89PNG")}
	r := NewImageRenderer(nil, shooter, store, nil)

	res, err := r.Render(context.Background(), sampleDocument("主题"), "out/map.png")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if res.Degraded || res.Path != filepath.Join(base, "out", "map.png") {
		t.Errorf("unexpected result %+v", res)
	}
	if !strings.HasPrefix(shooter.url, "file://") || !strings.HasSuffix(shooter.url, ".html") {
		t.Errorf("unexpected page url %q", shooter.url)
	}
	if _, err := os.Stat(strings.TrimPrefix(shooter.url, "file://")); !os.IsNotExist(err) {
		t.Error("expected temporary page to be removed")
	}
}

func TestImageRenderDegradesToHTML(t *testing.T) {
	base := t.TempDir()
	store := storage.NewArtifactStore(base)
	r := NewImageRenderer(nil, &fakeShooter{err: errors.New("chrome not found")}, store, nil)

	res, err := r.Render(context.Background(), sampleDocument("主题"), "map.png")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !res.Degraded || res.Path != filepath.Join(base, "map.html") {
		t.Fatalf("unexpected result %+v", res)
	}
	if !strings.Contains(res.Reason, "chrome not found") {
		t.Errorf("unexpected reason %q", res.Reason)
	}
	if _, err := os.Stat(res.Path); err != nil {
		t.Errorf("expected degraded HTML file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "map.png")); !os.IsNotExist(err) {
		t.Error("did not expect a PNG file")
	}
}

func TestImageRenderWithoutScreenshotter(t *testing.T) {
	base := t.TempDir()
	res, err := NewImageRenderer(nil, nil, storage.NewArtifactStore(base), nil).Render(context.Background(), sampleDocument("主题"), "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !res.Degraded || res.Path != filepath.Join(base, "mindmap.html") {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestChromeScreenshotterMissingBrowserDegrades(t *testing.T) {
	cfg := config.Default().Render
	cfg.ChromePath = filepath.Join(t.TempDir(), "no-such-chrome")
	cfg.Timeout = 10 * time.Second
	shooter := NewChromeScreenshotter(cfg, nil)

	base := t.TempDir()
	res, err := NewImageRenderer(nil, shooter, storage.NewArtifactStore(base), nil).Render(context.Background(), sampleDocument("主题"), "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !res.Degraded {
		t.Errorf("expected degraded result, got %+v", res)
	}
}
