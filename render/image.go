package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"videoMindmap/core"
	"videoMindmap/storage"
	"videoMindmap/utils"
)

// Screenshotter 把页面截成 PNG
type Screenshotter interface {
	Screenshot(ctx context.Context, pageURL string) ([]byte, error)
}

// ImageResult 图片渲染结果。Degraded 为 true 时 Path 指向替代的 HTML 文件。
type ImageResult struct {
	Path     string
	Degraded bool
	Reason   string
}

var errNoBrowser = errors.New("未配置浏览器")

// ImageRenderer 先生成 HTML 再用浏览器截图；浏览器不可用时退化为保存 HTML
type ImageRenderer struct {
	html    *HTMLRenderer
	shooter Screenshotter
	store   *storage.ArtifactStore
	logger  *utils.Logger
}

// NewImageRenderer 创建图片渲染器
func NewImageRenderer(html *HTMLRenderer, shooter Screenshotter, store *storage.ArtifactStore, logger *utils.Logger) *ImageRenderer {
	if store == nil {
		store = storage.NewArtifactStore("")
	}
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	if html == nil {
		html = NewHTMLRenderer(store, logger)
	}
	return &ImageRenderer{html: html, shooter: shooter, store: store, logger: logger}
}

// Render 生成思维导图图片，默认保存为 mindmap.png
func (r *ImageRenderer) Render(ctx context.Context, doc *core.MindmapDocument, outputPath string) (*ImageResult, error) {
	page, err := r.html.Render(doc, DefaultTitle)
	if err != nil {
		return nil, err
	}

	png, err := r.capture(ctx, page)
	if err != nil {
		r.logger.Warn("浏览器截图失败，改为保存HTML", "error", err)
		return r.degrade(page, outputPath, err)
	}

	path, err := r.store.WriteBytes(outputPath, storage.DefaultImageName, png)
	if err != nil {
		return nil, core.NewError(core.KindRender, "保存图片失败", err)
	}
	r.logger.Info("思维导图图片已保存", "path", path, "bytes", len(png))
	return &ImageResult{Path: path}, nil
}

func (r *ImageRenderer) capture(ctx context.Context, page string) ([]byte, error) {
	if r.shooter == nil {
		return nil, errNoBrowser
	}

	tmp, err := os.CreateTemp("", "mindmap-*.html")
	if err != nil {
		return nil, fmt.Errorf("创建临时文件失败: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(page); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("写入临时文件失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("写入临时文件失败: %w", err)
	}

	abs, err := filepath.Abs(tmp.Name())
	if err != nil {
		return nil, err
	}
	png, err := r.shooter.Screenshot(ctx, "file://"+filepath.ToSlash(abs))
	if err != nil {
		return nil, core.NewError(core.KindRender, "浏览器截图失败", err)
	}
	if len(png) == 0 {
		return nil, core.Errorf(core.KindRender, "截图结果为空")
	}
	return png, nil
}

func (r *ImageRenderer) degrade(page, outputPath string, cause error) (*ImageResult, error) {
	target := strings.TrimSpace(outputPath)
	if target == "" {
		target = storage.DefaultImageName
	}
	htmlPath := strings.TrimSuffix(target, filepath.Ext(target)) + ".html"
	path, err := r.store.WriteBytes(htmlPath, storage.DefaultHTMLName, []byte(page))
	if err != nil {
		return nil, core.NewError(core.KindRender, "生成思维导图图片失败", errors.Join(cause, err))
	}
	return &ImageResult{Path: path, Degraded: true, Reason: cause.Error()}, nil
}
