package render

import (
	"bytes"
	"html/template"
	"strings"

	"videoMindmap/core"
	"videoMindmap/storage"
	"videoMindmap/utils"
)

// DefaultTitle 页面默认标题
const DefaultTitle = "视频内容思维导图"

// HTMLResult 写入的 HTML 文件
type HTMLResult struct {
	Path string
	HTML string
}

var pageTemplate = template.Must(template.New("mindmap").Parse(pageHTML))

// HTMLRenderer 使用 jsMind 生成可交互的思维导图页面
type HTMLRenderer struct {
	store  *storage.ArtifactStore
	logger *utils.Logger
}

// NewHTMLRenderer 创建渲染器
func NewHTMLRenderer(store *storage.ArtifactStore, logger *utils.Logger) *HTMLRenderer {
	if store == nil {
		store = storage.NewArtifactStore("")
	}
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &HTMLRenderer{store: store, logger: logger}
}

// Render 生成 HTML 文本。结构不合规只记录警告，仍然生成页面。
func (r *HTMLRenderer) Render(doc *core.MindmapDocument, title string) (string, error) {
	if doc == nil {
		return "", core.ErrMissingMindmap
	}
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	r.checkStructure(doc)

	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, struct {
		Title   string
		Mindmap *core.MindmapDocument
	}{Title: title, Mindmap: doc})
	if err != nil {
		return "", core.NewError(core.KindRender, "生成思维导图HTML失败", err)
	}
	return buf.String(), nil
}

// WriteFile 生成 HTML 并写入 outputPath（为空时为 mindmap.html）
func (r *HTMLRenderer) WriteFile(doc *core.MindmapDocument, outputPath, title string) (*HTMLResult, error) {
	html, err := r.Render(doc, title)
	if err != nil {
		return nil, err
	}
	path, err := r.store.WriteBytes(outputPath, storage.DefaultHTMLName, []byte(html))
	if err != nil {
		return nil, core.NewError(core.KindRender, "生成思维导图HTML失败", err)
	}
	r.logger.Info("思维导图HTML已保存", "path", path)
	return &HTMLResult{Path: path, HTML: html}, nil
}

func (r *HTMLRenderer) checkStructure(doc *core.MindmapDocument) {
	if doc.Format != core.FormatNodeTree {
		r.logger.Warn("思维导图JSON格式不是node_tree", "format", doc.Format)
	}
	if doc.Data == nil || doc.Data.ID == "" || doc.Data.Topic == "" {
		r.logger.Warn("思维导图JSON缺少有效的data结构")
	}
}

const pageHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <style>
    body { margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; }
    .header {
      position: fixed; top: 0; left: 0; right: 0; height: 50px;
      background-color: #f8f9fa; border-bottom: 1px solid #e9ecef;
      display: flex; align-items: center; padding: 0 20px;
      box-shadow: 0 1px 3px rgba(0,0,0,0.1); z-index: 1000;
    }
    .title { flex: 1; font-size: 18px; font-weight: 500; color: #495057; margin: 0; }
    .toolbar { display: flex; gap: 8px; }
    .btn {
      background-color: #fff; border: 1px solid #ced4da; color: #495057;
      border-radius: 4px; padding: 5px 10px; font-size: 14px; cursor: pointer; transition: all 0.2s;
    }
    .btn:hover { background-color: #f1f3f5; border-color: #adb5bd; }
    .btn:active { background-color: #e9ecef; }
    #jsmind_container {
      position: absolute; top: 50px; left: 0; right: 0; bottom: 0;
      width: 100%; height: calc(100vh - 50px); background-color: #f5f5f5;
    }
    jmnode {
      border-radius: 5px !important; box-shadow: 1px 1px 3px rgba(0,0,0,0.15) !important;
      padding: 8px 12px !important; font-size: 14px !important; transition: all 0.2s !important;
    }
    jmnode:hover { transform: scale(1.02) !important; box-shadow: 1px 2px 5px rgba(0,0,0,0.2) !important; }
    jmnode.root { border-radius: 8px !important; font-size: 16px !important; font-weight: bold !important; padding: 10px 15px !important; }
    .render-error { padding: 20px; color: red; }
  </style>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/jsmind@0.8.7/style/jsmind.css" />
  <script src="https://cdn.jsdelivr.net/npm/jsmind@0.8.7/es6/jsmind.js"></script>
  <script src="https://cdn.jsdelivr.net/npm/jsmind@0.8.7/es6/jsmind.draggable.js"></script>
</head>
<body>
  <div class="header">
    <h1 class="title">{{.Title}}</h1>
    <div class="toolbar">
      <button class="btn" id="btn-zoom-in">放大</button>
      <button class="btn" id="btn-zoom-out">缩小</button>
      <button class="btn" id="btn-expand-all">全部展开</button>
      <button class="btn" id="btn-collapse-all">全部折叠</button>
      <button class="btn" id="btn-screenshot">保存截图</button>
      <button class="btn" id="btn-toggle-theme">切换主题</button>
      <button class="btn" id="btn-toggle-toolbar">隐藏工具栏</button>
    </div>
  </div>

  <div id="jsmind_container"></div>

  <script>
    var jm = null;
    var mindmapData = {{.Mindmap}};
    var themes = ['primary', 'warning', 'danger', 'success', 'info', 'greensea', 'nephrite', 'belizehole', 'wisteria', 'asphalt', 'orange', 'pumpkin', 'pomegranate', 'clouds', 'asbestos'];
    var currentThemeIndex = 0;

    function renderMindmap() {
      try {
        var options = {
          container: 'jsmind_container',
          theme: themes[currentThemeIndex],
          editable: true,
          view: { engine: 'svg', hmargin: 130, vmargin: 80, line_width: 2, line_color: '#555' },
          layout: { hspace: 40, vspace: 25, pspace: 15 }
        };
        jm = new jsMind(options);
        jm.show(mindmapData);
        jm.expand_all();
      } catch (error) {
        console.error('渲染思维导图失败:', error);
        var container = document.getElementById('jsmind_container');
        var msg = document.createElement('div');
        msg.className = 'render-error';
        msg.textContent = '渲染思维导图失败: ' + error.message;
        container.replaceChildren(msg);
      }
    }

    function initUI() {
      if (!jm) return;
      document.getElementById('btn-zoom-in').addEventListener('click', function () { jm.view.zoom_in(); });
      document.getElementById('btn-zoom-out').addEventListener('click', function () { jm.view.zoom_out(); });
      document.getElementById('btn-expand-all').addEventListener('click', function () { jm.expand_all(); });
      document.getElementById('btn-collapse-all').addEventListener('click', function () { jm.collapse_all(); });
      document.getElementById('btn-screenshot').addEventListener('click', function () {
        try {
          if (jm.screenshot) {
            jm.screenshot.shootDownload();
          } else {
            alert('当前版本不支持截图功能');
          }
        } catch (error) {
          alert('截图失败: ' + error.message);
        }
      });
      document.getElementById('btn-toggle-theme').addEventListener('click', function () {
        currentThemeIndex = (currentThemeIndex + 1) % themes.length;
        jm.set_theme(themes[currentThemeIndex]);
      });

      var header = document.querySelector('.header');
      var container = document.getElementById('jsmind_container');
      var btnToggle = document.getElementById('btn-toggle-toolbar');
      btnToggle.addEventListener('click', function () {
        if (header.style.display === 'none') {
          header.style.display = 'flex';
          container.style.top = '50px';
          container.style.height = 'calc(100vh - 50px)';
          btnToggle.textContent = '隐藏工具栏';
        } else {
          header.style.display = 'none';
          container.style.top = '0';
          container.style.height = '100vh';
          btnToggle.textContent = '显示工具栏';
        }
      });
    }

    document.addEventListener('DOMContentLoaded', function () {
      renderMindmap();
      initUI();
    });
  </script>
</body>
</html>
`
