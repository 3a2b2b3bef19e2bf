package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"videoMindmap/core"
	"videoMindmap/processors"
	"videoMindmap/render"
	"videoMindmap/utils"
)

// 工具名称
const (
	ToolAnalyzeVideo         = "analyzeVideo"
	ToolGenerateMindmapJSON  = "generateMindmapJson"
	ToolGenerateMindmapImage = "generateMindmapImage"
	ToolGenerateMindmapHTML  = "generateMindmapHtml"
)

// ToolHandlers 视频分析与思维导图相关的 MCP 工具处理器
type ToolHandlers struct {
	analyzer *processors.VideoAnalyzer
	builder  *processors.MindmapBuilder
	html     *render.HTMLRenderer
	image    *render.ImageRenderer
	logger   *utils.Logger
}

// NewToolHandlers 创建工具处理器实例
func NewToolHandlers(analyzer *processors.VideoAnalyzer, builder *processors.MindmapBuilder, html *render.HTMLRenderer, image *render.ImageRenderer, logger *utils.Logger) *ToolHandlers {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &ToolHandlers{analyzer: analyzer, builder: builder, html: html, image: image, logger: logger}
}

// Tools 返回工具定义及其处理函数
func (h *ToolHandlers) Tools() []ToolEntry {
	return []ToolEntry{
		{
			Tool: mcp.NewTool(ToolAnalyzeVideo,
				mcp.WithDescription("分析视频，提取关键词、摘要信息和关键时间点"),
				mcp.WithString("url", mcp.Required(), mcp.Description("视频URL")),
			),
			Handler: h.AnalyzeVideo,
		},
		{
			Tool: mcp.NewTool(ToolGenerateMindmapJSON,
				mcp.WithDescription("根据关键词、摘要和关键时间点生成jsMind格式的思维导图JSON"),
				mcp.WithArray("keywords", mcp.Required(), mcp.Description("关键词数组"),
					mcp.Items(map[string]any{"type": "string"})),
				mcp.WithString("summary", mcp.Required(), mcp.Description("摘要信息")),
				mcp.WithArray("keyTimepoints", mcp.Required(), mcp.Description("关键时间点数组"),
					mcp.Items(map[string]any{
						"type": "object",
						"properties": map[string]any{
							"title":   map[string]any{"type": "string"},
							"summary": map[string]any{"type": "string"},
							"start":   map[string]any{"type": "number"},
							"end":     map[string]any{"type": "number"},
						},
					})),
			),
			Handler: h.GenerateMindmapJSON,
		},
		{
			Tool: mcp.NewTool(ToolGenerateMindmapImage,
				mcp.WithDescription("将思维导图JSON渲染为PNG图片"),
				mcp.WithObject("json", mcp.Required(), mcp.Description("思维导图JSON (jsMind格式)")),
				mcp.WithString("outputPath", mcp.Description("输出路径，默认为 mindmap.png")),
			),
			Handler: h.GenerateMindmapImage,
		},
		{
			Tool: mcp.NewTool(ToolGenerateMindmapHTML,
				mcp.WithDescription("生成可交互的思维导图HTML页面"),
				mcp.WithObject("json", mcp.Required(), mcp.Description("思维导图JSON (jsMind格式)")),
				mcp.WithString("outputPath", mcp.Description("输出路径，默认为 mindmap.html")),
				mcp.WithString("title", mcp.Description("页面标题")),
			),
			Handler: h.GenerateMindmapHTML,
		},
	}
}

// AnalyzeVideo 处理 analyzeVideo 调用
func (h *ToolHandlers) AnalyzeVideo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log := h.invocationLogger(request)
	var args struct {
		URL string `json:"url"`
	}
	if err := request.BindArguments(&args); err != nil {
		return h.fail(log, "视频分析失败", core.NewError(core.KindPrecondition, "参数格式错误", err)), nil
	}

	result, err := h.analyzer.Analyze(ctx, args.URL)
	if err != nil {
		return h.fail(log, "视频分析失败", err), nil
	}
	return h.jsonResult(log, "视频分析失败", result), nil
}

// GenerateMindmapJSON 处理 generateMindmapJson 调用
func (h *ToolHandlers) GenerateMindmapJSON(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log := h.invocationLogger(request)
	var args struct {
		Keywords      any `json:"keywords"`
		Summary       any `json:"summary"`
		KeyTimepoints any `json:"keyTimepoints"`
	}
	if err := request.BindArguments(&args); err != nil {
		return h.fail(log, "生成思维导图JSON失败", core.NewError(core.KindPrecondition, "参数格式错误", err)), nil
	}

	req, err := mindmapRequest(args.Keywords, args.Summary, args.KeyTimepoints)
	if err != nil {
		return h.fail(log, "生成思维导图JSON失败", err), nil
	}
	doc, err := h.builder.Build(ctx, req)
	if err != nil {
		return h.fail(log, "生成思维导图JSON失败", err), nil
	}
	return h.jsonResult(log, "生成思维导图JSON失败", doc), nil
}

// GenerateMindmapImage 处理 generateMindmapImage 调用
func (h *ToolHandlers) GenerateMindmapImage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log := h.invocationLogger(request)
	var args struct {
		JSON       any    `json:"json"`
		OutputPath string `json:"outputPath"`
	}
	if err := request.BindArguments(&args); err != nil {
		return h.fail(log, "生成思维导图图片失败", core.NewError(core.KindPrecondition, "参数格式错误", err)), nil
	}
	doc, err := decodeDocument(args.JSON)
	if err != nil {
		return h.fail(log, "生成思维导图图片失败", err), nil
	}

	res, err := h.image.Render(ctx, doc, args.OutputPath)
	if err != nil {
		return h.fail(log, "生成思维导图图片失败", err), nil
	}
	if res.Degraded {
		log.Warn("图片渲染已退化为HTML", "path", res.Path, "reason", res.Reason)
		return mcp.NewToolResultText(fmt.Sprintf("浏览器截图不可用（%s），思维导图HTML已保存到: %s", res.Reason, res.Path)), nil
	}
	return mcp.NewToolResultText("思维导图图片已保存到: " + res.Path), nil
}

// GenerateMindmapHTML 处理 generateMindmapHtml 调用
func (h *ToolHandlers) GenerateMindmapHTML(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log := h.invocationLogger(request)
	var args struct {
		JSON       any    `json:"json"`
		OutputPath string `json:"outputPath"`
		Title      string `json:"title"`
	}
	if err := request.BindArguments(&args); err != nil {
		return h.fail(log, "生成思维导图HTML失败", core.NewError(core.KindPrecondition, "参数格式错误", err)), nil
	}
	doc, err := decodeDocument(args.JSON)
	if err != nil {
		return h.fail(log, "生成思维导图HTML失败", err), nil
	}

	res, err := h.html.WriteFile(doc, args.OutputPath, args.Title)
	if err != nil {
		return h.fail(log, "生成思维导图HTML失败", err), nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent("思维导图HTML已保存到: " + res.Path),
			mcp.NewTextContent(res.HTML),
		},
	}, nil
}

func (h *ToolHandlers) invocationLogger(request mcp.CallToolRequest) *utils.Logger {
	log := h.logger.With("request_id", utils.NewID(), "tool", request.Params.Name)
	log.Info("收到工具调用")
	return log
}

func (h *ToolHandlers) fail(log *utils.Logger, op string, err error) *mcp.CallToolResult {
	log.Error(op, "error", err)
	return mcp.NewToolResultError(fmt.Sprintf("%s: %s", op, err.Error()))
}

func (h *ToolHandlers) jsonResult(log *utils.Logger, op string, v any) *mcp.CallToolResult {
	data, err := utils.MarshalIndent(v)
	if err != nil {
		return h.fail(log, op, err)
	}
	log.Info("工具调用完成", "bytes", len(data))
	return mcp.NewToolResultText(string(data))
}

// mindmapRequest 把松散的工具参数转换为生成请求；未提供的参数保持为 nil
func mindmapRequest(keywords, summary, timepoints any) (core.MindmapRequest, error) {
	var req core.MindmapRequest

	switch v := keywords.(type) {
	case nil:
	case []any:
		req.Keywords = make([]string, 0, len(v))
		for _, k := range v {
			req.Keywords = append(req.Keywords, processors.Sanitize(k))
		}
	default:
		req.Keywords = []string{processors.Sanitize(v)}
	}

	req.Summary = processors.Sanitize(summary)

	switch v := timepoints.(type) {
	case nil:
	case string:
		var chapters []map[string]any
		if err := utils.UnmarshalJSON([]byte(v), &chapters); err != nil {
			return req, core.NewError(core.KindPrecondition, "keyTimepoints格式错误", err)
		}
		req.KeyTimepoints = processors.NormalizeChapters(chapters)
	case []any:
		chapters := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				chapters = append(chapters, m)
			}
		}
		req.KeyTimepoints = processors.NormalizeChapters(chapters)
	default:
		req.KeyTimepoints = []core.KeyTimepoint{}
	}
	return req, nil
}

// decodeDocument 接受对象或 JSON 字符串形式的思维导图
func decodeDocument(raw any) (*core.MindmapDocument, error) {
	var data []byte
	switch v := raw.(type) {
	case nil:
		return nil, core.ErrMissingMindmap
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, core.ErrMissingMindmap
		}
		data = []byte(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, core.NewError(core.KindPrecondition, "思维导图JSON格式错误", err)
		}
		data = b
	}

	var doc core.MindmapDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, core.NewError(core.KindPrecondition, "思维导图JSON格式错误", err)
	}
	return &doc, nil
}
