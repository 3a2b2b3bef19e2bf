package processors

import (
	"context"

	"videoMindmap/core"
	"videoMindmap/utils"
)

// MindmapBuilder 调用生成服务得到 jsMind 文档，解析失败时构造兜底文档
type MindmapBuilder struct {
	generator TextGenerator
	genErr    error
	logger    *utils.Logger
}

// NewMindmapBuilder generator 为 nil 时 genErr 说明原因（通常是缺少密钥）
func NewMindmapBuilder(generator TextGenerator, genErr error, logger *utils.Logger) *MindmapBuilder {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &MindmapBuilder{generator: generator, genErr: genErr, logger: logger}
}

// Build 返回的文档一定满足 node_tree 结构约束。
// 只有参数缺失和生成服务未配置会返回错误。
func (b *MindmapBuilder) Build(ctx context.Context, req core.MindmapRequest) (*core.MindmapDocument, error) {
	if req.Keywords == nil || req.Summary == "" || req.KeyTimepoints == nil {
		return nil, core.ErrMissingParams
	}
	if b.generator == nil {
		if b.genErr != nil {
			return nil, b.genErr
		}
		return nil, core.NewError(core.KindConfig, "未配置生成服务", ErrGenerationKeyMissing)
	}

	keywords := make([]string, 0, len(req.Keywords))
	for _, k := range req.Keywords {
		keywords = append(keywords, Sanitize(k))
	}
	summary := Sanitize(req.Summary)
	timepoints := SanitizeTimepoints(req.KeyTimepoints)
	b.logger.Debug("输入数据已处理", "keywords", len(keywords), "timepoints", len(timepoints))

	doc, err := b.generate(ctx, keywords, summary, timepoints)
	if err != nil {
		b.logger.Warn("生成思维导图JSON失败，使用兜底结构", "error", err)
		doc = BuildFallbackMindmap(keywords, summary, timepoints, err.Error())
	}
	return doc, nil
}

func (b *MindmapBuilder) generate(ctx context.Context, keywords []string, summary string, timepoints []core.KeyTimepoint) (*core.MindmapDocument, error) {
	prompt, err := BuildMindmapPrompt(keywords, summary, timepoints)
	if err != nil {
		return nil, err
	}

	content, err := b.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	b.logger.Info("获取到API响应", "provider", b.generator.Provider(), "length", len(content))

	doc, strategy, err := ParseMindmap(content)
	if err != nil {
		b.logger.Debug("解析模型输出失败", "error", err)
		return nil, errNoMindmap
	}
	b.logger.Info("成功生成思维导图JSON结构", "strategy", strategy, "nodes", doc.NodeCount())
	return doc, nil
}
