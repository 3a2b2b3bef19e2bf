package processors

import (
	"fmt"

	"videoMindmap/core"
	"videoMindmap/utils"
)

const (
	fallbackTitle         = "视频内容思维导图"
	maxFallbackKeywordLen = 50
	maxFallbackSummaryLen = 100
	maxFallbackPointLen   = 40
	maxFallbackPoints     = 5
)

type colorScheme struct {
	main, sub, fg, fgMain string
}

var (
	greenScheme  = colorScheme{main: "#44D7B6", sub: "#7AEACD", fg: "#333333", fgMain: "#FFFFFF"}
	blueScheme   = colorScheme{main: "#3DA0FF", sub: "#70BBFF", fg: "#333333", fgMain: "#FFFFFF"}
	orangeScheme = colorScheme{main: "#FF9500", sub: "#FFB870", fg: "#333333", fgMain: "#FFFFFF"}
	redScheme    = colorScheme{main: "#FF6B6B", sub: "#FFA8A8", fg: "#333333", fgMain: "#FFFFFF"}
)

// DefaultMeta 生成文档默认的元信息
func DefaultMeta() core.MindmapMeta {
	return core.MindmapMeta{Name: fallbackTitle, Author: "AI Assistant", Version: "1.0"}
}

// BuildFallbackMindmap 不依赖外部服务，直接用输入构造一个合法的思维导图
func BuildFallbackMindmap(keywords []string, summary string, timepoints []core.KeyTimepoint, message string) *core.MindmapDocument {
	keywordNodes := make([]*core.MindmapNode, 0, len(keywords))
	for i, k := range keywords {
		keywordNodes = append(keywordNodes, &core.MindmapNode{
			ID:              fmt.Sprintf("keyword_%d", i),
			Topic:           utils.TruncateRunes(k, maxFallbackKeywordLen),
			Direction:       core.DirectionLeft,
			BackgroundColor: greenScheme.sub,
			ForegroundColor: greenScheme.fg,
		})
	}

	if len(timepoints) > maxFallbackPoints {
		timepoints = timepoints[:maxFallbackPoints]
	}
	pointNodes := make([]*core.MindmapNode, 0, len(timepoints))
	for i, tp := range timepoints {
		pointNodes = append(pointNodes, &core.MindmapNode{
			ID:              fmt.Sprintf("timepoint_%d", i),
			Topic:           fmt.Sprintf("%s: %s...", tp.Title, utils.TruncateRunes(tp.Summary, maxFallbackPointLen)),
			Direction:       core.DirectionRight,
			BackgroundColor: orangeScheme.sub,
			ForegroundColor: orangeScheme.fg,
		})
	}

	return &core.MindmapDocument{
		Meta:   DefaultMeta(),
		Format: core.FormatNodeTree,
		Data: &core.MindmapNode{
			ID:              core.RootNodeID,
			Topic:           fallbackTitle,
			BackgroundColor: "#4A4A4A",
			ForegroundColor: "#FFFFFF",
			Children: []*core.MindmapNode{
				{
					ID:              "error",
					Topic:           "解析错误: " + message,
					Direction:       core.DirectionRight,
					Expanded:        core.Bool(true),
					BackgroundColor: redScheme.main,
					ForegroundColor: redScheme.fgMain,
				},
				{
					ID:              "keywords",
					Topic:           "关键词",
					Direction:       core.DirectionLeft,
					Expanded:        core.Bool(true),
					BackgroundColor: greenScheme.main,
					ForegroundColor: greenScheme.fgMain,
					Children:        keywordNodes,
				},
				{
					ID:              "summary",
					Topic:           "摘要",
					Direction:       core.DirectionRight,
					Expanded:        core.Bool(true),
					BackgroundColor: blueScheme.main,
					ForegroundColor: blueScheme.fgMain,
					Children: []*core.MindmapNode{
						{
							ID:              "summary_content",
							Topic:           utils.TruncateRunes(summary, maxFallbackSummaryLen) + "...",
							Direction:       core.DirectionRight,
							BackgroundColor: blueScheme.sub,
							ForegroundColor: blueScheme.fg,
						},
					},
				},
				{
					ID:              "timepoints",
					Topic:           "关键时间点",
					Direction:       core.DirectionRight,
					Expanded:        core.Bool(true),
					BackgroundColor: orangeScheme.main,
					ForegroundColor: orangeScheme.fgMain,
					Children:        pointNodes,
				},
			},
		},
	}
}
