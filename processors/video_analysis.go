package processors

import (
	"context"
	"net/url"
	"strings"

	"videoMindmap/core"
	"videoMindmap/utils"
)

// VideoAnalyzer 从视频链接得到关键词、摘要和关键时间点
type VideoAnalyzer struct {
	summarizer ChapterSummarizer
	keywords   *KeywordExtractor
	logger     *utils.Logger
}

// NewVideoAnalyzer summarizer 为 nil 表示未配置 BILIGPT_API_KEY
func NewVideoAnalyzer(summarizer ChapterSummarizer, keywords *KeywordExtractor, logger *utils.Logger) *VideoAnalyzer {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	if keywords == nil {
		keywords = NewKeywordExtractor(nil, logger)
	}
	return &VideoAnalyzer{summarizer: summarizer, keywords: keywords, logger: logger}
}

// Analyze 分析视频。没有协议的链接按 https 处理；摘要服务的任何失败都会直接返回，没有兜底。
func (a *VideoAnalyzer) Analyze(ctx context.Context, videoURL string) (*core.AnalysisResult, error) {
	videoURL = strings.TrimSpace(videoURL)
	if videoURL == "" {
		return nil, core.ErrMissingURL
	}
	if !strings.Contains(videoURL, "://") {
		videoURL = "https://" + videoURL
	}
	if u, err := url.Parse(videoURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, core.Errorf(core.KindPrecondition, "无效的视频URL: %s", videoURL)
	}
	if a.summarizer == nil {
		return nil, core.ErrSummarizationKeyMissing
	}

	a.logger.Info("开始分析视频", "video_url", videoURL)
	data, err := a.summarizer.ChapterSummary(ctx, videoURL)
	if err != nil {
		return nil, err
	}

	result := &core.AnalysisResult{
		Summary:       data.OverallSummary,
		Keywords:      a.keywords.Extract(data.OverallSummary),
		KeyTimepoints: NormalizeChapters(data.Chapters),
	}
	for _, tp := range result.KeyTimepoints {
		if tp.Start > tp.End {
			a.logger.Debug("章节开始时间晚于结束时间", "title", tp.Title, "start", tp.Start, "end", tp.End)
		}
	}
	a.logger.Info("视频分析完成", "keywords", len(result.Keywords), "timepoints", len(result.KeyTimepoints))
	return result, nil
}
