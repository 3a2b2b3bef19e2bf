package main

import (
	"fmt"

	"videoMindmap/config"
	"videoMindmap/processors"
	"videoMindmap/render"
	"videoMindmap/server"
	"videoMindmap/storage"
	"videoMindmap/utils"
)

// App 进程内共享的组件，启动时构建一次
type App struct {
	Config    *config.Config
	Logger    *utils.Logger
	Store     *storage.ArtifactStore
	Segmenter *processors.JiebaSegmenter
	Analyzer  *processors.VideoAnalyzer
	Builder   *processors.MindmapBuilder
	HTML      *render.HTMLRenderer
	Image     *render.ImageRenderer
}

// newApp 加载配置并组装所有组件。缺少 API 密钥不会失败，只影响对应工具。
func newApp(outputDir string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logMode != "" {
		cfg.LogMode = logMode
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := utils.NewLogger(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	store := storage.NewArtifactStore(cfg.OutputDir)
	segmenter := processors.NewJiebaSegmenter()
	keywords := processors.NewKeywordExtractor(segmenter, logger.With("component", "keywords"))

	var summarizer processors.ChapterSummarizer
	if cfg.Summarization.APIKey != "" {
		summarizer = processors.NewBibiGPTClient(cfg.Summarization.BaseURL, cfg.Summarization.APIKey, cfg.Summarization.Timeout)
	} else {
		logger.Warn("未设置BILIGPT_API_KEY，analyzeVideo 将不可用")
	}

	generator, genErr := processors.NewTextGenerator(cfg)
	if genErr != nil {
		logger.Warn("生成服务不可用，generateMindmapJson 将返回错误", "error", genErr)
	}

	html := render.NewHTMLRenderer(store, logger.With("component", "html"))
	shooter := render.NewChromeScreenshotter(cfg.Render, logger.With("component", "chrome"))

	return &App{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		Segmenter: segmenter,
		Analyzer:  processors.NewVideoAnalyzer(summarizer, keywords, logger.With("component", "analyzer")),
		Builder:   processors.NewMindmapBuilder(generator, genErr, logger.With("component", "mindmap")),
		HTML:      html,
		Image:     render.NewImageRenderer(html, shooter, store, logger.With("component", "image")),
	}, nil
}

// ToolHandlers 创建 MCP 工具处理器
func (a *App) ToolHandlers() *server.ToolHandlers {
	return server.NewToolHandlers(a.Analyzer, a.Builder, a.HTML, a.Image, a.Logger.With("component", "tools"))
}

// Close 释放资源
func (a *App) Close() {
	a.Segmenter.Close()
	a.Logger.Sync()
}
