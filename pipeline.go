package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"videoMindmap/core"
	"videoMindmap/storage"
	"videoMindmap/utils"
)

// PipelineReport 端到端流程的执行结果
type PipelineReport struct {
	VideoURL string   `json:"video_url"`
	Steps    []Step   `json:"steps"`
	Warnings []string `json:"warnings,omitempty"`
}

type Step struct {
	Name   string `json:"name"`
	Status string `json:"status"` // "completed", "degraded"
	Path   string `json:"path,omitempty"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "pipeline <url>",
		Short: "分析视频并生成思维导图JSON、HTML和PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  runPipelineCmd,
	}
	cmd.Flags().StringP("output-dir", "o", "output", "输出目录")
	cmd.Flags().String("title", "", "HTML页面标题")
	rootCmd.AddCommand(cmd)
}

func runPipelineCmd(cmd *cobra.Command, args []string) error {
	outputDir, _ := cmd.Flags().GetString("output-dir")
	title, _ := cmd.Flags().GetString("title")

	app, err := newApp(outputDir)
	if err != nil {
		return err
	}
	defer app.Close()

	report, err := runPipeline(cmd.Context(), app, args[0], title)
	if err != nil {
		return err
	}
	data, err := utils.MarshalIndent(report)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// runPipeline 依次执行 分析 -> 生成JSON，然后并发渲染 HTML 和 PNG
func runPipeline(ctx context.Context, app *App, videoURL, title string) (*PipelineReport, error) {
	log := app.Logger.With("request_id", utils.NewID())
	report := &PipelineReport{VideoURL: videoURL}

	log.Info("[步骤1] 分析视频")
	analysis, err := app.Analyzer.Analyze(ctx, videoURL)
	if err != nil {
		return nil, fmt.Errorf("视频分析失败: %w", err)
	}
	path, err := app.Store.WriteJSON(storage.AnalysisResultName, storage.AnalysisResultName, analysis)
	if err != nil {
		return nil, err
	}
	report.Steps = append(report.Steps, Step{Name: "analyze", Status: "completed", Path: path})
	log.Info("分析结果已保存", "path", path, "keywords", len(analysis.Keywords), "timepoints", len(analysis.KeyTimepoints))

	log.Info("[步骤2] 生成思维导图JSON")
	doc, err := app.Builder.Build(ctx, core.MindmapRequest{
		Keywords:      analysis.Keywords,
		Summary:       analysis.Summary,
		KeyTimepoints: analysis.KeyTimepoints,
	})
	if err != nil {
		return nil, fmt.Errorf("生成思维导图JSON失败: %w", err)
	}
	path, err = app.Store.WriteJSON(storage.VideoAnalysisName, storage.VideoAnalysisName, doc)
	if err != nil {
		return nil, err
	}
	report.Steps = append(report.Steps, Step{Name: "mindmap_json", Status: "completed", Path: path})
	log.Info("思维导图JSON已保存", "path", path, "format", doc.Format, "root", doc.Data.ID)

	log.Info("[步骤3] 渲染HTML和PNG")
	var htmlStep, imageStep Step
	var warning string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := app.HTML.WriteFile(doc, storage.DefaultHTMLName, title)
		if err != nil {
			return fmt.Errorf("生成思维导图HTML失败: %w", err)
		}
		htmlStep = Step{Name: "mindmap_html", Status: "completed", Path: res.Path}
		return nil
	})
	g.Go(func() error {
		// 退化时另存为 mindmap-image.html，避免与上面的 HTML 写同一个文件
		res, err := app.Image.Render(gctx, doc, "mindmap-image.png")
		if err != nil {
			return fmt.Errorf("生成思维导图图片失败: %w", err)
		}
		if res.Degraded {
			imageStep = Step{Name: "mindmap_image", Status: "degraded", Path: res.Path}
			warning = "图片渲染已退化为HTML: " + res.Reason
			return nil
		}
		imageStep = Step{Name: "mindmap_image", Status: "completed", Path: res.Path}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	report.Steps = append(report.Steps, htmlStep, imageStep)
	if warning != "" {
		report.Warnings = append(report.Warnings, warning)
	}
	log.Info("流程完成", "steps", len(report.Steps))
	return report, nil
}
