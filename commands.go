package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"videoMindmap/core"
	"videoMindmap/server"
	"videoMindmap/storage"
	"videoMindmap/utils"
)

func init() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "启动 MCP 标准输入输出服务",
		RunE:  runServe,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze <url>",
		Short: "分析视频并输出关键词、摘要和关键时间点",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}

	mindmapCmd := &cobra.Command{
		Use:   "mindmap",
		Short: "根据已保存的分析结果生成思维导图",
		RunE:  runMindmap,
	}
	mindmapCmd.Flags().StringP("input", "i", "", "分析结果JSON文件 (必填)")
	mindmapCmd.Flags().String("json", storage.DefaultJSONName, "思维导图JSON输出路径")
	mindmapCmd.Flags().String("html", "", "思维导图HTML输出路径 (为空则不生成)")
	mindmapCmd.Flags().String("image", "", "思维导图PNG输出路径 (为空则不生成)")
	mindmapCmd.Flags().String("title", "", "HTML页面标题")
	mindmapCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(serveCmd, analyzeCmd, mindmapCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	app, err := newApp("")
	if err != nil {
		return err
	}
	defer app.Close()

	srv := server.NewServer(app.ToolHandlers(), app.Logger.With("component", "mcp"))
	return srv.Serve(cmd.Context(), os.Stdin, os.Stdout)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	app, err := newApp("")
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.Analyzer.Analyze(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("视频分析失败: %w", err)
	}
	data, err := utils.MarshalIndent(result)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func runMindmap(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	jsonOut, _ := cmd.Flags().GetString("json")
	htmlOut, _ := cmd.Flags().GetString("html")
	imageOut, _ := cmd.Flags().GetString("image")
	title, _ := cmd.Flags().GetString("title")

	app, err := newApp("")
	if err != nil {
		return err
	}
	defer app.Close()

	var analysis core.AnalysisResult
	if err := storage.NewArtifactStore("").ReadJSON(input, &analysis); err != nil {
		return err
	}
	doc, err := app.Builder.Build(cmd.Context(), core.MindmapRequest{
		Keywords:      analysis.Keywords,
		Summary:       analysis.Summary,
		KeyTimepoints: analysis.KeyTimepoints,
	})
	if err != nil {
		return fmt.Errorf("生成思维导图JSON失败: %w", err)
	}

	path, err := app.Store.WriteJSON(jsonOut, storage.DefaultJSONName, doc)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "思维导图JSON已保存到: "+path)

	if htmlOut != "" {
		res, err := app.HTML.WriteFile(doc, htmlOut, title)
		if err != nil {
			return fmt.Errorf("生成思维导图HTML失败: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "思维导图HTML已保存到: "+res.Path)
	}
	if imageOut != "" {
		res, err := app.Image.Render(cmd.Context(), doc, imageOut)
		if err != nil {
			return fmt.Errorf("生成思维导图图片失败: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), imageMessage(res.Path, res.Degraded, res.Reason))
	}
	return nil
}

func imageMessage(path string, degraded bool, reason string) string {
	if degraded {
		return fmt.Sprintf("浏览器截图不可用（%s），思维导图HTML已保存到: %s", reason, path)
	}
	return "思维导图图片已保存到: " + path
}
