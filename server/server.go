package server

import (
	"context"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"videoMindmap/utils"
)

// 服务信息
const (
	Name    = "video-analysis-mcp"
	Version = "1.0.0"
)

// ToolEntry 一个工具定义及其处理函数
type ToolEntry struct {
	Tool    mcp.Tool
	Handler mcpserver.ToolHandlerFunc
}

// Server 基于标准输入输出的 MCP 服务
type Server struct {
	mcp    *mcpserver.MCPServer
	logger *utils.Logger
}

// NewServer 注册所有工具
func NewServer(handlers *ToolHandlers, logger *utils.Logger) *Server {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	s := mcpserver.NewMCPServer(Name, Version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	)
	for _, entry := range handlers.Tools() {
		s.AddTool(entry.Tool, entry.Handler)
	}
	return &Server{mcp: s, logger: logger}
}

// MCPServer 返回底层服务，供测试和嵌入使用
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcp
}

// Serve 在 in/out 上运行 MCP 协议，直到输入关闭或 ctx 取消
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := mcpserver.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(zap.NewStdLog(s.logger.SugaredLogger.Desugar()))

	s.logger.Info("MCP服务已启动", "name", Name, "version", Version)
	err := stdio.Listen(ctx, in, out)
	if err != nil && ctx.Err() != nil {
		s.logger.Info("MCP服务已停止")
		return nil
	}
	return err
}
