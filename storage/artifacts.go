package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"videoMindmap/utils"
)

// 默认产物文件名
const (
	DefaultJSONName    = "mindmap.json"
	DefaultHTMLName    = "mindmap.html"
	DefaultImageName   = "mindmap.png"
	AnalysisResultName = "analysis-result.json"
	VideoAnalysisName  = "video-analysis.json"
)

// ArtifactStore 把生成的 JSON、HTML、PNG 写到输出目录
type ArtifactStore struct {
	BaseDir string
}

// NewArtifactStore baseDir 为空时使用当前目录
func NewArtifactStore(baseDir string) *ArtifactStore {
	if strings.TrimSpace(baseDir) == "" {
		baseDir = "."
	}
	return &ArtifactStore{BaseDir: baseDir}
}

// Resolve 解析输出路径：空路径使用默认文件名，相对路径放在 BaseDir 下，绝对路径保持不变
func (s *ArtifactStore) Resolve(path, defaultName string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		path = defaultName
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(s.BaseDir, path)
}

// WriteBytes 写入文件，必要时创建父目录，返回实际路径
func (s *ArtifactStore) WriteBytes(path, defaultName string, data []byte) (string, error) {
	target := s.Resolve(path, defaultName)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("创建目录失败: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("写入文件 %s 失败: %w", target, err)
	}
	return target, nil
}

// WriteJSON 以缩进格式写入 JSON
func (s *ArtifactStore) WriteJSON(path, defaultName string, v any) (string, error) {
	data, err := utils.MarshalIndent(v)
	if err != nil {
		return "", fmt.Errorf("序列化JSON失败: %w", err)
	}
	return s.WriteBytes(path, defaultName, append(data, '\n'))
}

// ReadJSON 读取 JSON 文件
func (s *ArtifactStore) ReadJSON(path string, v any) error {
	data, err := os.ReadFile(s.Resolve(path, ""))
	if err != nil {
		return fmt.Errorf("读取文件失败: %w", err)
	}
	if err := utils.UnmarshalJSON(data, v); err != nil {
		return fmt.Errorf("解析JSON失败: %w", err)
	}
	return nil
}
