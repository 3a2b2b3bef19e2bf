package core

// ========== 视频分析 ==========

// KeyTimepoint 视频中的一个章节（关键时间点）
type KeyTimepoint struct {
	Title   string  `json:"title"`
	Summary string  `json:"summary"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

// AnalysisResult 一次视频分析的结果
type AnalysisResult struct {
	Keywords      []string       `json:"keywords"`
	Summary       string         `json:"summary"`
	KeyTimepoints []KeyTimepoint `json:"keyTimepoints"`
}

// ChapterSummary 摘要服务返回的原始数据
type ChapterSummary struct {
	Success        bool             `json:"success"`
	OverallSummary string           `json:"overallSummary"`
	Chapters       []map[string]any `json:"chapters"`
}

// ========== 思维导图（jsMind node_tree 格式） ==========

const (
	FormatNodeTree = "node_tree"
	RootNodeID     = "root"

	DirectionLeft  = "left"
	DirectionRight = "right"
)

// MindmapMeta 文档元信息
type MindmapMeta struct {
	Name    string `json:"name"`
	Author  string `json:"author"`
	Version string `json:"version"`
}

// MindmapNode 思维导图节点；direction 只对根节点的直接子节点有意义
type MindmapNode struct {
	ID              string         `json:"id"`
	Topic           string         `json:"topic"`
	Direction       string         `json:"direction,omitempty"`
	Expanded        *bool          `json:"expanded,omitempty"`
	BackgroundColor string         `json:"background-color,omitempty"`
	ForegroundColor string         `json:"foreground-color,omitempty"`
	Children        []*MindmapNode `json:"children,omitempty"`
}

// MindmapDocument 完整的思维导图文档
type MindmapDocument struct {
	Meta   MindmapMeta  `json:"meta"`
	Format string       `json:"format"`
	Data   *MindmapNode `json:"data"`
}

// MindmapRequest 生成思维导图的输入。nil 切片表示调用方未提供该参数。
type MindmapRequest struct {
	Keywords      []string       `json:"keywords"`
	Summary       string         `json:"summary"`
	KeyTimepoints []KeyTimepoint `json:"keyTimepoints"`
}

// Walk 先序遍历所有节点，fn 返回 false 时停止
func (d *MindmapDocument) Walk(fn func(n *MindmapNode, depth int) bool) {
	if d == nil || d.Data == nil {
		return
	}
	walkNode(d.Data, 0, fn)
}

func walkNode(n *MindmapNode, depth int, fn func(*MindmapNode, int) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n, depth) {
		return false
	}
	for _, c := range n.Children {
		if !walkNode(c, depth+1, fn) {
			return false
		}
	}
	return true
}

// NodeCount 返回节点总数
func (d *MindmapDocument) NodeCount() int {
	count := 0
	d.Walk(func(*MindmapNode, int) bool {
		count++
		return true
	})
	return count
}

// Bool 返回指向 b 的指针
func Bool(b bool) *bool { return &b }
