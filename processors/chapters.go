package processors

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"videoMindmap/core"
)

// NormalizeChapters 将摘要服务返回的章节转换为关键时间点，不会失败。
// start 大于 end 的章节原样保留。
func NormalizeChapters(chapters []map[string]any) []core.KeyTimepoint {
	timepoints := make([]core.KeyTimepoint, 0, len(chapters))
	for _, ch := range chapters {
		timepoints = append(timepoints, core.KeyTimepoint{
			Title:   Sanitize(ch["title"]),
			Summary: Sanitize(ch["summary"]),
			Start:   toSeconds(ch["start"]),
			End:     toSeconds(ch["end"]),
		})
	}
	return timepoints
}

// toSeconds 把各种数值表示转换为非负秒数，无法识别的值为 0
func toSeconds(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	case bool:
		if n {
			f = 1
		}
	default:
		return 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// SanitizeTimepoints 清理调用方直接传入的时间点
func SanitizeTimepoints(points []core.KeyTimepoint) []core.KeyTimepoint {
	out := make([]core.KeyTimepoint, 0, len(points))
	for _, p := range points {
		out = append(out, core.KeyTimepoint{
			Title:   Sanitize(p.Title),
			Summary: Sanitize(p.Summary),
			Start:   toSeconds(p.Start),
			End:     toSeconds(p.End),
		})
	}
	return out
}
