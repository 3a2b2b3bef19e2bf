package core

import (
	"bytes"
	"encoding/json"
	"strings"
)

// 模型生成的文档字段类型并不可靠（"version": 1.0、"expanded": "true"、数字 id 等）。
// 下面的解码只对结构本身（对象、children 数组）严格，其余字段按能识别的形式转换，
// 识别不了的丢弃，是否合法交给 ValidateMindmap 判断。

// UnmarshalJSON 宽松解码元信息；非对象时保持零值
func (m *MindmapMeta) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name    json.RawMessage `json:"name"`
		Author  json.RawMessage `json:"author"`
		Version json.RawMessage `json:"version"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		*m = MindmapMeta{}
		return nil
	}
	*m = MindmapMeta{
		Name:    looseString(raw.Name),
		Author:  looseString(raw.Author),
		Version: looseString(raw.Version),
	}
	return nil
}

// UnmarshalJSON 宽松解码节点。节点本身必须是对象；children 中无法识别的元素被丢弃，null 保留为 nil。
func (n *MindmapNode) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID              json.RawMessage `json:"id"`
		Topic           json.RawMessage `json:"topic"`
		Direction       json.RawMessage `json:"direction"`
		Expanded        json.RawMessage `json:"expanded"`
		BackgroundColor json.RawMessage `json:"background-color"`
		ForegroundColor json.RawMessage `json:"foreground-color"`
		Children        json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	node := MindmapNode{
		ID:              looseString(raw.ID),
		Topic:           looseString(raw.Topic),
		Direction:       looseString(raw.Direction),
		Expanded:        looseBool(raw.Expanded),
		BackgroundColor: looseString(raw.BackgroundColor),
		ForegroundColor: looseString(raw.ForegroundColor),
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw.Children, &items); err == nil {
		for _, item := range items {
			if isNull(item) {
				node.Children = append(node.Children, nil)
				continue
			}
			child := new(MindmapNode)
			if err := json.Unmarshal(item, child); err != nil {
				continue
			}
			node.Children = append(node.Children, child)
		}
	}

	*n = node
	return nil
}

// looseString 字符串原样返回，数字保留原始写法，布尔值转为 true/false，其余返回空串
func looseString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err == nil {
			if b {
				return "true"
			}
			return "false"
		}
	case '{', '[', 'n':
	default:
		var num json.Number
		if err := json.Unmarshal(raw, &num); err == nil {
			return num.String()
		}
	}
	return ""
}

// looseBool 接受布尔值和 "true"/"false" 字符串，其余视为未设置
func looseBool(raw json.RawMessage) *bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return Bool(b)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true":
			return Bool(true)
		case "false":
			return Bool(false)
		}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
