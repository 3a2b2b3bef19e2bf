package processors

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"videoMindmap/core"
)

// parseStrategy 从模型返回的文本中解析思维导图文档
type parseStrategy struct {
	name  string
	parse func(text string) (*core.MindmapDocument, error)
}

// 按顺序尝试，第一个解析成功且通过校验的结果生效
var parseStrategies = []parseStrategy{
	{name: "brace_span", parse: parseBraceSpan},
	{name: "whole_text", parse: parseWholeText},
	{name: "balanced_object", parse: parseBalancedObject},
}

var (
	braceSpanRe  = regexp.MustCompile(`(?s)\{.*\}`)
	codeFenceRe  = regexp.MustCompile("```[A-Za-z0-9_-]*")
	errNoObject  = errors.New("未找到JSON对象")
	errNoMindmap = errors.New("未能成功解析符合jsMind格式的JSON")
)

// ParseMindmap 依次尝试所有解析策略，返回第一个合法文档及其策略名
func ParseMindmap(text string) (*core.MindmapDocument, string, error) {
	var errs []error
	for _, s := range parseStrategies {
		doc, err := s.parse(text)
		if err == nil {
			err = ValidateMindmap(doc)
		}
		if err == nil {
			return doc, s.name, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
	}
	return nil, "", core.NewError(core.KindParse, errNoMindmap.Error(), errors.Join(errs...))
}

// parseBraceSpan 取第一个 { 到最后一个 } 之间的内容
func parseBraceSpan(text string) (*core.MindmapDocument, error) {
	span := braceSpanRe.FindString(text)
	if span == "" {
		return nil, errNoObject
	}
	return decodeMindmap(span)
}

func parseWholeText(text string) (*core.MindmapDocument, error) {
	return decodeMindmap(strings.TrimSpace(text))
}

// parseBalancedObject 去掉代码块标记后，按括号配对找出第一个能通过校验的对象
func parseBalancedObject(text string) (*core.MindmapDocument, error) {
	cleaned := codeFenceRe.ReplaceAllString(text, "")
	lastErr := errNoObject
	for start := strings.IndexByte(cleaned, '{'); start >= 0; {
		if end := matchBrace(cleaned, start); end > start {
			doc, err := decodeMindmap(cleaned[start : end+1])
			if err == nil {
				err = ValidateMindmap(doc)
			}
			if err == nil {
				return doc, nil
			}
			lastErr = err
		}
		next := strings.IndexByte(cleaned[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return nil, lastErr
}

// matchBrace 返回与 start 处 { 配对的 } 的位置，字符串内的括号不计入；找不到返回 -1
func matchBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func decodeMindmap(text string) (*core.MindmapDocument, error) {
	if text == "" {
		return nil, errNoObject
	}
	var doc core.MindmapDocument
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ValidateMindmap 检查 jsMind node_tree 文档的结构约束
func ValidateMindmap(doc *core.MindmapDocument) error {
	if doc == nil {
		return invalidMindmap("文档为空")
	}
	if doc.Format != core.FormatNodeTree {
		return invalidMindmap("format必须为%s，实际为%q", core.FormatNodeTree, doc.Format)
	}
	if doc.Data == nil {
		return invalidMindmap("缺少data根节点")
	}
	if strings.TrimSpace(doc.Data.ID) == "" {
		return invalidMindmap("根节点缺少id")
	}
	if strings.TrimSpace(doc.Data.Topic) == "" {
		return invalidMindmap("根节点缺少topic")
	}
	seen := make(map[string]struct{})
	return validateNode(doc.Data, seen)
}

func invalidMindmap(format string, args ...any) error {
	return core.NewError(core.KindParse, "校验失败", fmt.Errorf(format, args...))
}

func validateNode(n *core.MindmapNode, seen map[string]struct{}) error {
	if n == nil {
		return invalidMindmap("存在空节点")
	}
	if strings.TrimSpace(n.ID) == "" {
		return invalidMindmap("节点%q缺少id", n.Topic)
	}
	if _, dup := seen[n.ID]; dup {
		return invalidMindmap("节点id重复: %s", n.ID)
	}
	seen[n.ID] = struct{}{}
	for _, c := range n.Children {
		if err := validateNode(c, seen); err != nil {
			return err
		}
	}
	return nil
}
