package processors

import (
	"fmt"

	"videoMindmap/core"
	"videoMindmap/utils"
)

const mindmapSchemaExample = `{
  "meta": {
    "name": "视频内容思维导图",
    "author": "AI Assistant",
    "version": "1.0"
  },
  "format": "node_tree",
  "data": {
    "id": "root",
    "topic": "视频主题",
    "children": [
      {
        "id": "topic1",
        "topic": "一级主题1",
        "direction": "right",
        "expanded": true,
        "background-color": "#FF9500",
        "foreground-color": "#FFFFFF",
        "children": [
          {
            "id": "topic1_1",
            "topic": "二级主题1-1",
            "direction": "right",
            "background-color": "#FFB870",
            "foreground-color": "#333333"
          },
          {
            "id": "topic1_2",
            "topic": "二级主题1-2",
            "direction": "right",
            "background-color": "#FFB870",
            "foreground-color": "#333333"
          }
        ]
      },
      {
        "id": "topic2",
        "topic": "一级主题2",
        "direction": "left",
        "expanded": true,
        "background-color": "#3DA0FF",
        "foreground-color": "#FFFFFF",
        "children": [
          {
            "id": "topic2_1",
            "topic": "二级主题2-1",
            "direction": "left",
            "background-color": "#70BBFF",
            "foreground-color": "#333333"
          }
        ]
      }
    ]
  }
}`

const mindmapPromptTemplate = `请根据视频的关键词、视频的摘要信息、视频的关键时间点及内容，生成一个思维导图的 JSON 格式，我需要符合jsMind库要求的格式，以下是一个例子：
%s

现在，请根据以下信息生成思维导图JSON：

关键词：%s
摘要信息：%s
关键时间点及内容：%s

注意：
1. 只返回JSON格式的结果，不要包含任何解释或其他文本
2. 确保JSON使用jsMind格式，主要包含meta、format和data三个字段
3. 每个节点的id必须是唯一的标识符，可以使用有意义的短字符串
4. topic是节点显示的文本内容
5. 一级主题的方向应该交替使用 "left" 和 "right"，以均衡布局
6. 根节点的id必须是"root"
7. 每个主题都应该有不同的背景颜色(background-color)和前景颜色(foreground-color)
8. 同类主题应使用相似的颜色，但子主题使用更浅的颜色变体
9. 建议使用以下颜色方案（可以根据主题类型选择合适的颜色）：
   - 蓝色系: #3DA0FF, #70BBFF, #A3D8FF
   - 绿色系: #44D7B6, #7AEACD, #ABFFEB
   - 橙色系: #FF9500, #FFB870, #FFDAB3
   - 紫色系: #B36DFF, #CFA2FF, #E6D3FF
   - 红色系: #FF6B6B, #FFA8A8, #FFD1D1
   - 黄色系: #FFCB45, #FFDB83, #FFECB0`

// BuildMindmapPrompt 组装生成思维导图的提示词，输入应已清理
func BuildMindmapPrompt(keywords []string, summary string, timepoints []core.KeyTimepoint) (string, error) {
	if keywords == nil {
		keywords = []string{}
	}
	if timepoints == nil {
		timepoints = []core.KeyTimepoint{}
	}
	kw, err := utils.MarshalCompact(keywords)
	if err != nil {
		return "", fmt.Errorf("序列化关键词失败: %w", err)
	}
	sum, err := utils.MarshalCompact(summary)
	if err != nil {
		return "", fmt.Errorf("序列化摘要失败: %w", err)
	}
	tps, err := utils.MarshalIndent(timepoints)
	if err != nil {
		return "", fmt.Errorf("序列化关键时间点失败: %w", err)
	}
	return fmt.Sprintf(mindmapPromptTemplate, mindmapSchemaExample, kw, sum, tps), nil
}
