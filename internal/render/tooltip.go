// 文档注释：悬浮提示文本拼装
// 背景：每个区的提示按固定次序拼接：区名（开关控制）→ 各层条目（层注册顺序）；
// 层条目单值时数值按千分组两位小数格式化、文本原样，多值时换行成字母子列表 a. b. c.。
// 约束：字母按该区内匹配行的顺序连续分配；文本为空的区不产生悬浮原语。
package render

import (
	"strings"

	"map-api/internal/layer"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numPrinter = message.NewPrinter(language.English)

// hoverEntry：一个层对某区贡献的提示条目
type hoverEntry struct {
	label  string
	values []string
}

// composeHover：拼装一个区的悬浮文本；无内容时返回空串
func composeHover(district string, showName bool, entries []hoverEntry) string {
	var parts []string
	if showName {
		parts = append(parts, "<b>District:</b> "+district)
	}
	for _, e := range entries {
		switch len(e.values) {
		case 0:
		case 1:
			parts = append(parts, "<b>"+e.label+":</b> "+formatSingle(e.values[0]))
		default:
			parts = append(parts, "<b>"+e.label+":</b>")
			for i, v := range e.values {
				parts = append(parts, "  "+string(rune('a'+i))+". "+v)
			}
		}
	}
	return strings.Join(parts, "<br>")
}

// formatSingle：数值按 1,234.57 风格，其余原样
func formatSingle(v string) string {
	if f, ok := layer.ParseNumeric(v); ok {
		return numPrinter.Sprintf("%.2f", f)
	}
	return v
}
