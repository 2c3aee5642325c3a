// 文档注释：上传数据层模型与取值类型判定
// 背景：一个数据层对应一次上传的两列表格（地名 + 任意取值），附带可编辑的展示设置；
// 取值类型不落库，每次渲染重新判定：全部能解析为数值则为数值层，否则为分类层。
// 约束：DisplayName/TooltipLabel 为自由文本，允许跨层重名；判定函数是全函数，零行层按
// "所有值都可解析" 的空真语义判为数值层（见 DESIGN.md）。
package layer

import (
	"strconv"
	"strings"
)

// Row：一行上传数据，取值保留原始文本
type Row struct {
	Location string `json:"location"`
	Value    string `json:"value"`
}

// Kind：数据层取值类型
type Kind int

const (
	Numeric Kind = iota
	Categorical
)

func (k Kind) String() string {
	if k == Numeric {
		return "numeric"
	}
	return "categorical"
}

// Layer：一个上传数据层及其可视设置
type Layer struct {
	FileKey        string `json:"file_key"`
	DisplayName    string `json:"display_name"`
	TooltipLabel   string `json:"tooltip_label"`
	ValueColumn    string `json:"value_column"`
	Color          string `json:"color"`
	Icon           string `json:"icon"`
	Visible        bool   `json:"visible"`
	TooltipVisible bool   `json:"tooltip_visible"`
	Rows           []Row  `json:"rows,omitempty"`
}

// 分类层可选图标集
var Icons = []string{"📍", "⭐", "🏔️", "🏛️", "🏞️", "🌳", "🏨", "🎄", "🏠", "🚉", "🌊"}

const (
	DefaultColor = "#FF4500"
	DefaultIcon  = "🏞️"
)

// Classify：判定数据层取值类型
func Classify(rows []Row) Kind {
	for _, r := range rows {
		if _, err := strconv.ParseFloat(strings.TrimSpace(r.Value), 64); err != nil {
			return Categorical
		}
	}
	return Numeric
}

// ParseNumeric：按 Classify 相同的规则解析单个取值
func ParseNumeric(v string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	return f, err == nil
}
