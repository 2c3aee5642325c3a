// 文档注释：渲染原语与颜色类型
// 背景：管线输出一个有序原语列表交给前端绘图引擎（painter 顺序，后画覆盖先画）；
// 原语四类：填充面、描边、文字标记、透明悬浮面。颜色序列化为 rgba() 文本，
// 与 plotly 一类引擎的取值约定一致，全透明是合法取值（可悬浮不可见）。
package render

import (
	"fmt"
	"strconv"

	"map-api/internal/geo"
)

type Kind string

const (
	KindFill    Kind = "fill"
	KindOutline Kind = "outline"
	KindMarker  Kind = "marker"
	KindHover   Kind = "hover"
)

// RGBA：通道 0..255，透明度 0..1
type RGBA struct {
	R, G, B uint8
	A       float64
}

var Transparent = RGBA{0, 0, 0, 0}

func (c RGBA) String() string {
	return "rgba(" + strconv.Itoa(int(c.R)) + "," + strconv.Itoa(int(c.G)) + "," +
		strconv.Itoa(int(c.B)) + "," + strconv.FormatFloat(c.A, 'f', -1, 64) + ")"
}

// ParseHex：解析 #RRGGBB 为不透明颜色
func ParseHex(s string) (RGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return RGBA{}, fmt.Errorf("bad hex color %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return RGBA{}, fmt.Errorf("bad hex color %q", s)
	}
	return RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 1}, nil
}

// Primitive：一个可绘制单元
// fill/outline/hover 携带单个环（多面特征拆为多个原语，与逐 trace 绘制一致）；
// marker 携带坐标、字形与文字颜色。
type Primitive struct {
	Kind  Kind        `json:"kind"`
	Ring  []geo.Point `json:"ring,omitempty"`
	Fill  string      `json:"fill,omitempty"`
	Line  string      `json:"line,omitempty"`
	Width float64     `json:"width,omitempty"`
	X     float64     `json:"x,omitempty"`
	Y     float64     `json:"y,omitempty"`
	Text  string      `json:"text,omitempty"`
	Color string      `json:"color,omitempty"`
	Size  float64     `json:"size,omitempty"`
}

// Toggles：UI 持有的可视开关，渲染时以纯配置传入
type Toggles struct {
	DistrictBorders bool           `json:"district_borders"`
	ProvinceBorders bool           `json:"province_borders"`
	ColorByProvince bool           `json:"color_by_province"`
	DistrictTooltip bool           `json:"district_tooltip"`
	ProvinceVisible map[int]bool   `json:"province_visible,omitempty"`
	ProvinceColor   map[int]string `json:"province_color,omitempty"`
}

// DefaultToggles：与原始界面默认值一致（区界/省界/区名提示开，省着色关）
func DefaultToggles() Toggles {
	return Toggles{DistrictBorders: true, ProvinceBorders: true, DistrictTooltip: true}
}
