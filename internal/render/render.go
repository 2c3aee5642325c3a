// 文档注释：连接-渲染管线
// 背景：每次交互重跑一遍完整管线：上传行匹配官方区名 → 数值归一上色 / 分类打点 →
// 按固定叠放顺序产出原语列表（省底色 → 数据层 → 区界 → 省界 → 国界 → 悬浮面）。
// 管线无跨次状态，仅视口在渲染间传递（入参带则回显，不带则取国界范围）。
// 约束：连接为内连接，未匹配行静默丢弃；单层零匹配只产生一条层级警告并跳过该层，
// 不影响其他层；数值层多行命中同一区时逐行各出一个叠放填充面（见 DESIGN.md）。
package render

import (
	"fmt"
	"math/rand"

	"map-api/internal/geo"
	"map-api/internal/layer"
	"map-api/internal/logger"
	"map-api/internal/match"
)

// 省底色默认调色板，按省序号循环取色
var provincePalette = []string{"#636EFA", "#EF553B", "#00CC96", "#AB63FA", "#FFA15A", "#19D3F3", "#FF6692"}

const (
	districtLineWidth = 0.5
	provinceLineWidth = 1.5
	nationalLineWidth = 3.5
	jitterRange       = 0.01 // 均匀抖动全幅，单轴 ±0.005
	markerSize        = 16
)

var (
	districtLineColor = RGBA{R: 105, G: 105, B: 105, A: 1} // dimgray
	borderBlack       = RGBA{A: 1}
)

type Pipeline struct {
	districts []geo.Feature
	provinces []geo.Feature
	national  [][]geo.Point
	names     []string
	byName    map[string]*geo.Feature
	matcher   *match.Matcher
	rng       *rand.Rand
}

// NewPipeline：国界轮廓在构造期融合一次，之后每次渲染复用
func NewPipeline(districts, provinces []geo.Feature, m *match.Matcher, rng *rand.Rand) *Pipeline {
	p := &Pipeline{
		districts: districts,
		provinces: provinces,
		national:  geo.Dissolve(provinces),
		byName:    make(map[string]*geo.Feature, len(districts)),
		matcher:   m,
		rng:       rng,
	}
	for i := range districts {
		d := &districts[i]
		p.names = append(p.names, d.Name)
		if _, ok := p.byName[d.Name]; !ok {
			p.byName[d.Name] = d
		}
	}
	return p
}

// Input：一次渲染的全部输入；Viewport 非空时原样回显到输出
type Input struct {
	Layers   []*layer.Layer
	Toggles  Toggles
	Viewport *geo.Extent
}

type Output struct {
	Primitives []Primitive `json:"primitives"`
	Extent     geo.Extent  `json:"extent"`
	Notices    []string    `json:"notices,omitempty"`
	Warnings   []string    `json:"warnings,omitempty"`
}

// joined：一个层的连接结果
type joined struct {
	layer      *layer.Layer
	kind       layer.Kind
	rows       []joinedRow
	byDistrict map[string][]string
}

type joinedRow struct {
	feature *geo.Feature
	value   string
}

// Render：纯变换 (geometry, datasets, toggles) → (primitives, extent)
func (p *Pipeline) Render(in Input) Output {
	var out Output

	// 全量连接先行：警告与纠正提示与层可见性无关
	joins := make([]joined, 0, len(in.Layers))
	for _, ly := range in.Layers {
		joins = append(joins, p.join(ly, &out))
	}

	// 1. 省底色
	if in.Toggles.ColorByProvince {
		for idx, prov := range p.provinces {
			if vis, ok := in.Toggles.ProvinceVisible[idx]; ok && !vis {
				continue
			}
			hex := in.Toggles.ProvinceColor[idx]
			if hex == "" {
				hex = provincePalette[idx%len(provincePalette)]
			}
			c, err := ParseHex(hex)
			if err != nil {
				c = RGBA{R: 204, G: 204, B: 204, A: 1}
			}
			for _, poly := range prov.Polys {
				out.Primitives = append(out.Primitives, Primitive{
					Kind: KindFill, Ring: exterior(poly), Fill: c.String(), Line: c.String(),
				})
			}
		}
	}

	// 2. 数据层（注册顺序）
	for _, j := range joins {
		if !j.layer.Visible || len(j.rows) == 0 {
			continue
		}
		if j.kind == layer.Numeric {
			p.emitNumeric(j, &out)
		} else {
			p.emitCategorical(j, &out)
		}
	}

	// 3. 区界
	if in.Toggles.DistrictBorders {
		for _, d := range p.districts {
			emitOutlines(&out, d.Polys, districtLineColor, districtLineWidth)
		}
	}
	// 4. 省界
	if in.Toggles.ProvinceBorders {
		for _, prov := range p.provinces {
			emitOutlines(&out, prov.Polys, borderBlack, provinceLineWidth)
		}
	}
	// 5. 国界（始终绘制）
	for _, ring := range p.national {
		out.Primitives = append(out.Primitives, Primitive{
			Kind: KindOutline, Ring: ring, Line: borderBlack.String(), Width: nationalLineWidth,
		})
	}

	// 6. 悬浮面：文本为空的区不产生悬浮原语
	for _, d := range p.districts {
		var entries []hoverEntry
		for _, j := range joins {
			if !j.layer.TooltipVisible {
				continue
			}
			if vals := j.byDistrict[d.Name]; len(vals) > 0 {
				entries = append(entries, hoverEntry{label: j.layer.TooltipLabel, values: vals})
			}
		}
		text := composeHover(d.Name, in.Toggles.DistrictTooltip, entries)
		if text == "" {
			continue
		}
		for _, poly := range d.Polys {
			out.Primitives = append(out.Primitives, Primitive{
				Kind: KindHover, Ring: exterior(poly),
				Fill: Transparent.String(), Line: Transparent.String(), Text: text,
			})
		}
	}

	if in.Viewport != nil {
		out.Extent = *in.Viewport
	} else {
		out.Extent = geo.FeaturesExtent(p.provinces)
	}
	logger.L().Debug("render_done",
		"layers", len(in.Layers),
		"primitives", len(out.Primitives),
		"notices", len(out.Notices),
		"warnings", len(out.Warnings),
	)
	return out
}

// join：对一个层的全部行跑匹配，组装内连接结果
func (p *Pipeline) join(ly *layer.Layer, out *Output) joined {
	j := joined{layer: ly, kind: layer.Classify(ly.Rows), byDistrict: map[string][]string{}}
	for _, row := range ly.Rows {
		res, ok := p.matcher.Match(row.Location, p.names)
		if !ok {
			continue
		}
		if res.Corrected {
			out.Notices = append(out.Notices, fmt.Sprintf("Matched '%s' to '%s'", row.Location, res.Name))
		}
		j.rows = append(j.rows, joinedRow{feature: p.byName[res.Name], value: row.Value})
		j.byDistrict[res.Name] = append(j.byDistrict[res.Name], row.Value)
	}
	if len(j.rows) == 0 {
		out.Warnings = append(out.Warnings, fmt.Sprintf("For '%s', no matching locations were found", ly.DisplayName))
	}
	return j
}

// emitNumeric：归一上色，逐行逐面出填充原语（同区多行按行序叠放）
func (p *Pipeline) emitNumeric(j joined, out *Output) {
	to, err := ParseHex(j.layer.Color)
	if err != nil {
		to, _ = ParseHex(layer.DefaultColor)
	}
	vals := make([]float64, 0, len(j.rows))
	for _, r := range j.rows {
		v, _ := layer.ParseNumeric(r.value)
		vals = append(vals, v)
	}
	mn, mx := minMax(vals)
	for i, r := range j.rows {
		c := rampColor(normalize(vals[i], mn, mx), to)
		for _, poly := range r.feature.Polys {
			out.Primitives = append(out.Primitives, Primitive{
				Kind: KindFill, Ring: exterior(poly), Fill: c.String(), Line: Transparent.String(),
			})
		}
	}
}

// emitCategorical：每个匹配行独立出一个文字标记，质心加抖动防重叠
func (p *Pipeline) emitCategorical(j joined, out *Output) {
	icon := j.layer.Icon
	if icon == "" {
		icon = layer.DefaultIcon
	}
	for _, r := range j.rows {
		out.Primitives = append(out.Primitives, Primitive{
			Kind:  KindMarker,
			X:     r.feature.Centroid.Lon + (p.rng.Float64()-0.5)*jitterRange,
			Y:     r.feature.Centroid.Lat + (p.rng.Float64()-0.5)*jitterRange,
			Text:  icon,
			Color: j.layer.Color,
			Size:  markerSize,
		})
	}
}

func emitOutlines(out *Output, polys []geo.Polygon, c RGBA, width float64) {
	for _, poly := range polys {
		out.Primitives = append(out.Primitives, Primitive{
			Kind: KindOutline, Ring: exterior(poly), Line: c.String(), Width: width,
		})
	}
}

func exterior(p geo.Polygon) []geo.Point {
	if len(p.Rings) == 0 {
		return nil
	}
	return p.Rings[0]
}
