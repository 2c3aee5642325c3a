// 文档注释：从 GeoJSON 文件加载行政区边界
// 背景：区/省两级边界各为一个 FeatureCollection，属性中携带官方名称；
// 解码依赖 go-geom，质心在加载期一次计算，渲染期只读。
// 约束：文件缺失是独立的用户可见错误（带文件名）；名称属性按候选列表取首个存在项。
package geo

import (
	"encoding/json"
	"fmt"
	"os"

	"map-api/internal/logger"

	geomlib "github.com/twpayne/go-geom"
	geomjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/xy"
)

// LoadCollection：读取一个边界文件并转换为内部特征列表
// 参数：nameProps 为名称属性候选（如区级 DIST_EN/DISTRICT，省级 PROV_EN）；
// fallback 为属性缺失时的名称前缀（按 1 起始的序号拼接）。
func LoadCollection(path string, fallback string, nameProps ...string) ([]Feature, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("geojson file not found: %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var fc geomjson.FeatureCollection
	if err := json.Unmarshal(b, &fc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	var out []Feature
	for idx, f := range fc.Features {
		var ft Feature
		for _, prop := range nameProps {
			if v, ok := f.Properties[prop].(string); ok && v != "" {
				ft.Name = v
				break
			}
		}
		if ft.Name == "" {
			ft.Name = fmt.Sprintf("%s %d", fallback, idx+1)
		}
		polys, cent, err := convertGeometry(f.Geometry)
		if err != nil {
			return nil, fmt.Errorf("feature %q in %s: %w", ft.Name, path, err)
		}
		ft.Polys = polys
		ft.Centroid = cent
		out = append(out, ft)
	}
	logger.L().Debug("geo_load_ok", "path", path, "features", len(out))
	return out, nil
}

// convertGeometry：go-geom 几何转内部结构并计算质心
func convertGeometry(g geomlib.T) ([]Polygon, Point, error) {
	switch gg := g.(type) {
	case *geomlib.Polygon:
		c := xy.PolygonsCentroid(gg)
		return []Polygon{convertPolygon(gg)}, Point{Lon: c[0], Lat: c[1]}, nil
	case *geomlib.MultiPolygon:
		n := gg.NumPolygons()
		if n == 0 {
			return nil, Point{}, fmt.Errorf("empty multipolygon")
		}
		parts := make([]*geomlib.Polygon, 0, n)
		polys := make([]Polygon, 0, n)
		for i := 0; i < n; i++ {
			p := gg.Polygon(i)
			parts = append(parts, p)
			polys = append(polys, convertPolygon(p))
		}
		c := xy.PolygonsCentroid(parts[0], parts[1:]...)
		return polys, Point{Lon: c[0], Lat: c[1]}, nil
	default:
		return nil, Point{}, fmt.Errorf("unsupported geometry type %T", g)
	}
}

func convertPolygon(p *geomlib.Polygon) Polygon {
	var poly Polygon
	for i := 0; i < p.NumLinearRings(); i++ {
		coords := p.LinearRing(i).Coords()
		ring := make([]Point, 0, len(coords))
		for _, c := range coords {
			ring = append(ring, Point{Lon: c[0], Lat: c[1]})
		}
		poly.Rings = append(poly.Rings, ring)
	}
	poly.BBox = computeBBox(poly)
	return poly
}
