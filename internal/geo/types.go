// 文档注释：行政区边界的最小数据结构
// 背景：统一承载区/省两级的名称与几何；保持轻量以便常驻内存并在每次渲染中反复遍历。
// 约束：几何仅支持 GeoJSON 的 Polygon/MultiPolygon；多面以环列表表达，第一环为外环，其余为洞；
// 加载完成后结构只读，渲染管线不得修改。
package geo

// 点坐标（WGS84，经度在前与 GeoJSON 一致）
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Polygon：按 GeoJSON 约定的环集合，第一环是外环，其后为洞
type Polygon struct {
	Rings [][]Point
	BBox  [4]float64 // minLon, minLat, maxLon, maxLat
}

// Feature：一个命名行政区（区或省）及其全部几何部件
type Feature struct {
	Name     string
	Polys    []Polygon
	Centroid Point
}

// Extent：可视范围，[minLon, minLat, maxLon, maxLat]
type Extent [4]float64

// 计算多边形包围盒
func computeBBox(p Polygon) [4]float64 {
	b := [4]float64{180, 90, -180, -90}
	for _, r := range p.Rings {
		for _, pt := range r {
			if pt.Lon < b[0] {
				b[0] = pt.Lon
			}
			if pt.Lat < b[1] {
				b[1] = pt.Lat
			}
			if pt.Lon > b[2] {
				b[2] = pt.Lon
			}
			if pt.Lat > b[3] {
				b[3] = pt.Lat
			}
		}
	}
	return b
}

// FeaturesExtent：特征集合的整体包围盒，作为初始视口
func FeaturesExtent(fs []Feature) Extent {
	e := Extent{180, 90, -180, -90}
	for _, f := range fs {
		for _, p := range f.Polys {
			if p.BBox[0] < e[0] {
				e[0] = p.BBox[0]
			}
			if p.BBox[1] < e[1] {
				e[1] = p.BBox[1]
			}
			if p.BBox[2] > e[2] {
				e[2] = p.BBox[2]
			}
			if p.BBox[3] > e[3] {
				e[3] = p.BBox[3]
			}
		}
	}
	return e
}
