package geo

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func square(name string, x0, y0, x1, y1 float64) Feature {
	p := Polygon{Rings: [][]Point{{
		{Lon: x0, Lat: y0}, {Lon: x1, Lat: y0}, {Lon: x1, Lat: y1}, {Lon: x0, Lat: y1}, {Lon: x0, Lat: y0},
	}}}
	p.BBox = computeBBox(p)
	return Feature{
		Name:     name,
		Polys:    []Polygon{p},
		Centroid: Point{Lon: (x0 + x1) / 2, Lat: (y0 + y1) / 2},
	}
}

func TestDissolveSharedEdge(t *testing.T) {
	// 两个共边正方形融合后应得到一个 6 点外轮廓，共享边消失
	fs := []Feature{square("A", 0, 0, 1, 1), square("B", 1, 0, 2, 1)}
	rings := Dissolve(fs)
	if len(rings) != 1 {
		t.Fatalf("got %d rings, want 1", len(rings))
	}
	if len(rings[0]) != 6 {
		t.Errorf("outer ring has %d points, want 6", len(rings[0]))
	}
	for i, a := range rings[0] {
		b := rings[0][(i+1)%len(rings[0])]
		if a.Lon == 1 && b.Lon == 1 {
			t.Errorf("shared edge survived dissolve: %v-%v", a, b)
		}
	}
}

func TestDissolveDisjoint(t *testing.T) {
	fs := []Feature{square("A", 0, 0, 1, 1), square("B", 5, 0, 6, 1)}
	rings := Dissolve(fs)
	if len(rings) != 2 {
		t.Fatalf("got %d rings, want 2 for disjoint squares", len(rings))
	}
}

func TestDissolveEmpty(t *testing.T) {
	if rings := Dissolve(nil); rings != nil {
		t.Errorf("Dissolve(nil) = %v, want nil", rings)
	}
}

func TestFeaturesExtent(t *testing.T) {
	fs := []Feature{square("A", 80, 26, 82, 28), square("B", 84, 27, 88, 30)}
	e := FeaturesExtent(fs)
	want := Extent{80, 26, 88, 30}
	if e != want {
		t.Errorf("extent = %v, want %v", e, want)
	}
}

const fixtureGeoJSON = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"DIST_EN":"Kathmandu"},
  "geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}},
 {"type":"Feature","properties":{},
  "geometry":{"type":"MultiPolygon","coordinates":[
    [[[2,0],[3,0],[3,1],[2,1],[2,0]]],
    [[[4,0],[5,0],[5,1],[4,1],[4,0]]]]}}
]}`

func TestLoadCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "districts.geojson")
	if err := os.WriteFile(path, []byte(fixtureGeoJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	fs, err := LoadCollection(path, "District", "DIST_EN", "DISTRICT")
	if err != nil {
		t.Fatalf("LoadCollection failed: %v", err)
	}
	if len(fs) != 2 {
		t.Fatalf("got %d features, want 2", len(fs))
	}
	if fs[0].Name != "Kathmandu" {
		t.Errorf("name = %q", fs[0].Name)
	}
	if math.Abs(fs[0].Centroid.Lon-0.5) > 1e-9 || math.Abs(fs[0].Centroid.Lat-0.5) > 1e-9 {
		t.Errorf("centroid = %v, want (0.5, 0.5)", fs[0].Centroid)
	}
	if fs[0].Polys[0].BBox != [4]float64{0, 0, 1, 1} {
		t.Errorf("bbox = %v", fs[0].Polys[0].BBox)
	}
	// 名称属性缺失时回退到前缀加序号
	if fs[1].Name != "District 2" {
		t.Errorf("fallback name = %q, want 'District 2'", fs[1].Name)
	}
	if len(fs[1].Polys) != 2 {
		t.Errorf("multipolygon parts = %d, want 2", len(fs[1].Polys))
	}
}

func TestLoadCollectionMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.geojson")
	_, err := LoadCollection(path, "District", "DIST_EN")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "not found") || !strings.Contains(err.Error(), path) {
		t.Errorf("error should name the missing file: %v", err)
	}
}
