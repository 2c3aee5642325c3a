// 文档注释：省级几何融合为国界外轮廓
// 背景：国界始终绘制（最粗线），由全部省面求并得到；go-geom 不提供布尔并运算，
// 这里用共享边消除实现：相邻省份的公共边在全集中出现两次，剔除后剩余边即外轮廓。
// 约束：要求省界数据在公共边上顶点一致（同一套官方边界数据满足）；坐标按 1e-7 度量化去重。
package geo

import "math"

type qpoint struct{ x, y int64 }

func quantize(p Point) qpoint {
	return qpoint{int64(math.Round(p.Lon * 1e7)), int64(math.Round(p.Lat * 1e7))}
}

type edgeKey struct{ a, b qpoint }

// 无向边键：按字典序归一，保证两个方向的同一条边映射到同一键
func normEdge(a, b qpoint) edgeKey {
	if a.x < b.x || (a.x == b.x && a.y < b.y) {
		return edgeKey{a, b}
	}
	return edgeKey{b, a}
}

// Dissolve：将特征集合的外环求并，返回外轮廓环列表
// 返回：一个或多个闭合环（首尾点不重复）；输入为空时返回 nil。
func Dissolve(fs []Feature) [][]Point {
	count := map[edgeKey]int{}
	rep := map[qpoint]Point{}
	for _, f := range fs {
		for _, poly := range f.Polys {
			if len(poly.Rings) == 0 {
				continue
			}
			ring := poly.Rings[0]
			n := len(ring)
			// 闭合环的收尾重复点不参与成边
			if n > 1 && quantize(ring[0]) == quantize(ring[n-1]) {
				n--
			}
			if n < 3 {
				continue
			}
			for i := 0; i < n; i++ {
				a := quantize(ring[i])
				b := quantize(ring[(i+1)%n])
				if a == b {
					continue
				}
				rep[a] = ring[i]
				rep[b] = ring[(i+1)%n]
				count[normEdge(a, b)]++
			}
		}
	}
	// 邻接表：仅保留恰好出现一次的边（外轮廓边）
	adj := map[qpoint][]qpoint{}
	for k, c := range count {
		if c == 1 {
			adj[k.a] = append(adj[k.a], k.b)
			adj[k.b] = append(adj[k.b], k.a)
		}
	}
	used := map[edgeKey]bool{}
	var rings [][]Point
	for start := range adj {
		for _, first := range adj[start] {
			if used[normEdge(start, first)] {
				continue
			}
			ring := []Point{rep[start]}
			prev, cur := start, first
			used[normEdge(prev, cur)] = true
			for cur != start {
				ring = append(ring, rep[cur])
				next, ok := nextUnused(adj, used, cur, prev)
				if !ok {
					break
				}
				used[normEdge(cur, next)] = true
				prev, cur = cur, next
			}
			if len(ring) >= 3 {
				rings = append(rings, ring)
			}
		}
	}
	return rings
}

// nextUnused：在 cur 的邻居中选一条未走过的边继续行进
func nextUnused(adj map[qpoint][]qpoint, used map[edgeKey]bool, cur, prev qpoint) (qpoint, bool) {
	for _, nb := range adj[cur] {
		if nb == prev {
			continue
		}
		if !used[normEdge(cur, nb)] {
			return nb, true
		}
	}
	return qpoint{}, false
}
