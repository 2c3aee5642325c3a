// 文档注释：数值归一化与双色标渐变
// 背景：数值层按本层已匹配行的 min/max 线性归一到 [0,1]，再在
// 全透明白 → 本层配置色（不透明）两个色标间插值得到填充色。
// 约束：min==max（含单值）时取固定中点强度 0.5，避免除零；归一只统计已匹配行。
package render

// normalize：v 在 [min,max] 上的线性位置
func normalize(v, min, max float64) float64 {
	if min == max {
		return 0.5
	}
	return (v - min) / (max - min)
}

// rampColor：t∈[0,1] 在透明白与目标色之间插值
func rampColor(t float64, to RGBA) RGBA {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	from := RGBA{R: 255, G: 255, B: 255, A: 0}
	return RGBA{
		R: uint8(float64(from.R) + (float64(to.R)-float64(from.R))*t + 0.5),
		G: uint8(float64(from.G) + (float64(to.G)-float64(from.G))*t + 0.5),
		B: uint8(float64(from.B) + (float64(to.B)-float64(from.B))*t + 0.5),
		A: from.A + (to.A-from.A)*t,
	}
}

// minMax：一组数值的最小与最大
func minMax(vals []float64) (float64, float64) {
	mn, mx := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < mn {
			mn = v
		}
		if v > mx {
			mx = v
		}
	}
	return mn, mx
}
