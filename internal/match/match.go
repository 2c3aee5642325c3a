// 文档注释：上传行位置标签到官方区名的解析
// 背景：用户数据中的地名常有大小写与拼写偏差，用字符串相似度（0..100 分）做容错匹配；
// 相似度不可用或被关闭时退化为精确匹配。
// 约束：接受阈值 80；并列最高分时首个官方名胜出（按官方名列表输入顺序）；
// 精确退化路径区分大小写。未匹配不是错误，由调用方静默丢弃该行。
package match

import (
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

const acceptScore = 80

// Result：一次标签解析的结果
// Corrected 表示命中名与原始标签不同（模糊纠正），调用方据此发出非阻断提示。
type Result struct {
	Name      string
	Score     float64
	Corrected bool
}

type Matcher struct {
	fuzzy  bool
	metric strutil.StringMetric
}

// NewMatcher：fuzzy=false 时仅做精确匹配
func NewMatcher(fuzzy bool) *Matcher {
	return &Matcher{fuzzy: fuzzy, metric: metrics.NewJaroWinkler()}
}

// Match：在官方名列表中解析一个标签
// 返回：命中结果与是否命中；精确命中得分记为 100。
func (m *Matcher) Match(label string, official []string) (Result, bool) {
	if !m.fuzzy {
		for _, name := range official {
			if name == label {
				return Result{Name: name, Score: 100}, true
			}
		}
		return Result{}, false
	}
	best := Result{Score: -1}
	for _, name := range official {
		s := strutil.Similarity(label, name, m.metric) * 100
		// 严格大于才替换：并列时保留先遇到的官方名
		if s > best.Score {
			best = Result{Name: name, Score: s}
		}
	}
	if best.Score < acceptScore {
		return Result{}, false
	}
	best.Corrected = best.Name != label
	return best, true
}
