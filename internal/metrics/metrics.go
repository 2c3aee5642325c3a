package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RendersTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mapapi_renders_total",
		Help: "Total number of /api/render requests",
	})
	RenderDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "mapapi_render_duration_ms",
		Help:    "Render pipeline duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	RenderErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mapapi_render_errors_total",
		Help: "Total renders aborted by an error",
	})
	PrimitivesEmitted = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "mapapi_primitives_emitted",
		Help:    "Primitives emitted per render",
		Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000},
	})
	UploadsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mapapi_uploads_total",
		Help: "Total dataset files accepted",
	})
	UploadErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mapapi_upload_errors_total",
		Help: "Total dataset files rejected at parse",
	})
	MatchCorrectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mapapi_match_corrections_total",
		Help: "Total fuzzy-corrected location labels",
	})
	LayersSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mapapi_layers_skipped_total",
		Help: "Total layers skipped for having zero matches",
	})
	ViewHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mapapi_view_hits_total",
		Help: "Total viewport reads served from redis",
	})
	ViewMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mapapi_view_misses_total",
		Help: "Total viewport reads with no stored state",
	})
)

func init() {
	prometheus.MustRegister(RendersTotal)
	prometheus.MustRegister(RenderDurationMs)
	prometheus.MustRegister(RenderErrorsTotal)
	prometheus.MustRegister(PrimitivesEmitted)
	prometheus.MustRegister(UploadsTotal)
	prometheus.MustRegister(UploadErrorsTotal)
	prometheus.MustRegister(MatchCorrectionsTotal)
	prometheus.MustRegister(LayersSkippedTotal)
	prometheus.MustRegister(ViewHitsTotal)
	prometheus.MustRegister(ViewMissesTotal)
}

// 文档注释：返回 Prometheus 指标监听器
// 背景：统一暴露注册指标到 /metrics 路径，供 Prometheus 抓取；在主入口挂载。
func Handler() http.Handler { return promhttp.Handler() }
