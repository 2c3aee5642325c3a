// 包 api：集中注册 HTTP API 路由以解耦主入口，便于后续扩展与替换
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"map-api/internal/geo"
	"map-api/internal/layer"
	"map-api/internal/logger"
	"map-api/internal/metrics"
	"map-api/internal/render"
	"map-api/internal/store"

	"github.com/redis/go-redis/v9"
)

const (
	viewKey    = "map:view"
	togglesKey = "toggles"
)

// viewState：视口状态，优先 Redis，缺失时退化为进程内存
// 背景：视口是唯一跨渲染传递的状态（渲染开始读、结束写）；Redis 让它跨进程重启存续。
type viewState struct {
	rc  *redis.Client
	mu  sync.Mutex
	mem *geo.Extent
}

func (v *viewState) Get(r *http.Request) *geo.Extent {
	if v.rc != nil {
		s, _ := v.rc.Get(r.Context(), viewKey).Result()
		if s != "" {
			var e geo.Extent
			if json.Unmarshal([]byte(s), &e) == nil {
				metrics.ViewHitsTotal.Inc()
				return &e
			}
		}
		metrics.ViewMissesTotal.Inc()
		return nil
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.mem == nil {
		metrics.ViewMissesTotal.Inc()
		return nil
	}
	metrics.ViewHitsTotal.Inc()
	e := *v.mem
	return &e
}

func (v *viewState) Set(r *http.Request, e geo.Extent) {
	if v.rc != nil {
		b, _ := json.Marshal(e)
		v.rc.Set(r.Context(), viewKey, string(b), 0)
		return
	}
	v.mu.Lock()
	v.mem = &e
	v.mu.Unlock()
}

// BuildRoutes 构建并返回 API 路由：独立 ServeMux 便于在主入口挂载到 /api 前缀
func BuildRoutes(st *store.Store, rc *redis.Client, pl *render.Pipeline, provinces []geo.Feature) *http.ServeMux {
	apiMux := http.NewServeMux()
	vs := &viewState{rc: rc}

	// 数据层：GET 列表（不含行），POST 多文件上传（逐文件隔离失败）
	apiMux.HandleFunc("/datasets", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		switch r.Method {
		case http.MethodGet:
			layers, err := st.ListLayers(ctx)
			if err != nil {
				writeErr(w, http.StatusInternalServerError, err.Error())
				return
			}
			type item struct {
				layer.Layer
				Kind    string `json:"kind"`
				RowsLen int    `json:"rows_len"`
			}
			out := make([]item, 0, len(layers))
			for _, ly := range layers {
				it := item{Layer: *ly, Kind: layer.Classify(ly.Rows).String(), RowsLen: len(ly.Rows)}
				it.Rows = nil
				out = append(out, it)
			}
			writeJSON(w, out)
		case http.MethodPost:
			if err := r.ParseMultipartForm(32 << 20); err != nil {
				writeErr(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
				return
			}
			files := r.MultipartForm.File["files"]
			if len(files) == 0 {
				files = r.MultipartForm.File["file"]
			}
			var accepted []string
			errs := map[string]string{}
			for _, fh := range files {
				f, err := fh.Open()
				if err != nil {
					errs[fh.Filename] = err.Error()
					metrics.UploadErrorsTotal.Inc()
					continue
				}
				ly, err := layer.Parse(fh.Filename, f)
				_ = f.Close()
				if err != nil {
					// 单文件失败不阻断其余文件
					errs[fh.Filename] = err.Error()
					metrics.UploadErrorsTotal.Inc()
					logger.L().Warn("upload_rejected", "file", fh.Filename, "err", err)
					continue
				}
				if err := st.SaveLayer(ctx, ly); err != nil {
					errs[fh.Filename] = err.Error()
					metrics.UploadErrorsTotal.Inc()
					continue
				}
				accepted = append(accepted, fh.Filename)
				metrics.UploadsTotal.Inc()
				_ = st.IncrUploadStats(ctx)
				logger.L().Info("upload_ok", "file", fh.Filename, "rows", len(ly.Rows))
			}
			writeJSON(w, map[string]any{"accepted": accepted, "errors": errs})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	// 数据层设置修改（层名/提示标签/颜色/图标/可见性）
	apiMux.HandleFunc("/datasets/update", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var ly layer.Layer
		if err := json.NewDecoder(r.Body).Decode(&ly); err != nil {
			writeErr(w, http.StatusBadRequest, "bad json: "+err.Error())
			return
		}
		if err := st.UpdateLayerSettings(r.Context(), &ly); err != nil {
			writeErr(w, http.StatusNotFound, "unknown layer: "+ly.FileKey)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	apiMux.HandleFunc("/datasets/delete", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var body struct {
			FileKey string `json:"file_key"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.FileKey == "" {
			writeErr(w, http.StatusBadRequest, "bad json")
			return
		}
		if err := st.DeleteLayer(r.Context(), body.FileKey); err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	// 渲染：整管线一跑到底；意外失败整次放弃但不崩进程，返回诊断详情
	apiMux.HandleFunc("/render", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		start := time.Now()
		defer func() {
			if rec := recover(); rec != nil {
				metrics.RenderErrorsTotal.Inc()
				logger.L().Error("render_panic", "err", rec)
				writeErr(w, http.StatusInternalServerError,
					fmt.Sprintf("unexpected error during render: %v\n%s", rec, debug.Stack()))
			}
		}()
		layers, err := st.ListLayers(ctx)
		if err != nil {
			metrics.RenderErrorsTotal.Inc()
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		toggles := loadToggles(r, st)
		vp := vs.Get(r)
		out := pl.Render(render.Input{Layers: layers, Toggles: toggles, Viewport: vp})
		// 渲染结束写回视口（仅变化时）
		if vp == nil || *vp != out.Extent {
			vs.Set(r, out.Extent)
		}
		metrics.RendersTotal.Inc()
		metrics.RenderDurationMs.Observe(float64(time.Since(start).Milliseconds()))
		metrics.PrimitivesEmitted.Observe(float64(len(out.Primitives)))
		metrics.MatchCorrectionsTotal.Add(float64(len(out.Notices)))
		metrics.LayersSkippedTotal.Add(float64(len(out.Warnings)))
		_ = st.IncrRenderStats(ctx)
		writeJSON(w, out)
	})

	// 视口：读/写当前可视范围
	apiMux.HandleFunc("/view", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if e := vs.Get(r); e != nil {
				writeJSON(w, e)
				return
			}
			writeJSON(w, nil)
		case http.MethodPost:
			var e geo.Extent
			if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
				writeErr(w, http.StatusBadRequest, "bad json: "+err.Error())
				return
			}
			vs.Set(r, e)
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	// 基础层开关与省着色配置
	apiMux.HandleFunc("/toggles", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, loadToggles(r, st))
		case http.MethodPost:
			var t render.Toggles
			if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
				writeErr(w, http.StatusBadRequest, "bad json: "+err.Error())
				return
			}
			b, _ := json.Marshal(t)
			if err := st.SetSetting(ctx, togglesKey, string(b)); err != nil {
				writeErr(w, http.StatusInternalServerError, err.Error())
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	// 省清单：供界面构建省着色控件
	apiMux.HandleFunc("/provinces", func(w http.ResponseWriter, r *http.Request) {
		type item struct {
			Index int    `json:"index"`
			Name  string `json:"name"`
		}
		out := make([]item, 0, len(provinces))
		for i, p := range provinces {
			out = append(out, item{Index: i, Name: p.Name})
		}
		writeJSON(w, out)
	})

	// 图标清单：供界面构建分类层图标选择器
	apiMux.HandleFunc("/icons", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, layer.Icons)
	})

	apiMux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		t, _ := st.GetTotals(r.Context())
		writeJSON(w, map[string]any{"renders": t.Renders, "uploads": t.Uploads, "today": t.Today})
	})

	return apiMux
}

// loadToggles：从设置 KV 读开关，缺失或损坏回退默认值
func loadToggles(r *http.Request, st *store.Store) render.Toggles {
	t := render.DefaultToggles()
	s, err := st.GetSetting(r.Context(), togglesKey)
	if err != nil || s == "" {
		return t
	}
	if err := json.Unmarshal([]byte(s), &t); err != nil {
		logger.L().Warn("toggles_corrupt", "err", err)
		return render.DefaultToggles()
	}
	return t
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
