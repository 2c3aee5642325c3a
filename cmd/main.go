// 程序入口：仅负责读取配置、初始化依赖并启动服务；API 注册在 internal/api 以便扩展
package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"map-api/internal/api"
	"map-api/internal/geo"
	"map-api/internal/logger"
	"map-api/internal/match"
	"map-api/internal/metrics"
	"map-api/internal/middleware"
	"map-api/internal/migrate"
	"map-api/internal/render"
	"map-api/internal/store"
	"map-api/internal/utils"
	"map-api/internal/version"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	l := logger.Setup()
	l.Debug("log_init_ok")
	apiBase := os.Getenv("API_BASE")
	if apiBase == "" {
		apiBase = "/api"
	}
	l.Debug("config_api_base", "base", apiBase)
	ui := os.Getenv("UI_DIST")
	if ui == "" {
		ui = filepath.Join("ui", "dist")
	}
	l.Debug("config_ui_dir", "dir", ui)

	db, err := utils.OpenPostgresFromEnv()
	if err != nil {
		l.Error("db_open_error", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	l.Info("db_open_ok")
	if err := db.Ping(); err != nil {
		l.Error("db_ping_error", "err", err)
	} else {
		l.Info("db_ping_ok")
	}
	st := store.AttachDB(db)
	if err := migrate.EnsureSchema(db); err != nil {
		l.Error("schema_error", "err", err)
		os.Exit(1)
	}

	rc := utils.OpenRedisFromEnv()
	if rc == nil {
		l.Info("redis_disabled")
	} else {
		if err := rc.Ping(context.Background()).Err(); err != nil {
			l.Error("redis_ping_error", "err", err)
		} else {
			l.Info("redis_ping_ok")
		}
	}

	// 边界数据：缺文件是独立的用户可见错误，不展示半张地图
	geoDir := os.Getenv("GEO_DATA_DIR")
	if geoDir == "" {
		geoDir = "geo_data"
	}
	l.Debug("config_geo_dir", "dir", geoDir)
	districts, err := geo.LoadCollection(filepath.Join(geoDir, "districts.geojson"), "District", "DIST_EN", "DISTRICT")
	if err != nil {
		l.Error("geo_load_error", "err", err)
		os.Exit(1)
	}
	provinces, err := geo.LoadCollection(filepath.Join(geoDir, "provinces.geojson"), "Province", "PROV_EN")
	if err != nil {
		l.Error("geo_load_error", "err", err)
		os.Exit(1)
	}
	l.Info("geo_loaded", "districts", len(districts), "provinces", len(provinces))

	fuzzy := os.Getenv("MATCH_FUZZY") != "false"
	m := match.NewMatcher(fuzzy)
	l.Debug("config_match_fuzzy", "fuzzy", fuzzy)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	pl := render.NewPipeline(districts, provinces, m, rng)

	mux := http.NewServeMux()
	apiMux := api.BuildRoutes(st, rc, pl, provinces)
	mux.Handle(apiBase+"/", http.StripPrefix(apiBase, apiMux))
	mux.Handle(apiBase+"/metrics", metrics.Handler())

	fs := http.FileServer(http.Dir(ui))
	mux.Handle("/", fs)

	// NOTE: 向前端暴露 API 基础路径，避免硬编码；生产环境由后端统一提供
	mux.HandleFunc("/config.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/javascript; charset=utf-8")
		w.Header().Set("cache-control", "no-store")
		_, _ = w.Write([]byte("window.__API_BASE__='" + apiBase + "'"))
		_, _ = w.Write([]byte("\n"))
		_, _ = w.Write([]byte("window.__COMMIT_SHA__='" + version.Commit + "'"))
	})

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}
	handler := logger.AccessMiddleware(l)(mux)
	handler = middleware.Wrap(handler)
	s := &http.Server{Addr: addr, Handler: handler}
	if os.Getenv("TLS_ENABLE") == "true" {
		certPath := os.Getenv("TLS_CERT_PATH")
		keyPath := os.Getenv("TLS_KEY_PATH")
		if certPath == "" {
			certPath = filepath.Join("data", "certs", "server.crt")
		}
		if keyPath == "" {
			keyPath = filepath.Join("data", "certs", "server.key")
		}
		_ = utils.EnsureSelfSignedCert(certPath, keyPath, "map-api.local")
		l.Info("listening_tls", "addr", addr, "cert", certPath)
		_ = s.ListenAndServeTLS(certPath, keyPath)
		return
	}
	l.Info("listening", "addr", strings.TrimSpace(addr))
	_ = s.ListenAndServe()
}
