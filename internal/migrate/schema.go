package migrate

import (
	"database/sql"

	"map-api/internal/logger"
)

// 背景：首次运行自动创建数据层与统计所需表，保障上传与渲染可用
// 约束：使用 IF NOT EXISTS 避免与既有结构冲突；仅创建最小必需结构
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS _map_datasets (
            file_key TEXT PRIMARY KEY,
            display_name TEXT NOT NULL,
            tooltip_label TEXT NOT NULL,
            value_column TEXT NOT NULL,
            color TEXT NOT NULL,
            icon TEXT NOT NULL,
            visible BOOLEAN NOT NULL DEFAULT TRUE,
            tooltip_visible BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS _map_dataset_rows (
            id SERIAL PRIMARY KEY,
            file_key TEXT NOT NULL REFERENCES _map_datasets(file_key) ON DELETE CASCADE,
            ord INT NOT NULL,
            location TEXT NOT NULL,
            value TEXT NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_dataset_rows_file_ord ON _map_dataset_rows(file_key, ord)`,
		`CREATE TABLE IF NOT EXISTS _map_settings (
            key TEXT PRIMARY KEY,
            value TEXT NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS _map_stats_total (
            id INT PRIMARY KEY,
            total_renders BIGINT NOT NULL DEFAULT 0,
            total_uploads BIGINT NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS _map_stats_daily (
            day DATE PRIMARY KEY,
            renders BIGINT NOT NULL DEFAULT 0,
            uploads BIGINT NOT NULL DEFAULT 0
        )`,
		`INSERT INTO _map_stats_total(id, total_renders, total_uploads)
         VALUES(1, 0, 0)
         ON CONFLICT (id) DO NOTHING`,
	}
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
