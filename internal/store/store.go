// 包 store: 提供与 PostgreSQL 的数据访问层，负责数据层持久化、界面设置与渲染统计
package store

import (
	"context"
	"database/sql"

	"map-api/internal/layer"
	"map-api/internal/logger"

	_ "github.com/lib/pq"
)

// Store: 数据库访问入口，持有连接池
type Store struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

// Open: 使用 DSN 打开数据库连接并配置连接池参数
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// SaveLayer: 整层落库（设置 + 行），同键重传覆盖旧行
// 背景：数据层在上传后跨会话存续，渲染每次从库读全量重建输入。
func (s *Store) SaveLayer(ctx context.Context, ly *layer.Layer) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	_, err = tx.ExecContext(ctx, `INSERT INTO _map_datasets(file_key, display_name, tooltip_label, value_column, color, icon, visible, tooltip_visible)
        VALUES($1,$2,$3,$4,$5,$6,$7,$8)
        ON CONFLICT (file_key) DO UPDATE SET display_name=EXCLUDED.display_name, tooltip_label=EXCLUDED.tooltip_label,
            value_column=EXCLUDED.value_column, color=EXCLUDED.color, icon=EXCLUDED.icon,
            visible=EXCLUDED.visible, tooltip_visible=EXCLUDED.tooltip_visible`,
		ly.FileKey, ly.DisplayName, ly.TooltipLabel, ly.ValueColumn, ly.Color, ly.Icon, ly.Visible, ly.TooltipVisible)
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM _map_dataset_rows WHERE file_key=$1`, ly.FileKey); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO _map_dataset_rows(file_key, ord, location, value) VALUES($1,$2,$3,$4)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, row := range ly.Rows {
		if _, err = stmt.ExecContext(ctx, ly.FileKey, i, row.Location, row.Value); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	logger.L().Debug("layer_saved", "file_key", ly.FileKey, "rows", len(ly.Rows))
	return nil
}

// ListLayers: 按上传先后读出全部层（行按原始顺序）
// 约束：created_at 的次序即层注册顺序，渲染叠放与提示次序都依赖它。
func (s *Store) ListLayers(ctx context.Context) ([]*layer.Layer, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT file_key, display_name, tooltip_label, value_column, color, icon, visible, tooltip_visible
        FROM _map_datasets ORDER BY created_at, file_key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*layer.Layer
	for rows.Next() {
		var ly layer.Layer
		if err := rows.Scan(&ly.FileKey, &ly.DisplayName, &ly.TooltipLabel, &ly.ValueColumn,
			&ly.Color, &ly.Icon, &ly.Visible, &ly.TooltipVisible); err != nil {
			return nil, err
		}
		out = append(out, &ly)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, ly := range out {
		rr, err := s.db.QueryContext(ctx, `SELECT location, value FROM _map_dataset_rows WHERE file_key=$1 ORDER BY ord`, ly.FileKey)
		if err != nil {
			return nil, err
		}
		for rr.Next() {
			var row layer.Row
			if err := rr.Scan(&row.Location, &row.Value); err != nil {
				rr.Close()
				return nil, err
			}
			ly.Rows = append(ly.Rows, row)
		}
		if err := rr.Err(); err != nil {
			rr.Close()
			return nil, err
		}
		rr.Close()
	}
	return out, nil
}

// UpdateLayerSettings: 仅改可视设置，不动行数据
func (s *Store) UpdateLayerSettings(ctx context.Context, ly *layer.Layer) error {
	res, err := s.db.ExecContext(ctx, `UPDATE _map_datasets SET display_name=$2, tooltip_label=$3, color=$4, icon=$5, visible=$6, tooltip_visible=$7
        WHERE file_key=$1`,
		ly.FileKey, ly.DisplayName, ly.TooltipLabel, ly.Color, ly.Icon, ly.Visible, ly.TooltipVisible)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *Store) DeleteLayer(ctx context.Context, fileKey string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM _map_datasets WHERE file_key=$1`, fileKey)
	return err
}

// GetSetting/SetSetting: 通用 KV，存基础层开关与省着色配置（JSON 文本）
func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM _map_settings WHERE key=$1`, key)
	var v string
	if err := row.Scan(&v); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	return v, nil
}

func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO _map_settings(key, value) VALUES($1,$2)
        ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=now()`, key, value)
	return err
}

// IncrRenderStats: 渲染成功后递增累计与当日计数
func (s *Store) IncrRenderStats(ctx context.Context) error {
	_, _ = s.db.ExecContext(ctx, "UPDATE _map_stats_total SET total_renders=total_renders+1 WHERE id=1")
	_, _ = s.db.ExecContext(ctx, "INSERT INTO _map_stats_daily(day, renders) VALUES(current_date, 1) ON CONFLICT (day) DO UPDATE SET renders=_map_stats_daily.renders+1")
	return nil
}

// IncrUploadStats: 上传成功后递增累计与当日计数
func (s *Store) IncrUploadStats(ctx context.Context) error {
	_, _ = s.db.ExecContext(ctx, "UPDATE _map_stats_total SET total_uploads=total_uploads+1 WHERE id=1")
	_, _ = s.db.ExecContext(ctx, "INSERT INTO _map_stats_daily(day, uploads) VALUES(current_date, 1) ON CONFLICT (day) DO UPDATE SET uploads=_map_stats_daily.uploads+1")
	return nil
}

// Totals: 统计返回结构
type Totals struct {
	Renders int64
	Uploads int64
	Today   int64
}

// GetTotals: 读取累计与当日渲染次数，用于接口返回
func (s *Store) GetTotals(ctx context.Context) (*Totals, error) {
	var t Totals
	row := s.db.QueryRowContext(ctx, "SELECT total_renders, total_uploads FROM _map_stats_total WHERE id=1")
	_ = row.Scan(&t.Renders, &t.Uploads)
	row2 := s.db.QueryRowContext(ctx, "SELECT renders FROM _map_stats_daily WHERE day=current_date")
	_ = row2.Scan(&t.Today)
	logger.L().Debug("stats_totals", "renders", t.Renders, "uploads", t.Uploads, "today", t.Today)
	return &t, nil
}
