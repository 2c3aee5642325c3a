// 工具：把本地数据表格（CSV/XLSX）批量导入数据库作为数据层
// 背景：跳过 HTTP 上传通道做初始化或批量迁移；解析与校验规则与线上上传完全一致。
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"map-api/internal/layer"
	"map-api/internal/migrate"
	"map-api/internal/store"
	"map-api/internal/utils"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: dataset-ingest <file.csv|file.xlsx> [...]")
		os.Exit(2)
	}
	db, err := utils.OpenPostgresFromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "db open:", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := migrate.EnsureSchema(db); err != nil {
		fmt.Fprintln(os.Stderr, "schema:", err)
		os.Exit(1)
	}
	st := store.AttachDB(db)
	ctx := context.Background()
	failed := 0
	for _, path := range os.Args[1:] {
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, path+":", err)
			failed++
			continue
		}
		ly, err := layer.Parse(filepath.Base(path), f)
		_ = f.Close()
		if err != nil {
			// 单文件失败继续处理其余文件
			fmt.Fprintln(os.Stderr, err)
			failed++
			continue
		}
		if err := st.SaveLayer(ctx, ly); err != nil {
			fmt.Fprintln(os.Stderr, path+":", err)
			failed++
			continue
		}
		fmt.Printf("%s: %d rows (%s)\n", ly.FileKey, len(ly.Rows), layer.Classify(ly.Rows))
	}
	if failed > 0 {
		os.Exit(1)
	}
}
