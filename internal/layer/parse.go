// 文档注释：上传文件解析（CSV/XLSX）
// 背景：表格约定为恰好两列，其中一列表头为 Location（表头检测不区分大小写），
// 另一列表头作为默认提示标签（下划线替换为空格）；文件名去扩展名作为默认层名。
// 约束：不满足约定的文件整体拒绝并在错误中带上文件名，不影响其他文件的加载。
package layer

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Parse：按扩展名解析上传文件为一个数据层（含默认设置）
func Parse(filename string, r io.Reader) (*Layer, error) {
	var records [][]string
	var err error
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		records, err = readCSV(r)
	case ".xlsx":
		records, err = readXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported file type for %q (expect .csv or .xlsx)", filename)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return build(filename, ext, records)
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	return cr.ReadAll()
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheet)
}

// build：校验两列约定并组装带默认设置的层
func build(filename, ext string, records [][]string) (*Layer, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%s is empty", filename)
	}
	header := records[0]
	if len(header) != 2 {
		return nil, fmt.Errorf("%s must have exactly two columns, got %d", filename, len(header))
	}
	locIdx := -1
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), "Location") {
			locIdx = i
			break
		}
	}
	if locIdx < 0 {
		return nil, fmt.Errorf("could not identify a data column in %q: one column must be named 'Location'", filename)
	}
	valIdx := 1 - locIdx
	valueColumn := strings.TrimSpace(header[valIdx])
	if valueColumn == "" || strings.EqualFold(valueColumn, "Location") {
		return nil, fmt.Errorf("could not identify a data column in %q: one column must be named 'Location'", filename)
	}
	var rows []Row
	for _, rec := range records[1:] {
		// XLSX 行尾空单元格可能被裁掉，补齐到两列
		loc, val := "", ""
		if locIdx < len(rec) {
			loc = strings.TrimSpace(rec[locIdx])
		}
		if valIdx < len(rec) {
			val = strings.TrimSpace(rec[valIdx])
		}
		if loc == "" && val == "" {
			continue
		}
		rows = append(rows, Row{Location: loc, Value: val})
	}
	return &Layer{
		FileKey:        filename,
		DisplayName:    strings.TrimSuffix(filename, ext),
		TooltipLabel:   strings.ReplaceAll(valueColumn, "_", " "),
		ValueColumn:    valueColumn,
		Color:          DefaultColor,
		Icon:           DefaultIcon,
		Visible:        true,
		TooltipVisible: true,
		Rows:           rows,
	}, nil
}
