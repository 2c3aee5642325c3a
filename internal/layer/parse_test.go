package layer

import (
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseCSV(t *testing.T) {
	csv := "Location,Population_Total\nKathmandu,120\nPokhara,95\n"
	ly, err := Parse("pop.csv", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if ly.DisplayName != "pop" {
		t.Errorf("DisplayName=%q, want pop", ly.DisplayName)
	}
	if ly.TooltipLabel != "Population Total" {
		t.Errorf("TooltipLabel=%q, want 'Population Total'", ly.TooltipLabel)
	}
	if ly.ValueColumn != "Population_Total" {
		t.Errorf("ValueColumn=%q", ly.ValueColumn)
	}
	if ly.Color != DefaultColor || ly.Icon != DefaultIcon {
		t.Errorf("defaults not applied: color=%q icon=%q", ly.Color, ly.Icon)
	}
	if !ly.Visible || !ly.TooltipVisible {
		t.Error("layer should default to visible with tooltip on")
	}
	if len(ly.Rows) != 2 || ly.Rows[0].Location != "Kathmandu" || ly.Rows[1].Value != "95" {
		t.Errorf("rows = %+v", ly.Rows)
	}
}

func TestParseCSVLocationColumnSecond(t *testing.T) {
	csv := "Events,location\nfestival,Kathmandu\n"
	ly, err := Parse("events.csv", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	// 表头检测不区分大小写，列序不限
	if ly.ValueColumn != "Events" {
		t.Errorf("ValueColumn=%q, want Events", ly.ValueColumn)
	}
	if ly.Rows[0].Location != "Kathmandu" || ly.Rows[0].Value != "festival" {
		t.Errorf("rows = %+v", ly.Rows)
	}
}

func TestParseRejectsMissingLocationColumn(t *testing.T) {
	csv := "Loc,Val\nKathmandu,1\n"
	_, err := Parse("bad.csv", strings.NewReader(csv))
	if err == nil {
		t.Fatal("expected error for missing Location column")
	}
	if !strings.Contains(err.Error(), "bad.csv") {
		t.Errorf("error does not name the file: %v", err)
	}
}

func TestParseRejectsWrongColumnCount(t *testing.T) {
	for _, csv := range []string{
		"Location\nKathmandu\n",
		"Location,A,B\nKathmandu,1,2\n",
	} {
		if _, err := Parse("bad.csv", strings.NewReader(csv)); err == nil {
			t.Errorf("accepted csv with wrong column count: %q", csv)
		}
	}
}

func TestParseRejectsUnknownExtension(t *testing.T) {
	if _, err := Parse("data.txt", strings.NewReader("Location,V\n")); err == nil {
		t.Fatal("accepted unsupported extension")
	}
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"
	_ = f.SetCellValue(sheet, "A1", "Location")
	_ = f.SetCellValue(sheet, "B1", "Visitor_Count")
	_ = f.SetCellValue(sheet, "A2", "Kathmandu")
	_ = f.SetCellValue(sheet, "B2", 120)
	_ = f.SetCellValue(sheet, "A3", "Pokhara")
	_ = f.SetCellValue(sheet, "B3", 95)

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("failed to build test workbook: %v", err)
	}
	ly, err := Parse("visitors.xlsx", buf)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if ly.DisplayName != "visitors" {
		t.Errorf("DisplayName=%q", ly.DisplayName)
	}
	if ly.TooltipLabel != "Visitor Count" {
		t.Errorf("TooltipLabel=%q", ly.TooltipLabel)
	}
	if len(ly.Rows) != 2 {
		t.Fatalf("rows = %+v", ly.Rows)
	}
	if Classify(ly.Rows) != Numeric {
		t.Error("xlsx numeric layer classified as categorical")
	}
}
