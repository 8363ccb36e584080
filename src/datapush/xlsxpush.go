package datapush

import (
	"fmt"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// 常量定义
const (
	DefaultSheet   = "Sheet1"
	ChartSheet     = "charts"
	rowsPerChart   = 32   // 每张图占用的行数
	chartScale     = 0.5  // 嵌入图片的缩放
	headerColWidth = 20.0 // 列宽
)

// chartImage 嵌入报告的图表
type chartImage struct {
	Title string
	Path  string
}

// sheetFrame 一个工作表对应一个DataFrame
type sheetFrame struct {
	Name string
	DF   dataframe.DataFrame
}

// WorkbookReport 把分析结果推送到一个xlsx工作簿
type WorkbookReport struct {
	Path   string
	frames []sheetFrame
	charts []chartImage
}

// NewWorkbookReport 创建报告，Push时才写文件
func NewWorkbookReport(path string) *WorkbookReport {
	return &WorkbookReport{Path: path}
}

// AddFrame 添加一个数据工作表，按添加顺序排列
func (r *WorkbookReport) AddFrame(sheet string, df dataframe.DataFrame) {
	r.frames = append(r.frames, sheetFrame{Name: sheet, DF: df})
}

// AddChart 添加一张图表到charts工作表，不存在的文件会被跳过
func (r *WorkbookReport) AddChart(title, path string) {
	r.charts = append(r.charts, chartImage{Title: title, Path: path})
}

// Push 写出工作簿
func (r *WorkbookReport) Push() error {
	if len(r.frames) == 0 && len(r.charts) == 0 {
		return fmt.Errorf("报告为空: %s", r.Path)
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("创建样式失败: %w", err)
	}

	first := true
	for _, sf := range r.frames {
		if err := addSheet(f, sf.Name, first); err != nil {
			return err
		}
		first = false
		if err := writeFrame(f, sf.Name, sf.DF, bold); err != nil {
			return err
		}
	}

	if len(r.charts) > 0 {
		if err := addSheet(f, ChartSheet, first); err != nil {
			return err
		}
		if err := r.writeCharts(f, bold); err != nil {
			return err
		}
	}

	if dir := filepath.Dir(r.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("创建报告目录失败: %w", err)
		}
	}
	if err := f.SaveAs(r.Path); err != nil {
		return fmt.Errorf("保存Excel文件失败: %w", err)
	}
	return nil
}

func (r *WorkbookReport) writeCharts(f *excelize.File, bold int) error {
	row := 1
	for _, c := range r.charts {
		if _, err := os.Stat(c.Path); err != nil {
			continue
		}
		titleCell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetCellValue(ChartSheet, titleCell, c.Title); err != nil {
			return err
		}
		if err := f.SetCellStyle(ChartSheet, titleCell, titleCell, bold); err != nil {
			return err
		}
		picCell, _ := excelize.CoordinatesToCellName(1, row+1)
		if err := f.AddPicture(ChartSheet, picCell, c.Path, &excelize.GraphicOptions{
			AltText: c.Title,
			ScaleX:  chartScale,
			ScaleY:  chartScale,
		}); err != nil {
			return fmt.Errorf("嵌入图片失败 %s: %w", c.Path, err)
		}
		row += rowsPerChart
	}
	return nil
}

// addSheet 第一个工作表复用默认的Sheet1
func addSheet(f *excelize.File, name string, first bool) error {
	if first {
		if name == DefaultSheet {
			return nil
		}
		if err := f.SetSheetName(DefaultSheet, name); err != nil {
			return fmt.Errorf("重命名工作表失败: %w", err)
		}
		return nil
	}
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("创建工作表失败 %s: %w", name, err)
	}
	return nil
}

// writeFrame 写入列名和数据，bold<=0时不设置表头样式
func writeFrame(f *excelize.File, sheetName string, df dataframe.DataFrame, bold int) error {
	if df.Err != nil {
		return fmt.Errorf("工作表 %s 数据错误: %w", sheetName, df.Err)
	}

	// 写入列名
	colNames := df.Names()
	for i, name := range colNames {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return err
		}
	}
	if len(colNames) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(colNames), 1)
		if bold > 0 {
			if err := f.SetCellStyle(sheetName, "A1", last, bold); err != nil {
				return err
			}
		}
		lastCol, _, _ := excelize.SplitCellName(last)
		if err := f.SetColWidth(sheetName, "A", lastCol, headerColWidth); err != nil {
			return err
		}
	}

	// 写入数据
	for colIdx, colName := range colNames {
		col := df.Col(colName)
		for rowIdx := 0; rowIdx < col.Len(); rowIdx++ {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheetName, cell, cellValue(col.Elem(rowIdx))); err != nil {
				return err
			}
		}
	}
	return nil
}

// cellValue NA写空单元格，数值保持数值类型
func cellValue(e series.Element) interface{} {
	if e.IsNA() {
		return nil
	}
	switch e.Type() {
	case series.Float:
		return e.Float()
	case series.Int:
		v, _ := e.Int()
		return v
	case series.Bool:
		v, _ := e.Bool()
		return v
	default:
		return e.String()
	}
}

// SaveToExcel 将DataFrame保存为单工作表的Excel文件
func SaveToExcel(df dataframe.DataFrame, filePath, sheetName string) error {
	if sheetName == "" {
		sheetName = DefaultSheet
	}
	r := NewWorkbookReport(filePath)
	r.AddFrame(sheetName, df)
	return r.Push()
}
