// reader.go
package file

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/tealeg/xlsx"
)

var (
	// ErrInputNotFound 输入文件不存在
	ErrInputNotFound = errors.New("input file not found")
	// ErrInputParse 输入文件无法解析
	ErrInputParse = errors.New("input file could not be parsed")
)

// MissingValues 读入时视为缺失的取值
var MissingValues = []string{"", "NA", "NaN", "<nil>", "null"}

// Load 按扩展名选择读取方式，.xlsx 走 ReadXLSX，其余按CSV
func Load(filePath, sheetName string) (dataframe.DataFrame, error) {
	if strings.EqualFold(filepath.Ext(filePath), ".xlsx") {
		return ReadXLSX(filePath, sheetName)
	}
	return LoadCSV(filePath)
}

// LoadCSV 读取带表头的CSV
func LoadCSV(filePath string) (dataframe.DataFrame, error) {
	data, err := readInput(filePath)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	df := dataframe.ReadCSV(bytes.NewReader(data), dataframe.NaNValues(MissingValues))
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %s: %v", ErrInputParse, filePath, df.Err)
	}
	return df, nil
}

func readInput(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, filePath)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrInputParse, filePath, err)
	}
	return data, nil
}

// ReadXLSX 读取xlsx工作表，第一行为表头；sheetName为空时取第一个工作表
func ReadXLSX(filePath, sheetName string) (dataframe.DataFrame, error) {
	data, err := readInput(filePath)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	// 1. 使用tealeg/xlsx打开Excel文件
	xlFile, err := xlsx.OpenBinary(data)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %s: %v", ErrInputParse, filePath, err)
	}

	// 2. 获取工作表
	if len(xlFile.Sheets) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %s: excel文件中没有工作表", ErrInputParse, filePath)
	}
	sheet := xlFile.Sheets[0]
	if sheetName != "" {
		s, ok := xlFile.Sheet[sheetName]
		if !ok {
			return dataframe.DataFrame{}, fmt.Errorf("%w: %s: 找不到工作表 %q", ErrInputParse, filePath, sheetName)
		}
		sheet = s
	}

	// 3. 转换为Gota DataFrame
	df, err := convertSheetToDataFrame(sheet)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %s: %v", ErrInputParse, filePath, err)
	}
	return df, nil
}

// convertSheetToDataFrame 将xlsx.Sheet转换为dataframe.DataFrame
func convertSheetToDataFrame(sheet *xlsx.Sheet) (dataframe.DataFrame, error) {
	if len(sheet.Rows) < 2 {
		return dataframe.DataFrame{}, fmt.Errorf("工作表 %s 没有数据行", sheet.Name)
	}

	// 获取列名(第一行是标题行)
	var headers []string
	for _, cell := range sheet.Rows[0].Cells {
		headers = append(headers, strings.TrimSpace(cell.String()))
	}
	for len(headers) > 0 && headers[len(headers)-1] == "" {
		headers = headers[:len(headers)-1]
	}
	if len(headers) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("工作表 %s 缺少表头", sheet.Name)
	}

	// 逐行补齐到表头宽度，短行用空串填充
	records := [][]string{headers}
	for _, row := range sheet.Rows[1:] {
		if row == nil {
			continue
		}
		record := make([]string, len(headers))
		empty := true
		for i, cell := range row.Cells {
			if i >= len(headers) { // 确保不超出列数范围
				break
			}
			record[i] = cell.String()
			if record[i] != "" {
				empty = false
			}
		}
		if !empty {
			records = append(records, record)
		}
	}

	df := dataframe.LoadRecords(records, dataframe.NaNValues(MissingValues))
	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}
	return df, nil
}
