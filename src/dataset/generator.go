// generator.go
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"IrisExplorer/src/datapush"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// 生成的CSV表头
const (
	ColSepalLength = "sepal length (cm)"
	ColSepalWidth  = "sepal width (cm)"
	ColPetalLength = "petal length (cm)"
	ColPetalWidth  = "petal width (cm)"
	ColSpecies     = "species"
	ColDate        = "date"

	DateLayout = "2006-01-02"
)

// Epoch 日期列的起点，之后每行加一天
var Epoch = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

// Rows 参考数据行数
func Rows() int { return len(irisRecords) }

// Species 三个类别名称
func Species() []string {
	out := make([]string, len(targetNames))
	copy(out, targetNames)
	return out
}

// Frame 组装参考数据表：四个测量列、species、date
func Frame() dataframe.DataFrame {
	n := len(irisRecords)
	sepalLength := make([]float64, n)
	sepalWidth := make([]float64, n)
	petalLength := make([]float64, n)
	petalWidth := make([]float64, n)
	species := make([]string, n)
	dates := make([]string, n)

	for i, r := range irisRecords {
		sepalLength[i] = r.sepalLength
		sepalWidth[i] = r.sepalWidth
		petalLength[i] = r.petalLength
		petalWidth[i] = r.petalWidth
		species[i] = targetNames[r.target]
		dates[i] = Epoch.AddDate(0, 0, i).Format(DateLayout)
	}

	return dataframe.New(
		series.New(sepalLength, series.Float, ColSepalLength),
		series.New(sepalWidth, series.Float, ColSepalWidth),
		series.New(petalLength, series.Float, ColPetalLength),
		series.New(petalWidth, series.Float, ColPetalWidth),
		series.New(species, series.String, ColSpecies),
		series.New(dates, series.String, ColDate),
	)
}

// Generate 把参考数据写成CSV，已有文件直接覆盖
func Generate(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建CSV失败: %w", err)
	}
	if err := WriteCSV(f, Frame()); err != nil {
		f.Close()
		return fmt.Errorf("写入CSV失败 %s: %w", path, err)
	}
	return f.Close()
}

// GenerateXLSX 同一份数据写成xlsx
func GenerateXLSX(path, sheetName string) error {
	return datapush.SaveToExcel(Frame(), path, sheetName)
}

// WriteCSV 浮点数按最短表示输出(5.1 而不是 5.100000)，NA写空串
func WriteCSV(w io.Writer, df dataframe.DataFrame) error {
	if df.Err != nil {
		return df.Err
	}
	cw := csv.NewWriter(w)
	names := df.Names()
	if err := cw.Write(names); err != nil {
		return err
	}

	nrow, ncol := df.Dims()
	record := make([]string, ncol)
	for r := 0; r < nrow; r++ {
		for c := 0; c < ncol; c++ {
			record[c] = formatElem(df.Elem(r, c))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatElem(e series.Element) string {
	if e.IsNA() {
		return ""
	}
	if e.Type() == series.Float {
		return strconv.FormatFloat(e.Float(), 'f', -1, 64)
	}
	return e.String()
}
