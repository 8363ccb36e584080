// explorer.go
package processor

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"IrisExplorer/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"
)

// DefaultHeadRows 预览的行数
const DefaultHeadRows = 5

// ExploreReport 数据探查结果
type ExploreReport struct {
	Rows       int
	Cols       int
	Columns    []string
	Types      map[string]series.Type
	NullCounts map[string]int
	Imputed    map[string]string // 列名 -> 填充值
}

// ClassCount 单个类别的样本数
type ClassCount struct {
	Label string
	Count int
}

// Explore 打印形状、前几行、列类型、缺失值数量，然后填充缺失值
func Explore(w io.Writer, df dataframe.DataFrame) (dataframe.DataFrame, ExploreReport) {
	return ExploreHead(w, df, DefaultHeadRows, "")
}

// ExploreHead 同Explore，可指定预览行数以及不参与众数填充的日期列
func ExploreHead(w io.Writer, df dataframe.DataFrame, headRows int, dateCol string) (dataframe.DataFrame, ExploreReport) {
	rows, cols := df.Dims()
	report := ExploreReport{
		Rows:       rows,
		Cols:       cols,
		Columns:    df.Names(),
		Types:      make(map[string]series.Type, cols),
		NullCounts: NullCounts(df),
	}
	for _, name := range report.Columns {
		report.Types[name] = df.Col(name).Type()
	}

	fmt.Fprintf(w, "数据形状: (%d, %d)\n\n", rows, cols)

	if headRows <= 0 {
		headRows = DefaultHeadRows
	}
	if n := min(headRows, rows); n > 0 {
		fmt.Fprintf(w, "前%d行:\n", n)
		if err := utils.WriteTable(w, df.Subset(headIndexes(n))); err != nil {
			fmt.Fprintf(w, "无法输出预览: %v\n", err)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "列类型:")
	for _, name := range report.Columns {
		fmt.Fprintf(w, "  %-20s %s\n", name, report.Types[name])
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "缺失值数量:")
	for _, name := range report.Columns {
		fmt.Fprintf(w, "  %-20s %d\n", name, report.NullCounts[name])
	}
	fmt.Fprintln(w)

	imputed, filled := ImputeMissing(df, dateCol)
	report.Imputed = filled
	if len(filled) > 0 {
		fmt.Fprintln(w, "缺失值填充:")
		for _, name := range report.Columns {
			if v, ok := filled[name]; ok {
				fmt.Fprintf(w, "  %-20s <- %s\n", name, v)
			}
		}
		fmt.Fprintln(w)
	}
	return imputed, report
}

func headIndexes(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// NullCounts 每列的缺失值个数
func NullCounts(df dataframe.DataFrame) map[string]int {
	counts := make(map[string]int, df.Ncol())
	for _, name := range df.Names() {
		n := 0
		for _, na := range df.Col(name).IsNaN() {
			if na {
				n++
			}
		}
		counts[name] = n
	}
	return counts
}

// ImputeMissing 数值列用均值填充，类别列用众数填充(日期列除外)
// 全部缺失的列保持不变；返回填充后的表和每列使用的填充值
func ImputeMissing(df dataframe.DataFrame, dateCol string) (dataframe.DataFrame, map[string]string) {
	filled := make(map[string]string)
	out := df
	for _, name := range df.Names() {
		col := df.Col(name)
		missing := col.IsNaN()
		nMissing := 0
		for _, na := range missing {
			if na {
				nMissing++
			}
		}
		if nMissing == 0 || nMissing == col.Len() {
			continue
		}

		switch {
		case utils.IsNumeric(col):
			mean := stat.Mean(utils.FloatValues(col), nil)
			values := col.Float()
			for i, na := range missing {
				if na {
					values[i] = mean
				}
			}
			// Int列填入均值后变为Float
			out = out.Mutate(series.New(values, series.Float, name))
			filled[name] = strconv.FormatFloat(mean, 'f', -1, 64)
		case name == dateCol:
			continue
		default:
			mode := Mode(col)
			values := col.Records()
			for i, na := range missing {
				if na {
					values[i] = mode
				}
			}
			out = out.Mutate(series.New(values, col.Type(), name))
			filled[name] = mode
		}
	}
	return out, filled
}

// Mode 非缺失值中出现最多的取值，次数相同时取字典序最小的
func Mode(s series.Series) string {
	counts := make(map[string]int)
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if e.IsNA() {
			continue
		}
		counts[e.String()]++
	}
	mode, best := "", 0
	for v, c := range counts {
		if c > best || (c == best && v < mode) {
			mode, best = v, c
		}
	}
	return mode
}

// ClassDistribution 各类别样本数，按数量降序、类别名升序
func ClassDistribution(df dataframe.DataFrame, labelCol string) ([]ClassCount, error) {
	if !utils.HasColumn(df, labelCol) {
		return nil, fmt.Errorf("找不到类别列: %q", labelCol)
	}
	counts := make(map[string]int)
	for _, label := range utils.Labels(df.Col(labelCol)) {
		if label == "" {
			continue
		}
		counts[label]++
	}
	dist := make([]ClassCount, 0, len(counts))
	for label, c := range counts {
		dist = append(dist, ClassCount{Label: label, Count: c})
	}
	sort.Slice(dist, func(i, j int) bool {
		if dist[i].Count != dist[j].Count {
			return dist[i].Count > dist[j].Count
		}
		return dist[i].Label < dist[j].Label
	})
	return dist, nil
}
