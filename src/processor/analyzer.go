// analyzer.go
package processor

import (
	"fmt"
	"io"
	"math"
	"sort"

	"IrisExplorer/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"
)

// StatNames describe 表的行顺序
var StatNames = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Findings 固定的分析结论
var Findings = []string{
	"setosa 的花瓣长度和花瓣宽度明显小于另外两个品种，仅凭花瓣尺寸即可区分。",
	"virginica 的花瓣最大，versicolor 介于 setosa 与 virginica 之间。",
	"花瓣长度与花瓣宽度高度正相关，两者与萼片长度也呈正相关；萼片宽度与其余特征相关性较弱。",
}

// ColumnSummary 单个数值列的描述统计
type ColumnSummary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64 // 样本标准差(n-1)
	Min    float64
	Q25    float64
	Q50    float64
	Q75    float64
	Max    float64
}

// Values 按 StatNames 的顺序返回
func (c ColumnSummary) Values() []float64 {
	return []float64{float64(c.Count), c.Mean, c.Std, c.Min, c.Q25, c.Q50, c.Q75, c.Max}
}

// GroupMean 单个类别下各数值列的均值
type GroupMean struct {
	Label string
	Count int
	Means map[string]float64
}

// AnalysisReport 分析结果
type AnalysisReport struct {
	Summary      []ColumnSummary
	Distribution []ClassCount
	GroupMeans   []GroupMean
	Columns      []string // 参与分组均值的数值列
	Findings     []string
}

// Describe 计算每个数值列的 count/mean/std/min/四分位数/max，缺失值不计入
func Describe(df dataframe.DataFrame) []ColumnSummary {
	var summaries []ColumnSummary
	for _, name := range utils.NumericColumns(df) {
		summaries = append(summaries, summarize(name, utils.FloatValues(df.Col(name))))
	}
	return summaries
}

func summarize(name string, values []float64) ColumnSummary {
	nan := math.NaN()
	cs := ColumnSummary{Column: name, Count: len(values), Mean: nan, Std: nan, Min: nan, Q25: nan, Q50: nan, Q75: nan, Max: nan}
	if len(values) == 0 {
		return cs
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	cs.Mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		cs.Std = stat.StdDev(sorted, nil)
	}
	cs.Min = sorted[0]
	cs.Max = sorted[len(sorted)-1]
	cs.Q25 = Quantile(sorted, 0.25)
	cs.Q50 = Quantile(sorted, 0.5)
	cs.Q75 = Quantile(sorted, 0.75)
	return cs
}

// Quantile 线性插值分位数，位置为 p*(n-1)，sorted 须已升序
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// SummaryFrame 把描述统计转成表：第一列为统计量，其余每列对应一个数值列
func SummaryFrame(summaries []ColumnSummary) dataframe.DataFrame {
	cols := []series.Series{series.New(StatNames, series.String, "stat")}
	for _, cs := range summaries {
		cols = append(cols, series.New(cs.Values(), series.Float, cs.Column))
	}
	return dataframe.New(cols...)
}

// GroupMeans 按类别列分组求各数值列的均值，结果按类别名排序
func GroupMeans(df dataframe.DataFrame, labelCol string) ([]GroupMean, error) {
	if !utils.HasColumn(df, labelCol) {
		return nil, fmt.Errorf("找不到类别列: %q", labelCol)
	}

	// 类别缺失的行不参与分组
	labelled := df.Filter(dataframe.F{
		Colname:    labelCol,
		Comparator: series.CompFunc,
		Comparando: func(e series.Element) bool { return !e.IsNA() },
	})
	if labelled.Err != nil {
		return nil, fmt.Errorf("过滤类别列失败: %w", labelled.Err)
	}
	if labelled.Nrow() == 0 {
		return nil, nil
	}

	groups := labelled.GroupBy(labelCol)
	if groups.Err != nil {
		return nil, fmt.Errorf("分组失败: %w", groups.Err)
	}

	numeric := numericExcept(labelled, labelCol)
	var means []GroupMean
	for label, g := range groups.GetGroups() {
		gm := GroupMean{Label: label, Count: g.Nrow(), Means: make(map[string]float64, len(numeric))}
		for _, name := range numeric {
			vals := utils.FloatValues(g.Col(name))
			if len(vals) == 0 {
				gm.Means[name] = math.NaN()
				continue
			}
			gm.Means[name] = stat.Mean(vals, nil)
		}
		means = append(means, gm)
	}
	sort.Slice(means, func(i, j int) bool { return means[i].Label < means[j].Label })
	return means, nil
}

func numericExcept(df dataframe.DataFrame, exclude string) []string {
	var cols []string
	for _, name := range utils.NumericColumns(df) {
		if name != exclude {
			cols = append(cols, name)
		}
	}
	return cols
}

// GroupMeansFrame 分组均值表，第一列为类别
func GroupMeansFrame(labelCol string, means []GroupMean, columns []string) dataframe.DataFrame {
	labels := make([]string, len(means))
	for i, gm := range means {
		labels[i] = gm.Label
	}
	cols := []series.Series{series.New(labels, series.String, labelCol)}
	for _, name := range columns {
		vals := make([]float64, len(means))
		for i, gm := range means {
			vals[i] = gm.Means[name]
		}
		cols = append(cols, series.New(vals, series.Float, name))
	}
	return dataframe.New(cols...)
}

// Analyze 输出描述统计、类别分布、分组均值和结论
func Analyze(w io.Writer, df dataframe.DataFrame, labelCol string) (AnalysisReport, error) {
	if df.Err != nil {
		return AnalysisReport{}, fmt.Errorf("数据错误: %w", df.Err)
	}
	report := AnalysisReport{Findings: Findings}

	report.Summary = Describe(df)
	fmt.Fprintln(w, "描述统计:")
	if len(report.Summary) == 0 {
		fmt.Fprintln(w, "  没有数值列")
	} else if err := utils.WriteTable(w, SummaryFrame(report.Summary)); err != nil {
		return report, fmt.Errorf("输出描述统计失败: %w", err)
	}
	fmt.Fprintln(w)

	if utils.HasColumn(df, labelCol) {
		dist, err := ClassDistribution(df, labelCol)
		if err != nil {
			return report, err
		}
		report.Distribution = dist
		fmt.Fprintln(w, "类别分布:")
		for _, c := range dist {
			fmt.Fprintf(w, "  %-12s %d\n", c.Label, c.Count)
		}
		fmt.Fprintln(w)

		means, err := GroupMeans(df, labelCol)
		if err != nil {
			return report, err
		}
		report.GroupMeans = means
		report.Columns = numericExcept(df, labelCol)
		fmt.Fprintf(w, "按 %s 分组的均值:\n", labelCol)
		if err := utils.WriteTable(w, GroupMeansFrame(labelCol, means, report.Columns)); err != nil {
			return report, fmt.Errorf("输出分组均值失败: %w", err)
		}
		fmt.Fprintln(w)
	} else {
		fmt.Fprintf(w, "缺少类别列 %q，跳过分组统计\n\n", labelCol)
	}

	fmt.Fprintln(w, "结论:")
	for _, f := range report.Findings {
		fmt.Fprintf(w, "  - %s\n", f)
	}
	return report, nil
}
