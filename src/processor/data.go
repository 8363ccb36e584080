// data.go
package processor

import (
	"fmt"
	"time"

	"IrisExplorer/src/utils"

	"github.com/go-gota/gota/dataframe"
)

// DataProcessor 持有一份数据，负责清洗和汇总指标
type DataProcessor struct {
	df       dataframe.DataFrame
	labelCol string
	dateCol  string
	imputed  map[string]string
	now      func() time.Time
}

// NewDataProcessor 创建处理器，labelCol/dateCol 可以为空
func NewDataProcessor(df dataframe.DataFrame, labelCol, dateCol string) *DataProcessor {
	return &DataProcessor{df: df, labelCol: labelCol, dateCol: dateCol, now: time.Now}
}

// Data 当前数据
func (p *DataProcessor) Data() dataframe.DataFrame {
	return p.df
}

// CleanData 填充缺失值
func (p *DataProcessor) CleanData() error {
	if p.df.Err != nil {
		return fmt.Errorf("数据错误: %w", p.df.Err)
	}
	df, filled := ImputeMissing(p.df, p.dateCol)
	if df.Err != nil {
		return fmt.Errorf("填充缺失值失败: %w", df.Err)
	}
	p.df = df
	p.imputed = filled
	return nil
}

// CalculateMetrics 汇总行数、类别数、日期范围等指标
func (p *DataProcessor) CalculateMetrics() (map[string]interface{}, error) {
	if p.df.Err != nil {
		return nil, fmt.Errorf("数据错误: %w", p.df.Err)
	}
	rows, cols := p.df.Dims()
	metrics := map[string]interface{}{
		"rows":           rows,
		"columns":        cols,
		"imputed":        len(p.imputed),
		"numeric_fields": len(utils.NumericColumns(p.df)),
		"last_updated":   p.now(),
	}

	if utils.HasColumn(p.df, p.labelCol) {
		metrics["species_count"] = len(utils.UniqueSorted(utils.Labels(p.df.Col(p.labelCol))))
	}

	if utils.HasColumn(p.df, p.dateCol) {
		first, last, err := dateSpan(p.df, p.dateCol)
		if err != nil {
			return nil, err
		}
		if !first.IsZero() {
			metrics["first_date"] = first.Format(utils.DateLayout)
			metrics["last_date"] = last.Format(utils.DateLayout)
			metrics["days"] = int(last.Sub(first).Hours()/24) + 1
		}
	}
	return metrics, nil
}

// dateSpan 日期列的最早和最晚日期，缺失值跳过
func dateSpan(df dataframe.DataFrame, dateCol string) (time.Time, time.Time, error) {
	var first, last time.Time
	col := df.Col(dateCol)
	for i := 0; i < col.Len(); i++ {
		e := col.Elem(i)
		if e.IsNA() {
			continue
		}
		t, err := utils.ParseTime(e)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("第%d行日期无法解析: %w", i+1, err)
		}
		if first.IsZero() || t.Before(first) {
			first = t
		}
		if last.IsZero() || t.After(last) {
			last = t
		}
	}
	return first, last, nil
}
