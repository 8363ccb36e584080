package utils

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DateLayout 生成器写出的日期格式
const DateLayout = "2006-01-02"

// dateFormats ISO-8601 常见写法，按顺序尝试
var dateFormats = []string{
	DateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006/01/02",
	"2006/01/02 15:04:05",
}

var titleCaser = cases.Title(language.English)

func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// 辅助函数：判断DataFrame是否有某列
func HasColumn(df dataframe.DataFrame, name string) bool {
	if name == "" {
		return false
	}
	return Contains(df.Names(), name)
}

// HasColumns 所有列都存在才返回true
func HasColumns(df dataframe.DataFrame, names ...string) bool {
	for _, n := range names {
		if !HasColumn(df, n) {
			return false
		}
	}
	return true
}

// IsNumeric 判断列是否为数值类型(Float/Int)
func IsNumeric(s series.Series) bool {
	return s.Type() == series.Float || s.Type() == series.Int
}

// NumericColumns 按表头顺序返回数值列名
func NumericColumns(df dataframe.DataFrame) []string {
	var cols []string
	for _, name := range df.Names() {
		if IsNumeric(df.Col(name)) {
			cols = append(cols, name)
		}
	}
	return cols
}

// PresentColumns 过滤出df中存在且为数值类型的列
func PresentColumns(df dataframe.DataFrame, names []string) []string {
	var cols []string
	for _, n := range names {
		if HasColumn(df, n) && IsNumeric(df.Col(n)) {
			cols = append(cols, n)
		}
	}
	return cols
}

// ParseDate 解析ISO-8601日期
func ParseDate(s string) (time.Time, error) {
	str := strings.TrimSpace(s)
	if str == "" || str == "NaN" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, str); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ParseTime 元素版本，NA返回零值时间
func ParseTime(e series.Element) (time.Time, error) {
	if e.IsNA() {
		return time.Time{}, nil
	}
	return ParseDate(e.String())
}

// FloatValues 去掉NaN后的取值
func FloatValues(s series.Series) []float64 {
	vals := make([]float64, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if e.IsNA() {
			continue
		}
		vals = append(vals, e.Float())
	}
	return vals
}

// Labels 每行的字符串取值，NA为空串
func Labels(s series.Series) []string {
	out := make([]string, s.Len())
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if e.IsNA() {
			continue
		}
		out[i] = e.String()
	}
	return out
}

// UniqueSorted 去重并排序(首字母序)
func UniqueSorted(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Title 图例用的标题格式，如 setosa -> Setosa
func Title(s string) string {
	return titleCaser.String(s)
}

// WriteTable 以对齐的文本表格输出DataFrame，NA显示为NaN
func WriteTable(w io.Writer, df dataframe.DataFrame) error {
	if df.Err != nil {
		return df.Err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, record := range df.Records() {
		if _, err := fmt.Fprintln(tw, strings.Join(record, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}
