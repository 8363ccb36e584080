package processor

import (
	"bytes"
	"testing"

	"IrisExplorer/src/dataset"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gappyFrame() dataframe.DataFrame {
	return dataframe.LoadRecords([][]string{
		{"length", "count", "label", "date", "empty"},
		{"1.0", "1", "b", "2023-01-01", "NaN"},
		{"NaN", "2", "a", "NaN", "NaN"},
		{"3.0", "NaN", "NaN", "2023-01-03", "NaN"},
		{"NaN", "5", "b", "2023-01-04", "NaN"},
		{"2.0", "NaN", "a", "2023-01-05", "NaN"},
	})
}

func TestImputeMissing(t *testing.T) {
	df, filled := ImputeMissing(gappyFrame(), "date")
	require.NoError(t, df.Err)

	assert.Equal(t, []float64{1, 2, 3, 2, 2}, df.Col("length").Float())
	assert.Equal(t, "2", filled["length"])

	// Int列填入均值后为Float
	assert.Equal(t, series.Float, df.Col("count").Type())
	assert.InDeltaSlice(t, []float64{1, 2, 8.0 / 3, 5, 8.0 / 3}, df.Col("count").Float(), 1e-9)

	// a、b各两次，取字典序较小的a
	assert.Equal(t, []string{"b", "a", "a", "b", "a"}, df.Col("label").Records())
	assert.Equal(t, "a", filled["label"])

	// 日期列和全缺失列不填充
	assert.Equal(t, []bool{false, true, false, false, false}, df.Col("date").IsNaN())
	assert.Equal(t, []bool{true, true, true, true, true}, df.Col("empty").IsNaN())
	assert.NotContains(t, filled, "date")
	assert.NotContains(t, filled, "empty")
}

func TestImputeMissingLeavesCompleteFrame(t *testing.T) {
	src := dataset.Frame()
	df, filled := ImputeMissing(src, dataset.ColDate)
	assert.Empty(t, filled)
	assert.Equal(t, src.Records(), df.Records())
}

func TestImputedMeanMatchesObservedMean(t *testing.T) {
	df, filled := ImputeMissing(gappyFrame(), "")
	require.NotEmpty(t, filled)
	assert.InDelta(t, 2.0, df.Col("length").Mean(), 1e-9)
	// 未指定日期列时日期按众数填充
	assert.Contains(t, filled, "date")
	assert.False(t, df.Col("date").IsNaN()[1])
}

func TestMode(t *testing.T) {
	assert.Equal(t, "x", Mode(series.New([]string{"y", "x", "x", "NaN"}, series.String, "s")))
	assert.Equal(t, "a", Mode(series.New([]string{"c", "b", "a"}, series.String, "s")))
	assert.Equal(t, "", Mode(series.New([]string{"NaN"}, series.String, "s")))
}

func TestNullCounts(t *testing.T) {
	counts := NullCounts(gappyFrame())
	assert.Equal(t, map[string]int{"length": 2, "count": 2, "label": 1, "date": 1, "empty": 5}, counts)
}

func TestClassDistribution(t *testing.T) {
	dist, err := ClassDistribution(dataset.Frame(), dataset.ColSpecies)
	require.NoError(t, err)
	assert.Equal(t, []ClassCount{{"setosa", 50}, {"versicolor", 50}, {"virginica", 50}}, dist)

	df := dataframe.LoadRecords([][]string{{"l"}, {"b"}, {"c"}, {"c"}, {"a"}, {"NaN"}})
	dist, err = ClassDistribution(df, "l")
	require.NoError(t, err)
	assert.Equal(t, []ClassCount{{"c", 2}, {"a", 1}, {"b", 1}}, dist)

	_, err = ClassDistribution(df, "missing")
	assert.Error(t, err)
}

func TestExplore(t *testing.T) {
	var buf bytes.Buffer
	df, report := Explore(&buf, dataset.Frame())

	assert.Equal(t, 150, report.Rows)
	assert.Equal(t, 6, report.Cols)
	assert.Equal(t, series.Float, report.Types[dataset.ColSepalLength])
	assert.Equal(t, series.String, report.Types[dataset.ColSpecies])
	for _, name := range report.Columns {
		assert.Zero(t, report.NullCounts[name], name)
	}
	assert.Empty(t, report.Imputed)
	assert.Equal(t, 150, df.Nrow())

	out := buf.String()
	assert.Contains(t, out, "数据形状: (150, 6)")
	assert.Contains(t, out, "前5行")
	assert.Contains(t, out, "2023-01-05")
	assert.NotContains(t, out, "2023-01-06")
	assert.NotContains(t, out, "缺失值填充")
}

func TestExploreHeadImputes(t *testing.T) {
	var buf bytes.Buffer
	df, report := ExploreHead(&buf, gappyFrame(), 2, "date")

	assert.Equal(t, "a", report.Imputed["label"])
	assert.Equal(t, 2, report.NullCounts["length"])
	assert.Equal(t, []bool{false, false, false, false, false}, df.Col("length").IsNaN())
	assert.Contains(t, buf.String(), "前2行")
	assert.Contains(t, buf.String(), "缺失值填充")
}
