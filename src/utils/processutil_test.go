package utils

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFrame() dataframe.DataFrame {
	return dataframe.LoadRecords([][]string{
		{"a", "b", "label", "when"},
		{"1.5", "2", "x", "2023-01-01"},
		{"NaN", "3", "y", "2023-01-02"},
		{"2.5", "4", "NaN", "2023-01-03"},
	})
}

func TestHasColumn(t *testing.T) {
	df := sampleFrame()
	assert.True(t, HasColumn(df, "a"))
	assert.False(t, HasColumn(df, "missing"))
	assert.False(t, HasColumn(df, ""))
	assert.True(t, HasColumns(df, "a", "label"))
	assert.False(t, HasColumns(df, "a", "zzz"))
}

func TestNumericColumns(t *testing.T) {
	df := sampleFrame()
	assert.Equal(t, []string{"a", "b"}, NumericColumns(df))
	assert.Equal(t, []string{"b"}, PresentColumns(df, []string{"label", "b", "nope"}))
}

func TestParseDate(t *testing.T) {
	want := time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2023-01-05", "2023-01-05 00:00:00", "2023-01-05T00:00:00", "2023-01-05T00:00:00Z", "2023/01/05"} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), in)
	}

	_, err := ParseDate("")
	assert.Error(t, err)
	_, err = ParseDate("05.01.2023")
	assert.Error(t, err)
}

func TestParseTimeNA(t *testing.T) {
	s := series.New([]string{"NaN"}, series.String, "d")
	got, err := ParseTime(s.Elem(0))
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestFloatValuesAndLabels(t *testing.T) {
	df := sampleFrame()
	assert.Equal(t, []float64{1.5, 2.5}, FloatValues(df.Col("a")))
	assert.Equal(t, []string{"x", "y", ""}, Labels(df.Col("label")))
}

func TestUniqueSorted(t *testing.T) {
	assert.Equal(t, []string{"setosa", "versicolor", "virginica"},
		UniqueSorted([]string{"virginica", "setosa", "", "versicolor", "setosa"}))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Versicolor", Title("versicolor"))
	assert.True(t, Contains([]int{1, 2, 3}, 2))
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, sampleFrame()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"a", "b", "label", "when"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"1.500000", "2", "x", "2023-01-01"}, strings.Fields(lines[1]))
	assert.Equal(t, "NaN", strings.Fields(lines[2])[0])

	assert.Error(t, WriteTable(&buf, dataframe.DataFrame{Err: assert.AnError}))
}
