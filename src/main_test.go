package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"IrisExplorer/src/chart"
	"IrisExplorer/src/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func runIn(t *testing.T, dir, input string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run([]string{
		"-input", input,
		"-output", filepath.Join(dir, "output"),
		"-log", filepath.Join(dir, "app.log"),
	}, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunFullPipeline(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "iris_data.csv")
	require.NoError(t, dataset.Generate(input))

	code, stdout, stderr := runIn(t, dir, input)
	require.Equal(t, exitOK, code, stderr)

	assert.Contains(t, stdout, "数据形状: (150, 6)")
	assert.Contains(t, stdout, "描述统计")
	assert.Contains(t, stdout, "virginica")
	for _, name := range []string{chart.TrendFile, chart.AverageFile, chart.HistogramFile, chart.ScatterFile, chart.PairplotFile, chart.BoxplotFile, chart.HeatmapFile, chart.ViolinFile} {
		assert.FileExists(t, filepath.Join(dir, "output", name))
	}

	f, err := excelize.OpenFile(filepath.Join(dir, "output", "analysis_report.xlsx"))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"describe", "species_means", "charts"}, f.GetSheetList())

	logData, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "INFO: 开始分析")
}

func TestRunMissingInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "missing.csv")

	code, _, stderr := runIn(t, dir, input)
	assert.Equal(t, exitInput, code)
	assert.Contains(t, stderr, input)
	assert.NoDirExists(t, filepath.Join(dir, "output"))
}

func TestRunUnparseableInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "broken.csv")
	require.NoError(t, os.WriteFile(input, []byte("a,b\n1\n"), 0644))

	code, _, stderr := runIn(t, dir, input)
	assert.Equal(t, exitInput, code)
	assert.Contains(t, stderr, "无法解析输入文件")
}

func TestRunWithoutLabelColumns(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "numbers.csv")
	require.NoError(t, os.WriteFile(input, []byte("x,y\n1,2\n2,4\n3,5\n"), 0644))

	code, stdout, stderr := runIn(t, dir, input)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "跳过 5 张")
	assert.FileExists(t, filepath.Join(dir, "output", chart.HeatmapFile))
	assert.NoFileExists(t, filepath.Join(dir, "output", chart.ScatterFile))
}

func TestRunPartialFailure(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "iris_data.csv")
	require.NoError(t, dataset.Generate(input))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "output", chart.ViolinFile), 0755))

	code, stdout, _ := runIn(t, dir, input)
	assert.Equal(t, exitPartial, code)
	assert.Contains(t, stdout, "失败 1 张")
	assert.FileExists(t, filepath.Join(dir, "output", chart.HeatmapFile))
}

func TestRunBadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitInput, run([]string{"-nope"}, &stdout, &stderr))
}
