package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	cfg, dcfg, err := LoadConfig("", "config.json", "dataconfig.json")
	require.NoError(t, err)

	assert.Equal(t, "iris_data.csv", cfg.InputPath)
	assert.Equal(t, "output", cfg.OutputDir)
	assert.Equal(t, Size{Width: 8, Height: 6}, cfg.Report.ChartSize)
	assert.Equal(t, "petal length (cm)", dcfg.GetColumn(PetalLength))

	again, _, err := LoadConfig("does-not-matter", "x.json", "y.json")
	require.NoError(t, err)
	assert.Same(t, cfg, again)
}

func TestLoadConfigsMissingFilesUseDefaults(t *testing.T) {
	cfg, dcfg, err := loadConfigs(t.TempDir(), "config.json", "dataconfig.json")
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, DefaultDataConfig(), dcfg)
}

func TestLoadConfigsPartialOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.json", `{"output_dir": "charts", "report": {"file_name": "r.xlsx"}}`)
	writeFile(t, dir, "dataconfig.json", `{"columns": {"species": "class", "date": ""}}`)

	cfg, dcfg, err := loadConfigs(dir, "config.json", "dataconfig.json")
	require.NoError(t, err)

	assert.Equal(t, "charts", cfg.OutputDir)
	assert.Equal(t, "iris_data.csv", cfg.InputPath)
	assert.Equal(t, "r.xlsx", cfg.Report.FileName)
	assert.True(t, cfg.Report.Enabled)
	assert.Equal(t, "class", dcfg.GetColumn(Species))
	assert.Equal(t, "date", dcfg.GetColumn(Date))
}

func TestLoadConfigsMalformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.json", `{"output_dir": `)
	writeFile(t, dir, "dataconfig.json", `[]`)

	_, _, err := loadConfigs(dir, "config.json", "dataconfig.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "解析Config失败")
	assert.Contains(t, err.Error(), "解析DataConfig失败")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.LogMaxSize = "10 * abc"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.OutputDir = ""
	assert.Error(t, cfg.Validate())
}

func TestMaxLogBytes(t *testing.T) {
	cfg := Default()
	n, err := cfg.MaxLogBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(10*1024*1024), n)

	cfg.LogMaxSize = ""
	n, err = cfg.MaxLogBytes()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSizeJSON(t *testing.T) {
	var s Size
	require.NoError(t, s.UnmarshalJSON([]byte(`"12x6.5"`)))
	assert.Equal(t, Size{Width: 12, Height: 6.5}, s)

	b, err := s.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"12x6.5"`, string(b))

	assert.Error(t, s.UnmarshalJSON([]byte(`"12"`)))
	assert.Error(t, s.UnmarshalJSON([]byte(`"0x4"`)))
}

func TestNumericColumns(t *testing.T) {
	dcfg := DefaultDataConfig()
	dcfg.SetColumn(PetalWidth, "pw")
	assert.Equal(t, []string{"sepal length (cm)", "sepal width (cm)", "petal length (cm)", "pw"}, dcfg.NumericColumns())
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}
