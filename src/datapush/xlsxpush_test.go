package datapush

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func smallFrame() dataframe.DataFrame {
	return dataframe.LoadRecords([][]string{
		{"petal length (cm)", "species"},
		{"1.4", "setosa"},
		{"NaN", "versicolor"},
		{"5.5", "virginica"},
	})
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestSaveToExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iris.xlsx")
	require.NoError(t, SaveToExcel(smallFrame(), path, "iris"))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"iris"}, f.GetSheetList())
	rows, err := f.GetRows("iris")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"petal length (cm)", "species"}, rows[0])
	assert.Equal(t, []string{"1.4", "setosa"}, rows[1])
	assert.Equal(t, []string{"", "versicolor"}, rows[2])
	assert.Equal(t, []string{"5.5", "virginica"}, rows[3])
}

func TestWorkbookReportWithCharts(t *testing.T) {
	dir := t.TempDir()
	chart := filepath.Join(dir, "scatter_plot.png")
	writePNG(t, chart)

	r := NewWorkbookReport(filepath.Join(dir, "out", "analysis_report.xlsx"))
	r.AddFrame("describe", smallFrame())
	r.AddFrame("species_means", smallFrame())
	r.AddChart("Scatter", chart)
	r.AddChart("Missing", filepath.Join(dir, "nope.png"))
	require.NoError(t, r.Push())

	f, err := excelize.OpenFile(r.Path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"describe", "species_means", ChartSheet}, f.GetSheetList())
	title, err := f.GetCellValue(ChartSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Scatter", title)
	pics, err := f.GetPictures(ChartSheet, "A2")
	require.NoError(t, err)
	assert.Len(t, pics, 1)
}

func TestWorkbookReportEmpty(t *testing.T) {
	r := NewWorkbookReport(filepath.Join(t.TempDir(), "empty.xlsx"))
	assert.Error(t, r.Push())
}
