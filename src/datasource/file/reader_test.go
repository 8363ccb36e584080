package file

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"IrisExplorer/src/datapush"
	"IrisExplorer/src/dataset"

	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadCSVGeneratedDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iris_data.csv")
	require.NoError(t, dataset.Generate(path))

	df, err := Load(path, "")
	require.NoError(t, err)

	want := dataset.Frame()
	assert.Equal(t, want.Nrow(), df.Nrow())
	assert.Equal(t, want.Names(), df.Names())
	assert.Equal(t, series.Float, df.Col(dataset.ColPetalLength).Type())
	assert.Equal(t, series.String, df.Col(dataset.ColSpecies).Type())
}

func TestLoadCSVMissingValuesAndExtraColumns(t *testing.T) {
	path := writeTemp(t, "gaps.csv", "a,label,extra\n1.5,x,foo\n,y,bar\nNA,,baz\n")

	df, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "label", "extra"}, df.Names())
	assert.Equal(t, []bool{false, true, true}, df.Col("a").IsNaN())
	assert.Equal(t, []bool{false, false, true}, df.Col("label").IsNaN())
}

func TestLoadCSVMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.csv")

	_, err := Load(path, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInputNotFound))
	assert.Contains(t, err.Error(), path)
}

func TestLoadCSVUnparseable(t *testing.T) {
	cases := map[string]string{
		"empty.csv":       "",
		"header_only.csv": "a,b\n",
		"ragged.csv":      "a,b\n1,2\n3\n",
		"quotes.csv":      "a,b\n\"1,2\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadCSV(writeTemp(t, name, content))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInputParse))
			assert.False(t, errors.Is(err, ErrInputNotFound))
		})
	}
}

func TestReadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iris_data.xlsx")
	require.NoError(t, dataset.GenerateXLSX(path, "iris"))

	df, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, 150, df.Nrow())
	assert.Equal(t, dataset.Frame().Names(), df.Names())
	assert.InDelta(t, 3.758, df.Col(dataset.ColPetalLength).Mean(), 1e-9)

	named, err := ReadXLSX(path, "iris")
	require.NoError(t, err)
	assert.Equal(t, 150, named.Nrow())

	_, err = ReadXLSX(path, "missing")
	assert.True(t, errors.Is(err, ErrInputParse))
}

func TestReadXLSXBrokenAndSingleRow(t *testing.T) {
	path := writeTemp(t, "broken.xlsx", "not a zip")
	_, err := Load(path, "")
	assert.True(t, errors.Is(err, ErrInputParse))

	single := filepath.Join(t.TempDir(), "single.xlsx")
	df := dataset.Frame().Subset([]int{0})
	require.NoError(t, datapush.SaveToExcel(df.Select([]string{dataset.ColSpecies}), single, ""))
	loaded, err := ReadXLSX(single, "")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Nrow())
}
