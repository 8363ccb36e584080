package chart

import (
	"image/color"
	"math"
	"sort"

	"IrisExplorer/src/utils"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
)

// group 某个类别下的行
type group struct {
	Label string
	Rows  []int
}

// groupsOf 按类别列分组，类别按字典序；labelCol 不存在时返回单个无名分组
func groupsOf(df dataframe.DataFrame, labelCol string) []group {
	if !utils.HasColumn(df, labelCol) {
		rows := make([]int, df.Nrow())
		for i := range rows {
			rows[i] = i
		}
		return []group{{Rows: rows}}
	}
	labels := utils.Labels(df.Col(labelCol))
	index := make(map[string]int)
	var groups []group
	for _, label := range utils.UniqueSorted(labels) {
		index[label] = len(groups)
		groups = append(groups, group{Label: label})
	}
	for i, label := range labels {
		if label == "" {
			continue
		}
		g := &groups[index[label]]
		g.Rows = append(g.Rows, i)
	}
	return groups
}

// legendName 图例文字
func (g group) legendName() string {
	return utils.Title(g.Label)
}

// colorAt 类别颜色，带透明度时用于填充
func colorAt(i int, alpha uint8) color.Color {
	r, g, b, _ := plotutil.Color(i).RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: alpha}
}

// values 取指定行的数值，跳过NaN
func values(df dataframe.DataFrame, col string, rows []int) plotter.Values {
	all := df.Col(col).Float()
	out := make(plotter.Values, 0, len(rows))
	for _, r := range rows {
		if !math.IsNaN(all[r]) {
			out = append(out, all[r])
		}
	}
	return out
}

// xys 取两列成对的非NaN点
func xys(df dataframe.DataFrame, xCol, yCol string, rows []int) plotter.XYs {
	xs := df.Col(xCol).Float()
	ys := df.Col(yCol).Float()
	out := make(plotter.XYs, 0, len(rows))
	for _, r := range rows {
		if math.IsNaN(xs[r]) || math.IsNaN(ys[r]) {
			continue
		}
		out = append(out, plotter.XY{X: xs[r], Y: ys[r]})
	}
	return out
}

// bandwidth Scott规则: 1.06 * σ * n^(-1/5)
func bandwidth(data []float64) float64 {
	n := float64(len(data))
	if n < 2 {
		return 1
	}
	sd := stat.StdDev(data, nil)
	if sd == 0 || math.IsNaN(sd) {
		return 1
	}
	return 1.06 * sd * math.Pow(n, -0.2)
}

// kde 高斯核密度估计
func kde(data []float64) func(x float64) float64 {
	bw := bandwidth(data)
	kernels := make([]distuv.Normal, len(data))
	for i, d := range data {
		kernels[i] = distuv.Normal{Mu: d, Sigma: bw}
	}
	return func(x float64) float64 {
		if len(kernels) == 0 {
			return 0
		}
		var sum float64
		for _, k := range kernels {
			sum += k.Prob(x)
		}
		return sum / float64(len(kernels))
	}
}

// kdeCurve 在数据范围两侧各延伸3个带宽取 n 个点
func kdeCurve(data []float64, n int) plotter.XYs {
	if len(data) == 0 {
		return nil
	}
	density := kde(data)
	bw := bandwidth(data)
	lo, hi := floats.Min(data)-3*bw, floats.Max(data)+3*bw
	xs := make([]float64, n)
	floats.Span(xs, lo, hi)
	pts := make(plotter.XYs, n)
	for i, x := range xs {
		pts[i] = plotter.XY{X: x, Y: density(x)}
	}
	return pts
}

// byDate 按日期升序排列行号，日期无法解析的行丢弃
func byDate(df dataframe.DataFrame, dateCol string, rows []int) ([]int, []float64) {
	col := df.Col(dateCol)
	type dated struct {
		row int
		t   float64
	}
	var ds []dated
	for _, r := range rows {
		t, err := utils.ParseTime(col.Elem(r))
		if err != nil || t.IsZero() {
			continue
		}
		ds = append(ds, dated{r, float64(t.Unix())})
	}
	sort.SliceStable(ds, func(i, j int) bool { return ds[i].t < ds[j].t })
	out := make([]int, len(ds))
	ts := make([]float64, len(ds))
	for i, d := range ds {
		out[i], ts[i] = d.row, d.t
	}
	return out, ts
}
