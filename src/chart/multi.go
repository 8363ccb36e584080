package chart

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"sort"

	"IrisExplorer/src/processor"
	"IrisExplorer/src/utils"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	pairTile    = 2.5 * vg.Inch
	titleHeight = 0.5 * vg.Inch
	violinWidth = 0.4 // 小提琴最宽处的半宽，x轴单位
)

// savePNG 申请画布、绘制、写文件，返回前关闭文件
func savePNG(path string, w, h vg.Length, paint func(dc draw.Canvas)) (err error) {
	img := vgimg.New(w, h)
	paint(draw.New(img))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建图片文件失败 %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("关闭图片文件失败 %s: %w", path, cerr)
		}
	}()
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		return fmt.Errorf("写入图片失败 %s: %w", path, err)
	}
	return nil
}

// fillTitle 在画布顶部居中写标题
func fillTitle(dc draw.Canvas, title string) {
	sty := plot.New().Title.TextStyle
	sty.Font.Size = vg.Points(16)
	sty.XAlign = draw.XCenter
	sty.YAlign = draw.YTop
	dc.FillText(sty, vg.Point{X: dc.Center().X, Y: dc.Max.Y - vg.Points(8)}, title)
}

// pairplot 数值列两两散点矩阵，对角线为各品种的密度曲线
func (v *Visualizer) pairplot(df dataframe.DataFrame, path string) (bool, error) {
	c := v.Columns
	cols := utils.NumericColumns(df)
	if len(cols) < 2 {
		return true, nil
	}
	groups := groupsOf(df, c.Species)

	n := len(cols)
	plots := make([][]*plot.Plot, n)
	for row := range plots {
		plots[row] = make([]*plot.Plot, n)
		for col := range plots[row] {
			p := plot.New()
			if row == n-1 {
				p.X.Label.Text = cols[col]
			}
			if col == 0 {
				p.Y.Label.Text = cols[row]
			}
			for i, g := range groups {
				var err error
				if row == col {
					err = addDensity(p, values(df, cols[col], g.Rows), i)
				} else {
					err = addPoints(p, xys(df, cols[col], cols[row], g.Rows), i, g.Label != "")
				}
				if err != nil {
					return false, err
				}
			}
			plots[row][col] = p
		}
	}

	// 图例放在右上角那一格
	corner := plots[0][n-1]
	for i, g := range groups {
		if g.Label == "" {
			continue
		}
		thumb, err := plotter.NewScatter(plotter.XYs{{}})
		if err != nil {
			return false, err
		}
		thumb.GlyphStyle.Color = plotutil.Color(i)
		thumb.GlyphStyle.Shape = plotutil.Shape(i)
		corner.Legend.Add(g.legendName(), thumb)
	}
	corner.Legend.Top = true

	size := vg.Length(n) * pairTile
	tiles := draw.Tiles{
		Rows:      n,
		Cols:      n,
		PadTop:    titleHeight,
		PadX:      vg.Millimeter * 2,
		PadY:      vg.Millimeter * 2,
		PadLeft:   vg.Millimeter,
		PadRight:  vg.Millimeter * 2,
		PadBottom: vg.Millimeter,
	}
	return false, savePNG(path, size, size+titleHeight, func(dc draw.Canvas) {
		fillTitle(dc, "Iris Dataset - Pairplot")
		canvases := plot.Align(plots, tiles, dc)
		for row := range plots {
			for col := range plots[row] {
				plots[row][col].Draw(canvases[row][col])
			}
		}
	})
}

func addDensity(p *plot.Plot, vals plotter.Values, idx int) error {
	if len(vals) == 0 {
		return nil
	}
	line, err := plotter.NewLine(kdeCurve(vals, curvePoint))
	if err != nil {
		return fmt.Errorf("创建密度曲线失败: %w", err)
	}
	line.Color = plotutil.Color(idx)
	line.Width = vg.Points(1.5)
	p.Add(line)
	return nil
}

func addPoints(p *plot.Plot, pts plotter.XYs, idx int, colored bool) error {
	if len(pts) == 0 {
		return nil
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("创建散点失败: %w", err)
	}
	s.GlyphStyle.Radius = vg.Points(1.5)
	if colored {
		s.GlyphStyle.Color = plotutil.Color(idx)
		s.GlyphStyle.Shape = plotutil.Shape(idx)
	}
	p.Add(s)
	return nil
}

// boxplot 所有数值列的箱线图
func (v *Visualizer) boxplot(df dataframe.DataFrame, path string) (bool, error) {
	cols := utils.NumericColumns(df)
	if len(cols) == 0 {
		return true, nil
	}

	p := plot.New()
	p.Title.Text = "Feature Distribution"
	p.Y.Label.Text = "cm"
	p.Add(plotter.NewGrid())

	all := make([]int, df.Nrow())
	for i := range all {
		all[i] = i
	}
	for i, col := range cols {
		vals := values(df, col, all)
		if len(vals) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(50), float64(i), vals)
		if err != nil {
			return false, fmt.Errorf("创建箱线图失败 %s: %w", col, err)
		}
		box.FillColor = colorAt(i, 180)
		p.Add(box)
	}
	p.NominalX(cols...)
	p.X.Tick.Label.Rotation = math.Pi / 8
	p.X.Tick.Label.XAlign = draw.XRight
	return false, v.save(p, path, 1.5)
}

// corrGrid 相关系数矩阵，第0列画在最上方
type corrGrid struct {
	m *mat.SymDense
	n int
}

func (g corrGrid) Dims() (c, r int)     { return g.n, g.n }
func (g corrGrid) Z(c, r int) float64   { return g.m.At(g.n-1-r, c) }
func (g corrGrid) X(c int) float64      { return float64(c) }
func (g corrGrid) Y(r int) float64      { return float64(r) }
func (g corrGrid) column(r int) int     { return g.n - 1 - r }

// Correlation 数值列的皮尔逊相关系数矩阵，含NaN的行不参与计算
func Correlation(df dataframe.DataFrame, cols []string) *mat.SymDense {
	data := make([][]float64, len(cols))
	for j, col := range cols {
		data[j] = df.Col(col).Float()
	}
	var rows []float64
	nrows := 0
	for i := 0; i < df.Nrow(); i++ {
		complete := true
		for j := range cols {
			if math.IsNaN(data[j][i]) {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		for j := range cols {
			rows = append(rows, data[j][i])
		}
		nrows++
	}

	var corr mat.SymDense
	if nrows < 2 {
		corr.ReuseAsSym(len(cols))
		for i := range cols {
			for j := i; j < len(cols); j++ {
				corr.SetSym(i, j, math.NaN())
			}
		}
		return &corr
	}
	stat.CorrelationMatrix(&corr, mat.NewDense(nrows, len(cols), rows), nil)
	return &corr
}

// heatmap 相关系数热力图，格内标注数值，右侧色条
func (v *Visualizer) heatmap(df dataframe.DataFrame, path string) (bool, error) {
	cols := utils.NumericColumns(df)
	if len(cols) < 2 {
		return true, nil
	}
	grid := corrGrid{m: Correlation(df, cols), n: len(cols)}

	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)

	hm := plotter.NewHeatMap(grid, cm.Palette(255))
	hm.Min, hm.Max = -1, 1

	p := plot.New()
	p.Title.Text = "Correlation Heatmap"
	p.Add(hm)

	var pts plotter.XYs
	var texts []string
	xTicks := make([]plot.Tick, grid.n)
	yTicks := make([]plot.Tick, grid.n)
	for i := 0; i < grid.n; i++ {
		xTicks[i] = plot.Tick{Value: float64(i), Label: cols[i]}
		yTicks[i] = plot.Tick{Value: float64(i), Label: cols[grid.column(i)]}
		for r := 0; r < grid.n; r++ {
			pts = append(pts, plotter.XY{X: float64(i), Y: float64(r)})
			texts = append(texts, fmt.Sprintf("%.2f", grid.Z(i, r)))
		}
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: texts})
	if err != nil {
		return false, fmt.Errorf("创建标注失败: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(labels)
	p.X.Tick.Marker = plot.ConstantTicks(xTicks)
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)
	p.X.Tick.Label.Rotation = math.Pi / 8
	p.X.Tick.Label.XAlign = draw.XRight

	bar := plot.New()
	bar.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true})
	bar.HideX()
	bar.Y.Padding = 0

	w, h := v.size()
	return false, savePNG(path, w, h, func(dc draw.Canvas) {
		barWidth := w / 8
		p.Draw(draw.Crop(dc, 0, -barWidth, 0, 0))
		bar.Draw(draw.Crop(dc, w-barWidth, 0, vg.Inch, -vg.Inch/2))
	})
}

// violin 各品种某列的小提琴图，内部画四分位线和中位数
func (v *Visualizer) violin(df dataframe.DataFrame, path string) (bool, error) {
	c := v.Columns
	if !utils.HasColumn(df, c.Species) || len(utils.PresentColumns(df, []string{c.PetalLength})) == 0 {
		return true, nil
	}
	groups := groupsOf(df, c.Species)
	if len(groups) == 0 {
		return false, fmt.Errorf("类别列没有取值")
	}

	p := plot.New()
	p.Title.Text = "Petal Length Distribution by Species"
	p.X.Label.Text = c.Species
	p.Y.Label.Text = c.PetalLength
	p.Add(plotter.NewGrid())

	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Label
		vals := values(df, c.PetalLength, g.Rows)
		if len(vals) == 0 {
			continue
		}
		outline, err := violinOutline(vals, float64(i))
		if err != nil {
			return false, err
		}
		outline.Color = colorAt(i, 200)
		p.Add(outline)

		sorted := append([]float64(nil), vals...)
		sort.Float64s(sorted)
		iqr, err := plotter.NewLine(plotter.XYs{
			{X: float64(i), Y: processor.Quantile(sorted, 0.25)},
			{X: float64(i), Y: processor.Quantile(sorted, 0.75)},
		})
		if err != nil {
			return false, err
		}
		iqr.Width = vg.Points(4)
		median, err := plotter.NewScatter(plotter.XYs{{X: float64(i), Y: processor.Quantile(sorted, 0.5)}})
		if err != nil {
			return false, err
		}
		median.GlyphStyle.Shape = draw.CircleGlyph{}
		median.GlyphStyle.Color = color.White
		p.Add(iqr, median)
	}
	p.NominalX(names...)
	return false, v.save(p, path, 1.5)
}

// violinOutline 以x为中心、左右对称的核密度轮廓
func violinOutline(vals []float64, x float64) (*plotter.Polygon, error) {
	curve := kdeCurve(vals, curvePoint)
	peak := 0.0
	for _, pt := range curve {
		peak = math.Max(peak, pt.Y)
	}
	if peak == 0 {
		return nil, fmt.Errorf("密度估计为0")
	}
	scale := violinWidth / peak

	ring := make(plotter.XYs, 0, 2*len(curve))
	for _, pt := range curve {
		ring = append(ring, plotter.XY{X: x + pt.Y*scale, Y: pt.X})
	}
	for i := len(curve) - 1; i >= 0; i-- {
		ring = append(ring, plotter.XY{X: x - curve[i].Y*scale, Y: curve[i].X})
	}
	poly, err := plotter.NewPolygon(ring)
	if err != nil {
		return nil, fmt.Errorf("创建轮廓失败: %w", err)
	}
	poly.LineStyle.Color = plotutil.Color(int(x))
	return poly, nil
}
