package chart

import (
	"fmt"
	"math"

	"IrisExplorer/src/utils"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

const (
	histBins   = 20
	curvePoint = 200
)

// trendLine 按日期排序的折线，每个品种一条，带标记点
func (v *Visualizer) trendLine(df dataframe.DataFrame, path string) (bool, error) {
	c := v.Columns
	if !utils.HasColumn(df, c.Date) || len(utils.PresentColumns(df, []string{c.PetalLength})) == 0 {
		return true, nil
	}

	p := plot.New()
	p.Title.Text = "Petal Length Over Time"
	p.X.Label.Text = "Date"
	p.Y.Label.Text = c.PetalLength
	p.X.Tick.Marker = plot.TimeTicks{Format: utils.DateLayout}
	p.Add(plotter.NewGrid())

	lens := df.Col(c.PetalLength).Float()
	drawn := 0
	for i, g := range groupsOf(df, c.Species) {
		rows, ts := byDate(df, c.Date, g.Rows)
		pts := make(plotter.XYs, 0, len(rows))
		for j, r := range rows {
			if y := lens[r]; !math.IsNaN(y) {
				pts = append(pts, plotter.XY{X: ts[j], Y: y})
			}
		}
		if len(pts) == 0 {
			continue
		}
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return false, fmt.Errorf("创建折线失败: %w", err)
		}
		line.Color = plotutil.Color(i)
		points.Color = plotutil.Color(i)
		points.Shape = plotutil.Shape(i)
		points.Radius = vg.Points(2)
		p.Add(line, points)
		if g.Label != "" {
			p.Legend.Add(g.legendName(), line, points)
		}
		drawn++
	}
	if drawn == 0 {
		return false, fmt.Errorf("没有可用的日期/数值")
	}
	p.Legend.Top = true
	return false, v.save(p, path, 1.5)
}

// averageBar 各品种某列的均值柱状图
func (v *Visualizer) averageBar(df dataframe.DataFrame, path string) (bool, error) {
	c := v.Columns
	if !utils.HasColumn(df, c.Species) || len(utils.PresentColumns(df, []string{c.PetalLength})) == 0 {
		return true, nil
	}

	groups := groupsOf(df, c.Species)
	if len(groups) == 0 {
		return false, fmt.Errorf("类别列没有取值")
	}
	means := make(plotter.Values, len(groups))
	names := make([]string, len(groups))
	for i, g := range groups {
		vals := values(df, c.PetalLength, g.Rows)
		if len(vals) > 0 {
			means[i] = stat.Mean(vals, nil)
		}
		names[i] = g.Label
	}

	p := plot.New()
	p.Title.Text = "Average Petal Length by Species"
	p.X.Label.Text = c.Species
	p.Y.Label.Text = "Average " + c.PetalLength

	bars, err := plotter.NewBarChart(means, vg.Points(40))
	if err != nil {
		return false, fmt.Errorf("创建柱状图失败: %w", err)
	}
	bars.Color = plotutil.Color(0)
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)

	labels := make([]string, len(means))
	pts := make(plotter.XYs, len(means))
	for i, m := range means {
		labels[i] = fmt.Sprintf("%.2f", m)
		pts[i] = plotter.XY{X: float64(i), Y: m}
	}
	valueLabels, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: labels})
	if err != nil {
		return false, fmt.Errorf("创建标签失败: %w", err)
	}
	valueLabels.Offset = vg.Point{X: -vg.Points(8), Y: vg.Points(3)}
	p.Add(valueLabels)
	p.Y.Min = 0
	p.Y.Max *= 1.1
	return false, v.save(p, path, 1)
}

// histogram 直方图叠加核密度曲线，有品种列时按品种着色
func (v *Visualizer) histogram(df dataframe.DataFrame, path string) (bool, error) {
	c := v.Columns
	if len(utils.PresentColumns(df, []string{c.SepalLength})) == 0 {
		return true, nil
	}

	p := plot.New()
	p.Title.Text = "Sepal Length Distribution"
	p.X.Label.Text = c.SepalLength
	p.Y.Label.Text = "Density"

	drawn := 0
	for i, g := range groupsOf(df, c.Species) {
		vals := values(df, c.SepalLength, g.Rows)
		if len(vals) == 0 {
			continue
		}
		hist, err := plotter.NewHist(vals, histBins)
		if err != nil {
			return false, fmt.Errorf("创建直方图失败: %w", err)
		}
		hist.Normalize(1)
		hist.FillColor = colorAt(i, 110)
		hist.LineStyle.Color = colorAt(i, 255)
		p.Add(hist)

		curve, err := plotter.NewLine(kdeCurve(vals, curvePoint))
		if err != nil {
			return false, fmt.Errorf("创建密度曲线失败: %w", err)
		}
		curve.Color = plotutil.Color(i)
		curve.Width = vg.Points(2)
		p.Add(curve)
		if g.Label != "" {
			p.Legend.Add(g.legendName(), hist, curve)
		}
		drawn++
	}
	if drawn == 0 {
		return false, fmt.Errorf("%s 没有有效数值", c.SepalLength)
	}
	p.Legend.Top = true
	return false, v.save(p, path, 1)
}

// scatter 两列散点图，有品种列时按品种区分颜色和形状
func (v *Visualizer) scatter(df dataframe.DataFrame, path string) (bool, error) {
	c := v.Columns
	if len(utils.PresentColumns(df, []string{c.SepalLength, c.PetalLength})) < 2 {
		return true, nil
	}

	p := plot.New()
	p.Title.Text = "Sepal Length vs Petal Length"
	p.X.Label.Text = c.SepalLength
	p.Y.Label.Text = c.PetalLength
	p.Add(plotter.NewGrid())

	drawn := 0
	for i, g := range groupsOf(df, c.Species) {
		pts := xys(df, c.SepalLength, c.PetalLength, g.Rows)
		if len(pts) == 0 {
			continue
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return false, fmt.Errorf("创建散点失败: %w", err)
		}
		s.GlyphStyle.Radius = vg.Points(3)
		if g.Label != "" {
			s.GlyphStyle.Color = plotutil.Color(i)
			s.GlyphStyle.Shape = plotutil.Shape(i)
			p.Legend.Add(g.legendName(), s)
		}
		p.Add(s)
		drawn++
	}
	if drawn == 0 {
		return false, fmt.Errorf("%s/%s 没有成对的有效数值", c.SepalLength, c.PetalLength)
	}
	p.Legend.Top = true
	p.Legend.Left = true
	return false, v.save(p, path, 1)
}
