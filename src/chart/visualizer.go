// visualizer.go
package chart

import (
	"fmt"
	"os"
	"path/filepath"

	"IrisExplorer/src/config"
	"IrisExplorer/src/storage"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// 输出文件名
const (
	TrendFile     = "trend_line_chart.png"
	AverageFile   = "average_by_species_bar.png"
	HistogramFile = "distribution_histogram.png"
	ScatterFile   = "scatter_plot.png"
	PairplotFile  = "iris_pairplot.png"
	BoxplotFile   = "iris_boxplot.png"
	HeatmapFile   = "iris_heatmap.png"
	ViolinFile    = "iris_violinplot.png"
)

// Columns 图表用到的列名
type Columns struct {
	SepalLength string
	SepalWidth  string
	PetalLength string
	PetalWidth  string
	Species     string
	Date        string
}

// ColumnsFromConfig 从列映射配置得到列名
func ColumnsFromConfig(dc *config.DataConfig) Columns {
	return Columns{
		SepalLength: dc.GetColumn(config.SepalLength),
		SepalWidth:  dc.GetColumn(config.SepalWidth),
		PetalLength: dc.GetColumn(config.PetalLength),
		PetalWidth:  dc.GetColumn(config.PetalWidth),
		Species:     dc.GetColumn(config.Species),
		Date:        dc.GetColumn(config.Date),
	}
}

// Measurements 四个测量列
func (c Columns) Measurements() []string {
	return []string{c.SepalLength, c.SepalWidth, c.PetalLength, c.PetalWidth}
}

// Visualizer 把数据渲染成一组PNG
type Visualizer struct {
	OutputDir string
	Columns   Columns
	Size      config.Size // 单张图尺寸，英寸；零值时用默认
	Logger    *storage.Logger
}

// Chart 一张图的渲染结果
type Chart struct {
	Name  string
	Title string
	Path  string
}

// RenderReport 渲染汇总
type RenderReport struct {
	Written []Chart
	Skipped []string
	Failed  map[string]error
}

// OK 没有失败的图表
func (r RenderReport) OK() bool {
	return len(r.Failed) == 0
}

// chartUnit 每张图独立渲染，互不影响
type chartUnit struct {
	name   string
	title  string
	file   string
	render func(df dataframe.DataFrame, path string) (skipped bool, err error)
}

func (v *Visualizer) units() []chartUnit {
	return []chartUnit{
		{"trend", "Petal Length Over Time", TrendFile, v.trendLine},
		{"average", "Average Petal Length by Species", AverageFile, v.averageBar},
		{"distribution", "Sepal Length Distribution", HistogramFile, v.histogram},
		{"scatter", "Sepal Length vs Petal Length", ScatterFile, v.scatter},
		{"pairplot", "Iris Dataset - Pairplot", PairplotFile, v.pairplot},
		{"boxplot", "Feature Distribution", BoxplotFile, v.boxplot},
		{"heatmap", "Correlation Heatmap", HeatmapFile, v.heatmap},
		{"violin", "Petal Length Distribution by Species", ViolinFile, v.violin},
	}
}

// Render 依次渲染所有图表；缺列的图表静默跳过，失败的记录下来后继续
func (v *Visualizer) Render(df dataframe.DataFrame) RenderReport {
	report := RenderReport{Failed: make(map[string]error)}

	if err := os.MkdirAll(v.OutputDir, 0755); err != nil {
		err = fmt.Errorf("创建输出目录失败 %s: %w", v.OutputDir, err)
		for _, u := range v.units() {
			report.Failed[u.name] = err
		}
		v.errorf("%v", err)
		return report
	}

	for _, u := range v.units() {
		path := filepath.Join(v.OutputDir, u.file)
		skipped, err := v.run(u, df, path)
		switch {
		case err != nil:
			report.Failed[u.name] = err
			v.errorf("生成图表 %s 失败: %v", u.name, err)
		case skipped:
			report.Skipped = append(report.Skipped, u.name)
			v.debugf("图表 %s 缺少所需列，跳过", u.name)
		default:
			report.Written = append(report.Written, Chart{Name: u.name, Title: u.title, Path: path})
			v.infof("图表已保存: %s", path)
		}
	}
	return report
}

// run 单张图的作用域，绘图库的panic也按失败处理
func (v *Visualizer) run(u chartUnit, df dataframe.DataFrame, path string) (skipped bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			skipped = false
			err = fmt.Errorf("绘图异常: %v", r)
		}
	}()
	return u.render(df, path)
}

func (v *Visualizer) size() (vg.Length, vg.Length) {
	w, h := v.Size.Width, v.Size.Height
	if w <= 0 || h <= 0 {
		w, h = 8, 6
	}
	return vg.Length(w) * vg.Inch, vg.Length(h) * vg.Inch
}

// save 按配置尺寸写出，Save内部会关闭文件
func (v *Visualizer) save(p *plot.Plot, path string, widthScale float64) error {
	w, h := v.size()
	if err := p.Save(vg.Length(widthScale)*w, h, path); err != nil {
		return fmt.Errorf("保存图片失败 %s: %w", path, err)
	}
	return nil
}

func (v *Visualizer) infof(format string, args ...any) {
	if v.Logger != nil {
		v.Logger.Infof(format, args...)
	}
}

func (v *Visualizer) debugf(format string, args ...any) {
	if v.Logger != nil {
		v.Logger.Debug(fmt.Sprintf(format, args...))
	}
}

func (v *Visualizer) errorf(format string, args ...any) {
	if v.Logger != nil {
		v.Logger.Errorf(format, args...)
	}
}
