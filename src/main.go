package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"IrisExplorer/src/chart"
	"IrisExplorer/src/config"
	"IrisExplorer/src/datapush"
	"IrisExplorer/src/datasource/file"
	"IrisExplorer/src/processor"
	"IrisExplorer/src/storage"
	"IrisExplorer/src/utils"
)

// 退出码
const (
	exitOK      = 0
	exitInput   = 1 // 输入文件缺失/无法解析，或配置错误
	exitPartial = 2 // 部分图表或报告生成失败
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("iris-explorer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	jsonFolder := fs.String("config", "./config", "配置目录，包含config.json和dataconfig.json")
	input := fs.String("input", "", "输入CSV/XLSX路径，覆盖配置")
	output := fs.String("output", "", "图表输出目录，覆盖配置")
	logName := fs.String("log", "", "日志文件，覆盖配置")
	if err := fs.Parse(args); err != nil {
		return exitInput
	}

	loaded, dcfg, err := config.LoadConfig(*jsonFolder, "config.json", "dataconfig.json")
	if err != nil {
		fmt.Fprintln(stderr, "加载配置失败:", err)
		return exitInput
	}
	cfg := *loaded
	if *input != "" {
		cfg.InputPath = *input
	}
	if *output != "" {
		cfg.OutputDir = *output
	}
	if *logName != "" {
		cfg.LogName = *logName
	}

	out, err := utils.ConsoleWriter(stdout, cfg.ConsoleEncoding)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitInput
	}
	defer out.Close()
	errOut, err := utils.ConsoleWriter(stderr, cfg.ConsoleEncoding)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitInput
	}
	defer errOut.Close()

	// 初始化日志系统
	logger, err := storage.NewLogger(cfg.LogName, errOut)
	if err != nil {
		fmt.Fprintln(errOut, "初始化日志失败:", err)
		return exitInput
	}
	defer logger.Close()
	if maxBytes, _ := cfg.MaxLogBytes(); maxBytes > 0 {
		if err := logger.CheckRotate(maxBytes); err != nil {
			logger.Warning("日志轮转失败: " + err.Error())
		}
	}

	return analyze(&cfg, dcfg, logger, out, errOut)
}

func analyze(cfg *config.Config, dcfg *config.DataConfig, logger *storage.Logger, out, errOut io.Writer) int {
	species := dcfg.GetColumn(config.Species)
	date := dcfg.GetColumn(config.Date)

	logger.Infof("开始分析: %s", cfg.InputPath)
	df, err := file.Load(cfg.InputPath, cfg.SheetName)
	if err != nil {
		if errors.Is(err, file.ErrInputNotFound) {
			fmt.Fprintf(errOut, "找不到输入文件 '%s'，请先运行数据生成程序\n", cfg.InputPath)
		} else {
			fmt.Fprintf(errOut, "无法解析输入文件 '%s': %v\n", cfg.InputPath, err)
		}
		logger.Error(err.Error())
		return exitInput
	}

	df, exploreReport := processor.ExploreHead(out, df, cfg.HeadRows, date)
	if len(exploreReport.Imputed) > 0 {
		logger.Infof("已填充缺失值的列: %d", len(exploreReport.Imputed))
	}

	analysis, err := processor.Analyze(out, df, species)
	if err != nil {
		fmt.Fprintln(errOut, "分析失败:", err)
		logger.Error(err.Error())
		return exitInput
	}

	dp := processor.NewDataProcessor(df, species, date)
	if metrics, err := dp.CalculateMetrics(); err != nil {
		logger.Warning("计算汇总指标失败: " + err.Error())
	} else {
		logger.Infof("数据指标: 行数=%v 品种数=%v 日期=%v~%v", metrics["rows"], metrics["species_count"], metrics["first_date"], metrics["last_date"])
	}

	v := &chart.Visualizer{
		OutputDir: cfg.OutputDir,
		Columns:   chart.ColumnsFromConfig(dcfg),
		Size:      cfg.Report.ChartSize,
		Logger:    logger,
	}
	rendered := v.Render(df)
	code := exitOK
	if !rendered.OK() {
		code = exitPartial
	}

	if cfg.Report.Enabled {
		if err := pushReport(cfg, species, analysis, rendered); err != nil {
			logger.Errorf("生成分析报告失败: %v", err)
			code = exitPartial
		} else {
			logger.Infof("分析报告已保存: %s", filepath.Join(cfg.OutputDir, cfg.Report.FileName))
		}
	}

	fmt.Fprintf(out, "\n分析完成：生成 %d 张图表，跳过 %d 张，失败 %d 张，输出目录 '%s'\n",
		len(rendered.Written), len(rendered.Skipped), len(rendered.Failed), cfg.OutputDir)
	return code
}

// pushReport 把描述统计、分组均值和图表写入xlsx
func pushReport(cfg *config.Config, species string, analysis processor.AnalysisReport, rendered chart.RenderReport) error {
	report := datapush.NewWorkbookReport(filepath.Join(cfg.OutputDir, cfg.Report.FileName))
	if len(analysis.Summary) > 0 {
		report.AddFrame("describe", processor.SummaryFrame(analysis.Summary))
	}
	if len(analysis.GroupMeans) > 0 {
		report.AddFrame("species_means", processor.GroupMeansFrame(species, analysis.GroupMeans, analysis.Columns))
	}
	for _, c := range rendered.Written {
		report.AddChart(c.Title, c.Path)
	}
	return report.Push()
}
