package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// 列角色键，DataConfig.Columns 的 key
const (
	SepalLength = "sepal_length"
	SepalWidth  = "sepal_width"
	PetalLength = "petal_length"
	PetalWidth  = "petal_width"
	Species     = "species"
	Date        = "date"
)

// Config 结构体定义了应用程序的配置结构
type Config struct {
	InputPath       string `json:"input_path"`       // 输入CSV/XLSX路径
	SheetName       string `json:"sheet_name"`       // 输入为xlsx时读取的工作表，空则取第一个
	OutputDir       string `json:"output_dir"`       // 图表输出目录
	LogName         string `json:"log_name"`         // 日志文件
	LogMaxSize      string `json:"log_max_size"`     // 例如 "10 * 1024 * 1024"
	ConsoleEncoding string `json:"console_encoding"` // 控制台输出编码 utf-8/gbk/gb18030
	HeadRows        int    `json:"head_rows"`        // 预览行数

	Report struct {
		Enabled   bool   `json:"enabled"`    // 是否生成xlsx报告
		FileName  string `json:"file_name"`  // 报告文件名(位于输出目录)
		ChartSize Size   `json:"chart_size"` // 图表尺寸，英寸
	} `json:"report"`
}

// DataConfig 列名映射：角色 -> CSV表头
type DataConfig struct {
	Columns map[string]string `json:"columns"`
}

var (
	once               sync.Once
	instance           *Config
	dataConfigInstance *DataConfig
	mu                 sync.RWMutex
)

// Default 返回内置默认配置，没有配置文件时使用
func Default() *Config {
	cfg := &Config{
		InputPath:       "iris_data.csv",
		OutputDir:       "output",
		LogName:         "app.log",
		LogMaxSize:      "10 * 1024 * 1024",
		ConsoleEncoding: "utf-8",
		HeadRows:        5,
	}
	cfg.Report.Enabled = true
	cfg.Report.FileName = "analysis_report.xlsx"
	cfg.Report.ChartSize = Size{Width: 8, Height: 6}
	return cfg
}

// DefaultDataConfig 返回与生成器一致的列名
func DefaultDataConfig() *DataConfig {
	return &DataConfig{
		Columns: map[string]string{
			SepalLength: "sepal length (cm)",
			SepalWidth:  "sepal width (cm)",
			PetalLength: "petal length (cm)",
			PetalWidth:  "petal width (cm)",
			Species:     "species",
			Date:        "date",
		},
	}
}

// LoadConfig 只加载一次；文件不存在时回退到默认值
func LoadConfig(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	var err error
	once.Do(func() {
		instance, dataConfigInstance, err = loadConfigs(jsonFolder, jsonFile, dataJsonFile)
	})
	return instance, dataConfigInstance, err
}

func loadConfigs(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	configFile := filepath.Join(jsonFolder, jsonFile)
	dataConfigFile := filepath.Join(jsonFolder, dataJsonFile)

	var errs []error

	cfg := Default()
	if data, err := readFile(configFile); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("读取配置文件失败: %w", err))
		}
	} else if err := parseConfig(data, cfg); err != nil {
		errs = append(errs, err)
	}

	dcfg := DefaultDataConfig()
	if data, err := readFile(dataConfigFile); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("读取数据配置文件失败: %w", err))
		}
	} else if err := parseDataConfig(data, dcfg); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return nil, nil, combineErrors(errs)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, dcfg, nil
}

func readFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("无法读取文件 %s: %w", filePath, err)
	}
	return data, nil
}

// parseConfig 覆盖在默认值之上，json中缺失的字段保持默认
func parseConfig(data []byte, cfg *Config) error {
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("解析Config失败: %w", err)
	}
	return nil
}

func parseDataConfig(data []byte, dcfg *DataConfig) error {
	var parsed DataConfig
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("解析DataConfig失败: %w", err)
	}
	for role, name := range parsed.Columns {
		if name != "" {
			dcfg.Columns[role] = name
		}
	}
	return nil
}

// Validate 检查配置项
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("input_path 不能为空")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir 不能为空")
	}
	if c.HeadRows < 0 {
		return fmt.Errorf("head_rows 不能为负数: %d", c.HeadRows)
	}
	if _, err := c.MaxLogBytes(); err != nil {
		return err
	}
	return nil
}

// MaxLogBytes 解析 "10 * 1024 * 1024" 形式的日志上限
func (c *Config) MaxLogBytes() (int64, error) {
	if strings.TrimSpace(c.LogMaxSize) == "" {
		return 0, nil
	}
	var result int64 = 1
	for _, part := range strings.Split(c.LogMaxSize, "*") {
		num, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("log_max_size 格式错误 %q: %w", c.LogMaxSize, err)
		}
		result *= num
	}
	return result, nil
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	msg := "配置加载遇到多个错误:"
	for _, err := range errs {
		msg = fmt.Sprintf("%s\n- %v", msg, err)
	}
	return fmt.Errorf("%s", msg)
}

// Size 图表尺寸(英寸)，json中写作 "8x6"
type Size struct {
	Width  float64
	Height float64
}

// UnmarshalJSON 实现json.Unmarshaler接口
func (s *Size) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	w, h, ok := strings.Cut(strings.ToLower(str), "x")
	if !ok {
		return fmt.Errorf("尺寸格式应为 宽x高: %q", str)
	}
	width, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
	if err != nil {
		return err
	}
	height, err := strconv.ParseFloat(strings.TrimSpace(h), 64)
	if err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("尺寸必须为正数: %q", str)
	}
	*s = Size{Width: width, Height: height}
	return nil
}

// MarshalJSON 实现json.Marshaler接口
func (s Size) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatFloat(s.Width, 'f', -1, 64) + "x" + strconv.FormatFloat(s.Height, 'f', -1, 64))
}

func (dc *DataConfig) GetColumn(role string) string {
	mu.RLock()
	defer mu.RUnlock()
	return dc.Columns[role]
}

func (dc *DataConfig) SetColumn(role, name string) {
	mu.Lock()
	defer mu.Unlock()
	dc.Columns[role] = name
}

// NumericColumns 四个测量列，按固定顺序
func (dc *DataConfig) NumericColumns() []string {
	return []string{
		dc.GetColumn(SepalLength),
		dc.GetColumn(SepalWidth),
		dc.GetColumn(PetalLength),
		dc.GetColumn(PetalWidth),
	}
}
