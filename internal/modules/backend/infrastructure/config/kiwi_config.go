// Package config 实现 kiwi.toml 配置文件解析
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// ConfigFileName 配置文件名
const ConfigFileName = "kiwi.toml"

// KiwiConfig Kiwi 项目配置
type KiwiConfig struct {
	Module  ModuleConfig  `toml:"module"`
	Codegen CodegenConfig `toml:"codegen"`
	Log     LogConfig     `toml:"log"`
}

// ModuleConfig 生成的IR模块属性
type ModuleConfig struct {
	Name           string `toml:"name"`
	SourceFilename string `toml:"source_filename"`
	TargetTriple   string `toml:"target_triple"`
	DataLayout     string `toml:"data_layout"`
}

// CodegenConfig 代码生成选项
type CodegenConfig struct {
	MainFunction string `toml:"main_function"`
	AbortOnFatal bool   `toml:"abort_on_fatal"`
}

// LogConfig 诊断日志选项
type LogConfig struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// DefaultConfig 默认配置
func DefaultConfig() *KiwiConfig {
	return &KiwiConfig{
		Module: ModuleConfig{
			Name: "untitled",
		},
		Codegen: CodegenConfig{
			MainFunction: "main",
			AbortOnFatal: true,
		},
	}
}

// LoadConfig 加载配置文件，不存在时返回默认配置
// 文件中缺省的字段保留默认值
func LoadConfig(projectRoot string) (*KiwiConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filepath.Join(projectRoot, ConfigFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Codegen.MainFunction == "" {
		cfg.Codegen.MainFunction = "main"
	}
	if cfg.Log.Verbosity < 0 {
		return nil, fmt.Errorf("invalid log verbosity %d", cfg.Log.Verbosity)
	}
	return cfg, nil
}

// SaveConfig 将配置写入项目根目录
func SaveConfig(projectRoot string, cfg *KiwiConfig) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(projectRoot, ConfigFileName), data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ApplyLogging 按配置设置 commonlog 的输出级别与目标文件
func (c *KiwiConfig) ApplyLogging() {
	if c.Log.File == "" {
		commonlog.Configure(c.Log.Verbosity, nil)
		return
	}
	path := c.Log.File
	commonlog.Configure(c.Log.Verbosity, &path)
}

// GetProjectRoot 获取项目根目录
// 从 startDir 向上查找包含 kiwi.toml 的目录
func GetProjectRoot(startDir string) (string, error) {
	current := startDir
	for {
		if _, err := os.Stat(filepath.Join(current, ConfigFileName)); err == nil {
			return current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			// 已经到达根目录
			break
		}
		current = parent
	}

	return "", fmt.Errorf("project root not found (no %s found)", ConfigFileName)
}
