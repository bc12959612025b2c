package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"
)

// TestLoadConfig_Default 测试默认配置加载
func TestLoadConfig_Default(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig() 错误 = %v", err)
	}

	be.Equal(t, cfg.Module.Name, "untitled")
	be.Equal(t, cfg.Codegen.MainFunction, "main")
	be.True(t, cfg.Codegen.AbortOnFatal)
	be.Equal(t, cfg.Log.Verbosity, 0)
}

// TestLoadConfig_File 测试读取 kiwi.toml，缺省字段保留默认值
func TestLoadConfig_File(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[module]
name = "calc"
source_filename = "calc.kiwi"
target_triple = "x86_64-pc-linux-gnu"

[log]
verbosity = 2
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(tmpDir)
	be.Err(t, err, nil)
	be.Equal(t, cfg.Module.Name, "calc")
	be.Equal(t, cfg.Module.SourceFilename, "calc.kiwi")
	be.Equal(t, cfg.Module.TargetTriple, "x86_64-pc-linux-gnu")
	be.Equal(t, cfg.Codegen.MainFunction, "main")
	be.True(t, cfg.Codegen.AbortOnFatal)
	be.Equal(t, cfg.Log.Verbosity, 2)
}

// TestLoadConfig_Invalid 测试语法错误与非法取值
func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"语法错误", "[module\nname = 1"},
		{"负的日志级别", "[log]\nverbosity = -1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfig(tmpDir); err == nil {
				t.Error("期望错误，但没有错误")
			}
		})
	}
}

// TestSaveConfig 测试写入后可重新加载
func TestSaveConfig(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Module.Name = "loops"
	cfg.Codegen.AbortOnFatal = false

	be.Err(t, SaveConfig(tmpDir, cfg), nil)

	loaded, err := LoadConfig(tmpDir)
	be.Err(t, err, nil)
	be.Equal(t, loaded.Module.Name, "loops")
	be.Equal(t, loaded.Codegen.AbortOnFatal, false)

	be.Err(t, SaveConfig(tmpDir, nil))
}

// TestGetProjectRoot 测试项目根目录查找
func TestGetProjectRoot(t *testing.T) {
	tmpDir := t.TempDir()
	projectRoot := filepath.Join(tmpDir, "myproject")
	os.MkdirAll(projectRoot, 0755)
	os.WriteFile(filepath.Join(projectRoot, ConfigFileName), []byte("# test config"), 0644)

	root, err := GetProjectRoot(projectRoot)
	if err != nil {
		t.Fatalf("GetProjectRoot() 错误 = %v", err)
	}
	if root != projectRoot {
		t.Errorf("GetProjectRoot() = %q, 期望 %q", root, projectRoot)
	}

	// 从子目录查找
	subDir := filepath.Join(projectRoot, "src", "main")
	os.MkdirAll(subDir, 0755)

	root, err = GetProjectRoot(subDir)
	if err != nil {
		t.Fatalf("GetProjectRoot() 从子目录查找错误 = %v", err)
	}
	if root != projectRoot {
		t.Errorf("GetProjectRoot() 从子目录 = %q, 期望 %q", root, projectRoot)
	}

	// 找不到配置文件
	if _, err := GetProjectRoot(t.TempDir()); err == nil {
		t.Error("期望错误，但没有错误（找不到配置文件）")
	}
}
