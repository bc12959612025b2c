package services

import (
	"github.com/meetai/kiwi/internal/modules/backend/domain/services/generation"
	codegen "github.com/meetai/kiwi/internal/modules/backend/infrastructure/generation"
)

// Driver 驱动函数：按源程序顺序调用代码生成操作（通常由语法分析动作实现）
type Driver func(gen generation.CodeGenerator) error

// CompilationResult 一次编译的结果
type CompilationResult struct {
	UnitID      string
	IR          string
	Diagnostics []generation.Diagnostic
	Manifest    *codegen.BindingManifest
}

// IBackendService 后端服务接口
type IBackendService interface {
	// Compile 为新的编译单元运行驱动函数，返回文本IR与诊断
	Compile(driver Driver) (*CompilationResult, error)

	// NewUnit 创建独立的编译单元，由调用方自行驱动与收尾
	NewUnit() *codegen.Container
}
