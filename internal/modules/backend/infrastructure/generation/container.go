package generation

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/meetai/kiwi/internal/modules/backend/domain/services/generation"
	"github.com/meetai/kiwi/internal/modules/backend/infrastructure/generation/impl"
)

// ContainerOptions 编译单元选项
type ContainerOptions struct {
	ModuleName     string
	SourceFilename string
	TargetTriple   string
	DataLayout     string
	MainFunction   string
}

// Container 编译单元容器
// 职责：组装并持有一次编译的全部领域服务与簿记表，多个容器互不共享状态
type Container struct {
	id         string
	moduleName string

	irModuleManager      *impl.IRModuleManagerImpl
	symbolManager        *impl.SymbolManagerImpl
	functionRegistry     *impl.FunctionRegistryImpl
	arrayManager         *impl.ArrayManagerImpl
	expressionEvaluator  *impl.ExpressionEvaluatorImpl
	controlFlowGenerator *impl.ControlFlowGeneratorImpl
	statementGenerator   *impl.StatementGeneratorImpl
	typeMapper           *impl.TypeMapperImpl
	reporter             *impl.DiagnosticReporterImpl
}

var _ generation.CodeGenerator = (*Container)(nil)

// NewContainer 创建编译单元容器
func NewContainer(opts ContainerOptions) *Container {
	id := uuid.NewString()

	mainName := opts.MainFunction
	if mainName == "" {
		mainName = impl.DefaultMainFunction
	}

	// 创建基础设施层实现
	reporter := impl.NewDiagnosticReporterImpl(id)
	typeMapperImpl := impl.NewTypeMapperImpl()
	irModuleManagerImpl := impl.NewIRModuleManagerImpl(impl.ModuleOptions{
		SourceFilename: opts.SourceFilename,
		TargetTriple:   opts.TargetTriple,
		DataLayout:     opts.DataLayout,
		MainFunction:   mainName,
	})
	symbolManagerImpl := impl.NewSymbolManagerImpl(typeMapperImpl, reporter, mainName)

	return &Container{
		id:                   id,
		moduleName:           opts.ModuleName,
		irModuleManager:      irModuleManagerImpl,
		symbolManager:        symbolManagerImpl,
		functionRegistry:     impl.NewFunctionRegistryImpl(symbolManagerImpl, typeMapperImpl, reporter),
		arrayManager:         impl.NewArrayManagerImpl(symbolManagerImpl, typeMapperImpl, reporter),
		expressionEvaluator:  impl.NewExpressionEvaluatorImpl(symbolManagerImpl, typeMapperImpl, reporter),
		controlFlowGenerator: impl.NewControlFlowGeneratorImpl(reporter),
		statementGenerator:   impl.NewStatementGeneratorImpl(reporter),
		typeMapper:           typeMapperImpl,
		reporter:             reporter,
	}
}

// ID 编译单元ID
func (c *Container) ID() string {
	return c.id
}

// ModuleName 模块名
func (c *Container) ModuleName() string {
	return c.moduleName
}

// IRModuleManager 获取IR模块管理器
func (c *Container) IRModuleManager() generation.IRModuleManager {
	return c.irModuleManager
}

// SymbolManager 获取符号管理器
func (c *Container) SymbolManager() generation.SymbolManager {
	return c.symbolManager
}

// FunctionRegistry 获取函数注册表
func (c *Container) FunctionRegistry() generation.FunctionRegistry {
	return c.functionRegistry
}

// ArrayManager 获取数组管理器
func (c *Container) ArrayManager() generation.ArrayManager {
	return c.arrayManager
}

// ExpressionEvaluator 获取表达式求值器
func (c *Container) ExpressionEvaluator() generation.ExpressionEvaluator {
	return c.expressionEvaluator
}

// ControlFlowGenerator 获取控制流生成器
func (c *Container) ControlFlowGenerator() generation.ControlFlowGenerator {
	return c.controlFlowGenerator
}

// StatementGenerator 获取语句生成器
func (c *Container) StatementGenerator() generation.StatementGenerator {
	return c.statementGenerator
}

// TypeMapper 获取类型映射器
func (c *Container) TypeMapper() generation.TypeMapper {
	return c.typeMapper
}

// Diagnostics 获取诊断报告器
func (c *Container) Diagnostics() generation.DiagnosticReporter {
	return c.reporter
}

// Begin 初始化主函数，之后的声明都落在全局作用域
func (c *Container) Begin() error {
	if err := c.irModuleManager.InitializeMainFunction(); err != nil {
		return c.reporter.Report(generation.WrapBackendError("main", err))
	}
	return nil
}

// Finalize 补齐终止指令并验证模块
func (c *Container) Finalize() error {
	if depth := c.controlFlowGenerator.Depth(); depth != 0 {
		return c.reporter.Report(generation.NewCodegenError(generation.ControlFlowMismatch, "",
			"%d control construct(s) not closed", depth))
	}
	if err := c.irModuleManager.Finalize(); err != nil {
		return c.reporter.Report(generation.WrapBackendError("finalize", err))
	}
	if err := c.irModuleManager.Validate(); err != nil {
		return c.reporter.Report(generation.WrapBackendError("validate", fmt.Errorf("invalid module: %w", err)))
	}
	return nil
}

// GetIRString 获取文本形式的IR
func (c *Container) GetIRString() string {
	return c.irModuleManager.GetIRString()
}

// WriteIR 把文本形式的IR写入 w
func (c *Container) WriteIR(w io.Writer) error {
	if _, err := c.irModuleManager.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write IR: %w", err)
	}
	return nil
}
