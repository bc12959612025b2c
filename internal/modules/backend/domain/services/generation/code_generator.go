package generation

// CodeGenerator 编译单元：持有一次编译的全部簿记表
// 职责：为外部驱动（语法分析动作）提供各子服务，多个编译单元互不影响
type CodeGenerator interface {
	// 编译单元ID
	ID() string

	// 获取IR模块管理器（后端适配器）
	IRModuleManager() IRModuleManager

	// 获取符号管理器
	SymbolManager() SymbolManager

	// 获取函数注册表
	FunctionRegistry() FunctionRegistry

	// 获取数组管理器
	ArrayManager() ArrayManager

	// 获取表达式求值器
	ExpressionEvaluator() ExpressionEvaluator

	// 获取控制流生成器
	ControlFlowGenerator() ControlFlowGenerator

	// 获取语句生成器
	StatementGenerator() StatementGenerator

	// 获取类型映射器
	TypeMapper() TypeMapper

	// 获取诊断报告器
	Diagnostics() DiagnosticReporter
}
