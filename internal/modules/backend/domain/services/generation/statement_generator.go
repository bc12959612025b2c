package generation

import "io"

// StatementGenerator 语句生成领域服务接口
// 职责：打印语句与返回语句的代码生成
type StatementGenerator interface {
	// 生成打印浮点数语句 printf("%f\n", v)
	PrintNumber(irManager IRModuleManager, value interface{}) error

	// 生成打印整数语句 printf("%d\n", v)
	PrintInt(irManager IRModuleManager, value interface{}) error

	// 生成打印字符串语句 printf("%s\n", s)
	PrintString(irManager IRModuleManager, str string) error

	// 生成返回语句，按当前函数的返回类型选择 ret void / ret double / ret i32
	Return(irManager IRModuleManager, value interface{}) error

	// 获取生成统计信息
	GetGenerationStats() *StatementGenerationStats
}

// StatementGenerationStats 生成统计信息
type StatementGenerationStats struct {
	TotalStatements       int
	SuccessfulGenerations int
	FailedGenerations     int
}

// IRModuleManager LLVM IR模块管理领域服务接口（后端适配器）
// 职责：持有并发放所有指令、基本块、存储槽句柄；其余组件只保存这些不透明句柄
type IRModuleManager interface {
	// 函数管理
	CreateFunction(name string, returnType interface{}, paramTypes []interface{}) (interface{}, error)
	GetFunction(name string) (interface{}, bool)
	GetFunctionParams(fn interface{}) ([]interface{}, error)
	GetCurrentFunction() interface{}
	GetCurrentFunctionName() string // 当前函数名，用于判断是否在 main 中（顶层变量属于全局作用域）
	SetCurrentFunction(fn interface{}) error
	GetMainFunction() interface{}

	// 基本块管理
	CreateBasicBlock(name string) (interface{}, error)
	GetEntryBlock(fn interface{}) (interface{}, error)
	GetCurrentBasicBlock() interface{}
	SetCurrentBasicBlock(block interface{}) error
	IsTerminated(block interface{}) bool
	BlockFunction(block interface{}) interface{}

	// 存储槽
	CreateAlloca(typ interface{}, name string) (interface{}, error)
	// CreateEntryAlloca 在当前函数入口块顶部分配存储槽，并紧随其后存入初始值
	CreateEntryAlloca(typ interface{}, name string, init interface{}) (interface{}, error)
	CreateStore(value interface{}, ptr interface{}) error
	CreateLoad(typ interface{}, ptr interface{}, name string) (interface{}, error)

	// 常量
	CreateFloatConstant(v float64) interface{}
	CreateIntConstant(v int64) interface{}
	CreateZeroValue(typ interface{}) (interface{}, error)

	// 指令生成；当前块已终止时先新开不可达块再写入
	CreateBinaryOp(op string, left interface{}, right interface{}, name string) (interface{}, error)
	CreateComparison(op string, left interface{}, right interface{}, name string) (interface{}, error)
	CreateCall(fn interface{}, args ...interface{}) (interface{}, error)
	// CreateRet 按当前函数返回类型生成 ret（void 函数或 value 为 nil 时分别为 ret void / 零值）
	CreateRet(value interface{}) error
	CreateGetElementPtr(elemType interface{}, ptr interface{}, indices ...interface{}) (interface{}, error)
	CreateBr(dest interface{}) error
	CreateCondBr(cond interface{}, trueDest interface{}, falseDest interface{}) error

	// 运行时格式化打印（固定符号 printf）
	CreatePrintf(format string, args ...interface{}) (interface{}, error)
	AddStringConstant(content string) (interface{}, error)

	// 初始化主函数
	InitializeMainFunction() error

	// 完成IR构建
	Finalize() error

	// 验证IR模块完整性
	Validate() error

	// 获取文本形式的IR；未终止的块以 unreachable 占位，不会 panic
	GetIRString() string
	WriteTo(w io.Writer) (int64, error)
}
