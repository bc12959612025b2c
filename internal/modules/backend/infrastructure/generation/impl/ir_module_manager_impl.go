package impl

import (
	"fmt"
	"io"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	llvalue "github.com/llir/llvm/ir/value"
)

// DefaultMainFunction 默认主函数名
const DefaultMainFunction = "main"

// printfSymbol 运行时格式化打印函数符号
const printfSymbol = "printf"

// ModuleOptions IR模块选项
type ModuleOptions struct {
	SourceFilename string
	TargetTriple   string
	DataLayout     string
	MainFunction   string
}

// IRModuleManagerImpl LLVM IR模块管理器实现
type IRModuleManagerImpl struct {
	module       *ir.Module
	mainName     string
	mainFunc     *ir.Func
	currentFunc  *ir.Func
	currentBlock *ir.Block
	printfFunc   *ir.Func
	stringCount  int // 字符串常量计数器
	deadCount    int // 终止块之后新开的不可达块计数器

	// 每个函数独立的变量名计数器，用于生成唯一的LLVM IR变量名
	variableCounters map[*ir.Func]map[string]int
	// 入口块中已提升的 alloca/初始化 store 的数量
	entryHoisted map[*ir.Block]int
}

// NewIRModuleManagerImpl 创建IR模块管理器实现
func NewIRModuleManagerImpl(opts ModuleOptions) *IRModuleManagerImpl {
	module := ir.NewModule()
	module.SourceFilename = opts.SourceFilename
	module.TargetTriple = opts.TargetTriple
	module.DataLayout = opts.DataLayout

	mainName := opts.MainFunction
	if mainName == "" {
		mainName = DefaultMainFunction
	}

	return &IRModuleManagerImpl{
		module:           module,
		mainName:         mainName,
		variableCounters: make(map[*ir.Func]map[string]int),
		entryHoisted:     make(map[*ir.Block]int),
	}
}

// Module 返回底层 llir 模块
func (m *IRModuleManagerImpl) Module() *ir.Module {
	return m.module
}

// InitializeMainFunction 初始化主函数 i32 main()，并设为当前函数（全局作用域）
func (m *IRModuleManagerImpl) InitializeMainFunction() error {
	if m.mainFunc != nil {
		return nil
	}
	if m.findFunction(m.mainName) != nil {
		return fmt.Errorf("function %s already defined in module", m.mainName)
	}

	m.mainFunc = m.module.NewFunc(m.mainName, types.I32)
	m.currentFunc = m.mainFunc
	m.currentBlock = m.mainFunc.NewBlock("entry")
	return nil
}

// GetMainFunction 获取主函数
func (m *IRModuleManagerImpl) GetMainFunction() interface{} {
	if m.mainFunc == nil {
		return nil
	}
	return m.mainFunc
}

// CreateFunction 创建函数，每个参数命名为 paramN
func (m *IRModuleManagerImpl) CreateFunction(name string, returnType interface{}, paramTypes []interface{}) (interface{}, error) {
	if m.findFunction(name) != nil {
		return nil, fmt.Errorf("function %s already defined in module", name)
	}

	llvmReturnType, ok := returnType.(types.Type)
	if !ok {
		return nil, fmt.Errorf("invalid return type for function %s: %T", name, returnType)
	}

	params := make([]*ir.Param, 0, len(paramTypes))
	for i, pt := range paramTypes {
		paramType, ok := pt.(types.Type)
		if !ok {
			return nil, fmt.Errorf("invalid type for parameter %d of %s: %T", i, name, pt)
		}
		params = append(params, ir.NewParam(fmt.Sprintf("param%d", i), paramType))
	}

	return m.module.NewFunc(name, llvmReturnType, params...), nil
}

// GetFunction 获取模块中的函数
func (m *IRModuleManagerImpl) GetFunction(name string) (interface{}, bool) {
	fn := m.findFunction(name)
	if fn == nil {
		return nil, false
	}
	return fn, true
}

// GetFunctionParams 获取函数的形参句柄
func (m *IRModuleManagerImpl) GetFunctionParams(fn interface{}) ([]interface{}, error) {
	llvmFunc, ok := fn.(*ir.Func)
	if !ok {
		return nil, fmt.Errorf("invalid function type: %T", fn)
	}
	params := make([]interface{}, len(llvmFunc.Params))
	for i, p := range llvmFunc.Params {
		params[i] = p
	}
	return params, nil
}

// GetCurrentFunction 获取当前函数
func (m *IRModuleManagerImpl) GetCurrentFunction() interface{} {
	if m.currentFunc == nil {
		return nil
	}
	return m.currentFunc
}

// GetCurrentFunctionName 当前函数名
func (m *IRModuleManagerImpl) GetCurrentFunctionName() string {
	if m.currentFunc == nil {
		return ""
	}
	return m.currentFunc.Name()
}

// SetCurrentFunction 设置当前函数
func (m *IRModuleManagerImpl) SetCurrentFunction(fn interface{}) error {
	if llvmFunc, ok := fn.(*ir.Func); ok {
		m.currentFunc = llvmFunc
		return nil
	}
	return fmt.Errorf("invalid function type")
}

// CreateBasicBlock 在当前函数中创建基本块
func (m *IRModuleManagerImpl) CreateBasicBlock(name string) (interface{}, error) {
	if m.currentFunc == nil {
		return nil, fmt.Errorf("no current function set")
	}
	return m.currentFunc.NewBlock(name), nil
}

// GetEntryBlock 获取函数入口块
func (m *IRModuleManagerImpl) GetEntryBlock(fn interface{}) (interface{}, error) {
	llvmFunc, ok := fn.(*ir.Func)
	if !ok {
		return nil, fmt.Errorf("invalid function type: %T", fn)
	}
	if len(llvmFunc.Blocks) == 0 {
		return nil, fmt.Errorf("function %s has no entry block", llvmFunc.Name())
	}
	return llvmFunc.Blocks[0], nil
}

// GetCurrentBasicBlock 获取当前基本块
func (m *IRModuleManagerImpl) GetCurrentBasicBlock() interface{} {
	if m.currentBlock == nil {
		return nil
	}
	return m.currentBlock
}

// SetCurrentBasicBlock 设置当前基本块（插入点）
func (m *IRModuleManagerImpl) SetCurrentBasicBlock(block interface{}) error {
	if llvmBlock, ok := block.(*ir.Block); ok {
		m.currentBlock = llvmBlock
		return nil
	}
	return fmt.Errorf("invalid block type")
}

// IsTerminated 基本块是否已有终止指令
func (m *IRModuleManagerImpl) IsTerminated(block interface{}) bool {
	llvmBlock, ok := block.(*ir.Block)
	return ok && llvmBlock.Term != nil
}

// BlockFunction 返回基本块所属的函数
func (m *IRModuleManagerImpl) BlockFunction(block interface{}) interface{} {
	llvmBlock, ok := block.(*ir.Block)
	if !ok || llvmBlock.Parent == nil {
		return nil
	}
	return llvmBlock.Parent
}

// insertBlock 返回可写入指令的插入块
// 当前块已终止时在当前函数中新开 dead.N 块，之后的指令不可达
func (m *IRModuleManagerImpl) insertBlock() (*ir.Block, error) {
	if m.currentBlock == nil {
		return nil, fmt.Errorf("no current basic block set")
	}
	if m.currentBlock.Term == nil {
		return m.currentBlock, nil
	}

	fn := m.currentBlock.Parent
	if fn == nil {
		fn = m.currentFunc
	}
	if fn == nil {
		return nil, fmt.Errorf("no current function set")
	}
	m.currentBlock = fn.NewBlock(fmt.Sprintf("dead.%d", m.deadCount))
	m.deadCount++
	return m.currentBlock, nil
}

// CreateAlloca 在插入点创建alloca指令
func (m *IRModuleManagerImpl) CreateAlloca(typ interface{}, name string) (interface{}, error) {
	block, err := m.insertBlock()
	if err != nil {
		return nil, err
	}

	llvmType, ok := typ.(types.Type)
	if !ok {
		return nil, fmt.Errorf("invalid type for alloca: %T", typ)
	}

	alloca := block.NewAlloca(llvmType)
	alloca.SetName(m.generateUniqueVariableName(name))
	return alloca, nil
}

// CreateEntryAlloca 在当前函数入口块顶部创建alloca，并紧随其后写入初始值
// 已提升的槽按创建顺序排列在入口块其他指令之前
func (m *IRModuleManagerImpl) CreateEntryAlloca(typ interface{}, name string, init interface{}) (interface{}, error) {
	if m.currentFunc == nil || len(m.currentFunc.Blocks) == 0 {
		return nil, fmt.Errorf("no entry block in current function")
	}

	llvmType, ok := typ.(types.Type)
	if !ok {
		return nil, fmt.Errorf("invalid type for alloca: %T", typ)
	}

	entry := m.currentFunc.Blocks[0]
	alloca := ir.NewAlloca(llvmType)
	alloca.SetName(m.generateUniqueVariableName(name))

	hoisted := []ir.Instruction{alloca}
	if init != nil {
		initValue, ok := init.(llvalue.Value)
		if !ok {
			return nil, fmt.Errorf("invalid initial value for alloca: %T", init)
		}
		hoisted = append(hoisted, ir.NewStore(initValue, alloca))
	}

	pos := m.entryHoisted[entry]
	if pos > len(entry.Insts) {
		pos = len(entry.Insts)
	}
	entry.Insts = append(entry.Insts[:pos], append(hoisted, entry.Insts[pos:]...)...)
	m.entryHoisted[entry] = pos + len(hoisted)
	return alloca, nil
}

// generateUniqueVariableName 生成唯一的变量名
// 为每个变量名添加计数器后缀（如 i_0, i_1, i_2），计数器按函数独立
func (m *IRModuleManagerImpl) generateUniqueVariableName(baseName string) string {
	counters, ok := m.variableCounters[m.currentFunc]
	if !ok {
		counters = make(map[string]int)
		m.variableCounters[m.currentFunc] = counters
	}
	count := counters[baseName]
	counters[baseName] = count + 1
	return fmt.Sprintf("%s_%d", baseName, count)
}

// CreateStore 创建store指令
// 向整数槽写入浮点值时先生成 fptosi
func (m *IRModuleManagerImpl) CreateStore(value interface{}, ptr interface{}) error {
	block, err := m.insertBlock()
	if err != nil {
		return err
	}

	llvmValue, ok := value.(llvalue.Value)
	if !ok {
		return fmt.Errorf("invalid value type for store: %T", value)
	}
	llvmPtr, ok := ptr.(llvalue.Value)
	if !ok {
		return fmt.Errorf("invalid pointer type for store")
	}

	if pt, ok := llvmPtr.Type().(*types.PointerType); ok {
		if _, isInt := pt.ElemType.(*types.IntType); isInt {
			if _, isFloat := llvmValue.Type().(*types.FloatType); isFloat {
				conv := block.NewFPToSI(llvmValue, pt.ElemType)
				conv.SetName(m.generateUniqueVariableName("conv"))
				llvmValue = conv
			}
		}
	}

	block.NewStore(llvmValue, llvmPtr)
	return nil
}

// CreateLoad 创建load指令
func (m *IRModuleManagerImpl) CreateLoad(typ interface{}, ptr interface{}, name string) (interface{}, error) {
	block, err := m.insertBlock()
	if err != nil {
		return nil, err
	}

	llvmType, ok := typ.(types.Type)
	if !ok {
		return nil, fmt.Errorf("unsupported type for load: %T", typ)
	}
	llvmPtr, ok := ptr.(llvalue.Value)
	if !ok {
		return nil, fmt.Errorf("invalid pointer type for load")
	}

	load := block.NewLoad(llvmType, llvmPtr)
	load.SetName(m.generateUniqueVariableName(name))
	return load, nil
}

// CreateFloatConstant 创建double常量
func (m *IRModuleManagerImpl) CreateFloatConstant(v float64) interface{} {
	return constant.NewFloat(types.Double, v)
}

// CreateIntConstant 创建i32常量
func (m *IRModuleManagerImpl) CreateIntConstant(v int64) interface{} {
	return constant.NewInt(types.I32, v)
}

// CreateZeroValue 创建类型的零值
func (m *IRModuleManagerImpl) CreateZeroValue(typ interface{}) (interface{}, error) {
	switch t := typ.(type) {
	case *types.FloatType:
		return constant.NewFloat(t, 0), nil
	case *types.IntType:
		return constant.NewInt(t, 0), nil
	case *types.ArrayType:
		return constant.NewZeroInitializer(t), nil
	default:
		return nil, fmt.Errorf("no zero value for type %T", typ)
	}
}

// CreateBinaryOp 创建浮点二元运算指令
func (m *IRModuleManagerImpl) CreateBinaryOp(op string, left interface{}, right interface{}, name string) (interface{}, error) {
	block, err := m.insertBlock()
	if err != nil {
		return nil, err
	}

	llvmLeft, ok := left.(llvalue.Value)
	if !ok {
		return nil, fmt.Errorf("invalid left operand type")
	}
	llvmRight, ok := right.(llvalue.Value)
	if !ok {
		return nil, fmt.Errorf("invalid right operand type")
	}

	var result llvalue.Named
	switch op {
	case "+":
		result = block.NewFAdd(llvmLeft, llvmRight)
	case "-":
		result = block.NewFSub(llvmLeft, llvmRight)
	case "*":
		result = block.NewFMul(llvmLeft, llvmRight)
	case "/":
		result = block.NewFDiv(llvmLeft, llvmRight)
	default:
		return nil, fmt.Errorf("unsupported binary operator: %s", op)
	}

	if name != "" {
		result.SetName(m.generateUniqueVariableName(name))
	}
	return result, nil
}

// CreateComparison 创建有序浮点比较指令
func (m *IRModuleManagerImpl) CreateComparison(op string, left interface{}, right interface{}, name string) (interface{}, error) {
	block, err := m.insertBlock()
	if err != nil {
		return nil, err
	}

	llvmLeft, ok := left.(llvalue.Value)
	if !ok {
		return nil, fmt.Errorf("invalid left operand type")
	}
	llvmRight, ok := right.(llvalue.Value)
	if !ok {
		return nil, fmt.Errorf("invalid right operand type")
	}

	var pred enum.FPred
	switch op {
	case ">":
		pred = enum.FPredOGT
	case "<":
		pred = enum.FPredOLT
	default:
		return nil, fmt.Errorf("unsupported comparison operator: %s", op)
	}

	cmp := block.NewFCmp(pred, llvmLeft, llvmRight)
	if name != "" {
		cmp.SetName(m.generateUniqueVariableName(name))
	}
	return cmp, nil
}

// CreateCall 创建函数调用指令
func (m *IRModuleManagerImpl) CreateCall(fn interface{}, args ...interface{}) (interface{}, error) {
	block, err := m.insertBlock()
	if err != nil {
		return nil, err
	}

	var llvmFunc *ir.Func
	// 支持字符串函数名
	if funcName, ok := fn.(string); ok {
		llvmFunc = m.findFunction(funcName)
		if llvmFunc == nil {
			return nil, fmt.Errorf("function %s not found in module", funcName)
		}
	} else if f, ok := fn.(*ir.Func); ok {
		llvmFunc = f
	} else {
		return nil, fmt.Errorf("invalid function type for call: %T", fn)
	}

	llvmArgs := make([]llvalue.Value, 0, len(args))
	for i, arg := range args {
		llvmArg, ok := arg.(llvalue.Value)
		if !ok {
			return nil, fmt.Errorf("invalid argument %d for call to %s: %T", i, llvmFunc.Name(), arg)
		}
		llvmArgs = append(llvmArgs, llvmArg)
	}

	call := block.NewCall(llvmFunc, llvmArgs...)
	if !types.Equal(llvmFunc.Sig.RetType, types.Void) {
		call.SetName(m.generateUniqueVariableName(llvmFunc.Name() + "_call"))
	}
	return call, nil
}

// CreateRet 按当前函数的返回类型创建return指令
// void 函数总是 ret void；value 为 nil 时返回零值；double 与 i32 之间按需转换
func (m *IRModuleManagerImpl) CreateRet(value interface{}) error {
	block, err := m.insertBlock()
	if err != nil {
		return err
	}
	fn := block.Parent
	if fn == nil {
		return fmt.Errorf("block %s does not belong to a function", block.Name())
	}

	var llvmValue llvalue.Value
	if value != nil {
		v, ok := value.(llvalue.Value)
		if !ok {
			return fmt.Errorf("invalid return value type: %T", value)
		}
		llvmValue = v
	}

	retType := fn.Sig.RetType
	switch {
	case types.Equal(retType, types.Void):
		block.NewRet(nil)
		return nil
	case llvmValue == nil:
		zero, err := m.CreateZeroValue(retType)
		if err != nil {
			return fmt.Errorf("function %s: %w", fn.Name(), err)
		}
		block.NewRet(zero.(llvalue.Value))
		return nil
	}

	converted, err := m.convertReturn(block, llvmValue, retType)
	if err != nil {
		return fmt.Errorf("function %s: %w", fn.Name(), err)
	}
	block.NewRet(converted)
	return nil
}

// convertReturn 把返回值转换为函数的返回类型
func (m *IRModuleManagerImpl) convertReturn(block *ir.Block, v llvalue.Value, retType types.Type) (llvalue.Value, error) {
	if types.Equal(v.Type(), retType) {
		return v, nil
	}

	var conv llvalue.Named
	switch rt := retType.(type) {
	case *types.FloatType:
		if it, ok := v.Type().(*types.IntType); ok && it.BitSize > 1 {
			conv = block.NewSIToFP(v, rt)
		}
	case *types.IntType:
		if _, ok := v.Type().(*types.FloatType); ok {
			conv = block.NewFPToSI(v, rt)
		}
	}
	if conv == nil {
		return nil, fmt.Errorf("cannot return %s from function returning %s", v.Type(), retType)
	}
	conv.SetName(m.generateUniqueVariableName("retconv"))
	return conv, nil
}

// CreateGetElementPtr 创建 inbounds GetElementPtr 指令
func (m *IRModuleManagerImpl) CreateGetElementPtr(elemType interface{}, ptr interface{}, indices ...interface{}) (interface{}, error) {
	block, err := m.insertBlock()
	if err != nil {
		return nil, err
	}

	llvmElemType, ok := elemType.(types.Type)
	if !ok {
		return nil, fmt.Errorf("invalid element type for GEP")
	}
	llvmPtr, ok := ptr.(llvalue.Value)
	if !ok {
		return nil, fmt.Errorf("invalid pointer type for GEP")
	}

	llvmIndices := make([]llvalue.Value, 0, len(indices))
	for _, idx := range indices {
		llvmIdx, ok := idx.(llvalue.Value)
		if !ok {
			return nil, fmt.Errorf("invalid index type for GEP")
		}
		llvmIndices = append(llvmIndices, llvmIdx)
	}

	gep := block.NewGetElementPtr(llvmElemType, llvmPtr, llvmIndices...)
	gep.InBounds = true
	return gep, nil
}

// CreateBr 创建无条件分支指令
func (m *IRModuleManagerImpl) CreateBr(dest interface{}) error {
	block, err := m.insertBlock()
	if err != nil {
		return err
	}

	llvmDest, ok := dest.(*ir.Block)
	if !ok {
		return fmt.Errorf("invalid destination block type")
	}

	block.NewBr(llvmDest)
	return nil
}

// CreateCondBr 创建条件分支指令
func (m *IRModuleManagerImpl) CreateCondBr(cond interface{}, trueDest interface{}, falseDest interface{}) error {
	block, err := m.insertBlock()
	if err != nil {
		return err
	}

	llvmCond, ok := cond.(llvalue.Value)
	if !ok {
		return fmt.Errorf("invalid condition type")
	}
	llvmTrueDest, ok := trueDest.(*ir.Block)
	if !ok {
		return fmt.Errorf("invalid true destination type")
	}
	llvmFalseDest, ok := falseDest.(*ir.Block)
	if !ok {
		return fmt.Errorf("invalid false destination type")
	}

	block.NewCondBr(llvmCond, llvmTrueDest, llvmFalseDest)
	return nil
}

// CreatePrintf 调用运行时 printf，首次使用时声明 i32 @printf(i8*, ...)
func (m *IRModuleManagerImpl) CreatePrintf(format string, args ...interface{}) (interface{}, error) {
	if m.currentBlock == nil {
		return nil, fmt.Errorf("no current basic block set")
	}

	printfFunc, err := m.declarePrintf()
	if err != nil {
		return nil, err
	}

	formatPtr, err := m.AddStringConstant(format)
	if err != nil {
		return nil, err
	}

	callArgs := append([]interface{}{formatPtr}, args...)
	return m.CreateCall(printfFunc, callArgs...)
}

// declarePrintf 声明可变参数的 printf
func (m *IRModuleManagerImpl) declarePrintf() (*ir.Func, error) {
	if m.printfFunc != nil {
		return m.printfFunc, nil
	}
	if existing := m.findFunction(printfSymbol); existing != nil {
		if !existing.Sig.Variadic {
			return nil, fmt.Errorf("%s is already defined with an incompatible signature", printfSymbol)
		}
		m.printfFunc = existing
		return existing, nil
	}

	printfFunc := m.module.NewFunc(printfSymbol, types.I32, ir.NewParam("format", types.NewPointer(types.I8)))
	printfFunc.Sig.Variadic = true
	m.printfFunc = printfFunc
	return printfFunc, nil
}

// AddStringConstant 添加以 NUL 结尾的私有字符串常量，返回 i8* 指针
func (m *IRModuleManagerImpl) AddStringConstant(content string) (interface{}, error) {
	m.stringCount++
	name := fmt.Sprintf(".str.%d", m.stringCount)

	strConst := constant.NewCharArrayFromString(content + "\x00")
	global := m.module.NewGlobalDef(name, strConst)
	global.Immutable = true
	global.Linkage = enum.LinkagePrivate

	return constant.NewBitCast(global, types.NewPointer(types.I8)), nil
}

// Finalize 为所有缺少终止指令的基本块补上默认返回
func (m *IRModuleManagerImpl) Finalize() error {
	if m.mainFunc == nil {
		if err := m.InitializeMainFunction(); err != nil {
			return fmt.Errorf("failed to create main function: %w", err)
		}
	}

	for _, fn := range m.module.Funcs {
		for _, block := range fn.Blocks {
			if block.Term != nil {
				continue
			}
			retType := fn.Sig.RetType
			switch {
			case types.Equal(retType, types.Void):
				block.NewRet(nil)
			case types.IsFloat(retType):
				block.NewRet(constant.NewFloat(retType.(*types.FloatType), 0))
			case types.IsInt(retType):
				block.NewRet(constant.NewInt(retType.(*types.IntType), 0))
			default:
				block.NewUnreachable()
			}
		}
	}
	return nil
}

// Validate 验证IR模块完整性：每个块都有终止指令，ret 的操作数与函数返回类型一致
func (m *IRModuleManagerImpl) Validate() error {
	if m.mainFunc == nil {
		return fmt.Errorf("main function %s not initialized", m.mainName)
	}
	for _, fn := range m.module.Funcs {
		retType := fn.Sig.RetType
		for i, block := range fn.Blocks {
			if block.Term == nil {
				return fmt.Errorf("block %d of function %s has no terminator", i, fn.Name())
			}
			ret, ok := block.Term.(*ir.TermRet)
			if !ok {
				continue
			}
			switch {
			case ret.X == nil && !types.Equal(retType, types.Void):
				return fmt.Errorf("block %s of function %s returns void, expected %s", block.Name(), fn.Name(), retType)
			case ret.X != nil && !types.Equal(ret.X.Type(), retType):
				return fmt.Errorf("block %s of function %s returns %s, expected %s", block.Name(), fn.Name(), ret.X.Type(), retType)
			}
		}
	}
	return nil
}

// GetIRString 获取文本形式的IR
// 尚未终止的基本块以 unreachable 占位输出，模块本身不变
func (m *IRModuleManagerImpl) GetIRString() string {
	var buf strings.Builder
	if _, err := m.WriteTo(&buf); err != nil {
		return fmt.Sprintf("; %v\n", err)
	}
	return buf.String()
}

// WriteTo 把文本形式的IR写入 w，规则同 GetIRString
func (m *IRModuleManagerImpl) WriteTo(w io.Writer) (n int64, err error) {
	var open []*ir.Block
	for _, fn := range m.module.Funcs {
		for _, block := range fn.Blocks {
			if block.Term == nil {
				block.Term = ir.NewUnreachable()
				open = append(open, block)
			}
		}
	}
	defer func() {
		for _, block := range open {
			block.Term = nil
		}
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to serialize module: %v", r)
		}
	}()

	return m.module.WriteTo(w)
}

// findFunction 在模块中查找函数
func (m *IRModuleManagerImpl) findFunction(name string) *ir.Func {
	for _, fn := range m.module.Funcs {
		if fn.Name() == name {
			return fn
		}
	}
	return nil
}
