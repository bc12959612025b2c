package impl

import (
	"fmt"

	"github.com/meetai/kiwi/internal/modules/backend/domain/services/generation"
)

// resumePoint 函数声明前的插入位置，EndFunction 时恢复
type resumePoint struct {
	signature *generation.FunctionSignature
	function  interface{}
	block     interface{}
}

// FunctionRegistryImpl 函数注册表实现
type FunctionRegistryImpl struct {
	symbolManager generation.SymbolManager
	typeMapper    generation.TypeMapper
	reporter      generation.DiagnosticReporter

	functions      map[string]*generation.FunctionSignature
	order          []string
	reuseTemplates map[string][]string
	resumeStack    []resumePoint
}

// NewFunctionRegistryImpl 创建函数注册表实现
func NewFunctionRegistryImpl(
	symbolMgr generation.SymbolManager,
	typeMapper generation.TypeMapper,
	reporter generation.DiagnosticReporter,
) *FunctionRegistryImpl {
	return &FunctionRegistryImpl{
		symbolManager:  symbolMgr,
		typeMapper:     typeMapper,
		reporter:       reporter,
		functions:      make(map[string]*generation.FunctionSignature),
		reuseTemplates: make(map[string][]string),
	}
}

// DeclareFunction 创建函数（每个形参为 double）及入口块 <name>_entry，注册签名并设为当前活动作用域与插入点
// 函数名已存在时返回 DeclarationConflict，不覆盖原有签名
func (fr *FunctionRegistryImpl) DeclareFunction(irManager generation.IRModuleManager, name string, params []string, returnKind generation.ReturnKind) (interface{}, error) {
	if _, exists := fr.functions[name]; exists {
		return nil, fr.reporter.Report(generation.NewCodegenError(generation.DeclarationConflict, name,
			"function '%s' already declared", name))
	}
	if _, exists := irManager.GetFunction(name); exists {
		return nil, fr.reporter.Report(generation.NewCodegenError(generation.DeclarationConflict, name,
			"function '%s' conflicts with an existing module symbol", name))
	}

	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if seen[p] {
			return nil, fr.reporter.Report(generation.NewCodegenError(generation.DeclarationConflict, name,
				"duplicate parameter '%s' in function '%s'", p, name))
		}
		seen[p] = true
	}

	doubleType, err := fr.typeMapper.MapPrimitiveType(generation.TypeDouble)
	if err != nil {
		return nil, fr.reporter.Report(generation.WrapBackendError(name, err))
	}
	paramTypes := make([]interface{}, len(params))
	for i := range params {
		paramTypes[i] = doubleType
	}

	fn, err := irManager.CreateFunction(name, fr.typeMapper.MapReturnKind(returnKind), paramTypes)
	if err != nil {
		return nil, fr.reporter.Report(generation.WrapBackendError(name, fmt.Errorf("failed to create function %s: %w", name, err)))
	}

	signature := &generation.FunctionSignature{
		Name:       name,
		Params:     append([]string(nil), params...),
		ReturnKind: returnKind,
		Handle:     fn,
	}
	fr.functions[name] = signature
	fr.order = append(fr.order, name)

	fr.resumeStack = append(fr.resumeStack, resumePoint{
		signature: signature,
		function:  irManager.GetCurrentFunction(),
		block:     irManager.GetCurrentBasicBlock(),
	})
	if err := irManager.SetCurrentFunction(fn); err != nil {
		return nil, fr.reporter.Report(generation.WrapBackendError(name, err))
	}
	entry, err := irManager.CreateBasicBlock(name + "_entry")
	if err != nil {
		return nil, fr.reporter.Report(generation.WrapBackendError(name, err))
	}
	if err := irManager.SetCurrentBasicBlock(entry); err != nil {
		return nil, fr.reporter.Report(generation.WrapBackendError(name, err))
	}
	return fn, nil
}

// BindParameters 为每个形参分配存储槽并存入传入的实参
// 只能在该函数的函数体内（DeclareFunction 之后、EndFunction 之前）调用
func (fr *FunctionRegistryImpl) BindParameters(irManager generation.IRModuleManager, name string) error {
	signature, err := fr.LookupFunction(name)
	if err != nil {
		return err
	}
	if top := fr.open(); top == nil || top.signature != signature {
		return fr.reporter.Report(generation.NewCodegenError(generation.ControlFlowMismatch, name,
			"parameters of '%s' can only be bound inside its body", name))
	}

	args, err := irManager.GetFunctionParams(signature.Handle)
	if err != nil {
		return fr.reporter.Report(generation.WrapBackendError(name, err))
	}
	doubleType, err := fr.typeMapper.MapPrimitiveType(generation.TypeDouble)
	if err != nil {
		return fr.reporter.Report(generation.WrapBackendError(name, err))
	}

	for i, paramName := range signature.Params {
		if fr.symbolManager.SymbolExistsInScope(name, paramName) {
			return fr.reporter.Report(generation.NewCodegenError(generation.DeclarationConflict, paramName,
				"parameter '%s' of '%s' already bound", paramName, name))
		}
		slot, err := irManager.CreateEntryAlloca(doubleType, paramName, args[i])
		if err != nil {
			return fr.reporter.Report(generation.WrapBackendError(paramName, err))
		}
		if err := fr.symbolManager.RegisterSymbol(name, paramName, generation.TypeDouble, slot); err != nil {
			return err
		}
	}
	return nil
}

// open 返回正在生成函数体的函数
func (fr *FunctionRegistryImpl) open() *resumePoint {
	if len(fr.resumeStack) == 0 {
		return nil
	}
	return &fr.resumeStack[len(fr.resumeStack)-1]
}

// CallFunction 生成函数调用；实参个数不一致时返回致命的 ArityMismatch
func (fr *FunctionRegistryImpl) CallFunction(irManager generation.IRModuleManager, name string, args []interface{}) (interface{}, error) {
	signature, err := fr.LookupFunction(name)
	if err != nil {
		return nil, err
	}

	if len(args) != signature.Arity() {
		return nil, fr.reporter.Report(generation.NewCodegenError(generation.ArityMismatch, name,
			"function '%s' expects %d arguments, got %d", name, signature.Arity(), len(args)))
	}

	result, err := irManager.CreateCall(signature.Handle, args...)
	if err != nil {
		return nil, fr.reporter.Report(generation.WrapBackendError(name, fmt.Errorf("failed to call %s: %w", name, err)))
	}
	return result, nil
}

// EndFunction 补齐缺失的返回指令，恢复声明前的函数与插入点
func (fr *FunctionRegistryImpl) EndFunction(irManager generation.IRModuleManager) error {
	if len(fr.resumeStack) == 0 {
		return fr.reporter.Report(generation.NewCodegenError(generation.ControlFlowMismatch, "",
			"EndFunction without a matching DeclareFunction"))
	}
	top := fr.resumeStack[len(fr.resumeStack)-1]
	name := top.signature.Name

	block := irManager.GetCurrentBasicBlock()
	if irManager.GetCurrentFunctionName() != name || irManager.BlockFunction(block) != top.signature.Handle {
		return fr.reporter.Report(generation.NewCodegenError(generation.ControlFlowMismatch, name,
			"insertion point is not inside function '%s'", name))
	}
	fr.resumeStack = fr.resumeStack[:len(fr.resumeStack)-1]

	if !irManager.IsTerminated(block) {
		if err := irManager.CreateRet(nil); err != nil {
			return fr.reporter.Report(generation.WrapBackendError(name, err))
		}
	}

	if top.function != nil {
		if err := irManager.SetCurrentFunction(top.function); err != nil {
			return fr.reporter.Report(generation.WrapBackendError(name, err))
		}
	}
	if top.block != nil {
		if err := irManager.SetCurrentBasicBlock(top.block); err != nil {
			return fr.reporter.Report(generation.WrapBackendError(name, err))
		}
	}
	return nil
}

// LookupFunction 查找函数签名
func (fr *FunctionRegistryImpl) LookupFunction(name string) (*generation.FunctionSignature, error) {
	signature, exists := fr.functions[name]
	if !exists {
		return nil, fr.reporter.Report(generation.NewCodegenError(generation.UndefinedFunction, name,
			"function '%s' not declared", name))
	}
	return signature, nil
}

// Functions 按声明顺序返回签名
func (fr *FunctionRegistryImpl) Functions() []*generation.FunctionSignature {
	out := make([]*generation.FunctionSignature, 0, len(fr.order))
	for _, name := range fr.order {
		out = append(out, fr.functions[name])
	}
	return out
}

// StoreReuseTemplate 插入复用参数模板；已存在时报告 DeclarationConflict 并保留原模板
func (fr *FunctionRegistryImpl) StoreReuseTemplate(name string, params []string) error {
	if _, exists := fr.reuseTemplates[name]; exists {
		return fr.reporter.Report(generation.NewCodegenError(generation.DeclarationConflict, name,
			"reuse template '%s' already exists", name))
	}
	fr.reuseTemplates[name] = append([]string(nil), params...)
	return nil
}

// LoadReuseTemplate 查找复用参数模板，返回副本
func (fr *FunctionRegistryImpl) LoadReuseTemplate(name string) ([]string, error) {
	params, exists := fr.reuseTemplates[name]
	if !exists {
		return nil, fr.reporter.Report(generation.NewCodegenError(generation.UndefinedTemplate, name,
			"reuse template '%s' not found", name))
	}
	return append([]string(nil), params...), nil
}

// ReuseTemplates 返回全部复用参数模板的副本
func (fr *FunctionRegistryImpl) ReuseTemplates() map[string][]string {
	out := make(map[string][]string, len(fr.reuseTemplates))
	for name, params := range fr.reuseTemplates {
		out[name] = append([]string(nil), params...)
	}
	return out
}
