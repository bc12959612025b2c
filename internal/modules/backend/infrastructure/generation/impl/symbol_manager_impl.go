package impl

import (
	"fmt"

	"github.com/meetai/kiwi/internal/modules/backend/domain/services/generation"
)

// SymbolManagerImpl 符号管理器实现
// 作用域为全局作用域或以函数名为键的函数作用域，不支持块级嵌套
type SymbolManagerImpl struct {
	scopes     map[string]map[string]*generation.SymbolInfo
	order      map[string][]string // 每个作用域内的声明顺序
	typeMapper generation.TypeMapper
	reporter   generation.DiagnosticReporter
	mainName   string
}

// NewSymbolManagerImpl 创建符号管理器实现
func NewSymbolManagerImpl(typeMapper generation.TypeMapper, reporter generation.DiagnosticReporter, mainName string) *SymbolManagerImpl {
	if mainName == "" {
		mainName = DefaultMainFunction
	}
	sm := &SymbolManagerImpl{
		typeMapper: typeMapper,
		reporter:   reporter,
		mainName:   mainName,
	}
	sm.reset()
	return sm
}

func (sm *SymbolManagerImpl) reset() {
	sm.scopes = map[string]map[string]*generation.SymbolInfo{
		generation.GlobalScope: make(map[string]*generation.SymbolInfo), // 全局作用域
	}
	sm.order = make(map[string][]string)
}

// CurrentScope 当前函数为 main（或尚未进入任何函数）时为全局作用域
func (sm *SymbolManagerImpl) CurrentScope(irManager generation.IRModuleManager) string {
	name := irManager.GetCurrentFunctionName()
	if name == "" || name == sm.mainName {
		return generation.GlobalScope
	}
	return name
}

// Resolve 查找当前作用域的变量存储槽；不存在时在入口块分配零值 double 槽并记录
// 名称已被同作用域的数组占用时返回 DeclarationConflict
func (sm *SymbolManagerImpl) Resolve(irManager generation.IRModuleManager, name string) (interface{}, error) {
	scope := sm.CurrentScope(irManager)
	if symbol, exists := sm.scopes[scope][name]; exists {
		if symbol.Type == generation.TypeArray {
			return nil, sm.reporter.Report(generation.NewCodegenError(generation.DeclarationConflict, name,
				"'%s' is an array in scope %s, not a scalar variable", name, scope))
		}
		return symbol.Value, nil
	}

	doubleType, err := sm.typeMapper.MapPrimitiveType(generation.TypeDouble)
	if err != nil {
		return nil, sm.reporter.Report(generation.WrapBackendError(name, err))
	}
	zero, err := irManager.CreateZeroValue(doubleType)
	if err != nil {
		return nil, sm.reporter.Report(generation.WrapBackendError(name, err))
	}
	slot, err := irManager.CreateEntryAlloca(doubleType, name, zero)
	if err != nil {
		return nil, sm.reporter.Report(generation.WrapBackendError(name, fmt.Errorf("failed to allocate %s: %w", name, err)))
	}

	sm.insert(scope, &generation.SymbolInfo{
		Name:  name,
		Scope: scope,
		Type:  generation.TypeDouble,
		Value: slot,
	})
	return slot, nil
}

// Bind 解析存储槽并写入值
func (sm *SymbolManagerImpl) Bind(irManager generation.IRModuleManager, name string, value interface{}) error {
	slot, err := sm.Resolve(irManager, name)
	if err != nil {
		return err
	}
	if err := irManager.CreateStore(value, slot); err != nil {
		return sm.reporter.Report(generation.WrapBackendError(name, fmt.Errorf("failed to store %s: %w", name, err)))
	}
	return nil
}

// RegisterSymbol 注册符号，同一作用域内名称唯一
func (sm *SymbolManagerImpl) RegisterSymbol(scope string, name string, symbolType string, value interface{}) error {
	if sm.SymbolExistsInScope(scope, name) {
		return sm.reporter.Report(generation.NewCodegenError(generation.DeclarationConflict, name,
			"symbol '%s' already declared in scope %s", name, scope))
	}
	sm.insert(scope, &generation.SymbolInfo{
		Name:  name,
		Scope: scope,
		Type:  symbolType,
		Value: value,
	})
	return nil
}

func (sm *SymbolManagerImpl) insert(scope string, symbol *generation.SymbolInfo) {
	table, ok := sm.scopes[scope]
	if !ok {
		table = make(map[string]*generation.SymbolInfo)
		sm.scopes[scope] = table
	}
	table[symbol.Name] = symbol
	sm.order[scope] = append(sm.order[scope], symbol.Name)
}

// LookupSymbol 查找符号
func (sm *SymbolManagerImpl) LookupSymbol(scope string, name string) (*generation.SymbolInfo, error) {
	if symbol, exists := sm.scopes[scope][name]; exists {
		return symbol, nil
	}
	return nil, fmt.Errorf("symbol '%s' not found in scope %s", name, scope)
}

// SymbolExistsInScope 检查符号是否在指定作用域存在
func (sm *SymbolManagerImpl) SymbolExistsInScope(scope string, name string) bool {
	_, exists := sm.scopes[scope][name]
	return exists
}

// Scopes 返回每个作用域的标量变量名（声明顺序），数组不在其中
func (sm *SymbolManagerImpl) Scopes() map[string][]string {
	out := make(map[string][]string, len(sm.order))
	for scope, names := range sm.order {
		var vars []string
		for _, name := range names {
			if sm.scopes[scope][name].Type != generation.TypeArray {
				vars = append(vars, name)
			}
		}
		if len(vars) > 0 {
			out[scope] = vars
		}
	}
	return out
}

// Clear 清理所有符号
func (sm *SymbolManagerImpl) Clear() error {
	sm.reset()
	return nil
}
