package impl

import (
	"fmt"

	"github.com/meetai/kiwi/internal/modules/backend/domain/services/generation"
)

// ArrayManagerImpl 数组子系统实现
type ArrayManagerImpl struct {
	symbolManager generation.SymbolManager
	typeMapper    generation.TypeMapper
	reporter      generation.DiagnosticReporter

	arrays map[string]map[string]*generation.ArrayInfo // scope -> name -> info
	order  []*generation.ArrayInfo
}

// NewArrayManagerImpl 创建数组子系统实现
func NewArrayManagerImpl(
	symbolMgr generation.SymbolManager,
	typeMapper generation.TypeMapper,
	reporter generation.DiagnosticReporter,
) *ArrayManagerImpl {
	return &ArrayManagerImpl{
		symbolManager: symbolMgr,
		typeMapper:    typeMapper,
		reporter:      reporter,
		arrays:        make(map[string]map[string]*generation.ArrayInfo),
	}
}

// DeclareArray 在当前作用域分配零初始化的 rows x cols 整数数组
// 维度非正时返回 InvalidArrayDimensions，不写入任何记录
func (am *ArrayManagerImpl) DeclareArray(irManager generation.IRModuleManager, name string, rows, cols int) (interface{}, error) {
	scope := am.symbolManager.CurrentScope(irManager)

	if rows <= 0 || cols <= 0 {
		return nil, am.reporter.Report(generation.NewCodegenError(generation.InvalidArrayDimensions, name,
			"array '%s' dimensions must be positive, got %dx%d", name, rows, cols))
	}
	if _, exists := am.arrays[scope][name]; exists || am.symbolManager.SymbolExistsInScope(scope, name) {
		return nil, am.reporter.Report(generation.NewCodegenError(generation.DeclarationConflict, name,
			"'%s' already declared in scope %s", name, scope))
	}

	arrayType, err := am.typeMapper.MapArrayType(rows, cols)
	if err != nil {
		return nil, am.reporter.Report(generation.WrapBackendError(name, err))
	}
	zero, err := irManager.CreateZeroValue(arrayType)
	if err != nil {
		return nil, am.reporter.Report(generation.WrapBackendError(name, err))
	}
	slot, err := irManager.CreateEntryAlloca(arrayType, name, zero)
	if err != nil {
		return nil, am.reporter.Report(generation.WrapBackendError(name, fmt.Errorf("failed to allocate array %s: %w", name, err)))
	}
	if err := am.symbolManager.RegisterSymbol(scope, name, generation.TypeArray, slot); err != nil {
		return nil, err
	}

	info := &generation.ArrayInfo{
		Name:   name,
		Scope:  scope,
		Rows:   rows,
		Cols:   cols,
		Type:   arrayType,
		Handle: slot,
	}
	if am.arrays[scope] == nil {
		am.arrays[scope] = make(map[string]*generation.ArrayInfo)
	}
	am.arrays[scope][name] = info
	am.order = append(am.order, info)
	return slot, nil
}

// AssignElement 边界检查通过后存入 name[i][j]；越界时只报告，不生成存储
func (am *ArrayManagerImpl) AssignElement(irManager generation.IRModuleManager, name string, i, j int, value interface{}) error {
	info, err := am.checkedArray(irManager, name, i, j, "assignment")
	if err != nil {
		return err
	}

	elemPtr, err := am.elementPointer(irManager, info, i, j)
	if err != nil {
		return err
	}
	if err := irManager.CreateStore(value, elemPtr); err != nil {
		return am.reporter.Report(generation.WrapBackendError(name, err))
	}
	return nil
}

// AccessElement 读取 name[i][j]；未声明或越界时返回 i32 0 及对应错误
func (am *ArrayManagerImpl) AccessElement(irManager generation.IRModuleManager, name string, i, j int) (interface{}, error) {
	info, err := am.checkedArray(irManager, name, i, j, "access")
	if err != nil {
		return irManager.CreateIntConstant(0), err
	}

	elemPtr, err := am.elementPointer(irManager, info, i, j)
	if err != nil {
		return irManager.CreateIntConstant(0), err
	}
	intType, err := am.typeMapper.MapPrimitiveType(generation.TypeInt)
	if err != nil {
		return irManager.CreateIntConstant(0), am.reporter.Report(generation.WrapBackendError(name, err))
	}
	load, err := irManager.CreateLoad(intType, elemPtr, name+"_load")
	if err != nil {
		return irManager.CreateIntConstant(0), am.reporter.Report(generation.WrapBackendError(name, err))
	}
	return load, nil
}

// LookupArray 在当前作用域查找数组
func (am *ArrayManagerImpl) LookupArray(irManager generation.IRModuleManager, name string) (*generation.ArrayInfo, error) {
	scope := am.symbolManager.CurrentScope(irManager)
	if info, exists := am.arrays[scope][name]; exists {
		return info, nil
	}
	return nil, am.reporter.Report(generation.NewCodegenError(generation.ArrayNotDeclared, name,
		"array '%s' not declared in scope %s", name, scope))
}

// Arrays 按声明顺序返回数组
func (am *ArrayManagerImpl) Arrays() []*generation.ArrayInfo {
	return append([]*generation.ArrayInfo(nil), am.order...)
}

func (am *ArrayManagerImpl) checkedArray(irManager generation.IRModuleManager, name string, i, j int, op string) (*generation.ArrayInfo, error) {
	info, err := am.LookupArray(irManager, name)
	if err != nil {
		return nil, err
	}
	if !info.InBounds(i, j) {
		return nil, am.reporter.Report(generation.NewCodegenError(generation.IndexOutOfBounds, name,
			"array index [%d][%d] out of bounds for %s[%d][%d] in %s", i, j, name, info.Rows, info.Cols, op))
	}
	return info, nil
}

// elementPointer 行优先寻址：gep [rows x [cols x i32]], ptr, 0, i, j
func (am *ArrayManagerImpl) elementPointer(irManager generation.IRModuleManager, info *generation.ArrayInfo, i, j int) (interface{}, error) {
	elemPtr, err := irManager.CreateGetElementPtr(info.Type, info.Handle,
		irManager.CreateIntConstant(0),
		irManager.CreateIntConstant(int64(i)),
		irManager.CreateIntConstant(int64(j)),
	)
	if err != nil {
		return nil, am.reporter.Report(generation.WrapBackendError(info.Name, err))
	}
	return elemPtr, nil
}
