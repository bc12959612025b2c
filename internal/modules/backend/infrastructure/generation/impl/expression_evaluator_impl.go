package impl

import (
	"fmt"

	"github.com/meetai/kiwi/internal/modules/backend/domain/services/generation"
)

// arithmeticOps 支持的算术运算符及结果名
var arithmeticOps = map[string]string{
	"+": "fadd",
	"-": "fsub",
	"*": "fmul",
	"/": "fdiv",
}

// comparisonOps 支持的比较运算符
var comparisonOps = map[string]bool{
	">": true,
	"<": true,
}

// ExpressionEvaluatorImpl 表达式求值器实现
type ExpressionEvaluatorImpl struct {
	symbolManager generation.SymbolManager
	typeMapper    generation.TypeMapper
	reporter      generation.DiagnosticReporter
}

// NewExpressionEvaluatorImpl 创建表达式求值器实现
func NewExpressionEvaluatorImpl(
	symbolMgr generation.SymbolManager,
	typeMapper generation.TypeMapper,
	reporter generation.DiagnosticReporter,
) *ExpressionEvaluatorImpl {
	return &ExpressionEvaluatorImpl{
		symbolManager: symbolMgr,
		typeMapper:    typeMapper,
		reporter:      reporter,
	}
}

// EvaluateBinary 求值浮点二元表达式
// 不支持的运算符返回 nil 结果与可恢复的 UnknownOperator，调用方必须检查
func (ee *ExpressionEvaluatorImpl) EvaluateBinary(irManager generation.IRModuleManager, op string, lhs, rhs interface{}) (interface{}, error) {
	name, ok := arithmeticOps[op]
	if !ok {
		return nil, ee.reporter.Report(generation.NewCodegenError(generation.UnknownOperator, op,
			"invalid operator '%s'", op))
	}

	result, err := irManager.CreateBinaryOp(op, lhs, rhs, name)
	if err != nil {
		return nil, ee.reporter.Report(generation.WrapBackendError(op, fmt.Errorf("failed to create binary operation: %w", err)))
	}
	return result, nil
}

// EvaluateComparison 求值有序浮点比较，结果为 i1
// 不支持的比较符返回致命的 UnknownComparator，由调用方终止编译
func (ee *ExpressionEvaluatorImpl) EvaluateComparison(irManager generation.IRModuleManager, op string, lhs, rhs interface{}) (interface{}, error) {
	if !comparisonOps[op] {
		return nil, ee.reporter.Report(generation.NewCodegenError(generation.UnknownComparator, op,
			"unknown comparison operator '%s'", op))
	}

	result, err := irManager.CreateComparison(op, lhs, rhs, "cmptmp")
	if err != nil {
		return nil, ee.reporter.Report(generation.WrapBackendError(op, fmt.Errorf("failed to create comparison: %w", err)))
	}
	return result, nil
}

// EvaluateFloatLiteral 求值浮点字面量
func (ee *ExpressionEvaluatorImpl) EvaluateFloatLiteral(irManager generation.IRModuleManager, v float64) interface{} {
	return irManager.CreateFloatConstant(v)
}

// EvaluateIntLiteral 求值整数字面量
func (ee *ExpressionEvaluatorImpl) EvaluateIntLiteral(irManager generation.IRModuleManager, v int64) interface{} {
	return irManager.CreateIntConstant(v)
}

// EvaluateVariable 加载变量当前值；首次读取时分配零值槽
func (ee *ExpressionEvaluatorImpl) EvaluateVariable(irManager generation.IRModuleManager, name string) (interface{}, error) {
	slot, err := ee.symbolManager.Resolve(irManager, name)
	if err != nil {
		return nil, err
	}

	doubleType, err := ee.typeMapper.MapPrimitiveType(generation.TypeDouble)
	if err != nil {
		return nil, ee.reporter.Report(generation.WrapBackendError(name, err))
	}
	loadResult, err := irManager.CreateLoad(doubleType, slot, name+"_load")
	if err != nil {
		return nil, ee.reporter.Report(generation.WrapBackendError(name, fmt.Errorf("failed to create load instruction: %w", err)))
	}
	return loadResult, nil
}
