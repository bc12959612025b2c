package impl

import (
	"fmt"

	"github.com/meetai/kiwi/internal/modules/backend/domain/services/generation"
)

// StatementGeneratorImpl 语句生成器实现
type StatementGeneratorImpl struct {
	reporter generation.DiagnosticReporter
	stats    *generation.StatementGenerationStats
}

// NewStatementGeneratorImpl 创建语句生成器实现
func NewStatementGeneratorImpl(reporter generation.DiagnosticReporter) *StatementGeneratorImpl {
	return &StatementGeneratorImpl{
		reporter: reporter,
		stats:    &generation.StatementGenerationStats{},
	}
}

// PrintNumber 生成 printf("%f\n", value)
func (sg *StatementGeneratorImpl) PrintNumber(irManager generation.IRModuleManager, value interface{}) error {
	_, err := irManager.CreatePrintf("%f\n", value)
	return sg.record("print", err)
}

// PrintInt 生成 printf("%d\n", value)
func (sg *StatementGeneratorImpl) PrintInt(irManager generation.IRModuleManager, value interface{}) error {
	_, err := irManager.CreatePrintf("%d\n", value)
	return sg.record("print", err)
}

// PrintString 生成 printf("%s\n", str)
func (sg *StatementGeneratorImpl) PrintString(irManager generation.IRModuleManager, str string) error {
	strValue, err := irManager.AddStringConstant(str)
	if err != nil {
		return sg.record("print", err)
	}
	_, err = irManager.CreatePrintf("%s\n", strValue)
	return sg.record("print", err)
}

// Return 按当前函数的返回类型生成返回语句：void 函数为 ret void，value 为 nil 时返回零值
func (sg *StatementGeneratorImpl) Return(irManager generation.IRModuleManager, value interface{}) error {
	return sg.record("return", irManager.CreateRet(value))
}

// GetGenerationStats 获取生成统计信息
func (sg *StatementGeneratorImpl) GetGenerationStats() *generation.StatementGenerationStats {
	stats := *sg.stats
	return &stats
}

func (sg *StatementGeneratorImpl) record(stmt string, err error) error {
	sg.stats.TotalStatements++
	if err != nil {
		sg.stats.FailedGenerations++
		return sg.reporter.Report(generation.WrapBackendError(stmt, fmt.Errorf("failed to generate %s statement: %w", stmt, err)))
	}
	sg.stats.SuccessfulGenerations++
	return nil
}
