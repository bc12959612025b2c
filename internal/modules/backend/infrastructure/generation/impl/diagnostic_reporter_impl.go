package impl

import (
	"errors"

	"github.com/tliron/commonlog"

	"github.com/meetai/kiwi/internal/modules/backend/domain/services/generation"
)

// LoggerName 代码生成诊断日志名
const LoggerName = "kiwi.codegen"

// DiagnosticReporterImpl 诊断报告器实现，同时写入 commonlog
type DiagnosticReporterImpl struct {
	log         commonlog.Logger
	unitID      string
	diagnostics []generation.Diagnostic
	hasFatal    bool
}

// NewDiagnosticReporterImpl 创建诊断报告器
func NewDiagnosticReporterImpl(unitID string) *DiagnosticReporterImpl {
	return &DiagnosticReporterImpl{
		log:    commonlog.GetLogger(LoggerName),
		unitID: unitID,
	}
}

// Report 记录错误；nil 原样返回
func (r *DiagnosticReporterImpl) Report(err error) error {
	if err == nil {
		return nil
	}

	d := generation.Diagnostic{
		Kind:    generation.KindUnknown,
		Message: err.Error(),
	}
	var ce *generation.CodegenError
	if errors.As(err, &ce) {
		d.Kind = ce.Kind
		d.Name = ce.Name
		d.Fatal = ce.Kind.IsFatal()
		if ce.Message != "" {
			d.Message = ce.Message
		}
	}

	r.diagnostics = append(r.diagnostics, d)
	if d.Fatal {
		r.hasFatal = true
		r.log.Criticalf("[%s] %s", r.unitID, err)
	} else {
		r.log.Errorf("[%s] %s", r.unitID, err)
	}
	return err
}

// Diagnostics 按报告顺序返回诊断副本
func (r *DiagnosticReporterImpl) Diagnostics() []generation.Diagnostic {
	out := make([]generation.Diagnostic, len(r.diagnostics))
	copy(out, r.diagnostics)
	return out
}

// HasFatal 是否出现过致命错误
func (r *DiagnosticReporterImpl) HasFatal() bool {
	return r.hasFatal
}

// Clear 清空诊断
func (r *DiagnosticReporterImpl) Clear() {
	r.diagnostics = nil
	r.hasFatal = false
}
