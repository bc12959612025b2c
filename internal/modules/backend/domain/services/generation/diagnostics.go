package generation

// Diagnostic 诊断信息（旁路通道，不影响生成结果）
type Diagnostic struct {
	Kind    ErrorKind `cbor:"kind"`
	Name    string    `cbor:"name,omitempty"`
	Message string    `cbor:"message"`
	Fatal   bool      `cbor:"fatal"`
}

// DiagnosticReporter 诊断报告领域服务接口
// 职责：记录并输出每一个代码生成错误
type DiagnosticReporter interface {
	// Report 记录错误并原样返回，便于 return r.Report(err)
	Report(err error) error

	// Diagnostics 按报告顺序返回全部诊断
	Diagnostics() []Diagnostic

	// HasFatal 是否出现过致命错误
	HasFatal() bool

	// Clear 清空诊断
	Clear()
}
