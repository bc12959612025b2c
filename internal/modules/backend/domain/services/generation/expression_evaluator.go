package generation

// ExpressionEvaluator 表达式求值领域服务接口
// 职责：把算术与比较运算降级为后端指令
type ExpressionEvaluator interface {
	// EvaluateBinary 支持 + - * /，浮点语义；其他运算符返回 nil 与 UnknownOperator
	EvaluateBinary(irManager IRModuleManager, op string, lhs, rhs interface{}) (interface{}, error)

	// EvaluateComparison 支持 > <，有序浮点比较；其他运算符返回 UnknownComparator（致命）
	EvaluateComparison(irManager IRModuleManager, op string, lhs, rhs interface{}) (interface{}, error)

	// EvaluateFloatLiteral 浮点常量
	EvaluateFloatLiteral(irManager IRModuleManager, v float64) interface{}

	// EvaluateIntLiteral 整数常量
	EvaluateIntLiteral(irManager IRModuleManager, v int64) interface{}

	// EvaluateVariable 读取变量（先用后声明）
	EvaluateVariable(irManager IRModuleManager, name string) (interface{}, error)
}
