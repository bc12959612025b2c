package generation

// GlobalScope 全局作用域名（main 函数内的变量都属于全局作用域）
const GlobalScope = "<global>"

// SymbolInfo 符号信息
type SymbolInfo struct {
	Name  string
	Scope string
	Type  string
	Value interface{} // 存储槽句柄，创建后在作用域生命周期内不变
}

// SymbolManager 符号管理领域服务接口（符号解析器）
// 职责：按作用域把变量名映射到存储槽
type SymbolManager interface {
	// Resolve 在当前活动作用域查找变量，不存在时在入口块分配零值槽（先用后声明）
	Resolve(irManager IRModuleManager, name string) (interface{}, error)

	// Bind 解析变量存储槽并写入值
	Bind(irManager IRModuleManager, name string, value interface{}) error

	// RegisterSymbol 在指定作用域注册已有存储槽（函数参数、数组）
	RegisterSymbol(scope string, name string, symbolType string, value interface{}) error

	// LookupSymbol 只查找不创建
	LookupSymbol(scope string, name string) (*SymbolInfo, error)

	// SymbolExistsInScope 检查符号是否在指定作用域存在
	SymbolExistsInScope(scope string, name string) bool

	// CurrentScope 当前活动作用域
	CurrentScope(irManager IRModuleManager) string

	// Scopes 返回每个作用域中按声明顺序排列的变量名
	Scopes() map[string][]string

	// 清理所有符号（用于重置）
	Clear() error
}
