package generation

// ReturnKind 函数返回类别
type ReturnKind int

const (
	// ReturnNone 无返回值（void）
	ReturnNone ReturnKind = iota
	// ReturnScalar 返回浮点标量（double）
	ReturnScalar
)

// String 返回类别名
func (k ReturnKind) String() string {
	if k == ReturnScalar {
		return "double"
	}
	return "void"
}

// FunctionSignature 函数签名
type FunctionSignature struct {
	Name       string
	Params     []string
	ReturnKind ReturnKind
	Handle     interface{} // 后端函数句柄
}

// Arity 形参个数
func (s *FunctionSignature) Arity() int {
	return len(s.Params)
}

// FunctionRegistry 函数注册表领域服务接口
// 职责：记录函数签名、参数名以及独立的复用参数模板表
type FunctionRegistry interface {
	// DeclareFunction 创建函数及其入口块 <name>_entry，设为当前活动作用域与插入点
	DeclareFunction(irManager IRModuleManager, name string, params []string, returnKind ReturnKind) (interface{}, error)

	// BindParameters 为正在生成函数体的函数的每个形参在入口块分配存储槽并写入实参
	BindParameters(irManager IRModuleManager, name string) error

	// CallFunction 实参个数必须与形参个数一致
	CallFunction(irManager IRModuleManager, name string, args []interface{}) (interface{}, error)

	// EndFunction 结束函数体，恢复全局作用域与 main 的插入点
	EndFunction(irManager IRModuleManager) error

	// LookupFunction 查找函数签名
	LookupFunction(name string) (*FunctionSignature, error)

	// Functions 按声明顺序返回所有签名
	Functions() []*FunctionSignature

	// StoreReuseTemplate 插入复用参数模板，已存在时失败
	StoreReuseTemplate(name string, params []string) error

	// LoadReuseTemplate 查找复用参数模板，不存在时失败
	LoadReuseTemplate(name string) ([]string, error)

	// ReuseTemplates 返回全部复用参数模板的副本
	ReuseTemplates() map[string][]string
}
