package generation

// ArrayInfo 二维整数数组信息，维度声明后不可变
type ArrayInfo struct {
	Name   string
	Scope  string
	Rows   int
	Cols   int
	Type   interface{} // 后端数组类型 [rows x [cols x i32]]
	Handle interface{} // 存储槽句柄
}

// InBounds 检查 0 <= i < rows 且 0 <= j < cols
func (a *ArrayInfo) InBounds(i, j int) bool {
	return i >= 0 && i < a.Rows && j >= 0 && j < a.Cols
}

// ArrayManager 数组子系统领域服务接口
// 职责：固定大小二维整数数组的声明与带边界检查的读写
type ArrayManager interface {
	// DeclareArray 分配零初始化的 rows x cols 连续整数块
	DeclareArray(irManager IRModuleManager, name string, rows, cols int) (interface{}, error)

	// AssignElement 越界时不生成存储
	AssignElement(irManager IRModuleManager, name string, i, j int, value interface{}) error

	// AccessElement 越界或未声明时返回整数零与对应错误
	AccessElement(irManager IRModuleManager, name string, i, j int) (interface{}, error)

	// LookupArray 在当前作用域查找数组
	LookupArray(irManager IRModuleManager, name string) (*ArrayInfo, error)

	// Arrays 按声明顺序返回所有数组
	Arrays() []*ArrayInfo
}
