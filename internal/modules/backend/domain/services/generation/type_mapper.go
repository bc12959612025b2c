package generation

// 源语言只有浮点标量与二维整数数组两种值类型
const (
	TypeDouble = "double"
	TypeInt    = "int"
	TypeBool   = "bool"
	TypeVoid   = "void"
	TypeString = "string"
	TypeArray  = "array"
)

// TypeMapper 类型映射领域服务接口
// 职责：负责源语言类型到目标平台类型的映射
type TypeMapper interface {
	// 映射基本类型
	MapPrimitiveType(kiwiType string) (interface{}, error)

	// 映射函数返回类别
	MapReturnKind(kind ReturnKind) interface{}

	// 映射二维数组类型 [rows x [cols x i32]]
	MapArrayType(rows, cols int) (interface{}, error)
}
