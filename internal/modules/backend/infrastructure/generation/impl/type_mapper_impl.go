package impl

import (
	"fmt"

	"github.com/llir/llvm/ir/types"

	"github.com/meetai/kiwi/internal/modules/backend/domain/services/generation"
)

// TypeMapperImpl 类型映射器实现
type TypeMapperImpl struct {
	primitiveTypes map[string]types.Type
}

// NewTypeMapperImpl 创建类型映射器实现
func NewTypeMapperImpl() *TypeMapperImpl {
	return &TypeMapperImpl{
		primitiveTypes: map[string]types.Type{
			generation.TypeDouble: types.Double,
			generation.TypeInt:    types.I32,
			generation.TypeBool:   types.I1,
			generation.TypeVoid:   types.Void,
			generation.TypeString: types.NewPointer(types.I8),
		},
	}
}

// MapPrimitiveType 映射基本类型
func (tm *TypeMapperImpl) MapPrimitiveType(kiwiType string) (interface{}, error) {
	if t, ok := tm.primitiveTypes[kiwiType]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("unsupported primitive type: %s", kiwiType)
}

// MapReturnKind 映射函数返回类别
func (tm *TypeMapperImpl) MapReturnKind(kind generation.ReturnKind) interface{} {
	if kind == generation.ReturnScalar {
		return types.Double
	}
	return types.Void
}

// MapArrayType 映射二维数组类型：rows 个长度为 cols 的 i32 数组，行优先
func (tm *TypeMapperImpl) MapArrayType(rows, cols int) (interface{}, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("array dimensions must be positive, got %dx%d", rows, cols)
	}
	colArrayType := types.NewArray(uint64(cols), types.I32)
	return types.NewArray(uint64(rows), colArrayType), nil
}
