package generation

import (
	"errors"
	"fmt"
)

// ErrorKind 代码生成错误类别
type ErrorKind int

const (
	// KindUnknown 非代码生成错误
	KindUnknown ErrorKind = iota
	// DeclarationConflict 名称已注册（复用参数模板、函数、数组）
	DeclarationConflict
	// UndefinedTemplate 复用参数模板不存在
	UndefinedTemplate
	// UndefinedFunction 调用未声明的函数
	UndefinedFunction
	// ArityMismatch 调用实参个数与声明形参个数不一致
	ArityMismatch
	// UnknownOperator 不支持的算术运算符
	UnknownOperator
	// UnknownComparator 不支持的比较运算符
	UnknownComparator
	// ArrayNotDeclared 数组未声明即访问/赋值
	ArrayNotDeclared
	// IndexOutOfBounds 数组下标越界
	IndexOutOfBounds
	// InvalidArrayDimensions 数组行列数非正
	InvalidArrayDimensions
	// ControlFlowMismatch enter/exit 控制结构调用不配对
	ControlFlowMismatch
	// BackendFailure 后端拒绝了原语操作
	BackendFailure
)

var kindNames = map[ErrorKind]string{
	KindUnknown:            "Unknown",
	DeclarationConflict:    "DeclarationConflict",
	UndefinedTemplate:      "UndefinedTemplate",
	UndefinedFunction:      "UndefinedFunction",
	ArityMismatch:          "ArityMismatch",
	UnknownOperator:        "UnknownOperator",
	UnknownComparator:      "UnknownComparator",
	ArrayNotDeclared:       "ArrayNotDeclared",
	IndexOutOfBounds:       "IndexOutOfBounds",
	InvalidArrayDimensions: "InvalidArrayDimensions",
	ControlFlowMismatch:    "ControlFlowMismatch",
	BackendFailure:         "BackendFailure",
}

// String 返回错误类别名
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// IsFatal 致命错误应终止整个编译单元，其余错误可带安全值继续生成
func (k ErrorKind) IsFatal() bool {
	return k == ArityMismatch || k == UnknownComparator
}

// CodegenError 代码生成错误
type CodegenError struct {
	Kind    ErrorKind
	Name    string // 相关的名称（变量、函数、数组、运算符）
	Message string
	Err     error
}

// NewCodegenError 创建代码生成错误
func NewCodegenError(kind ErrorKind, name string, format string, args ...interface{}) *CodegenError {
	return &CodegenError{
		Kind:    kind,
		Name:    name,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapBackendError 将后端返回的错误包装为 BackendFailure
func WrapBackendError(name string, err error) *CodegenError {
	return &CodegenError{
		Kind:    BackendFailure,
		Name:    name,
		Message: err.Error(),
		Err:     err,
	}
}

func (e *CodegenError) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CodegenError) Unwrap() error {
	return e.Err
}

// Is 按错误类别匹配，使 errors.Is(err, ErrArityMismatch) 成立
func (e *CodegenError) Is(target error) bool {
	t, ok := target.(*CodegenError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Name == "" || t.Name == e.Name)
}

// 哨兵错误，仅用于 errors.Is 比较
var (
	ErrDeclarationConflict    = &CodegenError{Kind: DeclarationConflict}
	ErrUndefinedTemplate      = &CodegenError{Kind: UndefinedTemplate}
	ErrUndefinedFunction      = &CodegenError{Kind: UndefinedFunction}
	ErrArityMismatch          = &CodegenError{Kind: ArityMismatch}
	ErrUnknownOperator        = &CodegenError{Kind: UnknownOperator}
	ErrUnknownComparator      = &CodegenError{Kind: UnknownComparator}
	ErrArrayNotDeclared       = &CodegenError{Kind: ArrayNotDeclared}
	ErrIndexOutOfBounds       = &CodegenError{Kind: IndexOutOfBounds}
	ErrInvalidArrayDimensions = &CodegenError{Kind: InvalidArrayDimensions}
	ErrControlFlowMismatch    = &CodegenError{Kind: ControlFlowMismatch}
	ErrBackendFailure         = &CodegenError{Kind: BackendFailure}
)

// KindOf 提取错误链中的代码生成错误类别
func KindOf(err error) ErrorKind {
	var ce *CodegenError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}

// IsFatal 判断错误是否需要终止编译
func IsFatal(err error) bool {
	return KindOf(err).IsFatal()
}
