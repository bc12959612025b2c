package impl

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// maxSteps 防止错误的控制流导致测试死循环
const maxSteps = 100000

// cell 解释器中的运行时值
type cell struct {
	f   float64
	i   int64
	s   string
	ptr *pointer
}

// pointer 指向某个 alloca 展平后的第 off 个单元
type pointer struct {
	buf []cell
	off int
}

// interpreter 执行生成的 llir 模块，用于在测试中校验求值结果
type interpreter struct {
	module *ir.Module
	out    bytes.Buffer
	steps  int
}

func newInterpreter(m *ir.Module) *interpreter {
	return &interpreter{module: m}
}

// run 执行名为 name 的函数
func (in *interpreter) run(name string, args ...cell) (cell, error) {
	for _, fn := range in.module.Funcs {
		if fn.Name() == name {
			return in.call(fn, args)
		}
	}
	return cell{}, fmt.Errorf("function %s not found", name)
}

func (in *interpreter) call(fn *ir.Func, args []cell) (cell, error) {
	if len(fn.Blocks) == 0 {
		return cell{}, fmt.Errorf("function %s has no body", fn.Name())
	}
	if len(args) != len(fn.Params) {
		return cell{}, fmt.Errorf("function %s: expected %d args, got %d", fn.Name(), len(fn.Params), len(args))
	}

	locals := make(map[value.Value]cell)
	for i, p := range fn.Params {
		locals[p] = args[i]
	}

	block := fn.Blocks[0]
	for {
		for _, inst := range block.Insts {
			if err := in.exec(locals, inst); err != nil {
				return cell{}, fmt.Errorf("%s: %w", fn.Name(), err)
			}
		}

		in.steps++
		if in.steps > maxSteps {
			return cell{}, fmt.Errorf("step limit exceeded in %s", fn.Name())
		}

		switch term := block.Term.(type) {
		case *ir.TermRet:
			if term.X == nil {
				return cell{}, nil
			}
			return in.eval(locals, term.X)
		case *ir.TermBr:
			block = asBlock(term.Target)
		case *ir.TermCondBr:
			cond, err := in.eval(locals, term.Cond)
			if err != nil {
				return cell{}, err
			}
			if cond.i != 0 {
				block = asBlock(term.TargetTrue)
			} else {
				block = asBlock(term.TargetFalse)
			}
		case nil:
			return cell{}, fmt.Errorf("block %s of %s has no terminator", block.Name(), fn.Name())
		default:
			return cell{}, fmt.Errorf("unsupported terminator %T", term)
		}
		if block == nil {
			return cell{}, fmt.Errorf("branch target is not a block")
		}
	}
}

func asBlock(v interface{}) *ir.Block {
	b, _ := v.(*ir.Block)
	return b
}

func (in *interpreter) exec(locals map[value.Value]cell, inst ir.Instruction) error {
	switch inst := inst.(type) {
	case *ir.InstAlloca:
		locals[inst] = cell{ptr: &pointer{buf: make([]cell, flatSize(inst.ElemType))}}

	case *ir.InstStore:
		dst, err := in.eval(locals, inst.Dst)
		if err != nil {
			return err
		}
		if dst.ptr == nil {
			return fmt.Errorf("store to non-pointer")
		}
		if zero, ok := inst.Src.(*constant.ZeroInitializer); ok {
			n := flatSize(zero.Typ)
			for k := 0; k < n; k++ {
				dst.ptr.buf[dst.ptr.off+k] = cell{}
			}
			return nil
		}
		src, err := in.eval(locals, inst.Src)
		if err != nil {
			return err
		}
		dst.ptr.buf[dst.ptr.off] = src

	case *ir.InstLoad:
		src, err := in.eval(locals, inst.Src)
		if err != nil {
			return err
		}
		if src.ptr == nil {
			return fmt.Errorf("load from non-pointer")
		}
		locals[inst] = src.ptr.buf[src.ptr.off]

	case *ir.InstGetElementPtr:
		base, err := in.eval(locals, inst.Src)
		if err != nil {
			return err
		}
		if base.ptr == nil || len(inst.Indices) == 0 {
			return fmt.Errorf("invalid gep")
		}
		first, err := in.eval(locals, inst.Indices[0])
		if err != nil {
			return err
		}
		off := base.ptr.off + int(first.i)*flatSize(inst.ElemType)
		t := inst.ElemType
		for _, idx := range inst.Indices[1:] {
			arr, ok := t.(*types.ArrayType)
			if !ok {
				return fmt.Errorf("gep into non-array type %s", t)
			}
			v, err := in.eval(locals, idx)
			if err != nil {
				return err
			}
			off += int(v.i) * flatSize(arr.ElemType)
			t = arr.ElemType
		}
		if off < 0 || off >= len(base.ptr.buf) {
			return fmt.Errorf("gep offset %d out of range", off)
		}
		locals[inst] = cell{ptr: &pointer{buf: base.ptr.buf, off: off}}

	case *ir.InstFAdd:
		return in.binary(locals, inst, inst.X, inst.Y, func(a, b float64) float64 { return a + b })
	case *ir.InstFSub:
		return in.binary(locals, inst, inst.X, inst.Y, func(a, b float64) float64 { return a - b })
	case *ir.InstFMul:
		return in.binary(locals, inst, inst.X, inst.Y, func(a, b float64) float64 { return a * b })
	case *ir.InstFDiv:
		return in.binary(locals, inst, inst.X, inst.Y, func(a, b float64) float64 { return a / b })

	case *ir.InstFCmp:
		x, err := in.eval(locals, inst.X)
		if err != nil {
			return err
		}
		y, err := in.eval(locals, inst.Y)
		if err != nil {
			return err
		}
		var r bool
		switch inst.Pred {
		case enum.FPredOGT:
			r = x.f > y.f
		case enum.FPredOLT:
			r = x.f < y.f
		default:
			return fmt.Errorf("unsupported fcmp predicate %s", inst.Pred)
		}
		if r {
			locals[inst] = cell{i: 1}
		} else {
			locals[inst] = cell{i: 0}
		}

	case *ir.InstFPToSI:
		x, err := in.eval(locals, inst.From)
		if err != nil {
			return err
		}
		locals[inst] = cell{i: int64(x.f)}

	case *ir.InstSIToFP:
		x, err := in.eval(locals, inst.From)
		if err != nil {
			return err
		}
		locals[inst] = cell{f: float64(x.i)}

	case *ir.InstCall:
		callee, ok := inst.Callee.(*ir.Func)
		if !ok {
			return fmt.Errorf("indirect call not supported")
		}
		args := make([]cell, len(inst.Args))
		for i, a := range inst.Args {
			v, err := in.eval(locals, a)
			if err != nil {
				return err
			}
			args[i] = v
		}
		if callee.Name() == printfSymbol {
			return in.printf(inst.Args, args)
		}
		result, err := in.call(callee, args)
		if err != nil {
			return err
		}
		locals[inst] = result

	default:
		return fmt.Errorf("unsupported instruction %T", inst)
	}
	return nil
}

func (in *interpreter) binary(locals map[value.Value]cell, inst value.Value, x, y value.Value, op func(a, b float64) float64) error {
	a, err := in.eval(locals, x)
	if err != nil {
		return err
	}
	b, err := in.eval(locals, y)
	if err != nil {
		return err
	}
	locals[inst] = cell{f: op(a.f, b.f)}
	return nil
}

func (in *interpreter) printf(vals []value.Value, args []cell) error {
	if len(args) == 0 {
		return fmt.Errorf("printf without format")
	}
	goArgs := make([]interface{}, 0, len(args)-1)
	for k, v := range vals[1:] {
		a := args[k+1]
		switch {
		case types.IsFloat(v.Type()):
			goArgs = append(goArgs, a.f)
		case types.IsInt(v.Type()):
			goArgs = append(goArgs, a.i)
		default:
			goArgs = append(goArgs, a.s)
		}
	}
	fmt.Fprintf(&in.out, args[0].s, goArgs...)
	return nil
}

func (in *interpreter) eval(locals map[value.Value]cell, v value.Value) (cell, error) {
	switch v := v.(type) {
	case *constant.Float:
		f, _ := v.X.Float64()
		return cell{f: f}, nil
	case *constant.Int:
		return cell{i: v.X.Int64()}, nil
	case *constant.ExprBitCast:
		return in.eval(locals, v.From)
	case *ir.Global:
		arr, ok := v.Init.(*constant.CharArray)
		if !ok {
			return cell{}, fmt.Errorf("global %s is not a string", v.Name())
		}
		return cell{s: strings.TrimRight(string(arr.X), "\x00")}, nil
	}
	if c, ok := locals[v]; ok {
		return c, nil
	}
	return cell{}, fmt.Errorf("value %s not computed", v.Ident())
}

// flatSize 类型展平后的单元数
func flatSize(t types.Type) int {
	if arr, ok := t.(*types.ArrayType); ok {
		return int(arr.Len) * flatSize(arr.ElemType)
	}
	return 1
}

// testUnit 直接组装各实现的编译单元，便于在测试中访问底层模块
type testUnit struct {
	ir       *IRModuleManagerImpl
	reporter *DiagnosticReporterImpl
	types    *TypeMapperImpl
	symbols  *SymbolManagerImpl
	funcs    *FunctionRegistryImpl
	arrays   *ArrayManagerImpl
	exprs    *ExpressionEvaluatorImpl
	flow     *ControlFlowGeneratorImpl
	stmts    *StatementGeneratorImpl
}

func newTestUnit(t *testing.T) *testUnit {
	t.Helper()

	reporter := NewDiagnosticReporterImpl(t.Name())
	typeMapper := NewTypeMapperImpl()
	irManager := NewIRModuleManagerImpl(ModuleOptions{SourceFilename: "test.kiwi"})
	symbols := NewSymbolManagerImpl(typeMapper, reporter, DefaultMainFunction)

	u := &testUnit{
		ir:       irManager,
		reporter: reporter,
		types:    typeMapper,
		symbols:  symbols,
		funcs:    NewFunctionRegistryImpl(symbols, typeMapper, reporter),
		arrays:   NewArrayManagerImpl(symbols, typeMapper, reporter),
		exprs:    NewExpressionEvaluatorImpl(symbols, typeMapper, reporter),
		flow:     NewControlFlowGeneratorImpl(reporter),
		stmts:    NewStatementGeneratorImpl(reporter),
	}
	if err := irManager.InitializeMainFunction(); err != nil {
		t.Fatalf("InitializeMainFunction() 错误 = %v", err)
	}
	return u
}

// num 浮点常量
func (u *testUnit) num(v float64) interface{} {
	return u.exprs.EvaluateFloatLiteral(u.ir, v)
}

// load 读取变量
func (u *testUnit) load(t *testing.T, name string) interface{} {
	t.Helper()
	v, err := u.exprs.EvaluateVariable(u.ir, name)
	if err != nil {
		t.Fatalf("EvaluateVariable(%s) 错误 = %v", name, err)
	}
	return v
}

// exec 收尾并执行 main，返回 printf 输出
func (u *testUnit) exec(t *testing.T) string {
	t.Helper()
	if err := u.ir.Finalize(); err != nil {
		t.Fatalf("Finalize() 错误 = %v", err)
	}
	if err := u.ir.Validate(); err != nil {
		t.Fatalf("Validate() 错误 = %v\n%s", err, u.ir.GetIRString())
	}
	in := newInterpreter(u.ir.Module())
	if _, err := in.run(DefaultMainFunction); err != nil {
		t.Fatalf("执行失败: %v\n%s", err, u.ir.GetIRString())
	}
	return in.out.String()
}
