package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"github.com/meetai/kiwi/internal/modules/backend/domain/services/generation"
	"github.com/meetai/kiwi/internal/modules/backend/infrastructure/config"
)

func TestBackendService_Compile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Module.Name = "hello"
	cfg.Module.SourceFilename = "hello.kiwi"
	svc := NewBackendService(cfg)

	result, err := svc.Compile(func(gen generation.CodeGenerator) error {
		irm := gen.IRModuleManager()
		if err := gen.SymbolManager().Bind(irm, "x", irm.CreateFloatConstant(4)); err != nil {
			return err
		}
		x, err := gen.ExpressionEvaluator().EvaluateVariable(irm, "x")
		if err != nil {
			return err
		}
		return gen.StatementGenerator().PrintNumber(irm, x)
	})
	be.Err(t, err, nil)

	be.True(t, result.UnitID != "")
	be.True(t, strings.Contains(result.IR, `source_filename = "hello.kiwi"`))
	be.True(t, strings.Contains(result.IR, "call i32 (i8*, ...) @printf"))
	be.Equal(t, len(result.Diagnostics), 0)
	be.Equal(t, result.Manifest.Module, "hello")
	be.Equal(t, result.Manifest.UnitID, result.UnitID)
}

func TestBackendService_RecoverableErrorsContinue(t *testing.T) {
	svc := NewBackendService(nil)

	result, err := svc.Compile(func(gen generation.CodeGenerator) error {
		irm := gen.IRModuleManager()
		one := irm.CreateFloatConstant(1)
		// 不支持的运算符只记录诊断，生成继续
		if _, err := gen.ExpressionEvaluator().EvaluateBinary(irm, "%", one, one); err != nil && generation.IsFatal(err) {
			return err
		}
		_, err := gen.ArrayManager().AccessElement(irm, "missing", 0, 0)
		return err
	})
	be.Err(t, err, nil)

	be.Equal(t, len(result.Diagnostics), 2)
	be.Equal(t, result.Diagnostics[0].Kind, generation.UnknownOperator)
	be.Equal(t, result.Diagnostics[1].Kind, generation.ArrayNotDeclared)
	be.True(t, strings.Contains(result.IR, "define i32 @main()"))
}

func TestBackendService_FatalAborts(t *testing.T) {
	svc := NewBackendService(config.DefaultConfig())

	result, err := svc.Compile(func(gen generation.CodeGenerator) error {
		irm := gen.IRModuleManager()
		_, err := gen.ExpressionEvaluator().EvaluateComparison(irm, "=",
			irm.CreateFloatConstant(3), irm.CreateFloatConstant(2))
		return err
	})
	be.True(t, errors.Is(err, generation.ErrUnknownComparator))
	be.Equal(t, result.IR, "")
	be.Equal(t, len(result.Diagnostics), 1)
	be.True(t, result.Diagnostics[0].Fatal)
}

func TestBackendService_FatalSwallowedByDriver(t *testing.T) {
	svc := NewBackendService(config.DefaultConfig())

	// 驱动忽略了错误，但诊断中记录了致命错误
	_, err := svc.Compile(func(gen generation.CodeGenerator) error {
		irm := gen.IRModuleManager()
		funcs := gen.FunctionRegistry()
		if _, err := funcs.DeclareFunction(irm, "f", []string{"a", "b"}, generation.ReturnScalar); err != nil {
			return err
		}
		if err := funcs.BindParameters(irm, "f"); err != nil {
			return err
		}
		if err := funcs.EndFunction(irm); err != nil {
			return err
		}
		funcs.CallFunction(irm, "f", []interface{}{irm.CreateFloatConstant(1)})
		return nil
	})
	be.True(t, errors.Is(err, generation.ErrArityMismatch))
}

func TestBackendService_ContinueOnFatalWhenConfigured(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Codegen.AbortOnFatal = false
	svc := NewBackendService(cfg)

	result, err := svc.Compile(func(gen generation.CodeGenerator) error {
		irm := gen.IRModuleManager()
		_, err := gen.ExpressionEvaluator().EvaluateComparison(irm, "=",
			irm.CreateFloatConstant(3), irm.CreateFloatConstant(2))
		return err
	})
	be.Err(t, err, nil)
	be.True(t, result.IR != "")
	be.Equal(t, len(result.Diagnostics), 1)
}

func TestBackendService_DriverErrors(t *testing.T) {
	svc := NewBackendService(nil)

	_, err := svc.Compile(nil)
	be.Err(t, err)

	_, err = svc.Compile(func(gen generation.CodeGenerator) error {
		return fmt.Errorf("parse error at line 3")
	})
	be.Err(t, err, "parse error at line 3")

	// 未关闭的控制结构在收尾时报告
	_, err = svc.Compile(func(gen generation.CodeGenerator) error {
		_, err := gen.ControlFlowGenerator().EnterFor(gen.IRModuleManager())
		return err
	})
	be.True(t, errors.Is(err, generation.ErrControlFlowMismatch))
}

func TestBackendService_NewUnit(t *testing.T) {
	svc := NewBackendService(nil)

	a := svc.NewUnit()
	b := svc.NewUnit()
	be.True(t, a.ID() != b.ID())
	be.Equal(t, a.ModuleName(), "untitled")
}
