package impl

import (
	"strconv"

	"github.com/meetai/kiwi/internal/modules/backend/domain/services/generation"
)

const (
	phaseThen      = "then"
	phaseElse      = "else"
	phaseCond      = "cond"
	phaseBody      = "body"
	phaseIncrement = "increment"
)

// ControlFlowGeneratorImpl 控制流生成器实现
// 每个 if/for 对应栈中的一帧，嵌套结构各自持有基本块句柄
type ControlFlowGeneratorImpl struct {
	reporter generation.DiagnosticReporter
	frames   []*generation.ControlFlowFrame

	// 用于生成唯一块名（if.then.N / for.cond.N ...），避免嵌套时块名重复
	ifBlockCounter  int
	forBlockCounter int
}

// NewControlFlowGeneratorImpl 创建控制流生成器实现
func NewControlFlowGeneratorImpl(reporter generation.DiagnosticReporter) *ControlFlowGeneratorImpl {
	return &ControlFlowGeneratorImpl{
		reporter: reporter,
	}
}

// EnterIf 生成 if 的条件分支并进入 then 块
func (cfg *ControlFlowGeneratorImpl) EnterIf(irManager generation.IRModuleManager, cond interface{}, hasElse bool) (*generation.ControlFlowFrame, error) {
	n := strconv.Itoa(cfg.ifBlockCounter)
	cfg.ifBlockCounter++

	frame := &generation.ControlFlowFrame{
		Kind:  generation.FrameIf,
		Cond:  irManager.GetCurrentBasicBlock(),
		Phase: phaseThen,
	}

	var err error
	if frame.Then, err = irManager.CreateBasicBlock("if.then." + n); err != nil {
		return nil, cfg.backendError("if", err)
	}
	if hasElse {
		if frame.Else, err = irManager.CreateBasicBlock("if.else." + n); err != nil {
			return nil, cfg.backendError("if", err)
		}
	}
	if frame.Merge, err = irManager.CreateBasicBlock("if.end." + n); err != nil {
		return nil, cfg.backendError("if", err)
	}

	falseDest := frame.Merge
	if hasElse {
		falseDest = frame.Else
	}
	if err := irManager.CreateCondBr(cond, frame.Then, falseDest); err != nil {
		return nil, cfg.backendError("if", err)
	}
	if err := irManager.SetCurrentBasicBlock(frame.Then); err != nil {
		return nil, cfg.backendError("if", err)
	}

	cfg.frames = append(cfg.frames, frame)
	return frame, nil
}

// EnterElse then 分支跳转到 merge 并进入 else 块
func (cfg *ControlFlowGeneratorImpl) EnterElse(irManager generation.IRModuleManager) error {
	frame, err := cfg.expect(generation.FrameIf, "EnterElse", phaseThen)
	if err != nil {
		return err
	}
	if frame.Else == nil {
		return cfg.reporter.Report(generation.NewCodegenError(generation.ControlFlowMismatch, "else",
			"EnterElse on an if without else block"))
	}

	if err := cfg.branchIfOpen(irManager, frame.Merge); err != nil {
		return err
	}
	if err := irManager.SetCurrentBasicBlock(frame.Else); err != nil {
		return cfg.backendError("else", err)
	}
	frame.Phase = phaseElse
	return nil
}

// ExitIf 当前分支跳转到 merge，进入 merge 块并弹出帧
func (cfg *ControlFlowGeneratorImpl) ExitIf(irManager generation.IRModuleManager) error {
	frame, err := cfg.expect(generation.FrameIf, "ExitIf", phaseThen, phaseElse)
	if err != nil {
		return err
	}
	if frame.Phase == phaseThen && frame.Else != nil {
		return cfg.reporter.Report(generation.NewCodegenError(generation.ControlFlowMismatch, "if",
			"ExitIf before EnterElse on an if with else block"))
	}

	if err := cfg.branchIfOpen(irManager, frame.Merge); err != nil {
		return err
	}
	if err := irManager.SetCurrentBasicBlock(frame.Merge); err != nil {
		return cfg.backendError("if", err)
	}
	cfg.pop()
	return nil
}

// EnterFor 创建循环的四个基本块，跳转并进入条件块
func (cfg *ControlFlowGeneratorImpl) EnterFor(irManager generation.IRModuleManager) (*generation.ControlFlowFrame, error) {
	n := strconv.Itoa(cfg.forBlockCounter)
	cfg.forBlockCounter++

	frame := &generation.ControlFlowFrame{
		Kind:  generation.FrameFor,
		Phase: phaseCond,
	}

	var err error
	if frame.Cond, err = irManager.CreateBasicBlock("for.cond." + n); err != nil {
		return nil, cfg.backendError("for", err)
	}
	if frame.Loop, err = irManager.CreateBasicBlock("for.body." + n); err != nil {
		return nil, cfg.backendError("for", err)
	}
	if frame.Increment, err = irManager.CreateBasicBlock("for.inc." + n); err != nil {
		return nil, cfg.backendError("for", err)
	}
	if frame.AfterLoop, err = irManager.CreateBasicBlock("for.end." + n); err != nil {
		return nil, cfg.backendError("for", err)
	}

	if err := cfg.branchIfOpen(irManager, frame.Cond); err != nil {
		return nil, err
	}
	if err := irManager.SetCurrentBasicBlock(frame.Cond); err != nil {
		return nil, cfg.backendError("for", err)
	}

	cfg.frames = append(cfg.frames, frame)
	return frame, nil
}

// ForCondition 条件为真进入循环体，否则跳出循环
func (cfg *ControlFlowGeneratorImpl) ForCondition(irManager generation.IRModuleManager, cond interface{}) error {
	frame, err := cfg.expect(generation.FrameFor, "ForCondition", phaseCond)
	if err != nil {
		return err
	}

	if err := irManager.CreateCondBr(cond, frame.Loop, frame.AfterLoop); err != nil {
		return cfg.backendError("for", err)
	}
	if err := irManager.SetCurrentBasicBlock(frame.Loop); err != nil {
		return cfg.backendError("for", err)
	}
	frame.Phase = phaseBody
	return nil
}

// ForIncrement 循环体跳转到递增块并进入
func (cfg *ControlFlowGeneratorImpl) ForIncrement(irManager generation.IRModuleManager) error {
	frame, err := cfg.expect(generation.FrameFor, "ForIncrement", phaseBody)
	if err != nil {
		return err
	}

	if err := cfg.branchIfOpen(irManager, frame.Increment); err != nil {
		return err
	}
	if err := irManager.SetCurrentBasicBlock(frame.Increment); err != nil {
		return cfg.backendError("for", err)
	}
	frame.Phase = phaseIncrement
	return nil
}

// ExitFor 跳回条件块，进入循环后继块并弹出帧
func (cfg *ControlFlowGeneratorImpl) ExitFor(irManager generation.IRModuleManager) error {
	frame, err := cfg.expect(generation.FrameFor, "ExitFor", phaseBody, phaseIncrement)
	if err != nil {
		return err
	}

	// 没有递增部分时递增块只做跳转
	if frame.Phase == phaseBody {
		if err := cfg.ForIncrement(irManager); err != nil {
			return err
		}
	}
	if err := cfg.branchIfOpen(irManager, frame.Cond); err != nil {
		return err
	}
	if err := irManager.SetCurrentBasicBlock(frame.AfterLoop); err != nil {
		return cfg.backendError("for", err)
	}
	cfg.pop()
	return nil
}

// CurrentFrame 栈顶帧
func (cfg *ControlFlowGeneratorImpl) CurrentFrame() *generation.ControlFlowFrame {
	if len(cfg.frames) == 0 {
		return nil
	}
	return cfg.frames[len(cfg.frames)-1]
}

// Depth 当前嵌套深度
func (cfg *ControlFlowGeneratorImpl) Depth() int {
	return len(cfg.frames)
}

func (cfg *ControlFlowGeneratorImpl) expect(kind generation.FrameKind, op string, phases ...string) (*generation.ControlFlowFrame, error) {
	frame := cfg.CurrentFrame()
	if frame == nil || frame.Kind != kind {
		return nil, cfg.reporter.Report(generation.NewCodegenError(generation.ControlFlowMismatch, kind.String(),
			"%s outside of a %s construct", op, kind))
	}
	for _, p := range phases {
		if frame.Phase == p {
			return frame, nil
		}
	}
	return nil, cfg.reporter.Report(generation.NewCodegenError(generation.ControlFlowMismatch, kind.String(),
		"%s not allowed in %s phase of %s construct", op, frame.Phase, kind))
}

func (cfg *ControlFlowGeneratorImpl) pop() {
	cfg.frames = cfg.frames[:len(cfg.frames)-1]
}

// branchIfOpen 当前块尚未终止（例如没有 return）时跳转到 dest
func (cfg *ControlFlowGeneratorImpl) branchIfOpen(irManager generation.IRModuleManager, dest interface{}) error {
	if irManager.IsTerminated(irManager.GetCurrentBasicBlock()) {
		return nil
	}
	if err := irManager.CreateBr(dest); err != nil {
		return cfg.backendError("br", err)
	}
	return nil
}

func (cfg *ControlFlowGeneratorImpl) backendError(name string, err error) error {
	return cfg.reporter.Report(generation.WrapBackendError(name, err))
}
