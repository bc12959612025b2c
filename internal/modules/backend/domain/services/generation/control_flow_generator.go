package generation

// FrameKind 控制结构类别
type FrameKind int

const (
	FrameIf FrameKind = iota
	FrameFor
)

func (k FrameKind) String() string {
	if k == FrameFor {
		return "for"
	}
	return "if"
}

// ControlFlowFrame 一个控制结构的基本块句柄
// if 使用 Then/Else/Merge；for 使用 Cond/Loop/Increment/AfterLoop
type ControlFlowFrame struct {
	Kind      FrameKind
	Cond      interface{}
	Then      interface{}
	Else      interface{}
	Merge     interface{}
	Loop      interface{}
	AfterLoop interface{}
	Increment interface{}

	// 已进入的分支（if: "then" / "else"；for: "cond" / "body" / "increment"）
	Phase string
}

// ControlFlowGenerator 控制流生成领域服务接口
// 职责：每进入一个控制结构压入一帧，退出时弹出；嵌套结构互不覆盖
type ControlFlowGenerator interface {
	// EnterIf 创建 then/(else)/merge 块，按条件分支并进入 then 块
	EnterIf(irManager IRModuleManager, cond interface{}, hasElse bool) (*ControlFlowFrame, error)

	// EnterElse then 块跳转到 merge，进入 else 块
	EnterElse(irManager IRModuleManager) error

	// ExitIf 当前块跳转到 merge，进入 merge 块并弹出帧
	ExitIf(irManager IRModuleManager) error

	// EnterFor 创建 cond/body/increment/after 块，跳转并进入 cond 块
	EnterFor(irManager IRModuleManager) (*ControlFlowFrame, error)

	// ForCondition 按条件分支到 body/after，进入 body 块
	ForCondition(irManager IRModuleManager, cond interface{}) error

	// ForIncrement body 跳转到 increment 块并进入
	ForIncrement(irManager IRModuleManager) error

	// ExitFor 跳回 cond，进入 after 块并弹出帧
	ExitFor(irManager IRModuleManager) error

	// CurrentFrame 栈顶帧，没有时返回 nil
	CurrentFrame() *ControlFlowFrame

	// Depth 当前嵌套深度
	Depth() int
}
