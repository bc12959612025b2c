package services

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/meetai/kiwi/internal/modules/backend/domain/services/generation"
	codegen "github.com/meetai/kiwi/internal/modules/backend/infrastructure/generation"
	"github.com/meetai/kiwi/internal/modules/backend/infrastructure/config"
	ports "github.com/meetai/kiwi/internal/modules/backend/ports/services"
)

var log = commonlog.GetLogger("kiwi.backend")

// BackendService 后端应用服务
type BackendService struct {
	config *config.KiwiConfig
}

// NewBackendService 创建后端服务
func NewBackendService(cfg *config.KiwiConfig) ports.IBackendService {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &BackendService{
		config: cfg,
	}
}

// NewUnit 按配置创建编译单元
func (s *BackendService) NewUnit() *codegen.Container {
	return codegen.NewContainer(codegen.ContainerOptions{
		ModuleName:     s.config.Module.Name,
		SourceFilename: s.config.Module.SourceFilename,
		TargetTriple:   s.config.Module.TargetTriple,
		DataLayout:     s.config.Module.DataLayout,
		MainFunction:   s.config.Codegen.MainFunction,
	})
}

// Compile 运行驱动函数并生成IR
// 出现致命错误时（abort_on_fatal）立即终止该编译单元；可恢复错误只记录诊断
func (s *BackendService) Compile(driver ports.Driver) (*ports.CompilationResult, error) {
	if driver == nil {
		return nil, fmt.Errorf("driver is nil")
	}

	unit := s.NewUnit()
	log.Infof("compiling unit %s (module %s)", unit.ID(), unit.ModuleName())

	if err := unit.Begin(); err != nil {
		return nil, fmt.Errorf("failed to initialize unit %s: %w", unit.ID(), err)
	}

	if err := driver(unit); err != nil {
		if generation.IsFatal(err) || unit.Diagnostics().HasFatal() {
			if s.config.Codegen.AbortOnFatal {
				return s.result(unit, ""), fmt.Errorf("compilation of unit %s aborted: %w", unit.ID(), err)
			}
		} else if generation.KindOf(err) == generation.KindUnknown {
			// 驱动自身的错误（非代码生成错误）
			return s.result(unit, ""), fmt.Errorf("driver failed: %w", err)
		}
		log.Warningf("unit %s: continuing after %s", unit.ID(), err)
	}

	if s.config.Codegen.AbortOnFatal && unit.Diagnostics().HasFatal() {
		return s.result(unit, ""), fmt.Errorf("compilation of unit %s aborted: %w", unit.ID(), firstFatal(unit))
	}

	if err := unit.Finalize(); err != nil {
		return s.result(unit, ""), fmt.Errorf("failed to finalize unit %s: %w", unit.ID(), err)
	}

	result := s.result(unit, unit.GetIRString())
	log.Infof("unit %s done with %d diagnostic(s)", unit.ID(), len(result.Diagnostics))
	return result, nil
}

func (s *BackendService) result(unit *codegen.Container, ir string) *ports.CompilationResult {
	return &ports.CompilationResult{
		UnitID:      unit.ID(),
		IR:          ir,
		Diagnostics: unit.Diagnostics().Diagnostics(),
		Manifest:    unit.Manifest(),
	}
}

func firstFatal(unit *codegen.Container) error {
	for _, d := range unit.Diagnostics().Diagnostics() {
		if d.Fatal {
			return generation.NewCodegenError(d.Kind, d.Name, "%s", d.Message)
		}
	}
	return nil
}
