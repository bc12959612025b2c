// Package backend provides the code generation context for Kiwi compilation.
// This module turns parser-driven callbacks into LLVM IR.
package backend

import (
	"fmt"

	"github.com/samber/do"

	"github.com/meetai/kiwi/internal/modules/backend/infrastructure/config"
	ports "github.com/meetai/kiwi/internal/modules/backend/ports/services"
)

// Module represents the backend processing module
type Module struct {
	// Ports - external interfaces
	backendService ports.IBackendService

	// Infrastructure
	config *config.KiwiConfig
}

// NewModule creates a new backend module with dependency injection
func NewModule(i *do.Injector) (*Module, error) {
	cfg, err := do.Invoke[*config.KiwiConfig](i)
	if err != nil {
		return nil, err
	}
	svc, err := do.Invoke[ports.IBackendService](i)
	if err != nil {
		return nil, err
	}

	return &Module{
		backendService: svc,
		config:         cfg,
	}, nil
}

// BackendService returns the backend service interface
func (m *Module) BackendService() ports.IBackendService {
	return m.backendService
}

// Config returns the loaded configuration
func (m *Module) Config() *config.KiwiConfig {
	return m.config
}

// Validate validates the module configuration
func (m *Module) Validate() error {
	if m.backendService == nil {
		return fmt.Errorf("backend service is not initialized")
	}
	if m.config == nil {
		return fmt.Errorf("config is not initialized")
	}
	return nil
}
