package di

import (
	"fmt"

	"github.com/samber/do"

	"github.com/meetai/kiwi/internal/infrastructure/di/providers"
	"github.com/meetai/kiwi/internal/modules/backend"
	ports "github.com/meetai/kiwi/internal/modules/backend/ports/services"
)

// Container wraps the do.Injector with additional functionality
type Container struct {
	*do.Injector
}

// NewContainer creates a new dependency injection container for the project at projectRoot
func NewContainer(projectRoot string) *Container {
	container := &Container{
		Injector: do.New(),
	}

	// Register all service providers
	providers.ProvideConfig(container.Injector, projectRoot)
	providers.ProvideBackendServices(container.Injector)

	return container
}

// ListServices returns the names of registered services
func (c *Container) ListServices() []string {
	return c.Injector.ListProvidedServices()
}

// Validate validates the container configuration
func (c *Container) Validate() error {
	if c.Injector == nil {
		return fmt.Errorf("container is not initialized")
	}
	module, err := do.Invoke[*backend.Module](c.Injector)
	if err != nil {
		return fmt.Errorf("failed to build backend module: %w", err)
	}
	return module.Validate()
}

// Shutdown gracefully shuts down the container and all services
func (c *Container) Shutdown() error {
	return c.Injector.Shutdown()
}

// GetBackendService gets the backend service from the container
func (c *Container) GetBackendService() (ports.IBackendService, error) {
	service, err := do.Invoke[ports.IBackendService](c.Injector)
	if err != nil {
		return nil, fmt.Errorf("failed to get backend service: %w", err)
	}
	return service, nil
}
