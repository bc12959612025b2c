package providers

import (
	"fmt"

	"github.com/samber/do"

	"github.com/meetai/kiwi/internal/modules/backend"
	"github.com/meetai/kiwi/internal/modules/backend/application/services"
	"github.com/meetai/kiwi/internal/modules/backend/infrastructure/config"
	ports "github.com/meetai/kiwi/internal/modules/backend/ports/services"
)

// ProvideConfig registers the kiwi.toml configuration found at projectRoot
func ProvideConfig(container *do.Injector, projectRoot string) {
	do.Provide(container, func(i *do.Injector) (*config.KiwiConfig, error) {
		cfg, err := config.LoadConfig(projectRoot)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg.ApplyLogging()
		return cfg, nil
	})
}

// ProvideBackendServices registers backend services with the DI container
func ProvideBackendServices(container *do.Injector) {
	// Provide application services
	do.Provide(container, func(i *do.Injector) (ports.IBackendService, error) {
		cfg, err := do.Invoke[*config.KiwiConfig](i)
		if err != nil {
			return nil, err
		}
		return services.NewBackendService(cfg), nil
	})

	// Provide module
	do.Provide(container, backend.NewModule)
}
