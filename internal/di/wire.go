//go:build wireinject
// +build wireinject

package di

import (
	"EigenFlow/pkg/config"
	"EigenFlow/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure
		ProvideCache,
		ProvideSource,
		ProvideSessionStore,

		// Services
		ProvideLoader,
		ProvideValidator,
		ProvideLimiter,

		// Use cases
		ProvideDashboardUseCase,

		// HTTP
		ProvideHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
