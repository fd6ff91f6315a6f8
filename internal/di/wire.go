//go:build wireinject
// +build wireinject

package di

import (
	"github.com/Offshore-Miner/Crypto-Dash/pkg/config"
	"github.com/Offshore-Miner/Crypto-Dash/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
    wire.Build(
        // Ambient
        ProvideLogger,
        ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideBytesCache,
		ProvideJobQueue,

		// Repositories (with business logic)
		ProvideBarStore,
		ProvideBarReader,
		ProvideBarPublisher,
		ProvideTickStream,
		ProvideKafkaBarsHandler,

		// Domain services
		ProvideRiskController,

        // Use cases
        ProvideBarProcessor,
        ProvideSimulationUseCase,
        ProvideSimulationJob,
        ProvideBarsUseCase,
        ProvideTradingUseCase,
        ProvideTickCollector,

        // HTTP surface
        ProvideRouter,

        // Application server
        ProvideApp,
    )
    return &server.App{}, nil
}
