package main

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/quizbooth/backend/internal/config"
	"github.com/quizbooth/backend/internal/domain"
	"github.com/quizbooth/backend/internal/generation"
	"github.com/quizbooth/backend/internal/http"
	"github.com/quizbooth/backend/internal/http/middleware"
	"github.com/quizbooth/backend/internal/observability"
	"github.com/quizbooth/backend/internal/progress"
	"github.com/quizbooth/backend/internal/provider/deepseek"
	"github.com/quizbooth/backend/internal/provider/echo"
	"github.com/quizbooth/backend/internal/provider/openai"
	"github.com/quizbooth/backend/internal/provider/registry"
	storeredis "github.com/quizbooth/backend/internal/store/redis"
)

func main() {
	container := buildContainer()

	// Force logger initialization before anything else logs.
	if err := container.Invoke(func(*zap.Logger) {}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	err := container.Invoke(func(server *http.Server) {
		if err := server.Start(); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

//nolint:funlen // Linear DI wiring
func buildContainer() *dig.Container {
	container := dig.New()

	provide := func(constructor any) {
		if err := container.Provide(constructor); err != nil {
			log.Fatalf("Failed to provide dependency: %v", err)
		}
	}

	// Configuration
	provide(config.Load)
	provide(config.ParseDependenciesConfig)

	// Observability
	provide(observability.InitLogger)
	provide(observability.NewEventBus)

	// Storage
	provide(storeredis.NewClient)
	provide(func(client *redis.Client) domain.ProgressStore {
		return storeredis.NewProgressStore(client)
	})
	provide(func(client *redis.Client) domain.OverrideStore {
		return storeredis.NewOverrideStore(client)
	})

	// Providers
	provide(func(dsCfg *deepseek.Config, oaCfg *openai.Config, echoCfg *echo.Config) (domain.ProviderRegistry, error) {
		reg := registry.NewRegistry()

		adapters := []domain.Provider{
			deepseek.NewProvider(*dsCfg),
			openai.NewProvider(*oaCfg),
			echo.NewProvider(*echoCfg),
		}

		for _, adapter := range adapters {
			if err := reg.Register(adapter); err != nil {
				return nil, err
			}
		}

		return reg, nil
	})

	// Generation core
	provide(func(bus *observability.EventBus) generation.SwitchHook {
		return func(ctx context.Context, from, to string) {
			bus.Publish(ctx, "provider_switch", map[string]interface{}{
				"from": from,
				"to":   to,
			})
		}
	})
	provide(generation.NewService)
	provide(func(store domain.ProgressStore, genCfg *config.GenerationConfig) *progress.Tracker {
		return progress.NewTracker(store, time.Duration(genCfg.CleanupGraceSeconds)*time.Second)
	})
	provide(func(svc *generation.Service, tracker *progress.Tracker, genCfg *config.GenerationConfig) *generation.Orchestrator {
		return generation.NewOrchestrator(svc, tracker,
			genCfg.BatchSize,
			time.Duration(genCfg.BatchDelayMS)*time.Millisecond,
		)
	})

	// HTTP Layer
	provide(http.NewHandler)
	provide(middleware.BuildMiddlewareChain)
	provide(http.NewServer)

	return container
}
