package main

import (
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"
	"go.uber.org/zap"

	rediscache "github.com/davidbz/datachat/internal/cache/redis"
	"github.com/davidbz/datachat/internal/config"
	"github.com/davidbz/datachat/internal/dbconn"
	"github.com/davidbz/datachat/internal/domain"
	hashembed "github.com/davidbz/datachat/internal/embedding/hash"
	openaiembed "github.com/davidbz/datachat/internal/embedding/openai"
	"github.com/davidbz/datachat/internal/http"
	"github.com/davidbz/datachat/internal/http/middleware"
	"github.com/davidbz/datachat/internal/observability"
	schemapg "github.com/davidbz/datachat/internal/schema/postgres"
	echogen "github.com/davidbz/datachat/internal/sqlgen/echo"
	openaigen "github.com/davidbz/datachat/internal/sqlgen/openai"
	sqlexecpg "github.com/davidbz/datachat/internal/sqlexec/postgres"
	"github.com/davidbz/datachat/internal/task"
)

func main() {
	container := buildContainer()

	err := container.Invoke(func(server *http.Server) {
		if err := server.Start(); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

//nolint:funlen // composition root
func buildContainer() *dig.Container {
	container := dig.New()

	// Configuration
	if err := container.Provide(config.Load); err != nil {
		log.Fatalf("Failed to provide config: %v", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		log.Fatalf("Failed to provide config dependencies: %v", err)
	}

	// Observability
	if err := container.Provide(observability.InitLogger); err != nil {
		log.Fatalf("Failed to provide logger: %v", err)
	}
	if err := container.Provide(func(logger *zap.Logger) domain.EventPublisher {
		return observability.NewEventBus(logger)
	}); err != nil {
		log.Fatalf("Failed to provide event bus: %v", err)
	}

	// Cache store backend
	if err := container.Provide(func(cfg *config.RedisConfig) *redis.Client {
		return redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}); err != nil {
		log.Fatalf("Failed to provide redis client: %v", err)
	}

	// Embedding generator: real model when configured, hash fingerprint
	// fallback otherwise. Downstream code cannot tell which is active.
	if err := container.Provide(func(cfg *openaiembed.Config, logger *zap.Logger) (domain.EmbeddingGenerator, error) {
		if cfg.APIKey == "" {
			logger.Warn("no embedding API key configured, using hash fingerprint fallback")
			return hashembed.NewGenerator(), nil
		}
		return openaiembed.NewGenerator(*cfg)
	}); err != nil {
		log.Fatalf("Failed to provide embedding generator: %v", err)
	}

	if err := container.Provide(func(
		client *redis.Client,
		cfg *config.CacheConfig,
		generator domain.EmbeddingGenerator,
	) domain.CacheStore {
		return rediscache.NewStore(client, cfg.IndexName, cfg.KeyPrefix, generator.Dimension())
	}); err != nil {
		log.Fatalf("Failed to provide cache store: %v", err)
	}

	if err := container.Provide(func(
		generator domain.EmbeddingGenerator,
		store domain.CacheStore,
		cfg *config.CacheConfig,
	) domain.SemanticCache {
		return domain.NewSemanticCacheService(generator, store, cfg.SimilarityThreshold, cfg.SearchK)
	}); err != nil {
		log.Fatalf("Failed to provide semantic cache: %v", err)
	}

	// Task registry
	if err := container.Provide(func() domain.TaskRegistry {
		return task.NewRegistry()
	}); err != nil {
		log.Fatalf("Failed to provide task registry: %v", err)
	}

	// Target databases
	if err := container.Provide(func(cfg *config.DatabasesConfig) (*dbconn.Directory, error) {
		return dbconn.NewDirectory(cfg.Targets)
	}); err != nil {
		log.Fatalf("Failed to provide database directory: %v", err)
	}
	if err := container.Provide(func(directory *dbconn.Directory) domain.QueryExecutor {
		return sqlexecpg.NewExecutor(directory)
	}); err != nil {
		log.Fatalf("Failed to provide query executor: %v", err)
	}
	if err := container.Provide(func(directory *dbconn.Directory) domain.SchemaSource {
		return schemapg.NewSource(directory)
	}); err != nil {
		log.Fatalf("Failed to provide schema source: %v", err)
	}

	// SQL generator: LLM-backed when configured, canned generator otherwise.
	if err := container.Provide(func(cfg *openaigen.Config, logger *zap.Logger) (domain.SQLGenerator, error) {
		if cfg.APIKey == "" {
			logger.Warn("no SQL generator API key configured, using echo generator")
			return echogen.NewGenerator(), nil
		}
		return openaigen.NewGenerator(*cfg)
	}); err != nil {
		log.Fatalf("Failed to provide SQL generator: %v", err)
	}

	// Pipeline
	if err := container.Provide(func(
		registry domain.TaskRegistry,
		cache domain.SemanticCache,
		schemas domain.SchemaSource,
		generator domain.SQLGenerator,
		executor domain.QueryExecutor,
		events domain.EventPublisher,
		pipelineCfg *config.PipelineConfig,
		cacheCfg *config.CacheConfig,
	) *domain.PipelineService {
		return domain.NewPipelineService(registry, cache, schemas, generator, executor, events,
			domain.PipelineConfig{
				GenerateTimeout: time.Duration(pipelineCfg.GenerateTimeoutSeconds) * time.Second,
				ExecuteTimeout:  time.Duration(pipelineCfg.ExecuteTimeoutSeconds) * time.Second,
				TaskTimeout:     time.Duration(pipelineCfg.TaskTimeoutSeconds) * time.Second,
				SweepMaxAge:     time.Duration(pipelineCfg.SweepMaxAgeSeconds) * time.Second,
				CacheTTL:        time.Duration(cacheCfg.TTLSeconds) * time.Second,
				RowLimit:        pipelineCfg.RowLimit,
			})
	}); err != nil {
		log.Fatalf("Failed to provide pipeline service: %v", err)
	}

	// HTTP Layer
	if err := container.Provide(middleware.BuildMiddlewareChain); err != nil {
		log.Fatalf("Failed to provide middleware chain: %v", err)
	}
	if err := container.Provide(http.NewHandler); err != nil {
		log.Fatalf("Failed to provide HTTP handler: %v", err)
	}
	if err := container.Provide(http.NewServer); err != nil {
		log.Fatalf("Failed to provide HTTP server: %v", err)
	}

	return container
}
