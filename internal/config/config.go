package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	openaiembed "github.com/davidbz/datachat/internal/embedding/openai"
	openaigen "github.com/davidbz/datachat/internal/sqlgen/openai"
)

// Config represents the service configuration.
type Config struct {
	Server    ServerConfig
	CORS      CORSConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Pipeline  PipelineConfig
	Embedding openaiembed.Config
	SQLGen    openaigen.Config
	Databases DatabasesConfig
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int `env:"SERVER_PORT"          envDefault:"8080"`
	ReadTimeout  int `env:"SERVER_READ_TIMEOUT"  envDefault:"30"`
	WriteTimeout int `env:"SERVER_WRITE_TIMEOUT" envDefault:"30"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization,X-User-ID"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// RedisConfig contains cache store connection settings.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"     envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB"       envDefault:"0"`
}

// CacheConfig contains semantic cache tuning.
type CacheConfig struct {
	SimilarityThreshold float64 `env:"CACHE_SIMILARITY_THRESHOLD" envDefault:"0.84"`
	TTLSeconds          int     `env:"CACHE_TTL_SECONDS"          envDefault:"600"`
	SearchK             int     `env:"CACHE_SEARCH_K"             envDefault:"5"`
	IndexName           string  `env:"CACHE_INDEX_NAME"           envDefault:"semantic_cache_v2"`
	KeyPrefix           string  `env:"CACHE_KEY_PREFIX"           envDefault:"semantic_cache"`
}

// PipelineConfig contains per-stage budgets for the task executor.
type PipelineConfig struct {
	GenerateTimeoutSeconds int `env:"PIPELINE_GENERATE_TIMEOUT_SECONDS" envDefault:"120"`
	ExecuteTimeoutSeconds  int `env:"PIPELINE_EXECUTE_TIMEOUT_SECONDS"  envDefault:"180"`
	TaskTimeoutSeconds     int `env:"PIPELINE_TASK_TIMEOUT_SECONDS"     envDefault:"300"`
	SweepMaxAgeSeconds     int `env:"PIPELINE_SWEEP_MAX_AGE_SECONDS"    envDefault:"3600"`
	RowLimit               int `env:"PIPELINE_ROW_LIMIT"                envDefault:"100"`
}

// DatabasesConfig names the target databases queries may run against.
// Format: "name=postgres://...;other=postgres://...".
type DatabasesConfig struct {
	Targets string `env:"TARGET_DATABASES" envDefault:""`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out

	Server    *ServerConfig
	CORS      *CORSConfig
	Redis     *RedisConfig
	Cache     *CacheConfig
	Pipeline  *PipelineConfig
	Embedding *openaiembed.Config
	SQLGen    *openaigen.Config
	Databases *DatabasesConfig
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		Out:       dig.Out{},
		Server:    &cfg.Server,
		CORS:      &cfg.CORS,
		Redis:     &cfg.Redis,
		Cache:     &cfg.Cache,
		Pipeline:  &cfg.Pipeline,
		Embedding: &cfg.Embedding,
		SQLGen:    &cfg.SQLGen,
		Databases: &cfg.Databases,
	}
}
