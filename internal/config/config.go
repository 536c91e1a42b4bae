package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/quizbooth/backend/internal/provider/deepseek"
	"github.com/quizbooth/backend/internal/provider/echo"
	"github.com/quizbooth/backend/internal/provider/openai"
	storeredis "github.com/quizbooth/backend/internal/store/redis"
)

// Config represents the backend configuration.
type Config struct {
	Server     ServerConfig
	CORS       CORSConfig
	Redis      storeredis.Config
	DeepSeek   deepseek.Config
	OpenAI     openai.Config
	Echo       echo.Config
	Generation GenerationConfig
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int `env:"SERVER_PORT"          envDefault:"8080"`
	ReadTimeout  int `env:"SERVER_READ_TIMEOUT"  envDefault:"30"`
	WriteTimeout int `env:"SERVER_WRITE_TIMEOUT" envDefault:"120"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// GenerationConfig contains question-generation tuning.
type GenerationConfig struct {
	// BatchSize bounds how many questions one vendor call requests.
	BatchSize int `env:"GENERATION_BATCH_SIZE" envDefault:"5"`

	// BatchDelayMS spaces consecutive vendor calls within one job.
	BatchDelayMS int `env:"GENERATION_BATCH_DELAY_MS" envDefault:"1000"`

	// CleanupGraceSeconds is how long terminal progress records stay
	// readable before deletion.
	CleanupGraceSeconds int `env:"PROGRESS_CLEANUP_GRACE_SECONDS" envDefault:"30"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out
	Server     *ServerConfig
	CORS       *CORSConfig
	Redis      *storeredis.Config
	DeepSeek   *deepseek.Config
	OpenAI     *openai.Config
	Echo       *echo.Config
	Generation *GenerationConfig
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
		Server:     &cfg.Server,
		CORS:       &cfg.CORS,
		Redis:      &cfg.Redis,
		DeepSeek:   &cfg.DeepSeek,
		OpenAI:     &cfg.OpenAI,
		Echo:       &cfg.Echo,
		Generation: &cfg.Generation,
	}
}
