package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Config is loaded once at process start and passed by reference into every
// component that needs it. Nothing reads the environment after startup.
type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	UploadDir string `env:"UPLOAD_DIR, default=uploads/pdfs"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Tokens TokenConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=casos_obras"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// TokenConfig holds the five operational secret tokens: one registration
// token per role, plus the delivery-confirmation and deletion passwords.
type TokenConfig struct {
	Superadmin string `env:"TOKEN_SUPERADMIN"`
	Admin      string `env:"TOKEN_ADMIN"`
	User       string `env:"TOKEN_USER"`
	Entrega    string `env:"PASSWORD_ENTREGA"`
	Eliminar   string `env:"PASSWORD_ELIMINAR"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
