package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const defaultSystemPrompt = "You are a patient, safety-first driving instructor. " +
	"Answer questions about road rules, driving technique, vehicle care and road safety " +
	"clearly and concisely. If a question is unrelated to driving, say so briefly."

type Config struct {
	AppEnv   string `mapstructure:"APP_ENV" validate:"required"`
	AppPort  int    `mapstructure:"APP_PORT" validate:"min=1,max=65535"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DatabasePath string `mapstructure:"DATABASE_PATH" validate:"required"`
	StoreBackend string `mapstructure:"STORE_BACKEND" validate:"oneof=sqlite redis"`
	RedisAddr    string `mapstructure:"REDIS_ADDR" validate:"required_if=StoreBackend redis"`
	RedisPass    string `mapstructure:"REDIS_PASSWORD"`
	RedisDB      int    `mapstructure:"REDIS_DB" validate:"min=0"`

	LLMProvider  string `mapstructure:"LLM_PROVIDER" validate:"oneof=gemini ollama"`
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY" validate:"required_if=LLMProvider gemini"`
	GeminiModel  string `mapstructure:"GEMINI_MODEL"`
	GeminiURL    string `mapstructure:"GEMINI_BASE_URL"`
	OllamaURL    string `mapstructure:"OLLAMA_URL" validate:"required_if=LLMProvider ollama"`
	OllamaModel  string `mapstructure:"OLLAMA_MODEL"`
	SystemPrompt string `mapstructure:"SYSTEM_PROMPT"`

	ContextWindowTurns int           `mapstructure:"CONTEXT_WINDOW_TURNS" validate:"min=1"`
	HistoryPageSize    int           `mapstructure:"HISTORY_PAGE_SIZE" validate:"min=1"`
	HistoryMaxPageSize int           `mapstructure:"HISTORY_MAX_PAGE_SIZE" validate:"gtefield=HistoryPageSize"`
	TurnLockWait       time.Duration `mapstructure:"TURN_LOCK_WAIT" validate:"gt=0"`
	RequestTimeout     time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	JWTSecret          string        `mapstructure:"JWT_SECRET" validate:"required,min=16"`
	JWTTTL             time.Duration `mapstructure:"JWT_TTL"`
	UploadDir          string        `mapstructure:"UPLOAD_DIR" validate:"required"`
	UploadBaseURL      string        `mapstructure:"UPLOAD_BASE_URL" validate:"required"`
}

// IsProduction reports whether provider internals must be hidden from clients.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_ENV", "production")
	viper.SetDefault("APP_PORT", 8000)
	viper.SetDefault("LOG_LEVEL", "INFO")
	viper.SetDefault("DATABASE_PATH", "/data/roadmate.db")
	viper.SetDefault("STORE_BACKEND", "sqlite")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("LLM_PROVIDER", "gemini")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
	viper.SetDefault("GEMINI_BASE_URL", "")
	viper.SetDefault("OLLAMA_URL", "http://ollama:11434")
	viper.SetDefault("OLLAMA_MODEL", "llama3.2")
	viper.SetDefault("SYSTEM_PROMPT", defaultSystemPrompt)
	viper.SetDefault("CONTEXT_WINDOW_TURNS", 10)
	viper.SetDefault("HISTORY_PAGE_SIZE", 20)
	viper.SetDefault("HISTORY_MAX_PAGE_SIZE", 100)
	viper.SetDefault("TURN_LOCK_WAIT", "10s")
	viper.SetDefault("REQUEST_TIMEOUT", "60s")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_TTL", "24h")
	viper.SetDefault("UPLOAD_DIR", "/data/uploads")
	viper.SetDefault("UPLOAD_BASE_URL", "/uploads")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./backend")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
