package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds every runtime setting of the application.
type Config struct {
	Server     ServerConfig
	Completion CompletionConfig
	OpenAI     OpenAIConfig
	Redis      RedisConfig
	Logger     LoggerConfig
	Report     ReportConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
}

// CompletionConfig selects and configures the completion backend.
// Source is either "googleai" or "openai".
type CompletionConfig struct {
	Source  string
	Model   string
	APIKey  string
	Timeout time.Duration
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type LoggerConfig struct {
	Level string
	Env   string
}

type ReportConfig struct {
	Attribution string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", 30)
	viper.SetDefault("server.write_timeout", 30)
	viper.SetDefault("server.body_limit_mb", 25)
	viper.SetDefault("completion.source", "googleai")
	viper.SetDefault("completion.model", "gemini-1.5-flash")
	viper.SetDefault("completion.timeout", 60)
	viper.SetDefault("openai.model", "gpt-4o-mini")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")
	viper.SetDefault("report.attribution", "Generated and created by Padhai Karo")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A config file is optional; defaults plus env vars are enough to run.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
			BodyLimit:    viper.GetInt("server.body_limit_mb") * 1024 * 1024,
		},
		Completion: CompletionConfig{
			Source:  viper.GetString("completion.source"),
			Model:   viper.GetString("completion.model"),
			APIKey:  viper.GetString("completion.api_key"),
			Timeout: viper.GetDuration("completion.timeout") * time.Second,
		},
		OpenAI: OpenAIConfig{
			APIKey: viper.GetString("openai.api_key"),
			Model:  viper.GetString("openai.model"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		Report: ReportConfig{
			Attribution: viper.GetString("report.attribution"),
		},
	}

	// Environment variables win over file values.
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.Completion.APIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.OpenAI.APIKey = key
	}
	if source := os.Getenv("COMPLETION_SOURCE"); source != "" {
		cfg.Completion.Source = source
	}
	if model := os.Getenv("COMPLETION_MODEL"); model != "" {
		cfg.Completion.Model = model
	}
	if addr := os.Getenv("REDIS_ADDRESS"); addr != "" {
		cfg.Redis.Address = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}

	return cfg, nil
}
