package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Port            string   `yaml:"port"`
	Environment     string   `yaml:"environment"`
	LogLevel        string   `yaml:"log_level"`
	StoreDriver     string   `yaml:"store_driver"`
	MongoDBURI      string   `yaml:"mongodb_uri"`
	MongoDBPassword string   `yaml:"mongodb_password"`
	MongoDBName     string   `yaml:"mongodb_db"`
	JWTSecret       string   `yaml:"jwt_secret"`
	JWKSURL         string   `yaml:"jwks_url"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	AMQPURL         string   `yaml:"amqp_url"`
	AMQPExchange    string   `yaml:"amqp_exchange"`

	Cloudinary CloudinaryConfig `yaml:"cloudinary"`
}

type CloudinaryConfig struct {
	CloudName string `yaml:"cloud_name"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
}

func (c CloudinaryConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

func defaults() *Config {
	return &Config{
		Port:           "4000",
		Environment:    "development",
		LogLevel:       "info",
		StoreDriver:    StoreMongo,
		MongoDBName:    "eventapp",
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		AMQPExchange:   "events",
	}
}

// LoadConfig layers defaults, the optional CONFIG_FILE and the environment,
// in that order.
func LoadConfig() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Port = getEnvWithDefault("PORT", cfg.Port)
	cfg.Environment = getEnvWithDefault("ENVIRONMENT", cfg.Environment)
	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.StoreDriver = strings.ToLower(getEnvWithDefault("STORE_DRIVER", cfg.StoreDriver))
	cfg.MongoDBURI = getEnvWithDefault("MONGODB_URI", cfg.MongoDBURI)
	cfg.MongoDBPassword = getEnvWithDefault("MONGODB_PASSWORD", cfg.MongoDBPassword)
	cfg.MongoDBName = getEnvWithDefault("MONGODB_DB", cfg.MongoDBName)
	cfg.JWTSecret = getEnvWithDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.JWKSURL = getEnvWithDefault("JWKS_URL", cfg.JWKSURL)
	cfg.AMQPURL = getEnvWithDefault("AMQP_URL", cfg.AMQPURL)
	cfg.AMQPExchange = getEnvWithDefault("AMQP_EXCHANGE", cfg.AMQPExchange)
	cfg.Cloudinary.CloudName = getEnvWithDefault("CLOUDINARY_CLOUD_NAME", cfg.Cloudinary.CloudName)
	cfg.Cloudinary.APIKey = getEnvWithDefault("CLOUDINARY_API_KEY", cfg.Cloudinary.APIKey)
	cfg.Cloudinary.APISecret = getEnvWithDefault("CLOUDINARY_API_SECRET", cfg.Cloudinary.APISecret)

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = splitList(origins)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreMongo:
		if c.MongoDBURI == "" {
			return fmt.Errorf("MONGODB_URI is required")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q (expected %s or %s)", c.StoreDriver, StoreMongo, StoreMemory)
	}

	if c.JWTSecret == "" && c.JWKSURL == "" {
		return fmt.Errorf("either JWT_SECRET or JWKS_URL is required")
	}
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	return nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
