package config

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

var ErrMissingSecret = errors.New("JWT_SECRET is not set")

type DBConfig struct {
	URL      string
	Username string
	Password string
	Host     string
	Port     string
	DBName   string
	SSLMode  string
}

// DSN prefers an explicit connection string over the individual parts.
func (c DBConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}

	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Username, c.Password),
		Host:   c.Host + ":" + c.Port,
		Path:   "/" + c.DBName,
	}
	if c.SSLMode != "" {
		dsn.RawQuery = url.Values{"sslmode": []string{c.SSLMode}}.Encode()
	}

	return dsn.String()
}

type RedisConfig struct {
	Addr     string
	Password string
}

type AuthConfig struct {
	Secret     []byte
	TokenTTL   time.Duration // zero issues tokens without expiry
	BcryptCost int
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type ServerConfig struct {
	Port           string
	Handler        http.Handler
	MaxHeaderBytes int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

type Config struct {
	Env             string
	Port            string
	ClientOrigin    string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	DB              DBConfig
	Redis           RedisConfig
	RabbitMQURL     string
	Auth            AuthConfig
	RateLimit       RateLimitConfig
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "5000")
	v.SetDefault("app.env", "production")
	v.SetDefault("client.origin", "*")
	v.SetDefault("auth.token-ttl", "72h")
	v.SetDefault("auth.bcrypt-cost", bcrypt.DefaultCost)
	v.SetDefault("ratelimit.rps", 1.0)
	v.SetDefault("ratelimit.burst", 5)
	v.SetDefault("server.read-timeout", "10s")
	v.SetDefault("server.write-timeout", "10s")
	v.SetDefault("server.shutdown-timeout", "5s")
}

// Load builds the process configuration from the yaml values in v and the
// environment. Secrets and connection strings only come from the environment.
func Load(v *viper.Viper, getenv func(string) string) (*Config, error) {
	SetDefaults(v)

	secret := getenv("JWT_SECRET")
	if secret == "" {
		return nil, ErrMissingSecret
	}

	cost := v.GetInt("auth.bcrypt-cost")
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("auth.bcrypt-cost must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, cost)
	}

	port := v.GetString("app.port")
	if envPort := getenv("PORT"); envPort != "" {
		port = envPort
	}

	cfg := &Config{
		Env:             v.GetString("app.env"),
		Port:            port,
		ClientOrigin:    v.GetString("client.origin"),
		ReadTimeout:     v.GetDuration("server.read-timeout"),
		WriteTimeout:    v.GetDuration("server.write-timeout"),
		ShutdownTimeout: v.GetDuration("server.shutdown-timeout"),
		DB: DBConfig{
			URL:      getenv("DATABASE_URL"),
			Username: getenv("POSTGRES_USER"),
			Password: getenv("POSTGRES_PASSWORD"),
			Host:     getenv("POSTGRES_HOST"),
			Port:     getenv("POSTGRES_PORT"),
			DBName:   getenv("POSTGRES_DATABASE"),
			SSLMode:  getenv("POSTGRES_SSLMODE"),
		},
		Redis: RedisConfig{
			Addr:     getenv("REDIS_ADDR"),
			Password: getenv("REDIS_PASSWORD"),
		},
		RabbitMQURL: getenv("RABBITMQ_CONN_STRING"),
		Auth: AuthConfig{
			Secret:     []byte(secret),
			TokenTTL:   v.GetDuration("auth.token-ttl"),
			BcryptCost: cost,
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("ratelimit.rps"),
			Burst: v.GetInt("ratelimit.burst"),
		},
	}

	if cfg.Auth.TokenTTL < 0 {
		return nil, fmt.Errorf("auth.token-ttl must not be negative, got %s", cfg.Auth.TokenTTL)
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
