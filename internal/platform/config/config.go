// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultPort = "8080"

// Config holds every setting the server reads at startup.
type Config struct {
	Port           string
	Env            string
	JWTSecret      string
	AllowedOrigins []string
	AppURL         string
	RunMigrations  bool
	Mail           MailConfig
	Redis          RedisConfig
}

// MailConfig holds the SMTP transport settings.
type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Secure   bool
	From     string
}

// Enabled reports whether an SMTP host is configured.
func (m MailConfig) Enabled() bool {
	return m.Host != ""
}

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// Addr returns host:port, or "" when no host is configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	port := r.Port
	if port == "" {
		port = "6379"
	}
	return r.Host + ":" + port
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads .env (if present) and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() *Config {
	frontend := normalizeOrigin(os.Getenv("FRONTEND_URL"))

	origins := parseOrigins(os.Getenv("ALLOWED_ORIGINS"))
	for _, extra := range []string{frontend, normalizeOrigin(os.Getenv("FRONTEND_URL_2"))} {
		origins = appendUnique(origins, extra)
	}

	appURL := normalizeOrigin(os.Getenv("APP_URL"))
	if appURL == "" {
		appURL = frontend
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	mailPort, _ := strconv.Atoi(os.Getenv("MAIL_PORT"))
	mailSecure, _ := strconv.ParseBool(os.Getenv("MAIL_SECURE"))
	runMigrations, _ := strconv.ParseBool(os.Getenv("RUN_MIGRATIONS"))

	return &Config{
		Port:           port,
		Env:            os.Getenv("APP_ENV"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AllowedOrigins: origins,
		AppURL:         appURL,
		RunMigrations:  runMigrations,
		Mail: MailConfig{
			Host:     os.Getenv("MAIL_HOST"),
			Port:     mailPort,
			User:     os.Getenv("MAIL_USER"),
			Password: os.Getenv("MAIL_PASSWORD"),
			Secure:   mailSecure,
			From:     os.Getenv("MAIL_FROM"),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     os.Getenv("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
	}
}

// Validate reports every missing setting the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if len(c.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("at least one allowed origin is required (ALLOWED_ORIGINS or FRONTEND_URL)"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func parseOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		origins = appendUnique(origins, normalizeOrigin(o))
	}
	return origins
}

func normalizeOrigin(o string) string {
	return strings.TrimRight(strings.TrimSpace(o), "/")
}

func appendUnique(list []string, v string) []string {
	if v == "" {
		return list
	}
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
