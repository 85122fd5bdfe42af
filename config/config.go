// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	configDir = pflag.String("config", ".", "Directory containing config.toml")

	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validEnvs      = []string{"dev", "prod"}
	validDrivers   = []string{"sqlite", "postgres"}
)

var ErrNoJWTSecret = errors.New("jwt.secret is not set")

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup parses the command line and loads the configuration. Function will
// return an error if something is critically wrong and the application
// can't run because of that.
func Setup() error {
	pflag.Parse()

	err := Load(*configDir)
	if errors.Is(err, ErrNoJWTSecret) {
		fmt.Println("WARNING: You haven't set a JWT secret. Set JWT_SECRET or jwt.secret in config.toml, for example:\n\n" + genSecret())
	}

	return err
}

// Load resets viper and reads config.toml from dir, environment variables
// and defaults, in that order of precedence from last to first. A missing
// config file is fine as long as the environment covers the required keys.
func Load(dir string) error {
	v.Reset()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	//
	// ENVS
	//
	for _, key := range []string{
		"app.log_level",
		"app.env",

		"host.port",
		"host.cors_origins",
		"host.ssl.enabled",
		"host.ssl.certificate_path",
		"host.ssl.certificate_key_path",

		"database.driver",
		"database.dsn",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.log_queries",

		"jwt.secret",
		"jwt.ttl",

		"security.rate_limit",
		"security.body_limit",

		"sessions.cleanup_interval",

		"cache.redis_addr",
		"cache.ttl",

		"storage.enabled",
		"storage.endpoint",
		"storage.r2_account_id",
		"storage.region",
		"storage.bucket",
		"storage.access_key_id",
		"storage.secret_access_key",

		"cloudflare.turnstile.enabled",
		"cloudflare.turnstile.secret_token",

		"seed.admin_email",
		"seed.admin_password",
		"seed.admin_name",
	} {
		v.BindEnv(key)
	}

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.env", "prod")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "forms.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.log_queries", false)

	v.SetDefault("jwt.ttl", "24h")

	v.SetDefault("security.rate_limit", 20)
	v.SetDefault("security.body_limit", 1<<20)

	v.SetDefault("sessions.cleanup_interval", "1h")

	v.SetDefault("cache.ttl", "5m")

	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.region", "auto")

	v.SetDefault("cloudflare.turnstile.enabled", false)

	v.SetDefault("seed.admin_name", "Admin User")

	if err := v.ReadInConfig(); err != nil {
		var notFound v.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	return validate()
}

func validate() error {
	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if !slices.Contains(validEnvs, v.GetString("app.env")) {
		return errors.New("app.env must be dev or prod")
	}

	if port := v.GetInt("host.port"); port <= 0 || port > 65535 {
		return errors.New("invalid port provided")
	}

	if v.GetBool("host.ssl.enabled") {
		if v.GetString("host.ssl.certificate_path") == "" {
			return errors.New("no ssl certificate path provided")
		}

		if v.GetString("host.ssl.certificate_key_path") == "" {
			return errors.New("no ssl certificate key path provided")
		}
	}

	if !slices.Contains(validDrivers, v.GetString("database.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("database.dsn") == "" {
		return errors.New("database.dsn can't be empty")
	}

	if v.GetString("jwt.secret") == "" {
		return ErrNoJWTSecret
	}

	if v.GetDuration("jwt.ttl") <= 0 {
		return errors.New("jwt.ttl must be a positive duration")
	}

	if v.GetDuration("sessions.cleanup_interval") <= 0 {
		return errors.New("sessions.cleanup_interval must be a positive duration")
	}

	if v.GetInt64("security.body_limit") <= 0 {
		return errors.New("security.body_limit must be bigger than 0")
	}

	if v.GetBool("storage.enabled") {
		if v.GetString("storage.bucket") == "" {
			return errors.New("bucket can't be empty")
		}
		if v.GetString("storage.access_key_id") == "" {
			return errors.New("storage access key id can't be empty")
		}
		if v.GetString("storage.secret_access_key") == "" {
			return errors.New("storage secret access key can't be empty")
		}
	}

	if v.GetBool("cloudflare.turnstile.enabled") && v.GetString("cloudflare.turnstile.secret_token") == "" {
		return errors.New("turnstile secret token is missing")
	}

	return nil
}
