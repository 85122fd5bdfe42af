// Package app wires the HTTP handlers to their dependencies
package app

import (
	"bitwise74/forms-api/aws"
	"bitwise74/forms-api/db"
	"bitwise74/forms-api/internal"
	"bitwise74/forms-api/internal/service"
	"bitwise74/forms-api/pkg/middleware"
	"bitwise74/forms-api/pkg/security"
	"context"
	"fmt"
	"time"

	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

// NewRouter builds the whole application from the loaded configuration
func NewRouter(ctx context.Context) (*gin.Engine, error) {
	if err := makeLogger(viper.GetString("app.env"), viper.GetString("app.log_level")); err != nil {
		return nil, fmt.Errorf("failed to build logger, %w", err)
	}

	gdb, err := db.New(db.Options{
		Driver:          viper.GetString("database.driver"),
		DSN:             viper.GetString("database.dsn"),
		MaxOpenConns:    viper.GetInt("database.max_open_conns"),
		MaxIdleConns:    viper.GetInt("database.max_idle_conns"),
		ConnMaxLifetime: viper.GetDuration("database.conn_max_lifetime"),
		LogQueries:      viper.GetBool("database.log_queries"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	argon := security.New()

	if err := db.Seed(gdb, argon, db.SeedOptions{
		AdminEmail:    viper.GetString("seed.admin_email"),
		AdminPassword: viper.GetString("seed.admin_password"),
		AdminName:     viper.GetString("seed.admin_name"),
	}); err != nil {
		return nil, fmt.Errorf("failed to seed database, %w", err)
	}

	tokens, err := security.NewTokenIssuer(viper.GetString("jwt.secret"), viper.GetDuration("jwt.ttl"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token issuer, %w", err)
	}

	d := internal.NewDeps(gdb, argon, tokens)

	if viper.GetBool("storage.enabled") {
		s3, err := aws.NewS3(ctx, aws.Options{
			Endpoint:        viper.GetString("storage.endpoint"),
			R2AccountID:     viper.GetString("storage.r2_account_id"),
			Region:          viper.GetString("storage.region"),
			Bucket:          viper.GetString("storage.bucket"),
			AccessKeyID:     viper.GetString("storage.access_key_id"),
			SecretAccessKey: viper.GetString("storage.secret_access_key"),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
		}

		d.Exporter = service.NewExporter(s3, d.Forms, d.Questions, d.Responses)
	} else {
		zap.L().Warn("Object storage is disabled, form exports won't be available")
	}

	cacheStore, err := newCacheStore(ctx, viper.GetString("cache.redis_addr"))
	if err != nil {
		return nil, err
	}

	turnstileEnabled := viper.GetBool("cloudflare.turnstile.enabled")
	if !turnstileEnabled {
		zap.L().Warn("Cloudflare's turnstile is disabled, registration isn't guarded against bots")
	}

	router := NewEngine(ctx, d, Options{
		CORSOrigins: viper.GetStringSlice("host.cors_origins"),
		RateLimit:   viper.GetInt("security.rate_limit"),
		BodyLimit:   viper.GetInt64("security.body_limit"),
		CacheStore:  cacheStore,
		CacheTTL:    viper.GetDuration("cache.ttl"),
		Turnstile: middleware.TurnstileConfig{
			Enabled: turnstileEnabled,
			Secret:  viper.GetString("cloudflare.turnstile.secret_token"),
		},
	})

	service.SessionCleanup(ctx, viper.GetDuration("sessions.cleanup_interval"), tokens.TTL(), d.Sessions)

	return router, nil
}

// newCacheStore returns a Redis backed store when addr is set, an in memory
// one otherwise
func newCacheStore(ctx context.Context, addr string) (persist.CacheStore, error) {
	if addr == "" {
		return persist.NewMemoryStore(time.Minute), nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s, %w", addr, err)
	}

	zap.L().Info("Using redis response cache", zap.String("addr", addr))

	return persist.NewRedisStore(client), nil
}

func makeLogger(env, level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}

	var cfg zap.Config

	if env == "dev" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
			pae.AppendString(gray + t.Format("15:04:05.000") + reset)
		}
		cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
			pae.AppendString(gray + ec.TrimmedPath() + reset)
		}
	} else {
		cfg = zap.NewProductionConfig()
	}

	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true

	log, err := cfg.Build()
	if err != nil {
		return err
	}

	zap.ReplaceGlobals(log)
	return nil
}
