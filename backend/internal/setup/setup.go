package setup

import (
	"context"
	"errors"
	"fmt"

	"github.com/aljannat-dev/aljannat/backend/internal/handler"
	"github.com/aljannat-dev/aljannat/backend/internal/mail"
	"github.com/aljannat-dev/aljannat/backend/internal/markdown"
	"github.com/aljannat-dev/aljannat/backend/internal/service"
	"github.com/aljannat-dev/aljannat/backend/internal/storage/fs"
	"github.com/aljannat-dev/aljannat/backend/internal/storage/pg"
	redis_storage "github.com/aljannat-dev/aljannat/backend/internal/storage/redis"
	s3_storage "github.com/aljannat-dev/aljannat/backend/internal/storage/s3"
	"github.com/aljannat-dev/aljannat/shared/config"
	"github.com/aljannat-dev/aljannat/shared/jwt"
	"github.com/aljannat-dev/aljannat/shared/logger"
	mw "github.com/aljannat-dev/aljannat/shared/middleware"
	"github.com/redis/go-redis/v9"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        *pg.Storage
	Redis          *redis.Client // nil unless a redis-backed feature is enabled
	Handler        *handler.Handler
	AuthMiddleware *mw.Auth
	Sweeper        *service.CodeSweeper // nil when codes live in redis
	MediaRoot      string               // served at media_base_url when using fs storage
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	deps := &Dependencies{Config: cfg, Storage: storage}

	if cfg.Public.OtpStore == "redis" || cfg.Public.VerifyAttemptsLimit > 0 {
		client, err := redis_storage.Connect(ctx, cfg.Private.Redis)
		if err != nil {
			deps.Cleanup()
			return nil, err
		}
		deps.Redis = client
	}

	var ledger service.CodeLedger = storage
	if cfg.Public.OtpStore == "redis" {
		ledger = redis_storage.NewLedger(deps.Redis, cfg.Public.OtpTTL)
	} else {
		deps.Sweeper = service.NewCodeSweeper(storage, cfg.Public.OtpTTL)
	}

	// a typed nil would be non-nil inside the service
	var attempts service.AttemptLimiter
	if cfg.Public.VerifyAttemptsLimit > 0 {
		attempts = redis_storage.NewAttemptLimiter(deps.Redis, cfg.Public.VerifyAttemptsLimit, cfg.Public.VerifyAttemptsWindow)
	}

	mailer, err := newMailer(cfg)
	if err != nil {
		deps.Cleanup()
		return nil, err
	}

	objects, mediaRoot, err := newObjectStorage(ctx, cfg)
	if err != nil {
		deps.Cleanup()
		return nil, err
	}
	deps.MediaRoot = mediaRoot

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())
	deps.AuthMiddleware = mw.NewAuth(jwtService).WithRoleCheck(storage)
	text := markdown.New()

	services := handler.Services{
		Auth:     service.NewAuth(storage, ledger, mailer, jwtService, attempts, &cfg.Public),
		Category: service.NewCategory(storage, objects),
		Dish:     service.NewDish(storage, objects, text),
		Menu:     service.NewMenu(storage, objects),
		Poster:   service.NewPoster(storage),
		Gallery:  service.NewGallery(storage, objects, cfg.Public.RandomImagesLimit),
		Content:  service.NewContent(fs.NewContent(cfg.Public.ContentDir)),
		Contact:  service.NewContact(storage, text),
	}
	deps.Handler = handler.New(services, cfg, &healthChecker{pg: storage, redis: deps.Redis})

	return deps, nil
}

// Cleanup closes connections opened by SetupDependencies.
func (d *Dependencies) Cleanup() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			logger.Log.Error("failed to close redis", "error", err)
		}
	}
	if d.Storage != nil {
		if err := d.Storage.Cleanup(); err != nil {
			logger.Log.Error("failed to close database", "error", err)
		}
	}
}

func newMailer(cfg *config.Config) (service.Mailer, error) {
	switch cfg.Public.MailTransport {
	case "smtp":
		return mail.NewSMTP(&cfg.Private.Email), nil
	case "sendgrid":
		return mail.NewSendGrid(&cfg.Private.SendGrid), nil
	case "log":
		logger.Log.Warn("mail transport is log, codes are written to the log and not delivered")
		return mail.NewLog(), nil
	default:
		return nil, fmt.Errorf("unknown mail transport %q", cfg.Public.MailTransport)
	}
}

func newObjectStorage(ctx context.Context, cfg *config.Config) (service.ObjectStorage, string, error) {
	switch cfg.Public.ObjectStorage {
	case "fs":
		storage, err := fs.New(cfg.Public.MediaPath, cfg.Public.MediaBaseURL)
		if err != nil {
			return nil, "", err
		}
		return storage, storage.RootPath(), nil
	case "s3":
		storage, err := s3_storage.New(ctx, cfg.Private.S3)
		if err != nil {
			return nil, "", err
		}
		return storage, "", nil
	default:
		return nil, "", fmt.Errorf("unknown object storage %q", cfg.Public.ObjectStorage)
	}
}

type healthChecker struct {
	pg    *pg.Storage
	redis *redis.Client
}

func (c *healthChecker) Ping(ctx context.Context) error {
	var errs []error
	if err := c.pg.Ping(ctx); err != nil {
		errs = append(errs, fmt.Errorf("postgres: %w", err))
	}
	if c.redis != nil {
		if err := c.redis.Ping(ctx).Err(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	return errors.Join(errs...)
}
