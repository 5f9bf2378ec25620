// Package app builds every dependency from configuration and exposes the
// assembled server.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/klass-lk/seoblog"
	"github.com/klass-lk/seoblog/internal/config"
	"github.com/klass-lk/seoblog/internal/controller"
	"github.com/klass-lk/seoblog/internal/jobs"
	"github.com/klass-lk/seoblog/internal/logger"
	"github.com/klass-lk/seoblog/internal/mailer"
	"github.com/klass-lk/seoblog/internal/mailqueue"
	"github.com/klass-lk/seoblog/internal/middleware"
	"github.com/klass-lk/seoblog/internal/model"
	"github.com/klass-lk/seoblog/internal/repository"
	"github.com/klass-lk/seoblog/internal/service"
	"github.com/klass-lk/seoblog/security"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const mailPrefetch = 10

// Deps are the pluggable backends. Nil fields fall back to defaults
// chosen by Assemble.
type Deps struct {
	Mailer mailer.Mailer
	Cache  seoblog.CacheService
	Files  seoblog.FileService
}

type App struct {
	cfg       *config.Config
	db        *mongo.Database
	server    *seoblog.Server
	auth      *service.AuthService
	users     *repository.UserRepository
	cache     seoblog.CacheService
	limiter   *middleware.LoginLimiter
	consumer  *mailqueue.Consumer
	scheduler *jobs.Scheduler
	closers   []func(context.Context) error
}

// New connects to every configured backend and assembles the app.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	client, db, err := cfg.Mongo().Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	closers := []func(context.Context) error{client.Disconnect}
	fail := func(err error) (*App, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i](context.Background())
		}
		return nil, err
	}

	var deps Deps
	switch cfg.CacheBackend {
	case config.CacheRedis:
		rdb, err := seoblog.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fail(fmt.Errorf("connect redis: %w", err))
		}
		closers = append(closers, func(context.Context) error { return rdb.Close() })
		deps.Cache = seoblog.NewRedisCacheService(rdb)
	case config.CacheNone:
		deps.Cache = seoblog.NopCacheService{}
	}

	if cfg.PhotoBackend == config.PhotoS3 {
		files, err := seoblog.NewS3FileService(ctx, seoblog.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
		})
		if err != nil {
			return fail(fmt.Errorf("configure s3: %w", err))
		}
		deps.Files = files
	}

	var delivery mailer.Mailer = mailer.LogMailer{}
	if cfg.SMTPHost != "" {
		smtp, err := mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
		})
		if err != nil {
			return fail(err)
		}
		delivery = smtp
	}
	deps.Mailer = delivery

	var consumer *mailqueue.Consumer
	if cfg.AMQPURL != "" {
		broker, err := mailqueue.NewRabbitMQClient(cfg.AMQPURL, mailPrefetch)
		if err != nil {
			return fail(fmt.Errorf("connect rabbitmq: %w", err))
		}
		closers = append(closers, func(context.Context) error { return broker.Close() })
		deps.Mailer = mailqueue.NewPublisher(broker, cfg.MailQueue)
		consumer = mailqueue.NewConsumer(broker, cfg.MailQueue, delivery)
	}

	a, err := Assemble(cfg, db, deps)
	if err != nil {
		return fail(err)
	}
	a.consumer = consumer
	a.closers = closers
	if err := a.EnsureIndexes(ctx); err != nil {
		return fail(err)
	}
	return a, nil
}

// Assemble wires repositories, services and controllers over db. It
// performs no I/O.
func Assemble(cfg *config.Config, db *mongo.Database, deps Deps) (*App, error) {
	encoder, err := security.NewPasswordEncoder(cfg.PasswordEncoder, cfg.PBKDF2Secret, cfg.PBKDF2Iterations, cfg.PBKDF2KeyLength)
	if err != nil {
		return nil, err
	}
	if deps.Mailer == nil {
		deps.Mailer = mailer.LogMailer{}
	}
	if deps.Cache == nil {
		deps.Cache = seoblog.NewMongoCacheService(seoblog.NewMongoRepository[seoblog.CacheEntry](db))
	}

	cacheService := seoblog.NewGuardedCache(deps.Cache)

	users := repository.NewUserRepository(db)
	blogs := repository.NewBlogRepository(db)
	categories := repository.NewTermRepository[model.Category](db)
	tags := repository.NewTermRepository[model.Tag](db)

	photos := service.NewPhotoStorage(deps.Files, cfg.MaxPhotoSize, cfg.MaxPhotoWidth)
	authService := service.NewAuthService(users, encoder, deps.Mailer, service.AuthConfig{
		AppName:          cfg.AppName,
		ClientURL:        cfg.ClientURL,
		EmailFrom:        cfg.EmailFrom,
		SessionSecret:    cfg.JWTSecret,
		ActivationSecret: cfg.JWTActivationSecret,
		ResetSecret:      cfg.JWTResetSecret,
		SessionTTL:       cfg.SessionTTL,
		ActivationTTL:    cfg.ActivationTTL,
		ResetTTL:         cfg.ResetTTL,
	})
	blogService := service.NewBlogService(blogs, users, categories, tags, photos, cacheService, cfg.AppName)
	userService := service.NewUserService(users, blogService, photos, encoder, cacheService, cfg.ClientURL)
	categoryService := service.NewTermService(service.CategoryKind, categories, blogService, cacheService)
	tagService := service.NewTermService(service.TagKind, tags, blogService, cacheService)
	contactService := service.NewContactService(deps.Mailer, service.ContactConfig{
		AppName:   cfg.AppName,
		ClientURL: cfg.ClientURL,
		EmailFrom: cfg.EmailFrom,
		EmailTo:   cfg.EmailTo,
	})

	server := seoblog.New()
	if err := server.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	server.Use(logger.GinLogger())
	if len(cfg.CORSOrigins) > 0 {
		server.CustomCORS(
			cfg.CORSOrigins,
			[]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			[]string{"Origin", "Content-Type", "Authorization", "Accept"},
			12*time.Hour,
		)
	} else {
		server.DefaultCORS()
	}
	server.SetBasePath(cfg.BasePath)
	if cfg.Lambda {
		server.SetRuntime(seoblog.RuntimeLambda)
	}

	limiter := middleware.NewLoginLimiter(cfg.LoginMaxAttempts, cfg.LoginWindow)
	guard := middleware.NewGuard(authService)
	cache := controller.Cache(seoblog.TaggedCache(cacheService, cfg.CacheTTL))
	if cfg.CacheBackend == config.CacheNone {
		cache = controller.NoCache
	}

	server.RegisterController("", controller.NewHealthController(controller.PingFunc(func(ctx context.Context) error {
		return db.Client().Ping(ctx, readpref.Primary())
	})))
	server.RegisterController("", controller.NewAuthController(authService, limiter.Middleware()))
	server.RegisterController("", controller.NewBlogController(blogService, guard, cache))
	server.RegisterController("", controller.NewTermController(categoryService, guard, cache, "category", "categories"))
	server.RegisterController("", controller.NewTermController(tagService, guard, cache, "tag", "tags"))
	server.RegisterController("", controller.NewUserController(userService, guard, cache))
	server.RegisterController("", controller.NewContactController(contactService))

	tasks := []jobs.Task{
		jobs.ClearResetLinksTask(users),
		jobs.FuncTask("login-limiter", limiter.Cleanup),
	}
	if purger, ok := deps.Cache.(jobs.ExpiredCachePurger); ok {
		tasks = append(tasks, jobs.PurgeCacheTask(purger))
	}

	return &App{
		cfg:       cfg,
		db:        db,
		server:    server,
		auth:      authService,
		users:     users,
		cache:     deps.Cache,
		limiter:   limiter,
		scheduler: jobs.NewScheduler(tasks...),
	}, nil
}

func (a *App) Server() *seoblog.Server {
	return a.server
}

// EnsureIndexes creates the collection indexes, including the cache's
// when it lives in Mongo.
func (a *App) EnsureIndexes(ctx context.Context) error {
	if err := repository.EnsureIndexes(ctx, a.db); err != nil {
		return err
	}
	if mc, ok := a.cache.(*seoblog.MongoCacheService); ok {
		if err := mc.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("failed to create cache indexes: %w", err)
		}
	}
	return nil
}

// Promote grants the administrator role to the account registered with
// email.
func (a *App) Promote(ctx context.Context, email string) error {
	return a.auth.Promote(ctx, email)
}

// Run serves until ctx is cancelled. The mail consumer and the
// housekeeping scheduler run alongside the server.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if !a.cfg.Lambda {
		if err := a.scheduler.Start(jobs.DefaultSpec); err != nil {
			return err
		}
		defer a.scheduler.Stop()
	}

	consumerDone := make(chan struct{})
	if a.consumer != nil {
		go func() {
			defer close(consumerDone)
			if err := a.consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("mail consumer stopped")
			}
		}()
	} else {
		close(consumerDone)
	}

	err := a.server.Run(ctx, a.cfg.Port)
	cancel()
	<-consumerDone
	return err
}

// Close releases every connection opened by New.
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			log.Warn().Err(err).Msg("failed to close resource")
		}
	}
}
