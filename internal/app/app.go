package app

import (
	"context"
	"fmt"
	"net/http"

	"family-planner/internal/config"
	"family-planner/internal/db"
	familydomain "family-planner/internal/domain/family"
	invitedomain "family-planner/internal/domain/invite"
	"family-planner/internal/domain/notification"
	tasksdomain "family-planner/internal/domain/tasks"
	userdomain "family-planner/internal/domain/user"
	"family-planner/internal/metrics"
	"family-planner/internal/repository/inmemory"
	familyrepo "family-planner/internal/repository/postgres/family"
	inviterepo "family-planner/internal/repository/postgres/invite"
	tasksrepo "family-planner/internal/repository/postgres/tasks"
	userrepo "family-planner/internal/repository/postgres/user"
	redisrepo "family-planner/internal/repository/redis"
	"family-planner/internal/transport/httpserver"
	"family-planner/internal/transport/httpserver/handler"
	"family-planner/internal/transport/mail"
	"family-planner/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	redis      goredis.UniversalClient
	log        logger.Logger
}

func New(ctx context.Context, log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := db.Migrate(ctx, dbConn, log); err != nil {
			closeDB(dbConn)
			return nil, err
		}
	}

	application := &App{cfg: cfg, db: dbConn, log: log}

	cache, err := application.membershipCache(ctx)
	if err != nil {
		_ = application.Close()
		return nil, err
	}

	transport, err := mail.New(cfg.Mail.Transport, mail.SMTPConfig{
		Host:     cfg.Mail.SMTPHost,
		Port:     cfg.Mail.SMTPPort,
		User:     cfg.Mail.SMTPUser,
		Password: cfg.Mail.SMTPPassword,
		From:     cfg.Mail.From,
	}, log)
	if err != nil {
		_ = application.Close()
		return nil, fmt.Errorf("mail transport: %w", err)
	}

	log.Info("app: initializing services")
	users := userdomain.NewService(userrepo.NewPostgres(dbConn), cache, cfg.Redis.MembershipTTL, log)
	families := familydomain.NewService(familyrepo.NewPostgres(dbConn), users)
	invites := invitedomain.NewService(inviterepo.NewPostgres(dbConn), users, invitedomain.Config{
		AppOrigin:      cfg.AppOrigin,
		DefaultTTLDays: cfg.Invites.DefaultTTLDays,
	})
	notifications := notification.NewService(transport, notification.Config{
		Retries:   cfg.Mail.Retries,
		RetryBase: cfg.Mail.RetryBase,
	}, log)
	tasks := tasksdomain.NewService(tasksrepo.NewPostgres(dbConn), users)

	m := metrics.New()
	handlers := handler.New(users, families, invites, notifications, tasks, m, log)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, users, m, log)
	application.httpServer = httpserver.New(cfg, router)

	return application, nil
}

// membershipCache picks Redis when enabled and falls back to the process-local cache.
func (a *App) membershipCache(ctx context.Context) (userdomain.MembershipCache, error) {
	if !a.cfg.Redis.Enabled {
		a.log.Info("cache: using in-memory membership cache")
		return inmemory.NewMembershipCache(), nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:        a.cfg.Redis.Addr,
		Password:    a.cfg.Redis.Password,
		DB:          a.cfg.Redis.DB,
		DialTimeout: a.cfg.Redis.ConnectTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, a.cfg.Redis.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	a.redis = client
	a.log.Info("cache: using redis membership cache", "addr", a.cfg.Redis.Addr)
	return redisrepo.NewMembershipCache(client, a.cfg.Redis.KeyPrefix, a.log), nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	var firstErr error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			firstErr = err
		}
	}
	if a.db == nil {
		return firstErr
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func closeDB(gormDB *gorm.DB) {
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
