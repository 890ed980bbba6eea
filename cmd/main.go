package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Denn4ik2010/online-shop/internal/command"
	"github.com/Denn4ik2010/online-shop/internal/handler"
	"github.com/Denn4ik2010/online-shop/internal/jobs"
	"github.com/Denn4ik2010/online-shop/internal/query"
	"github.com/Denn4ik2010/online-shop/internal/realtime"
	"github.com/Denn4ik2010/online-shop/internal/repository"
	"github.com/Denn4ik2010/online-shop/internal/router"
	"github.com/Denn4ik2010/online-shop/internal/storage"
	"github.com/Denn4ik2010/online-shop/shared/config"
	"github.com/Denn4ik2010/online-shop/shared/database"
	"github.com/Denn4ik2010/online-shop/shared/events"
	"github.com/Denn4ik2010/online-shop/shared/logger"
	"github.com/Denn4ik2010/online-shop/shared/middleware"
	redisClient "github.com/Denn4ik2010/online-shop/shared/redis"
	"github.com/Denn4ik2010/online-shop/shared/token"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger yet.
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Dev: cfg.LogDev})
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("Service stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database connection (source of truth)
	db, err := database.Connect(ctx, database.Config{
		URL:             cfg.DatabaseURL,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db.DB); err != nil {
		return err
	}

	// Redis connection (product view cache + event streaming)
	redis, err := redisClient.NewClient(ctx, redisClient.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return err
	}
	defer redis.Close()

	// --- CQRS wiring ---
	publisher := events.NewPublisher(redis.Client)

	users := repository.NewUserRepository(db)
	roles := repository.NewRoleRepository(db)
	categories := repository.NewCategoryRepository(db)
	productWrites := repository.NewProductWriteRepository(db)
	productReads := repository.NewProductReadRepository(db, redis.Client, log)
	chats := repository.NewChatRepository(db)
	messages := repository.NewMessageRepository(db)

	tokens := token.NewService(repository.NewTokenRepository(db), token.Config{
		AccessSecret:  []byte(cfg.AccessSecret),
		RefreshSecret: []byte(cfg.RefreshSecret),
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	})

	images, err := storage.NewImageStore(cfg.UploadDir, "/static", cfg.MaxUploadBytes, log)
	if err != nil {
		return err
	}

	authCmd := command.NewAuthCommandService(users, tokens, log)
	userCmd := command.NewUserCommandService(users, productWrites, productReads, images, publisher, log)
	roleCmd := command.NewRoleCommandService(roles)
	categoryCmd := command.NewCategoryCommandService(categories)
	productCmd := command.NewProductCommandService(productWrites, productReads, categories, images, publisher, log)
	chatCmd := command.NewChatCommandService(chats, messages, users, publisher, log)

	userQry := query.NewUserQueryService(users)
	roleQry := query.NewRoleQueryService(roles)
	categoryQry := query.NewCategoryQueryService(categories)
	productQry := query.NewProductQueryService(productReads, users, categories)
	chatQry := query.NewChatQueryService(chats, messages)

	cookies := handler.CookieConfig{
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
		Secure:     cfg.CookieSecure,
	}
	hub := realtime.NewHub(log)
	defer hub.Close()

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	gin.SetMode(gin.ReleaseMode)
	engine := router.New(router.Config{
		Verifier:  tokens,
		Limiter:   limiter,
		Log:       log,
		UploadDir: images.Dir(),
		Health: func(ctx context.Context) error {
			if err := db.PingContext(ctx); err != nil {
				return err
			}
			return redis.Ping(ctx).Err()
		},
	}, router.Handlers{
		Auth:       handler.NewAuthHandler(authCmd, cookies),
		Users:      handler.NewUserHandler(userCmd, userQry, cookies),
		Roles:      handler.NewRoleHandler(roleCmd, roleQry),
		Categories: handler.NewCategoryHandler(categoryCmd, categoryQry),
		Products:   handler.NewProductHandler(productCmd, productQry, cfg.MaxUploadBytes),
		Chats:      handler.NewChatHandler(chatCmd, chatQry),
		Hub:        hub,
	})

	scheduler, err := jobs.NewScheduler(jobs.Config{TokenPurgeSchedule: cfg.TokenPurgeSchedule}, tokens, limiter, log)
	if err != nil {
		return err
	}

	// One group per instance so every replica sees every chat event.
	hostname, _ := os.Hostname()
	chatSubscriber := events.NewSubscriber(redis.Client, events.SubscriberConfig{
		Group:    "realtime-chat-" + hostname,
		Consumer: "chat-" + hostname,
		Stream:   events.ChatEventsStream,
		Handler:  hub.HandleChatEvent,
	}, log)
	userSubscriber := events.NewSubscriber(redis.Client, events.SubscriberConfig{
		Group:    "realtime-user-" + hostname,
		Consumer: "user-" + hostname,
		Stream:   events.UserEventsStream,
		Handler:  hub.HandleUserEvent,
	}, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Online shop starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error { return chatSubscriber.Start(gctx) })
	g.Go(func() error { return userSubscriber.Start(gctx) })
	g.Go(func() error { return scheduler.Run(gctx) })

	return g.Wait()
}
