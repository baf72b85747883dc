package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"collabhub/internal/app"
	"collabhub/internal/config"
	"collabhub/internal/database"
	"collabhub/internal/domain/application"
	"collabhub/internal/domain/invitation"
	"collabhub/internal/domain/notification"
	"collabhub/internal/domain/profile"
	"collabhub/internal/domain/project"
	"collabhub/internal/domain/telegram"
	apphttp "collabhub/internal/http"
	"collabhub/internal/http/handlers"
	"collabhub/internal/http/metrics"
	httpmw "collabhub/internal/http/middleware"
	"collabhub/internal/http/response"
	"collabhub/internal/integration/recommender"
	tgpush "collabhub/internal/integration/telegram"
	"collabhub/internal/repository/memory"
	"collabhub/internal/repository/postgres"
	"collabhub/internal/security"
)

type repositories struct {
	profiles      profile.Repository
	projects      project.Repository
	roles         project.RoleRepository
	invitations   invitation.Repository
	applications  application.Repository
	notifications notification.Repository
	links         telegram.LinkRepository
	close         func()
}

// openRepositories uses Postgres when DATABASE_URL is set and in-memory
// storage otherwise.
func openRepositories(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*repositories, error) {
	if cfg.PostgresDSN == "" {
		logger.Warn("database url missing, using in-memory repositories")
		store := memory.NewStore()
		return &repositories{
			profiles:      memory.NewProfileRepository(store),
			projects:      memory.NewProjectRepository(store),
			roles:         memory.NewRoleRepository(store),
			invitations:   memory.NewInvitationRepository(store),
			applications:  memory.NewApplicationRepository(store),
			notifications: memory.NewNotificationRepository(store),
			links:         memory.NewTelegramLinkRepository(store),
			close:         func() {},
		}, nil
	}
	if cfg.MigrateOnBoot {
		if err := database.MigrateUp(cfg.PostgresDSN, logger); err != nil {
			return nil, err
		}
	}
	db, err := database.NewPostgres(ctx, postgresConfig(cfg), logger)
	if err != nil {
		return nil, err
	}
	return &repositories{
		profiles:      postgres.NewProfileRepository(db),
		projects:      postgres.NewProjectRepository(db),
		roles:         postgres.NewRoleRepository(db),
		invitations:   postgres.NewInvitationRepository(db),
		applications:  postgres.NewApplicationRepository(db),
		notifications: postgres.NewNotificationRepository(db),
		links:         postgres.NewTelegramLinkRepository(db),
		close: func() {
			if err := db.Close(); err != nil {
				logger.Error("database close failed", zap.Error(err))
			}
		},
	}, nil
}

func connectRedis(ctx context.Context, url string, logger *zap.Logger) *redis.Client {
	if url == "" {
		return nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		logger.Error("redis url parse failed", zap.Error(err))
		return nil
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Error("redis ping failed, falling back to in-process rate limits", zap.Error(err))
		_ = client.Close()
		return nil
	}
	return client
}

func serve(parent context.Context) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer repos.close()

	var limiter httpmw.Limiter = httpmw.NewRateLimiter()
	if redisClient := connectRedis(ctx, cfg.RedisURL, logger); redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error("redis close failed", zap.Error(err))
			}
		}()
		limiter = httpmw.NewRedisLimiter(redisClient, cfg.RateLimitPrefix, logger)
	}

	var pusher app.Pusher
	if cfg.TelegramBotToken != "" {
		p, err := tgpush.NewPusher(cfg.TelegramBotToken, cfg.TelegramEndpoint, &http.Client{Timeout: 10 * time.Second})
		if err != nil {
			logger.Error("telegram push disabled", zap.Error(err))
		} else {
			pusher = p
		}
	}

	var rec app.Recommender
	if cfg.RecommenderBaseURL != "" {
		rec = recommender.NewClient(cfg.RecommenderBaseURL, cfg.RecommenderAPIKey, &http.Client{Timeout: cfg.RecommenderTimeout})
	} else {
		logger.Warn("recommender url missing, quick sync is disabled")
	}

	notifier := app.NewNotifier(repos.notifications, repos.links, pusher, logger)
	profileService := app.NewProfileService(repos.profiles)
	projectService := app.NewProjectService(repos.projects, repos.roles)
	searchService := app.NewSearchService(repos.profiles, repos.projects, repos.roles)
	invitationService := app.NewInvitationService(repos.invitations, repos.roles, repos.projects, repos.profiles, notifier)
	applicationService := app.NewApplicationService(repos.applications, repos.roles, repos.projects, repos.profiles, notifier)
	quickSyncService := app.NewQuickSyncService(rec, projectService, repos.roles, repos.profiles, invitationService, logger)

	collector := metrics.NewCollector()
	response.SetErrorRecorder(collector)
	jwtProvider := security.NewJWTProvider(cfg.JWTSecret, cfg.JWTIssuer)

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		ProfileHandler: handlers.NewProfileHandler(profileService),
		SearchHandler:  handlers.NewSearchHandler(searchService),
		ProjectHandler: handlers.NewProjectHandler(projectService, notifier, collector, handlers.WizardSettings{
			RoleTimeout:   cfg.RoleTimeout,
			MaxConcurrent: cfg.RoleConcurrency,
		}, logger),
		InvitationHandler:   handlers.NewInvitationHandler(invitationService, limiter, handlers.Limit{Count: cfg.InviteRateLimit, Window: cfg.InviteRateWindow}, collector),
		ApplicationHandler:  handlers.NewApplicationHandler(applicationService, limiter, handlers.Limit{Count: cfg.ApplyRateLimit, Window: cfg.ApplyRateWindow}, collector),
		QuickSyncHandler:    handlers.NewQuickSyncHandler(quickSyncService, collector),
		NotificationHandler: handlers.NewNotificationHandler(notifier),
		AuthMiddleware:      httpmw.NewAuthMiddleware(jwtProvider),
		Metrics:             collector,
		Logger:              logger,
		RequestTimeout:      cfg.RequestTimeout,
	})
	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api started", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("api shutdown error", zap.Error(err))
		return err
	}
	logger.Info("api stopped")
	return nil
}
