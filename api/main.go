package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rogerio-castellano/order-desk/internal/auth"
	"github.com/rogerio-castellano/order-desk/internal/checkout"
	"github.com/rogerio-castellano/order-desk/internal/config"
	"github.com/rogerio-castellano/order-desk/internal/db"
	"github.com/rogerio-castellano/order-desk/internal/events"
	"github.com/rogerio-castellano/order-desk/internal/http/ban"
	"github.com/rogerio-castellano/order-desk/internal/http/handlers"
	mw "github.com/rogerio-castellano/order-desk/internal/http/middleware"
	rl "github.com/rogerio-castellano/order-desk/internal/http/rate_limiter"
	"github.com/rogerio-castellano/order-desk/internal/http/router"
	"github.com/rogerio-castellano/order-desk/internal/logging"
	"github.com/rogerio-castellano/order-desk/internal/models"
	"github.com/rogerio-castellano/order-desk/internal/redissvc"
	"github.com/rogerio-castellano/order-desk/internal/repo"
	"github.com/rogerio-castellano/order-desk/internal/shopapi"
)

// @title Order Desk API
// @version 1.0
// @description Back office API for the shop admin panel: catalog, customers, orders, stock and order submission.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Could not load configuration: %v", err)
	}
	logging.Init(cfg.Log)
	log := logging.WithModule("main")

	auth.SetSecret(cfg.JWTSecret)
	rl.Configure(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)

	stop := make(chan struct{})
	ctx := context.Background()

	var userRepo repo.UserRepository = repo.NewInMemoryUserRepository()
	var prefsRepo repo.PreferencesRepository = repo.NewInMemoryPreferencesRepository()
	var submissionRepo repo.SubmissionRepository = repo.NewInMemorySubmissionRepository()

	var database *sql.DB
	if cfg.DatabaseURL != "" {
		database, err = db.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Could not connect to database: %v", err)
		}
		defer database.Close()
		if err := db.Migrate(database); err != nil {
			log.Fatalf("Could not migrate database: %v", err)
		}
		userRepo = repo.NewPostgresUserRepository(database)
		prefsRepo = repo.NewPostgresPreferencesRepository(database)
		submissionRepo = repo.NewPostgresSubmissionRepository(database)
	} else {
		log.Warn("database.url not set, operators and submissions are kept in memory")
	}

	var cartStore repo.CartStore = repo.NewInMemoryCartStore()
	var refreshStore auth.RefreshStore
	var redisService *redissvc.RedisService
	if cfg.RedisAddr != "" {
		redisService, err = redissvc.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			log.Fatalf("Could not connect to Redis: %v", err)
		}
		defer redisService.Rdb().Close()

		cartStore = repo.NewRedisCartStore(redisService, cfg.CartTTL)
		refreshStore = auth.NewRedisRefreshStore(redisService)

		var mailer ban.Mailer = ban.NoopMailer{}
		if cfg.Alert.Enabled() {
			mailer = ban.NewSMTPMailer(ban.SMTPConfig{
				Host:     cfg.Alert.Host,
				Port:     cfg.Alert.Port,
				User:     cfg.Alert.User,
				Password: cfg.Alert.Password,
				From:     cfg.Alert.From,
				To:       cfg.Alert.To,
			})
		}
		guard := ban.NewGuard(redisService, ban.Config{
			MaxStrikes:   cfg.Ban.MaxStrikes,
			StrikeWindow: cfg.Ban.StrikeWindow,
			Duration:     cfg.Ban.Duration,
		}, mailer)
		mw.SetBanGuard(guard)
		go guard.StartDailyBanSummary(stop)
	} else {
		log.Warn("redis.addr not set, carts and sessions are kept in memory and the login ban is off")
		memRefresh := auth.NewMemoryRefreshStore()
		go memRefresh.StartCleaner(30*time.Minute, stop)
		refreshStore = memRefresh
	}
	go rl.StartVisitorCleanupLoop(stop)

	var publisher events.Publisher = events.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, 0)
	}
	defer publisher.Close()

	if err := ensureAdmin(userRepo, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("Could not create admin user: %v", err)
	}

	shop := shopapi.New(shopapi.Config{
		BaseURL: cfg.APIBaseURL,
		Token:   cfg.APIToken,
		Timeout: cfg.APITimeout,
	})

	handlers.SetShopClient(shop)
	handlers.SetUserRepo(userRepo)
	handlers.SetPreferencesRepo(prefsRepo)
	handlers.SetSubmissionRepo(submissionRepo)
	handlers.SetCartStore(cartStore)
	handlers.SetAuthService(auth.NewAuthService(userRepo, refreshStore, cfg.RefreshTTL))
	handlers.SetCheckoutService(checkout.NewService(shop, submissionRepo, publisher))
	handlers.SetProductsCache(redisService, cfg.ProductsCacheTTL)
	handlers.SetLowStockThreshold(cfg.LowStockThreshold)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.NewRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).WithField("shop_api", shop.BaseURL()).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info("Shutting down")
	close(stop)
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

// ensureAdmin creates the configured admin account on first start.
func ensureAdmin(users repo.UserRepository, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	if _, err := users.GetByUsername(username); err == nil {
		return nil
	} else if !errors.Is(err, repo.ErrUserNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = users.CreateUser(models.User{Username: username, PasswordHash: hash, Role: models.RoleAdmin})
	if errors.Is(err, repo.ErrDuplicatedValueUnique) {
		return nil
	}
	return err
}
