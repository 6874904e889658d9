package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	authapp "bakeshop/internal/app/services/auth"
	availabilityapp "bakeshop/internal/app/services/availability"
	bookingapp "bakeshop/internal/app/services/booking"
	catalogapp "bakeshop/internal/app/services/catalog"
	promoapp "bakeshop/internal/app/services/promo"
	walletapp "bakeshop/internal/app/services/wallet"
	domainauth "bakeshop/internal/domain/auth"
	"bakeshop/internal/domain/availability"
	"bakeshop/internal/domain/booking"
	"bakeshop/internal/domain/catalog"
	"bakeshop/internal/domain/promo"
	"bakeshop/internal/domain/wallet"
	"bakeshop/internal/infra/broker/kafka"
	"bakeshop/internal/infra/config"
	mongostore "bakeshop/internal/infra/db/mongo"
	ginserver "bakeshop/internal/infra/http/gin"
	"bakeshop/internal/infra/obs"
	"bakeshop/internal/infra/security"
	"bakeshop/internal/infra/storage/memory"
	"bakeshop/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("using fallback configuration", "error", err)
		cfg.Env = env
		cfg.HTTPAddr = getenv("HTTP_ADDR", ":8080")
		cfg.StorageMode = config.StorageMemory
		cfg.DefaultDailyCapacity = 5
		cfg.SessionTTL = 12 * time.Hour
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}
	defer app.close(logger)

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type repositories struct {
	blocks   availability.BlockRepository
	bookings booking.Repository
	slots    booking.SlotReserver
	products catalog.Repository
	promos   promo.Repository
	wallets  wallet.Repository
	sessions domainauth.SessionStore
}

type application struct {
	handlers ginserver.Handlers
	mongo    *mongostore.Client
	producer *kafka.Producer
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{}

	repos, err := app.buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicPrefix, nil)
		if err != nil {
			logger.Warn("kafka unavailable, order events disabled", "error", err)
		} else {
			app.producer = producer
			logger.Info("kafka producer connected", "brokers", cfg.KafkaBrokers)
		}
	}

	var photos catalogapp.Uploader
	if cfg.S3Endpoint != "" {
		client, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger)
		if err != nil {
			logger.Warn("object storage unavailable, photo uploads disabled", "error", err)
		} else {
			photos = client
		}
	}

	availabilitySvc := &availabilityapp.Service{
		Blocks:          repos.blocks,
		Bookings:        repos.bookings,
		DefaultCapacity: cfg.DefaultDailyCapacity,
		Logger:          logger,
	}
	bookingSvc := &bookingapp.Service{
		Bookings:     repos.bookings,
		Slots:        repos.slots,
		Availability: availabilitySvc,
		Promos:       repos.promos,
		Topic:        "orders",
		Logger:       logger,
	}
	if app.producer != nil {
		bookingSvc.Events = app.producer
	}
	authSvc := &authapp.Service{
		AdminEmail:        cfg.AdminEmail,
		AdminPasswordHash: cfg.AdminPasswordHash,
		Passwords:         security.BcryptHasher{},
		Tokens:            security.RandomTokenGenerator{},
		Sessions:          repos.sessions,
		SessionTTL:        cfg.SessionTTL,
		Logger:            logger,
	}
	catalogSvc := &catalogapp.Service{Products: repos.products, Photos: photos, Logger: logger}
	promoSvc := &promoapp.Service{Promos: repos.promos, Logger: logger}
	walletSvc := &walletapp.Service{Wallets: repos.wallets, TrialCredits: cfg.TrialCredits, Logger: logger}

	app.handlers = ginserver.Handlers{
		Availability: ginserver.AvailabilityHandler{Service: availabilitySvc},
		Order:        ginserver.OrderHandler{Service: bookingSvc},
		Catalog:      ginserver.CatalogHandler{Service: catalogSvc},
		Promo:        ginserver.PromoHandler{Service: promoSvc},
		Wallet:       ginserver.WalletHandler{Service: walletSvc},
		Auth:         ginserver.AuthHandler{Service: authSvc},
		Admin: ginserver.AdminHandler{
			Availability: availabilitySvc,
			Orders:       bookingSvc,
			Catalog:      catalogSvc,
			Promos:       promoSvc,
		},
		AuthMiddleware: ginserver.AuthMiddleware{Service: authSvc, Logger: logger}.Handle,
	}
	return app, nil
}

func (a *application) buildRepositories(ctx context.Context, cfg config.Config, logger *slog.Logger) (repositories, error) {
	if cfg.StorageMode != config.StorageMongo {
		logger.Info("using in-memory storage")
		return repositories{
			blocks:   memory.NewBlockRepository(),
			bookings: memory.NewBookingRepository(),
			slots:    memory.NewSlotCounter(),
			products: memory.NewProductRepository(),
			promos:   memory.NewPromoRepository(),
			wallets:  memory.NewWalletRepository(),
			sessions: memory.NewSessionStore(),
		}, nil
	}

	client, err := mongostore.New(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return repositories{}, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		return repositories{}, err
	}
	a.mongo = client

	sessions, err := mongostore.NewSessionStore(ctx, client.DB)
	if err != nil {
		return repositories{}, err
	}
	logger.Info("mongo connected", "database", cfg.MongoDB)
	return repositories{
		blocks:   mongostore.NewBlockRepository(client.DB),
		bookings: mongostore.NewBookingRepository(client.DB),
		slots:    mongostore.NewSlotCounter(client.DB),
		products: mongostore.NewProductRepository(client.DB),
		promos:   mongostore.NewPromoRepository(client.DB),
		wallets:  mongostore.NewWalletRepository(client.DB),
		sessions: sessions,
	}, nil
}

func (a *application) ready() error {
	if a.mongo == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return a.mongo.Ping(ctx)
}

func (a *application) close(logger *slog.Logger) {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			logger.Error("kafka close failed", "error", err)
		}
	}
	if a.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.mongo.Close(ctx); err != nil {
			logger.Error("mongo disconnect failed", "error", err)
		}
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
