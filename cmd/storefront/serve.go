package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/storefront/internal/auth"
	"github.com/fjod/storefront/internal/cache"
	"github.com/fjod/storefront/internal/config"
	"github.com/fjod/storefront/internal/events"
	h "github.com/fjod/storefront/internal/http"
	"github.com/fjod/storefront/internal/repository"
	"github.com/fjod/storefront/internal/repository/memory"
	"github.com/fjod/storefront/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewServeCommand runs the HTTP service until SIGINT or SIGTERM.
func NewServeCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			slog.SetDefault(newLogger(cfg))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

type stores struct {
	users    repository.UserRepository
	products repository.ProductRepository
	carts    repository.CartRepository
	close    func(context.Context) error
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.StoreDriver == config.DriverMemory {
		slog.Warn("using in-memory store, data is lost on exit")
		store := memory.NewStore()
		return &stores{
			users:    store.Users(),
			products: store.Products(),
			carts:    store.Carts(),
			close:    func(context.Context) error { return nil },
		}, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	db, err := repository.ConnectMongoDB(connectCtx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		return nil, err
	}
	if err := repository.CreateIndexes(connectCtx, db); err != nil {
		_ = db.Client().Disconnect(ctx)
		return nil, err
	}
	slog.Info("connected to MongoDB", "database", cfg.MongoDBName)

	return &stores{
		users:    repository.NewMongoUserRepository(db),
		products: repository.NewMongoProductRepository(db),
		carts:    repository.NewMongoCartRepository(db),
		close:    db.Client().Disconnect,
	}, nil
}

func openCache(ctx context.Context, cfg *config.Config) (cache.ProductCache, func() error) {
	if cfg.RedisAddr == "" {
		return cache.NopCache{}, func() error { return nil }
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// The breaker keeps a dead Redis off the request path.
		slog.Warn("redis ping failed, serving from MongoDB until it recovers", "addr", cfg.RedisAddr, "error", err)
	} else {
		slog.Info("redis ping succeeded", "addr", cfg.RedisAddr)
	}
	return cache.NewBreakerCache(cache.NewRedisCache(redisClient)), redisClient.Close
}

func openPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return events.NopPublisher{}
	}
	slog.Info("publishing cart events", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaCartTopic)
	return events.NewKafkaPublisher(cfg.KafkaCartTopic, cfg.KafkaBrokers...)
}

func serve(ctx context.Context, cfg *config.Config) error {
	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	productCache, closeCache := openCache(ctx, cfg)
	publisher := openPublisher(cfg)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	router := h.NewRouter(h.RouterConfig{
		RequestTimeout: cfg.RequestTimeout,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		CORSOrigins:    cfg.CORSOrigins,
	}, h.Handlers{
		Tokens:   h.NewTokenHandler(tokens),
		Users:    h.NewUserHandler(service.NewUserService(st.users)),
		Products: h.NewProductHandler(service.NewProductService(st.products, st.users, productCache)),
		Wishlist: h.NewWishlistHandler(service.NewWishlistService(st.users, st.products)),
		Carts:    h.NewCartHandler(service.NewCartService(st.carts, st.products, publisher)),
		Verifier: tokens,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("storefront starting", "port", cfg.HTTPPort, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server forced to shutdown: %w", err))
	}
	if err := publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publisher: %w", err))
	}
	if err := closeCache(); err != nil {
		errs = append(errs, fmt.Errorf("close redis: %w", err))
	}
	if err := st.close(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("disconnect mongo: %w", err))
	}

	slog.Info("server exited")
	return errors.Join(errs...)
}
