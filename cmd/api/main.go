package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"coursemarket/internal/config"
	"coursemarket/internal/db"
	"coursemarket/internal/httpserver"
	"coursemarket/internal/latency"
	"coursemarket/internal/logger"
	cartrepo "coursemarket/internal/repository/cart"
	courserepo "coursemarket/internal/repository/course"
	enrollmentrepo "coursemarket/internal/repository/enrollment"
	"coursemarket/internal/seed"
	cartsvc "coursemarket/internal/service/cart"
	catalogsvc "coursemarket/internal/service/catalog"
	checkoutsvc "coursemarket/internal/service/checkout"
	learningsvc "coursemarket/internal/service/learning"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type stores struct {
	courses     courserepo.Repository
	cart        cartrepo.Repository
	enrollments enrollmentrepo.Repository
	pinger      httpserver.Pinger
	close       func()
}

func main() {
	cfg := config.FromEnv()
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	if cfg.LogMode == "prod" || cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal("open stores", "backend", cfg.StoreBackend, "error", err)
	}
	defer st.close()

	courses := st.courses
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis not reachable, catalog reads fall through", "addr", cfg.RedisAddr, "error", err)
		}
		courses = courserepo.NewCached(courses, rdb, cfg.CacheTTL(), log)
	}

	rate := cfg.Discount()
	deps := httpserver.Deps{
		Catalog: catalogsvc.New(courses, catalogsvc.Policy{
			PopularMinStudents: cfg.PopularMinStudent,
			PopularLimit:       cfg.PopularLimit,
			FeaturedMinRating:  cfg.FeaturedMinRating,
			FeaturedLimit:      cfg.FeaturedLimit,
		}),
		Cart:     cartsvc.New(st.cart, courses, rate),
		Learning: learningsvc.New(st.enrollments, courses, st.cart, log),
		Checkout: checkoutsvc.New(st.cart, courses, st.enrollments,
			checkoutsvc.SimulatedPayment{Delay: cfg.PaymentDelay()}, rate, log),
	}

	srv, err := httpserver.New(cfg.HTTPAddr, log, st.pinger, deps, cfg.Origins())
	if err != nil {
		log.Fatal("init server", "error", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		log.Info("received signal, shutting down", "signal", sig.String())
	case err := <-serverErr:
		log.Error("server error", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	} else {
		log.Info("server stopped")
	}
}

func openStores(ctx context.Context, cfg config.Config, log *logger.Logger) (*stores, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			return nil, fmt.Errorf("connect db: %w", err)
		}
		log.Info("using postgres store")
		return &stores{
			courses:     courserepo.NewPostgres(pool, log),
			cart:        cartrepo.NewPostgres(pool, log),
			enrollments: enrollmentrepo.NewPostgres(pool, log),
			pinger:      pool,
			close:       pool.Close,
		}, nil
	case config.BackendMemory, "":
		catalog, err := seed.Courses(cfg.SeedFile)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		lat := latency.New(cfg.LatencyBounds())
		courses, err := courserepo.NewMemory(catalog, lat, log)
		if err != nil {
			return nil, err
		}
		cart, err := cartrepo.NewMemory(nil, lat, log)
		if err != nil {
			return nil, err
		}
		enrollments, err := enrollmentrepo.NewMemory(nil, lat, log)
		if err != nil {
			return nil, err
		}
		log.Info("using memory store", "courses", len(catalog), "latency_min", lat.Min, "latency_max", lat.Max)
		return &stores{
			courses:     courses,
			cart:        cart,
			enrollments: enrollments,
			close:       func() {},
		}, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
