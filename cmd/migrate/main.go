package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"coursemarket/internal/config"
	"coursemarket/internal/db"
	"coursemarket/internal/logger"
	"coursemarket/internal/migrate"
)

func main() {
	down := flag.Bool("down", false, "Roll back every migration instead of applying them")
	flag.Parse()

	cfg := config.FromEnv()
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Fatal("connect db", "error", err)
	}
	defer pool.Close()

	if *down {
		if err := migrate.Rollback(ctx, pool); err != nil {
			log.Fatal("roll back migrations", "error", err)
		}
		log.Info("migrations rolled back")
		return
	}

	if err := migrate.Apply(ctx, pool); err != nil {
		log.Fatal("apply migrations", "error", err)
	}
	version, dirty, err := migrate.Version(ctx, pool)
	if err != nil {
		log.Warn("read schema version", "error", err)
	}
	log.Info("migrations applied", "version", version, "dirty", dirty)
}
