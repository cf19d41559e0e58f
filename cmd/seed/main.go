package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"coursemarket/internal/config"
	"coursemarket/internal/db"
	"coursemarket/internal/logger"
	courserepo "coursemarket/internal/repository/course"
	"coursemarket/internal/seed"
)

func main() {
	cfg := config.FromEnv()
	file := flag.String("file", cfg.SeedFile, "JSON catalog to load (defaults to the bundled catalog)")
	flag.Parse()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	courses, err := seed.Courses(*file)
	if err != nil {
		log.Fatal("load catalog", "error", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Fatal("connect db", "error", err)
	}
	defer pool.Close()

	if err := seed.Apply(ctx, courserepo.NewPostgres(pool, log), courses); err != nil {
		log.Fatal("seed apply", "error", err)
	}

	log.Info("seed applied", "courses", len(courses))
}
