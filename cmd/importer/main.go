package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"coursemarket/internal/config"
	"coursemarket/internal/db"
	"coursemarket/internal/importer"
	"coursemarket/internal/logger"
	"coursemarket/internal/repository/course"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to course CSV export")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

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

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal("open file", "path", filePath, "error", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, course.NewPostgres(pool, log))

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		log.Fatal("import failed", "path", filePath, "error", err)
	}

	fmt.Printf("Imported %d courses in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
