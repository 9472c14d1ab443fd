package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ccsustmap/campusmap/internal/adapters/catalog"
	"github.com/ccsustmap/campusmap/internal/adapters/postgres"
	"github.com/ccsustmap/campusmap/internal/pkg/config"
	"github.com/ccsustmap/campusmap/internal/pkg/logging"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|status|seed>")
	}

	cfg, err := config.Load("campusmap-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		applied, err := postgres.Migrate(ctx, db.Pool, logger)
		if err != nil {
			log.Fatalf("migrate: %v", err)
		}
		for _, f := range applied {
			fmt.Printf("OK  %s\n", f)
		}
		log.Printf("%d migrations applied", len(applied))
	case "status":
		states, err := postgres.MigrationStatus(ctx, db.Pool)
		if err != nil {
			log.Fatalf("status: %v", err)
		}
		for _, s := range states {
			mark := "pending"
			if s.Applied {
				mark = "applied"
			}
			fmt.Printf("%-8s %03d  %s\n", mark, s.Version, s.File)
		}
	case "seed":
		places := catalog.BuiltinPlaces()
		if err := postgres.NewPlaceRepo(db.Pool).UpsertBatch(ctx, places); err != nil {
			log.Fatalf("seed: %v", err)
		}
		log.Printf("seeded %d places", len(places))
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}
