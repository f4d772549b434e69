package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/02loveslollipop/solar-insights-dashboard/internal/readings"
	"github.com/02loveslollipop/solar-insights-dashboard/services/api/config"
	"github.com/02loveslollipop/solar-insights-dashboard/services/api/db"
	httpserver "github.com/02loveslollipop/solar-insights-dashboard/services/api/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var source readings.Source = readings.FileSource{Path: cfg.DataSource}
	if cfg.UsePostgres() {
		store, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db connection error: %v", err)
		}
		defer store.Close()
		if err := store.Ping(ctx); err != nil {
			log.Fatalf("db ping error: %v", err)
		}
		source = store.Source(cfg.ReadingsTable, cfg.TimestampColumn)
	}

	srv := httpserver.New(cfg, source)

	// A failed first load is reported, not fatal: requests keep answering
	// with the cause until the source becomes readable.
	if table, err := srv.Warm(ctx); err != nil {
		log.Printf("readings not available from %s: %v", source.Identity(), err)
	} else {
		log.Printf("loaded %d readings (%d columns) from %s", table.Len(), len(table.Columns()), source.Identity())
	}

	log.Printf("REST API listening on %s", cfg.ListenAddr())

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
