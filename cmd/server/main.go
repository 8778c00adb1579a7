package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	web "adventcal/internal/adapters/http"
	"adventcal/internal/adapters/qr"
	doorStore "adventcal/internal/adapters/storage/door"
	"adventcal/internal/config"
	"adventcal/internal/domain/admin"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Local config lives in a .env file, same surface as environment vars.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}
	calendar := cfg.Calendar()

	secret, err := admin.NewSecret(cfg.AdminPassword)
	if err != nil {
		log.Fatalf("admin password error: %v", err)
	}

	store := doorStore.NewCSVStore(cfg.DataFile, cfg.MaxDay)
	if !store.Exists() {
		if err := store.Seed(context.Background()); err != nil {
			log.Fatalf("failed to seed message table: %v", err)
		}
		log.Printf("Seeded fresh message table at %s (%d days)", cfg.DataFile, cfg.MaxDay)
	}
	// A present-but-broken table is fatal at startup, never auto-repaired.
	if _, err := store.Load(context.Background()); err != nil {
		log.Fatalf("message table unusable: %v", err)
	}

	mux := web.NewMux(&web.Deps{
		Store:    store,
		Calendar: calendar,
		Secret:   secret,
		Encoder:  qr.NewQRCodeEncoder(),
	}, cfg.IsProduction())

	if cfg.DebugMode {
		log.Println("WARNING: DEBUG_MODE is active, the date gate is bypassed")
	}
	log.Printf("Advent calendar %s starting on %s (%s %d, %d doors, env=%s)",
		version, cfg.Addr, calendar.Month, calendar.Year, calendar.MaxDay, cfg.Env)

	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
