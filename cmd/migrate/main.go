package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/pageza/recipe-chat/backend/config"
	"github.com/pageza/recipe-chat/backend/internal/database"
)

func main() {
	dsn := flag.String("dsn", "", "Database DSN (overrides store.dsn)")
	driver := flag.String("driver", "", "Database driver: sqlite or postgres (overrides store.driver)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	storeCfg := cfg.Store
	if *driver != "" {
		storeCfg.Driver = *driver
	}
	if *dsn != "" {
		storeCfg.DSN = *dsn
	}
	if storeCfg.Driver == "memory" {
		log.Fatal("store.driver is memory, nothing to migrate")
	}

	db, err := database.Open(storeCfg, nil)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get database handle: %v", err)
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Printf("Migrations applied to %s database", storeCfg.Driver)
}
