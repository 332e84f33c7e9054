package main

import (
	"account_portal/internal/config" // Custom import path (Config)
	"account_portal/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus" // Logging
)

// Main entry point for migration
func main() {
	cfg, err := config.Load() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	if cfg.DBDriver != "mysql" {
		logrus.Fatalf("migrations need DB_DRIVER=mysql, got %q", cfg.DBDriver)
	}

	gdb, err := db.Open(cfg.DSN(), true)
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("%v", err) // Log fatal error if migration fails
	}
}
