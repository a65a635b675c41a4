package main

import (
	"proxy_manager/internal/config" // Custom import path (Config)
	"proxy_manager/internal/db"     // Custom import path (Database)
	"proxy_manager/internal/utils"  // Logger setup

	"github.com/sirupsen/logrus"
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	utils.SetupLogger(cfg.LogLevel, cfg.LogFile, cfg.IsProd)

	conn, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
}
