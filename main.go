package main

import (
	stdlog "log"

	"github.com/joho/godotenv"

	"invoicebridge/cmd"
	"invoicebridge/internal/config"
	"invoicebridge/internal/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		stdlog.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg := config.Load()
	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		stdlog.Printf("Warning: Invalid logging configuration: %v", err)
		if err := logger.Setup(logger.DefaultConfig()); err != nil {
			stdlog.Fatalf("Failed to initialize logger: %v", err)
		}
	}

	log := logger.WithComponent("main")
	log.Info().Msg("Starting invoicebridge")

	cmd.Execute()

	log.Info().Msg("Invoicebridge shutdown")
}
