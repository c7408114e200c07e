package main

import (
	"log"

	"github.com/joho/godotenv"
	"nestquote/cmd"
	"nestquote/internal/config"
	"nestquote/internal/logger"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: Could not load configuration: %v", err)
		if err := logger.Setup(logger.DefaultConfig()); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	} else {
		if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	}

	mainLog := logger.WithComponent("main")
	mainLog.Debug().Msg("Starting nestquote")

	cmd.Execute()
}
