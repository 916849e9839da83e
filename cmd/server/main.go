package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/opencatalog/metagraph/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	srv, err := server.NewServer(logger)
	if err != nil {
		logger.Fatal("failed to initialize server", zap.Error(err))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = srv.Cfg.Server.Port
	}

	r := srv.SetupRouter()
	logger.Info("starting metadata relationship service", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
