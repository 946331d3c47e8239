package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/reelscribe/backend/internal/api"
	"github.com/reelscribe/backend/internal/auth"
	"github.com/reelscribe/backend/internal/config"
	"github.com/reelscribe/backend/internal/db"
	"github.com/reelscribe/backend/internal/pipeline"
	"github.com/reelscribe/backend/internal/whisper"
	"github.com/reelscribe/backend/internal/ytdlp"
)

func main() {
	cfg := config.Load()

	// Ensure data directory exists
	os.MkdirAll(cfg.DataPath, 0755)

	// Initialize database
	database, err := db.NewSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Ensure bootstrap service account exists
	if err := database.EnsureServiceAccount(cfg.ClientID, cfg.ClientSecret); err != nil {
		log.Fatalf("Failed to create service account: %v", err)
	}
	log.Printf("Service account ensured: %s", cfg.ClientID)

	// Initialize JWT service scoped to this service's URL
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.ServiceURL, cfg.TokenTTL)
	log.Printf("Token audience: %s", jwtService.Audience())

	// Wire the acquisition pipeline
	media := ytdlp.New(cfg.YtdlpPath, ytdlp.NewRunner())
	recognizer := whisper.NewClient(cfg.WhisperURL)
	pipe := pipeline.New(cfg.DataPath, media, media, recognizer)

	// Create router
	router := api.NewRouter(database, jwtService, pipe, cfg)

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting server on %s", addr)
	log.Printf("Data path: %s", cfg.DataPath)
	log.Printf("Whisper server: %s", cfg.WhisperURL)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		os.Exit(0)
	}()

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
