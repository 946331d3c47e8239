package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port         int
	DataPath     string
	DBPath       string
	JWTSecret    string
	ServiceURL   string // token audience; normalized by the auth service
	TokenTTL     time.Duration
	YtdlpPath    string
	WhisperURL   string
	ClientID     string
	ClientSecret string
	CORSOrigins  []string
	RateLimit    int
	RateWindow   time.Duration
}

func Load() *Config {
	port, _ := strconv.Atoi(getEnv("PORT", "8080"))
	dataPath := getEnv("DATA_PATH", "data")

	// JWT secret: require explicit setting or generate random
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			log.Fatalf("Failed to generate random JWT secret: %v", err)
		}
		jwtSecret = hex.EncodeToString(b)
		log.Println("WARNING: JWT_SECRET not set, using random secret. Issued tokens will not survive restarts. Set JWT_SECRET env var for persistent credentials.")
	}

	tokenTTL, err := time.ParseDuration(getEnv("TOKEN_TTL", "1h"))
	if err != nil {
		log.Fatalf("Invalid TOKEN_TTL: %v", err)
	}

	rateLimit, _ := strconv.Atoi(getEnv("RATE_LIMIT", "30"))
	rateWindow, err := time.ParseDuration(getEnv("RATE_WINDOW", "1m"))
	if err != nil {
		log.Fatalf("Invalid RATE_WINDOW: %v", err)
	}

	// CORS origins: comma-separated list or "*" (default)
	corsOrigins := []string{"*"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		corsOrigins = make([]string, 0, len(origins))
		for _, o := range origins {
			o = strings.TrimSpace(o)
			if o != "" {
				corsOrigins = append(corsOrigins, o)
			}
		}
	}

	return &Config{
		Port:         port,
		DataPath:     dataPath,
		DBPath:       getEnv("DB_PATH", dataPath+"/reelscribe.db"),
		JWTSecret:    jwtSecret,
		ServiceURL:   getEnv("SERVICE_URL", "http://localhost:8080"),
		TokenTTL:     tokenTTL,
		YtdlpPath:    getEnv("YTDLP_PATH", "yt-dlp"),
		WhisperURL:   getEnv("WHISPER_URL", "http://localhost:9000"),
		ClientID:     getEnv("CLIENT_ID", "reelscribe-bot"),
		ClientSecret: getEnv("CLIENT_SECRET", "changeme"),
		CORSOrigins:  corsOrigins,
		RateLimit:    rateLimit,
		RateWindow:   rateWindow,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
