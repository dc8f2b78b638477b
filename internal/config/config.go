package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr     string
	BaseURL        string
	UploadRoot     string
	PublicDir      string
	DBPath         string
	MaxUploadBytes int64
}

// Load reads configuration from a .env file (if present) and environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	return &Config{
		ListenAddr:     getEnv("DT_LISTEN_ADDR", ":3000"),
		BaseURL:        getEnv("DT_BASE_URL", "http://localhost:3000"),
		UploadRoot:     getEnv("DT_UPLOAD_ROOT", "uploads"),
		PublicDir:      getEnv("DT_PUBLIC_DIR", "public"),
		DBPath:         getEnv("DT_DB_PATH", "data/images.db"),
		MaxUploadBytes: int64(getEnvInt("DT_MAX_UPLOAD_BYTES", 32<<20)),
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	var result int
	for _, c := range v {
		if c < '0' || c > '9' {
			return defaultValue
		}
		result = result*10 + int(c-'0')
	}
	return result
}
