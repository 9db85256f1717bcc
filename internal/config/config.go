package config

import (
	"fmt"
	"os"
)

type Config struct {
	DBSource      string
	Port          string
	Env           string
	SessionSecret string
	UploadDir     string
	UploadPrefix  string
}

func Load() (*Config, error) {
	dbSource := os.Getenv("DB_SOURCE")
	if dbSource == "" {
		return nil, fmt.Errorf("DB_SOURCE environment variable is required")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		if env != "development" {
			return nil, fmt.Errorf("SESSION_SECRET environment variable is required outside development")
		}
		secret = "movieclub-dev-secret"
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	uploadPrefix := os.Getenv("UPLOAD_URL_PREFIX")
	if uploadPrefix == "" {
		uploadPrefix = "/uploads"
	}

	return &Config{
		DBSource:      dbSource,
		Port:          port,
		Env:           env,
		SessionSecret: secret,
		UploadDir:     uploadDir,
		UploadPrefix:  uploadPrefix,
	}, nil
}
