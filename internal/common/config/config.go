package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dcastellanos/userboard/internal/common/constants"
	commonerrors "github.com/dcastellanos/userboard/internal/common/errors"
)

type ServerConfig struct {
	HTTPPort       string
	DatabaseURL    string
	JWTSecret      string
	TokenTTL       time.Duration
	BcryptCost     int
	RequestTimeout time.Duration
}

func LoadServerConfig() (ServerConfig, error) {
	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return ServerConfig{}, err
	}

	if len(jwtSecret) < constants.JWTSecretMinLength {
		return ServerConfig{}, fmt.Errorf("%w: got %d bytes", commonerrors.ErrInvalidJWTSecret, len(jwtSecret))
	}

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return ServerConfig{}, err
	}

	return ServerConfig{
		HTTPPort:       getEnv("HTTP_PORT", constants.DefaultHTTPPort),
		DatabaseURL:    databaseURL,
		JWTSecret:      jwtSecret,
		TokenTTL:       getDurationEnv("TOKEN_TTL", constants.DefaultTokenTTL),
		BcryptCost:     getIntEnv("BCRYPT_COST", constants.DefaultBcryptCost),
		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
	}, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", commonerrors.ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
