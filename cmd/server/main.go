package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/dcastellanos/userboard/internal/auth/http"
	authservice "github.com/dcastellanos/userboard/internal/auth/service"
	"github.com/dcastellanos/userboard/internal/auth/token"
	"github.com/dcastellanos/userboard/internal/authmw"
	"github.com/dcastellanos/userboard/internal/common/clock"
	"github.com/dcastellanos/userboard/internal/common/config"
	"github.com/dcastellanos/userboard/internal/common/crypto"
	"github.com/dcastellanos/userboard/internal/common/db"
	commonhttp "github.com/dcastellanos/userboard/internal/common/http"
	"github.com/dcastellanos/userboard/internal/common/logger"
	srv "github.com/dcastellanos/userboard/internal/common/server"
	userhttp "github.com/dcastellanos/userboard/internal/user/http"
	userrepo "github.com/dcastellanos/userboard/internal/user/repository"
	userservice "github.com/dcastellanos/userboard/internal/user/service"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "userboard", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.LoadServerConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	if err := db.EnsureSchema(context.Background(), pool); err != nil {
		log.Fatalf("failed to initialize schema: %v", err)
	}

	repo := userrepo.NewPgRepository(pool)
	hasher := crypto.NewBcryptHasher(cfg.BcryptCost)
	issuer := token.NewIssuer(cfg.JWTSecret, cfg.TokenTTL, clock.NewRealClock())
	authService := authservice.NewAuthService(repo, hasher, issuer, log)
	userService := userservice.NewUserService(repo, log)

	authHandler := authhttp.NewHandler(authService, cfg.RequestTimeout, log)
	userHandler := userhttp.NewHandler(userService, cfg.RequestTimeout, log)
	guard := authmw.Middleware(issuer, log)

	mux := http.NewServeMux()
	mux.Handle("/api/register", authHandler)
	mux.Handle("/api/login", authHandler)
	mux.Handle("/api/users", guard(userHandler))
	mux.Handle("/api/users/", guard(userHandler))
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())

	rateLimiter := commonhttp.NewStrictRateLimiter()
	handler := rateLimiter.Middleware()(commonhttp.BuildBaseHandler(log, mux))

	server := srv.NewServer(srv.DefaultServerConfig(cfg.HTTPPort), handler)

	shutdownHooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			log.Infof("closing database pool")
			pool.Close()
			return nil
		},
	}

	srv.StartWithGracefulShutdownAndHooks(server, log, "userboard", shutdownHooks)
}
