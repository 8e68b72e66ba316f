package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ordertrack/internal/handlers"
	"ordertrack/internal/logger"
	"ordertrack/internal/repository"
	"ordertrack/internal/repository/db"
	"ordertrack/internal/server"
	"ordertrack/internal/service"

	_ "ordertrack/docs"

	"github.com/spf13/viper"
)

const defaultTokenTTL = 30 * 24 * time.Hour

// @title           Order Tracking API
// @version         1.0
// @description     Per-user order tracking with cookie/bearer session auth.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// load config.yml first so the log level comes from configuration
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(viper.GetString("log_level"))

	signingKey, tokenTTL, err := authConfig()
	if err != nil {
		log.Fatalw("invalid auth config", "err", err)
	}

	// open DB
	database, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := database.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(database)
	services := service.NewService(repos, signingKey, tokenTTL)
	secureCookies := viper.GetString("env") == "production"
	apiHandler := handlers.NewHandler(services, log, secureCookies)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	viper.SetDefault("log_level", logger.InfoLevel)
	// the signing key normally comes from the environment, not the file
	_ = viper.BindEnv("auth.signing_key", "AUTH_SIGNING_KEY")
	return viper.ReadInConfig()
}

// authConfig reads the token signing key and TTL. The key is mandatory:
// starting without one would silently accept forged sessions after a restart
// with a different ad hoc key.
func authConfig() (string, time.Duration, error) {
	key := viper.GetString("auth.signing_key")
	if key == "" {
		return "", 0, errors.New("auth.signing_key (or AUTH_SIGNING_KEY) must be set")
	}
	ttl := viper.GetDuration("auth.token_ttl")
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return key, ttl, nil
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "ordertrack.db")
		dbPath = "ordertrack.db"
	}
	return db.InitDB(dbPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
