package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"greenhouse_control/internal/handlers"
	"greenhouse_control/internal/logger"
	"greenhouse_control/internal/repository"
	"greenhouse_control/internal/server"
	"greenhouse_control/internal/service"

	"github.com/spf13/viper"
)

const (
	defaultClaimTimeout    = 5 * time.Minute
	defaultReclaimInterval = 1 * time.Minute
)

// @title           Greenhouse Control API
// @version         1.0
// @description     REST backend for greenhouse ventilation, gate motors and irrigation switches.

// @securityDefinitions.apikey DeviceAuth
// @in header
// @name X-API-Key

// @securityDefinitions.apikey SessionAuth
// @in header
// @name Authorization

func main() {
	// init logger
	log := logger.Get(logger.InfoLevel)

	// load config.yml
	if err := loadConfig(); err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	// open DB
	db, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(db)
	services := service.NewService(repos, authConfig(log), queueConfig(), log)
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// start the stale-claim reclaimer (via composed service)
	go services.Reclaimer.Run(ctx, reclaimInterval())

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	viper.SetEnvPrefix("greenhouse")
	viper.AutomaticEnv()
	return viper.ReadInConfig()
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "greenhouse.db")
		dbPath = "greenhouse.db"
	}
	return repository.InitDB(dbPath)
}

func authConfig(log *logger.Logger) service.AuthConfig {
	cfg := service.AuthConfig{
		APIKey:       viper.GetString("auth.api_key"),
		PasswordHash: viper.GetString("auth.password_hash"),
		SessionTTL:   viper.GetDuration("auth.session_ttl"),
	}
	if cfg.APIKey == "" {
		log.Warnw("auth.api_key not set; device endpoints will reject all requests")
	}
	if cfg.PasswordHash == "" {
		log.Warnw("auth.password_hash not set; operator login will reject all requests")
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	return cfg
}

func queueConfig() service.QueueConfig {
	timeout := viper.GetDuration("commands.claim_timeout")
	if timeout <= 0 {
		timeout = defaultClaimTimeout
	}
	return service.QueueConfig{ClaimTimeout: timeout}
}

func reclaimInterval() time.Duration {
	if d := viper.GetDuration("commands.reclaim_interval"); d > 0 {
		return d
	}
	return defaultReclaimInterval
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
