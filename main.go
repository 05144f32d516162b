package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"classroom-roster/config"
	"classroom-roster/db"
	"classroom-roster/handlers"
	"classroom-roster/logger"
	"classroom-roster/roster"
	"classroom-roster/validator"

	"github.com/gin-gonic/gin"
)

func main() {
	config.Load()
	cfg := config.AppConfig

	logger.Init(cfg.LogLevel)
	if cfg.LogDir != "" {
		if err := logger.AddFileLogger(cfg.LogDir, cfg.LogLevel); err != nil {
			logger.Logger.Warn().Err(err).Msg("Failed to enable file logging")
		} else {
			logger.Logger.Info().Str("path", logger.GetLogFilePath()).Msg("Writing logs to file")
		}
	}

	store, closer, err := openStore(context.Background(), cfg)
	if err != nil {
		logger.Logger.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("Failed to open store")
	}
	defer closer.Close()

	repo := db.NewClassroomRepository(store)
	v := validator.New()
	manager := roster.NewManager(repo, v)

	if cfg.SeedData {
		checkAndSeedData(context.Background(), repo, manager)
	}

	apiHandler := handlers.NewAPIHandler(repo, manager, v)

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), handlers.RequestLogger())
	apiHandler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Logger.Info().Str("port", cfg.Port).Str("backend", cfg.StoreBackend).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to run server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openStore builds the key-value backend named by STORE_BACKEND
func openStore(ctx context.Context, cfg *config.Config) (db.KVStore, io.Closer, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return db.NewMemoryStore(), nopCloser{}, nil
	case config.BackendRedis:
		client, err := db.InitializeRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return db.NewRedisStore(client), client, nil
	case config.BackendSQLite:
		s, err := db.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// checkAndSeedData adds sample classrooms when the store holds none
func checkAndSeedData(ctx context.Context, repo *db.ClassroomRepository, manager *roster.Manager) {
	classrooms, err := repo.ListClassrooms(ctx)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Could not check for existing classrooms, skipping seed data")
		return
	}
	if len(classrooms) > 0 {
		logger.Logger.Info().Int("count", len(classrooms)).Msg("Found existing classrooms, skipping seed data")
		return
	}

	logger.Logger.Info().Msg("No classrooms found, adding seed data")
	seed := map[string][]string{
		"Math":    {"Alice", "Bob", "Charlie"},
		"History": {"David", "Eve"},
	}
	for _, className := range []string{"Math", "History"} {
		if _, err := repo.AddClassroom(ctx, className); err != nil {
			logger.Logger.Error().Err(err).Str("class", className).Msg("Failed to add seed classroom")
			continue
		}
		for _, name := range seed[className] {
			if _, err := manager.AddStudent(ctx, className, name); err != nil {
				logger.Logger.Error().Err(err).Str("student", name).Msg("Failed to add seed student")
			}
		}
	}
}
