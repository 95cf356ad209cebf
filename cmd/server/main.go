package main

import (
	"alcyxob/coaching-platform/internal/api"
	"alcyxob/coaching-platform/internal/config"
	"alcyxob/coaching-platform/internal/logging"
	"alcyxob/coaching-platform/internal/metrics"
	"alcyxob/coaching-platform/internal/repository"
	"alcyxob/coaching-platform/internal/repository/memory"
	mongorepo "alcyxob/coaching-platform/internal/repository/mongo"
	"alcyxob/coaching-platform/internal/service"
	"alcyxob/coaching-platform/internal/session"
	"alcyxob/coaching-platform/internal/storage"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const evictInterval = 5 * time.Minute

// @title Coaching Platform API
// @version 1.0
// @description Coaches author workouts and multi-week programs, clients run them as guided sessions.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:          "coaching-server",
		Short:        "Coaching platform API server",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "Directory holding config.yaml")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "ensure-indexes",
		Short: "Create the MongoDB indexes and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ensureIndexes(configPath)
		},
	})
	return cmd
}

func loadConfig(path string) (config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	logging.Setup(logging.SetupParams{
		Level:       cfg.Log.Level,
		FormatJSON:  cfg.Log.FormatJSON,
		FileName:    cfg.Log.File,
		LogToStdout: cfg.Log.ToStdout,
	})
	return cfg, nil
}

func ensureIndexes(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.Database.Driver != config.DriverMongo {
		log.Infof("database driver %q has no indexes", cfg.Database.Driver)
		return nil
	}
	client, err := mongorepo.ConnectDB(cfg.Database.URI)
	if err != nil {
		return err
	}
	defer func() {
		if err := mongorepo.DisconnectDB(client); err != nil {
			log.Errorf("failed to disconnect MongoDB: %s", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	mongorepo.EnsureIndexes(ctx, client.Database(cfg.Database.Name))
	return nil
}

// backend opens the store and file storage for the configured driver. The returned
// closer releases the database connection.
func backend(ctx context.Context, cfg config.Config) (repository.Store, storage.FileStorage, func(), error) {
	if cfg.Database.Driver == config.DriverMemory {
		log.Warn("using the in-memory backend, data is lost on restart")
		return memory.NewStore(), storage.NewMemoryStorage(cfg.S3.PublicBaseURL), func() {}, nil
	}

	client, err := mongorepo.ConnectDB(cfg.Database.URI)
	if err != nil {
		return repository.Store{}, nil, nil, err
	}
	closer := func() {
		log.Info("disconnecting MongoDB")
		if err := mongorepo.DisconnectDB(client); err != nil {
			log.Errorf("failed to disconnect MongoDB: %s", err)
		}
	}
	db := client.Database(cfg.Database.Name)

	go func() {
		ctx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		mongorepo.EnsureIndexes(ctx, db)
	}()

	files, err := storage.NewS3Storage(ctx, cfg.S3)
	if err != nil {
		closer()
		return repository.Store{}, nil, nil, fmt.Errorf("init S3 storage: %w", err)
	}
	return mongorepo.NewStore(db), files, closer, nil
}

func serve(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	log.Info("starting coaching platform server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, files, closeBackend, err := backend(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeBackend()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsManager := metrics.NewManager("coaching", "server", registry)

	clock := func() time.Time { return time.Now().UTC() }
	sessions := session.NewManager(cfg.Session.IdleTTL, clock)
	go sessions.Run(ctx, evictInterval)

	exercises := service.NewExerciseService(store.Exercises)
	workouts := service.NewCachedWorkoutService(
		service.NewWorkoutService(store, exercises),
		cfg.Cache.SizeMB*1024*1024,
		cfg.Cache.WorkoutTTL,
	)
	programs := service.NewProgramService(store)
	logs := service.NewLogStore(store)
	assignments := service.NewAssignmentService(store, programs, workouts, logs)
	svc := api.Services{
		Auth:        service.NewAuthService(store.Users, cfg.JWT.Secret, cfg.JWT.Expiration),
		Exercises:   exercises,
		Workouts:    workouts,
		Programs:    programs,
		Assignments: assignments,
		Roster:      service.NewRosterService(store.Users),
		Logs:        logs,
		Activities:  service.NewActivityService(store, assignments, files),
		Sessions:    service.NewSessionService(sessions, assignments, workouts, logs, metricsManager, clock),
	}

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(), api.RequestMetrics(metricsManager))
	api.SetupRoutes(router, svc, metricsManager, registry)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	log.Info("server exited")
	return nil
}
