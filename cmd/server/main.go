package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AnshRaj112/promisu-backend/internal/config"
	"github.com/AnshRaj112/promisu-backend/internal/database"
	"github.com/AnshRaj112/promisu-backend/internal/handlers"
	"github.com/AnshRaj112/promisu-backend/internal/logger"
	"github.com/AnshRaj112/promisu-backend/internal/middleware"
	"github.com/AnshRaj112/promisu-backend/internal/routes"
	"github.com/AnshRaj112/promisu-backend/internal/services"
	"github.com/AnshRaj112/promisu-backend/internal/store"
	"github.com/AnshRaj112/promisu-backend/pkg/utils"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var cfg *config.Config

	cmd := &cobra.Command{
		Use:          "promisu",
		Short:        "Promisu backend: promises, daily check-ins and streaks",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil {
				logger.Debug("No .env file found")
			}
			cfg = config.Load()
			if err := logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile}); err != nil {
				logger.Warn("invalid LOG_LEVEL, using info", "error", err)
			}
			return cfg.Validate()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cfg)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, dialect, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			logger.Info("✅ Schema is up to date", "driver", dialect)
			return nil
		},
	})

	return cmd
}

// openStore connects the relational database and applies the schema.
func openStore(ctx context.Context, cfg *config.Config) (*sql.DB, store.Dialect, error) {
	dialect, err := store.ParseDialect(cfg.DatabaseDriver)
	if err != nil {
		return nil, "", err
	}
	db, err := database.ConnectSQL(cfg.DatabaseDriver, cfg.DatabaseURI())
	if err != nil {
		return nil, "", fmt.Errorf("failed to connect to %s: %w", cfg.DatabaseDriver, err)
	}
	if err := store.Migrate(ctx, db, dialect); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("failed to migrate: %w", err)
	}
	return db, dialect, nil
}

func serve(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, dialect, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	logger.Info("Connecting to Redis...")
	redisClient, err := database.ConnectRedis(cfg.RedisURI)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	var cipher *utils.Cipher
	if cfg.EncryptionKey == "" {
		logger.Warn("⚠️  ENCRYPTION_KEY not set. Recovery emails will be rejected at signup.")
		logger.Warn("   To generate a key, run: openssl rand -base64 32")
	} else if cipher, err = utils.NewCipher(cfg.EncryptionKey); err != nil {
		logger.Warn("⚠️  ENCRYPTION_KEY is invalid, recovery emails disabled", "error", err)
		cipher = nil
	} else {
		logger.Info("✅ Encryption key configured")
	}

	var photos services.PhotoUploader
	if cfg.CloudinaryConfigured() {
		cld, err := services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			logger.Warn("Failed to initialize Cloudinary, photo uploads disabled", "error", err)
		} else {
			photos = cld
			logger.Info("✅ Cloudinary service initialized")
		}
	} else {
		logger.Warn("Cloudinary credentials not found. Photo uploads will not be available")
	}

	var (
		notes       services.DailyNoteStore
		mongoClient *mongo.Client
	)
	logger.Info("Connecting to MongoDB...")
	if client, mdb, err := database.ConnectMongo(cfg.MongoURI, cfg.MongoDatabase); err != nil {
		logger.Warn("MongoDB unavailable, daily notes disabled", "error", err)
	} else {
		mongoClient = client
		noteStore := services.NewMongoDailyNoteStore(mdb)
		if err := noteStore.EnsureIndexes(ctx); err != nil {
			logger.Warn("⚠️  failed to ensure MongoDB daily journal indexes", "error", err)
		} else {
			logger.Info("✅ MongoDB daily journal indexes ensured")
		}
		notes = noteStore
	}

	promiseStore := store.NewPromiseStore(db, dialect)
	entryStore := store.NewJournalStore(db, dialect)
	userStore := store.NewUserStore(db, dialect)
	events := services.NewRedisEventPublisher(redisClient)
	hub := services.NewRecordHub(redisClient)
	hub.Start(ctx)

	h := &handlers.Handler{
		Auth:     services.NewAuthService(userStore, services.NewRedisSessionStore(redisClient), cipher, nil),
		Promises: services.NewPromiseService(promiseStore, entryStore, userStore, events, nil),
		Journal:  services.NewJournalService(promiseStore, entryStore, userStore, events, photos, nil),
		Daily:    services.NewDailyJournalService(notes, entryStore, userStore, events, nil),
		Hub:      hub,
	}

	r := newRouter(cfg, redisClient, h)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("🚀 Promisu backend running", "port", cfg.Port, "env", cfg.Environment, "driver", dialect)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"promisu": func(ctx context.Context) error {
				logger.Info("Graceful shutdown initiated...")
				// Drain requests before closing the stores they use.
				err := srv.Shutdown(ctx)
				cancel()
				err = errors.Join(err, db.Close(), redisClient.Close())
				if mongoClient != nil {
					err = errors.Join(err, database.DisconnectMongo(mongoClient))
				}
				return err
			},
		},
	)

	exitCode := <-wait
	logger.Info("Server exited", "code", exitCode)
	if exitCode != 0 {
		return fmt.Errorf("shutdown finished with exit code %d", exitCode)
	}
	return nil
}

func newRouter(cfg *config.Config, redisClient *redis.Client, h *handlers.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Production: SecurityHeaders → HostCheck → per-IP limit → sign-in limit
	// Non-production: Redis-based rate limit only
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity(middleware.BareHost(cfg.Host)) {
			r.Use(mw)
		}
		logger.Info("✅ Production security enabled (security headers, host check, per-IP + login rate limiting)")
	} else {
		r.Use(middleware.RedisRateLimit(redisClient))
	}

	routes.SetupRoutes(r, h)
	return r
}
