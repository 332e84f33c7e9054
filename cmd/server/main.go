package main

import (
	"context"   // Startup and shutdown deadlines
	"errors"    // Error inspection
	"net/http"  // HTTP server
	"os"        // Signals
	"os/signal" // Graceful shutdown
	"syscall"   // SIGTERM
	"time"      // Timeouts

	"account_portal/internal/api"        // HTTP routes
	"account_portal/internal/config"     // Configuration
	"account_portal/internal/db"         // Database connection
	"account_portal/internal/mailer"     // Outgoing mail
	"account_portal/internal/middleware" // Sessions
	"account_portal/internal/repository" // Persistence
	"account_portal/internal/service"    // Account operations
	"account_portal/internal/session"    // Session manager
	"account_portal/internal/storage"    // Avatar storage

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"golang.org/x/crypto/bcrypt"   // Password hashing cost
)

// Main function to set up and run the server
func main() {
	cfg, err := config.Load() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	// Setup logger
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode) // Set Mode to Release if in production
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})
	defer redisClient.Close()

	// Test Redis connection
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = redisClient.Ping(pingCtx).Err()
	cancel()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	users, notificationRepo := openRepositories(cfg)
	users = repository.NewCachedUserRepository(users, redisClient, cfg.UserCacheTTL) // Cache user reads in Redis

	disk, publicDir := openStorage(cfg)
	mail := newMailer(cfg)

	notifications := service.NewNotificationService(notificationRepo)
	verification := service.NewVerificationService(users, mail, notifications, cfg.AppURL, cfg.AppKey, cfg.VerificationExpire)
	auth, err := service.NewAuthService(users, verification, bcrypt.DefaultCost)
	if err != nil {
		logrus.Fatalf("failed to init auth service: %v", err)
	}
	resetTokens := repository.NewRedisResetTokenStore(redisClient)
	passwords := service.NewPasswordService(users, resetTokens, mail, notifications, cfg.AppURL, cfg.ResetExpire, bcrypt.DefaultCost)
	profile := service.NewProfileService(users, disk, verification, notifications, cfg.AvatarMaxKB*1024)

	r := api.NewRouter(&api.Deps{
		Config:        cfg,
		Redis:         redisClient,
		Sessions:      &middleware.Sessions{Manager: session.NewManager(redisClient, cfg.SessionLifetime), CookieName: cfg.SessionCookie, Secure: cfg.SessionSecure},
		Users:         users,
		Auth:          auth,
		Verification:  verification,
		Passwords:     passwords,
		Profile:       profile,
		Notifications: notifications,
		PublicDir:     publicDir,
	})

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logrus.WithFields(logrus.Fields{"port": cfg.AppPort}).Info("Server running") // Log server start
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logrus.Info("Shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("graceful shutdown failed: %v", err)
	}
}

// openRepositories picks the persistence driver
func openRepositories(cfg *config.Config) (repository.UserRepository, repository.NotificationRepository) {
	if cfg.DBDriver == "memory" {
		logrus.Warn("Using in-memory storage; data is lost on restart")
		store := repository.NewMemoryStore()
		return store.Users(), store.Notifications()
	}
	gdb, err := db.Open(cfg.DSN(), !cfg.IsProd)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	return repository.NewGormUserRepository(gdb), repository.NewGormNotificationRepository(gdb)
}

// openStorage picks the avatar storage driver. The second result is the
// directory to serve under /storage, empty when files live elsewhere.
func openStorage(cfg *config.Config) (storage.Disk, string) {
	if cfg.StorageDriver == "s3" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		disk, err := storage.NewS3Disk(ctx, storage.S3Config{
			Region:       cfg.S3Region,
			Bucket:       cfg.S3Bucket,
			Endpoint:     cfg.S3Endpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			UsePathStyle: cfg.S3UsePathStyle,
			PublicURL:    cfg.StorageURL,
		})
		if err != nil {
			logrus.Fatalf("failed to init S3 storage: %v", err)
		}
		return disk, ""
	}
	disk, err := storage.NewLocalDisk(cfg.StoragePath, cfg.StorageURL)
	if err != nil {
		logrus.Fatalf("failed to init local storage: %v", err)
	}
	return disk, disk.Root()
}

// newMailer picks the mail driver
func newMailer(cfg *config.Config) mailer.Mailer {
	if cfg.MailDriver == "smtp" {
		return mailer.NewSMTPMailer(cfg.MailHost, cfg.MailPort, cfg.MailUsername, cfg.MailPassword, cfg.MailFrom)
	}
	return mailer.NewLogMailer(logrus.StandardLogger())
}
