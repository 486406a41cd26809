package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/collabhub/internal/app/controllers"
	appMigrations "github.com/yigit/collabhub/internal/app/migrations"
	appRepos "github.com/yigit/collabhub/internal/app/repositories"
	appRoutes "github.com/yigit/collabhub/internal/app/routes"
	appServices "github.com/yigit/collabhub/internal/app/services"
	"github.com/yigit/collabhub/internal/config"
	"github.com/yigit/collabhub/internal/db"
	appMiddleware "github.com/yigit/collabhub/internal/middleware"
	pkgAuth "github.com/yigit/collabhub/internal/pkg/auth"
	"github.com/yigit/collabhub/internal/pkg/email"
	"github.com/yigit/collabhub/internal/pkg/filestorage"
	"github.com/yigit/collabhub/internal/pkg/helpers"
	"github.com/yigit/collabhub/internal/pkg/logger"
	"github.com/yigit/collabhub/internal/realtime"
	"github.com/yigit/collabhub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	FileStorage    filestorage.FileStorage
	LocalStorage   *filestorage.LocalStorage // set only for the local driver, served under /uploads
	Hub            *realtime.Hub
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join("configs", "config.yaml")
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and optionally seeds demo data.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	migrationsDir := cfg.Server.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		dbPool.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, lgr)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		dbPool.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if cfg.Server.SeedDemoData {
		if err := seed.CreateDemoData(ctx, appRepos.NewRepositories(dbPool), lgr); err != nil {
			// startup continues without demo data
			lgr.Error().Err(err).Msg("Failed to create demo data, proceeding anyway...")
		}
	}

	return dbPool, nil
}

// SetupStorage picks the file storage backend named by the configuration
func SetupStorage(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (filestorage.FileStorage, *filestorage.LocalStorage, error) {
	buckets := []string{filestorage.BucketProjectBanners, filestorage.BucketProfileImages}

	if cfg.Storage.Driver == "minio" {
		minioStorage, err := filestorage.NewMinioStorage(ctx, filestorage.MinioConfig{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
			PublicURL: cfg.Storage.PublicURL,
		}, lgr, buckets...)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to initialize MinIO storage")
			return nil, nil, fmt.Errorf("failed to initialize minio storage: %w", err)
		}
		return minioStorage, nil, nil
	}

	baseURL := cfg.Storage.PublicURL
	if baseURL == "" {
		baseURL = "http://localhost:" + cfg.Server.Port + "/uploads"
	}
	localStorage, err := filestorage.NewLocalStorage(cfg.Storage.LocalPath, baseURL, lgr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}
	return localStorage, localStorage, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	deps.FileStorage, deps.LocalStorage, err = SetupStorage(ctx, cfg, lgr)
	if err != nil {
		return nil, err
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	emailService := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
		BaseURL:   cfg.Server.PublicURL,
	}, lgr)

	deps.Hub = realtime.NewHub(lgr)
	go deps.Hub.Run()
	rtHandler := realtime.NewHandler(deps.Hub, cfg.Server.AllowedOrigins, cfg.Realtime.SendBuffer, lgr)

	deps.Services = appServices.NewServices(deps.Repos, appServices.Dependencies{
		JWTService:       deps.JWTService,
		FileStorage:      deps.FileStorage,
		EmailService:     emailService,
		Publisher:        deps.Hub,
		FreeProjectLimit: cfg.Plans.FreeProjectLimit,
		InviteTTL:        helpers.ParseDuration(cfg.Invites.TTL, 7*24*time.Hour),
	}, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	svc := deps.Services
	deps.Controllers = appRoutes.Controllers{
		Auth:          appControllers.NewAuthController(svc.AuthService, lgr),
		User:          appControllers.NewUserController(svc.UserService),
		Project:       appControllers.NewProjectController(svc.ProjectService),
		Collaborator:  appControllers.NewCollaboratorController(svc.CollaboratorService),
		Channel:       appControllers.NewChannelController(svc.ChannelService, svc.MessageService, rtHandler),
		DirectMessage: appControllers.NewDirectMessageController(svc.DirectMessageService, rtHandler),
		Invite:        appControllers.NewInviteController(svc.InviteService),
		Request:       appControllers.NewRequestController(svc.RequestService),
		Notification:  appControllers.NewNotificationController(svc.NotificationService),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := appRoutes.RegisterValidations(); err != nil {
		return nil, fmt.Errorf("failed to register custom validations: %w", err)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestID(lgr),
		appMiddleware.AccessLog(),
		appMiddleware.Metrics(),
	)

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", appMiddleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", appMiddleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	if deps.LocalStorage != nil {
		router.Static("/uploads", deps.LocalStorage.BasePath())
		lgr.Info().Str("path", deps.LocalStorage.BasePath()).Msg("Static file serving configured for uploads directory")
	}

	return router, nil
}
