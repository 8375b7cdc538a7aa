package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/opencampus/reservation-backend/internal/api"
	"github.com/opencampus/reservation-backend/internal/assistant"
	"github.com/opencampus/reservation-backend/internal/auth"
	"github.com/opencampus/reservation-backend/internal/file"
	"github.com/opencampus/reservation-backend/internal/location"
	"github.com/opencampus/reservation-backend/internal/maintenance"
	"github.com/opencampus/reservation-backend/internal/pkg/logger"
	"github.com/opencampus/reservation-backend/internal/pkg/storage"
	"github.com/opencampus/reservation-backend/internal/reservation"
	"github.com/opencampus/reservation-backend/internal/resource"
	"github.com/opencampus/reservation-backend/internal/respackage"
	"github.com/opencampus/reservation-backend/internal/settings"
	"github.com/opencampus/reservation-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
	UploadDir    string
	OpenAIAPIKey string
	OpenAIModel  string
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	// Init Components
	passwordHasher := auth.NewBcryptHasher(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	localStorage, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("init upload storage: %w", err)
	}

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Location Module
	locRepo := location.NewPgxRepository(cfg.DBPool)
	locService := location.NewService(locRepo)

	// Resource Module
	resRepo := resource.NewPgxRepository(cfg.DBPool)
	resService := resource.NewService(resRepo, locService)

	// Settings Module
	settingsRepo := settings.NewPgxRepository(cfg.DBPool)
	settingsService := settings.NewService(settingsRepo)

	// Reservation Module
	rsvRepo := reservation.NewPgxRepository(cfg.DBPool)
	rsvService := reservation.NewService(rsvRepo, resService, settingsService)

	// Package Module
	pkgRepo := respackage.NewPgxRepository(cfg.DBPool)
	pkgService := respackage.NewService(pkgRepo, resService, rsvService, logger.Component("respackage"))

	// Maintenance Module
	mtRepo := maintenance.NewPgxRepository(cfg.DBPool)
	mtService := maintenance.NewService(mtRepo, resService)

	// File Module
	fileRepo := file.NewPgxRepository(cfg.DBPool)
	fileService := file.NewService(fileRepo, localStorage, logger.Component("file"))

	// Assistant Module. Without an API key the routes stay registered but
	// answer 503.
	var completer assistant.Completer
	if cfg.OpenAIAPIKey != "" {
		completer = assistant.NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set, assistant disabled")
	}
	assistantService := assistant.NewService(completer, resService, rsvService, pkgService, logger.Component("assistant"))

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:       cfg.IsProduction,
		ProdOrigins:        cfg.ProdOrigins,
		UserService:        userService,
		LocationService:    locService,
		ResourceService:    resService,
		ReservationService: rsvService,
		PackageService:     pkgService,
		SettingsService:    settingsService,
		MaintenanceService: mtService,
		FileService:        fileService,
		AssistantService:   assistantService,
		JWTManager:         jwtManager,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}, nil
}
