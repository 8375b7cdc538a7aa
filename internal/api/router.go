package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/opencampus/reservation-backend/internal/assistant"
	assistantHttp "github.com/opencampus/reservation-backend/internal/assistant/http"
	"github.com/opencampus/reservation-backend/internal/auth"
	"github.com/opencampus/reservation-backend/internal/file"
	fileHttp "github.com/opencampus/reservation-backend/internal/file/http"
	"github.com/opencampus/reservation-backend/internal/location"
	locationHttp "github.com/opencampus/reservation-backend/internal/location/http"
	"github.com/opencampus/reservation-backend/internal/maintenance"
	maintenanceHttp "github.com/opencampus/reservation-backend/internal/maintenance/http"
	"github.com/opencampus/reservation-backend/internal/reservation"
	reservationHttp "github.com/opencampus/reservation-backend/internal/reservation/http"
	"github.com/opencampus/reservation-backend/internal/resource"
	resourceHttp "github.com/opencampus/reservation-backend/internal/resource/http"
	"github.com/opencampus/reservation-backend/internal/respackage"
	respackageHttp "github.com/opencampus/reservation-backend/internal/respackage/http"
	"github.com/opencampus/reservation-backend/internal/settings"
	settingsHttp "github.com/opencampus/reservation-backend/internal/settings/http"
	"github.com/opencampus/reservation-backend/internal/user"
	userHttp "github.com/opencampus/reservation-backend/internal/user/http"
)

// Config holds everything the router needs to assemble the HTTP surface.
type Config struct {
	IsProduction bool
	ProdOrigins  string // comma-separated list, used only in production

	UserService        user.Service
	LocationService    location.Service
	ResourceService    resource.Service
	ReservationService reservation.Service
	PackageService     respackage.Service
	SettingsService    settings.Service
	MaintenanceService maintenance.Service
	FileService        file.Service
	AssistantService   assistant.Service

	JWTManager *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It assembles global middleware (CORS, Logger, Recovery) and registers the
// routes of every module under /v1.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000", // Frontend dev server
			"http://localhost:8081", // Swagger
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// Role middlewares re-check the user row so a stale token cannot escalate.
	adminMiddleware := RequireAdmin(cfg.UserService)
	staffMiddleware := RequireStaff(cfg.UserService)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	locationHandler := locationHttp.NewHandler(cfg.LocationService)
	resourceHandler := resourceHttp.NewHandler(cfg.ResourceService)
	reservationHandler := reservationHttp.NewHandler(cfg.ReservationService, cfg.UserService)
	packageHandler := respackageHttp.NewHandler(cfg.PackageService, cfg.UserService)
	settingsHandler := settingsHttp.NewHandler(cfg.SettingsService)
	maintenanceHandler := maintenanceHttp.NewHandler(cfg.MaintenanceService)
	fileHandler := fileHttp.NewHandler(cfg.FileService)
	assistantHandler := assistantHttp.NewHandler(cfg.AssistantService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, adminMiddleware)
		locationHttp.RegisterRoutes(v1, locationHandler, authMiddleware, adminMiddleware)
		resourceHttp.RegisterRoutes(v1, resourceHandler, authMiddleware, adminMiddleware)
		reservationHttp.RegisterRoutes(v1, reservationHandler, authMiddleware, staffMiddleware)
		respackageHttp.RegisterRoutes(v1, packageHandler, authMiddleware)
		settingsHttp.RegisterRoutes(v1, settingsHandler, authMiddleware, adminMiddleware)
		maintenanceHttp.RegisterRoutes(v1, maintenanceHandler, authMiddleware, staffMiddleware)
		fileHttp.RegisterRoutes(v1, fileHandler, authMiddleware)
		assistantHttp.RegisterRoutes(v1, assistantHandler, authMiddleware)

		registerResourcePhotoRoute(v1, fileHandler, cfg.ResourceService, authMiddleware, adminMiddleware)
	}

	return r
}

// registerResourcePhotoRoute wires the shared upload helper to resources:
// the uploaded image becomes the resource's photo.
func registerResourcePhotoRoute(g *gin.RouterGroup, fileHandler *fileHttp.Handler, resService resource.Service, authMiddleware, adminMiddleware gin.HandlerFunc) {
	g.POST("/resources/:id/photo", authMiddleware, adminMiddleware, func(c *gin.Context) {
		resourceID := c.Param("id")
		if _, err := uuid.Parse(resourceID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
			return
		}

		fileHandler.HandleFileUpload(c, fileHttp.FileUploadConfig{
			FormFieldName: "photo",
			MaxSizeBytes:  10 << 20, // 10 MiB
			AllowedTypes:  []string{"image/jpeg", "image/png", "image/webp"},
			AfterUpload: func(ctx context.Context, fileID string) error {
				_, err := resService.Update(ctx, resourceID, resource.UpdateRequest{PhotoFileID: &fileID})
				return err
			},
		})
	})
}
