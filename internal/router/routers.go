package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tubeworks/streamapi/config"
	"github.com/tubeworks/streamapi/internal/handler"
	"github.com/tubeworks/streamapi/internal/middleware"
)

type Router struct {
	authHandler    *handler.AuthHandler
	userHandler    *handler.UserHandler
	channelHandler *handler.ChannelHandler
	videoHandler   *handler.VideoHandler
	healthHandler  *handler.HealthHandler

	authMw *middleware.AuthMiddleware
	Config *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	user *handler.UserHandler,
	channel *handler.ChannelHandler,
	video *handler.VideoHandler,
	health *handler.HealthHandler,
	authMw *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:    auth,
		userHandler:    user,
		channelHandler: channel,
		videoHandler:   video,
		healthHandler:  health,
		authMw:         authMw,
		Config:         cfg,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	if !r.Config.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.MaxMultipartMemory = r.Config.Upload.MaxUploadSize

	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORS(r.Config.App.CORSOrigin))

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.HealthCheck)
		api.GET("/healthz", r.healthHandler.BasicHealth)

		v1 := api.Group("/v1")
		{
			v1.Use(middleware.RateLimit(r.Config.RateLimit.Request, time.Duration(r.Config.RateLimit.Duration)*time.Second))

			r.userRoutes(v1)
			r.videoRoutes(v1)
		}
	}

	return router
}
