package router

import "github.com/gin-gonic/gin"

func (r *Router) videoRoutes(version *gin.RouterGroup) {
	videos := version.Group("/videos")
	{
		// Listing and single reads work anonymously, but a valid token
		// widens visibility and records watch history
		videos.GET("", r.authMw.OptionalAuth(), r.videoHandler.List)
		videos.GET("/:videoId", r.authMw.OptionalAuth(), r.videoHandler.Get)

		protected := videos.Group("")
		protected.Use(r.authMw.RequireAuth())
		{
			protected.POST("", r.videoHandler.Publish)
			protected.PATCH("/:videoId", r.videoHandler.Update)
			protected.DELETE("/:videoId", r.videoHandler.Delete)
			protected.PATCH("/toggle/publish/:videoId", r.videoHandler.TogglePublish)
		}
	}
}
