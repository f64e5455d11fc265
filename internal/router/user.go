package router

import "github.com/gin-gonic/gin"

func (r *Router) userRoutes(version *gin.RouterGroup) {
	users := version.Group("/users")
	{
		// Public account and session entry points
		users.POST("/register", r.authHandler.Register)
		users.POST("/login", r.authHandler.Login)
		users.POST("/refresh-token", r.authHandler.RefreshToken)

		// Channel profiles are public but honour a viewer when present
		users.GET("/channel/:username", r.authMw.OptionalAuth(), r.channelHandler.Profile)

		protected := users.Group("")
		protected.Use(r.authMw.RequireAuth())
		{
			protected.POST("/logout", r.authHandler.Logout)
			protected.POST("/change-password", r.authHandler.ChangePassword)

			protected.GET("/me", r.userHandler.CurrentUser)
			protected.PATCH("/details", r.userHandler.UpdateDetails)
			protected.PATCH("/avatar", r.userHandler.UpdateAvatar)
			protected.PATCH("/cover", r.userHandler.UpdateCoverImage)

			protected.GET("/history", r.channelHandler.WatchHistory)
		}
	}
}
