package routes

import (
	"pathfinder/controllers"
	"pathfinder/middleware"
	"pathfinder/store"

	"github.com/gin-gonic/gin"
)

// Deps is everything the routes need from main.
type Deps struct {
	Onboarding    *controllers.Onboarding
	Dashboard     *controllers.Dashboard
	DemoDashboard *controllers.Dashboard
	Verifier      middleware.TokenVerifier
	WebUsers      store.WebUserStore
}

func sessionRoutes(group *gin.RouterGroup, o *controllers.Onboarding) {
	group.GET("/:id", o.GetSession)
	group.POST("/:id/actions", o.ApplyAction)
	group.PUT("/:id/details", o.UpdateDetails)
	group.GET("/:id/summary", o.GetSummary)
	group.POST("/:id/reset", o.ResetSession)
	group.GET("/:id/snapshot", o.GetSnapshot)
	group.PUT("/:id/snapshot", o.RestoreSnapshot)
	group.POST("/:id/complete", o.CompleteSession)
}

func InitializeRoutes(router *gin.Engine, deps Deps) {
	router.GET("/catalog", controllers.GetCatalog)
	router.POST("/demo/sessions", deps.Onboarding.CreateDemoSession)

	demo := router.Group("/demo")
	demo.Use(middleware.DemoSessionMiddleware())
	{
		sessionRoutes(demo.Group("/sessions"), deps.Onboarding)

		demo.GET("/announcements", deps.DemoDashboard.ListAnnouncements)
		demo.POST("/announcements", deps.DemoDashboard.CreateAnnouncement)
		demo.DELETE("/announcements/:id", deps.DemoDashboard.DeleteAnnouncement)
		demo.GET("/vehicles", deps.DemoDashboard.ListVehicles)
	}

	auth := middleware.AuthMiddleware(deps.Verifier, deps.WebUsers)

	onboarding := router.Group("/onboarding/sessions")
	onboarding.Use(auth)
	{
		onboarding.POST("", deps.Onboarding.CreateSession)
		onboarding.GET("", deps.Onboarding.ListSessions)
		sessionRoutes(onboarding, deps.Onboarding)
	}

	dashboard := router.Group("/dashboard")
	dashboard.Use(auth)
	{
		dashboard.GET("/announcements", deps.Dashboard.ListAnnouncements)
		dashboard.POST("/announcements", deps.Dashboard.CreateAnnouncement)
		dashboard.DELETE("/announcements/:id", deps.Dashboard.DeleteAnnouncement)
		dashboard.GET("/vehicles", deps.Dashboard.ListVehicles)
	}
}
