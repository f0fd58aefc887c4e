package api

import (
	"alcyxob/fitness-admin/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services is everything the routes need.
type Services struct {
	Auth           service.AuthService
	Accounts       service.AccountService
	Plans          service.PlanService
	Editor         service.Editor
	GlobalWorkouts service.GlobalWorkoutService
	Migrations     service.MigrationService
	Notifications  NotificationSource
}

func SetupRoutes(router *gin.Engine, log *zap.Logger, svc Services) {
	authHandler := NewAuthHandler(svc.Auth, svc.Accounts)
	planHandler := NewPlanHandler(svc.Plans, svc.Editor)
	sessionHandler := NewSessionHandler(svc.Editor, svc.GlobalWorkouts)
	libraryHandler := NewGlobalWorkoutHandler(svc.GlobalWorkouts)
	userHandler := NewUserHandler(svc.Accounts)
	adminHandler := NewAdminHandler(svc.Migrations, svc.Notifications)

	router.Use(RequestLogger(log))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/signin", authHandler.SignIn)
		}
	}

	// Every route below requires an active admin account.
	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(svc.Auth))
	{
		protected.GET("/me", authHandler.Me)

		plans := protected.Group("/plans")
		{
			plans.GET("", planHandler.ListPlans)
			plans.POST("", planHandler.CreatePlan)
			plans.DELETE("/:planId", planHandler.DeletePlan)
			plans.GET("/:planId/export", planHandler.ExportPlan)
			plans.POST("/:planId/sessions", planHandler.OpenSession)
		}

		sessions := protected.Group("/sessions/:sid")
		{
			sessions.GET("", sessionHandler.GetSession)
			sessions.PATCH("", sessionHandler.UpdatePlanFields)
			sessions.DELETE("", sessionHandler.DiscardSession)
			sessions.POST("/save", sessionHandler.SaveSession)
			sessions.POST("/import", sessionHandler.ImportSession)
			sessions.GET("/export", sessionHandler.ExportSession)

			sessions.PUT("/active-week", sessionHandler.SelectWeek)
			sessions.POST("/weeks", sessionHandler.AddWeek)
			sessions.POST("/weeks/copy", sessionHandler.CopyWeek)
			sessions.PATCH("/weeks/:weekId", sessionHandler.UpdateWeek)
			sessions.DELETE("/weeks/:weekId", sessionHandler.DeleteWeek)
			sessions.GET("/weeks/:weekId/target-reps", sessionHandler.GetTargetReps)
			sessions.POST("/weeks/:weekId/target-reps", sessionHandler.BulkEditTargetReps)
			sessions.POST("/weeks/:weekId/days", sessionHandler.AddDay)

			sessions.PATCH("/days/:dayId", sessionHandler.RenameDay)
			sessions.DELETE("/days/:dayId", sessionHandler.DeleteDay)
			sessions.POST("/days/:dayId/copy", sessionHandler.CopyDay)
			sessions.POST("/days/:dayId/workouts", sessionHandler.AddWorkout)
			sessions.POST("/days/:dayId/move", sessionHandler.MoveWorkout)

			sessions.PATCH("/workouts/:workoutId", sessionHandler.UpdateWorkout)
			sessions.DELETE("/workouts/:workoutId", sessionHandler.DeleteWorkout)
		}

		library := protected.Group("/global-workouts")
		{
			library.GET("", libraryHandler.ListGlobalWorkouts)
			library.GET("/search", libraryHandler.SearchGlobalWorkouts)
			library.POST("", libraryHandler.CreateGlobalWorkout)
			library.GET("/:id", libraryHandler.GetGlobalWorkout)
			library.PUT("/:id", libraryHandler.UpdateGlobalWorkout)
			library.PATCH("/:id/active", libraryHandler.SetActive)
			library.GET("/:id/references", libraryHandler.References)
			library.DELETE("/:id", libraryHandler.DeleteGlobalWorkout)
		}

		users := protected.Group("/users")
		{
			users.GET("", userHandler.ListUsers)
			users.POST("", userHandler.CreateUser)
			users.GET("/:email", userHandler.GetUser)
			users.PATCH("/:email", userHandler.UpdateUser)
			users.DELETE("/:email", userHandler.DeleteUser)
		}

		protected.POST("/migrations/workouts", adminHandler.MigrateWorkouts)
		protected.GET("/notifications", adminHandler.DrainNotifications)
		protected.DELETE("/notifications/:id", adminHandler.DismissNotification)
	}
}
