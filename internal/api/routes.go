package api

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/metrics"
	"alcyxob/coaching-platform/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Auth        service.AuthService
	Exercises   service.ExerciseService
	Workouts    service.WorkoutService
	Programs    service.ProgramService
	Assignments service.AssignmentService
	Roster      service.RosterService
	Logs        service.LogStore
	Activities  service.ActivityService
	Sessions    service.SessionService
}

// SetupRoutes registers every endpoint on router. A nil gatherer leaves /metrics out.
func SetupRoutes(router *gin.Engine, svc Services, m *metrics.Manager, gatherer prometheus.Gatherer) {
	authHandler := NewAuthHandler(svc.Auth)
	exerciseHandler := NewExerciseHandler(svc.Exercises)
	coachHandler := NewCoachHandler(svc.Workouts, svc.Programs, svc.Assignments, svc.Roster, svc.Logs)
	clientHandler := NewClientHandler(svc.Assignments, svc.Activities, svc.Logs, m)
	sessionHandler := NewSessionHandler(svc.Sessions)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(svc.Auth))
	protected.GET("/me", authHandler.Me)

	// --- Coach routes ---
	coach := protected.Group("/coach")
	coach.Use(RoleMiddleware(domain.RoleCoach))
	{
		exercises := coach.Group("/exercises")
		{
			exercises.POST("", exerciseHandler.CreateExercise)
			exercises.GET("", exerciseHandler.ListExercises)
			exercises.GET("/:exerciseId", exerciseHandler.GetExercise)
			exercises.PUT("/:exerciseId", exerciseHandler.UpdateExercise)
			exercises.DELETE("/:exerciseId", exerciseHandler.DeleteExercise)
		}

		workouts := coach.Group("/workouts")
		{
			workouts.POST("", coachHandler.CreateWorkout)
			workouts.GET("", coachHandler.ListWorkouts)
			workouts.GET("/:workoutId", coachHandler.GetWorkout)
			workouts.PUT("/:workoutId", coachHandler.UpdateWorkout)
			workouts.DELETE("/:workoutId", coachHandler.DeleteWorkout)
		}

		programs := coach.Group("/programs")
		{
			programs.POST("", coachHandler.CreateProgram)
			programs.GET("", coachHandler.ListPrograms)
			programs.GET("/:programId", coachHandler.GetProgram)
			programs.PUT("/:programId", coachHandler.UpdateProgram)
			programs.DELETE("/:programId", coachHandler.DeleteProgram)
		}

		clients := coach.Group("/clients")
		{
			clients.POST("", coachHandler.AddClient)
			clients.GET("", coachHandler.ListClients)
			clients.PUT("/:clientId/assignment", coachHandler.AssignProgram)
			clients.GET("/:clientId/assignment", coachHandler.GetAssignment)
			clients.DELETE("/:clientId/assignment", coachHandler.UnassignProgram)
			clients.GET("/:clientId/history", coachHandler.ClientHistory)
		}
	}

	// --- Client routes ---
	client := protected.Group("/client")
	client.Use(RoleMiddleware(domain.RoleClient))
	{
		client.GET("/today", clientHandler.GetToday)
		client.GET("/history", clientHandler.GetHistory)
		client.GET("/days/:dayId/status", clientHandler.GetDayStatus)
		client.GET("/days/:dayId/activity-logs", clientHandler.ListActivityLogs)
		client.POST("/activities/:activityId/logs", clientHandler.SaveActivityLog)

		photos := client.Group("/photos")
		{
			photos.POST("", clientHandler.UploadPhotos)
			photos.GET("", clientHandler.ListPhotos)
			photos.POST("/upload-url", clientHandler.PhotoUploadURL)
			photos.POST("/confirm", clientHandler.ConfirmPhotoUpload)
		}

		sessions := client.Group("/sessions")
		{
			sessions.POST("", sessionHandler.Start)
			sessions.GET("/active", sessionHandler.Active)
			sessions.GET("/:sessionId", sessionHandler.View())
			sessions.POST("/:sessionId/begin", sessionHandler.Begin())
			sessions.POST("/:sessionId/screening/exclusions", sessionHandler.SubmitExclusions())
			sessions.POST("/:sessionId/screening/vitals", sessionHandler.SubmitVitals())
			sessions.POST("/:sessionId/screening/sequelae", sessionHandler.ConfirmSequelae())
			sessions.POST("/:sessionId/pause", sessionHandler.Pause())
			sessions.POST("/:sessionId/resume", sessionHandler.Resume())
			sessions.PUT("/:sessionId/sets", sessionHandler.UpdateSet())
			sessions.POST("/:sessionId/groups/:groupKey/advance", sessionHandler.AdvanceRound())
			sessions.PUT("/:sessionId/groups/:groupKey/round", sessionHandler.SelectRound())
			sessions.POST("/:sessionId/finish", sessionHandler.Finish())
			sessions.POST("/:sessionId/dismiss", sessionHandler.Dismiss())
			sessions.POST("/:sessionId/cancel", sessionHandler.Cancel())
		}
	}
}
