package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/examdesk/examdesk/internal/app/controllers"
	"github.com/examdesk/examdesk/internal/app/models"
	"github.com/examdesk/examdesk/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	examUserController *controllers.ExamUserController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	exams := authenticated.Group("/courses/:courseId/exams/:examId")
	{
		// Participants start their own session
		exams.POST("/sessions/start", examUserController.StartSession)

		// Everything else is for exam staff
		instructorProtected := exams.Group("")
		instructorProtected.Use(authMiddleware.RoleRequired(string(models.RoleInstructor)))
		{
			instructorProtected.POST("/exam-users", examUserController.RegisterOrUpdateExamUser)
			instructorProtected.GET("/exam-users", examUserController.ListExamUsers)
			instructorProtected.DELETE("/exam-users/:login", examUserController.DeleteExamUser)
			instructorProtected.POST("/students", examUserController.AddExamUsers)
			instructorProtected.POST("/exam-users-save-images", examUserController.SaveImages)
			instructorProtected.GET("/verify-exam-users", examUserController.VerifyExamUsers)
		}
	}
}
