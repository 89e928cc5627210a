package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emre/admission/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	studentController *controllers.StudentController,
	documentController *controllers.DocumentController,
) {
	api := router.Group("/api")

	students := api.Group("/students")
	{
		students.POST("/create", studentController.CreateStudent)
		students.GET("/all", studentController.GetAllStudents)
		// Detail lookup is a plain GET; the old PUT verb carried no body
		students.GET("/all/:id", studentController.GetStudentByID)
		students.DELETE("/delete/:id", studentController.DeleteStudent)
	}

	documents := api.Group("/documents")
	{
		documents.GET("/:id", documentController.GetDocument)
		documents.DELETE("/:id", documentController.DeleteDocument)
	}

	// Health check endpoint
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
