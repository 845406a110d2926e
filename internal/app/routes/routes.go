package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/cgpa/internal/app/controllers"
	"github.com/yigit/cgpa/internal/pkg/validation"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	calculatorController *controllers.CalculatorController,
	profileController *controllers.ProfileController,
) {
	validation.RegisterGinRules()

	v1 := router.Group("/api/v1")

	v1.POST("/calculate", calculatorController.Calculate)

	profiles := v1.Group("/profiles")
	{
		profiles.POST("/import", profileController.ImportResults)
		profiles.GET("", profileController.ListProfiles)
		profiles.GET("/:id", profileController.GetProfile)
		profiles.DELETE("/:id", profileController.DeleteProfile)
		profiles.GET("/:id/trend", profileController.Trend)
		profiles.POST("/:id/forecasts", profileController.AddForecastSemester)

		semesters := profiles.Group("/:id/semesters/:name")
		{
			semesters.DELETE("", profileController.DeleteSemester)
			semesters.POST("/courses", profileController.AddCourse)
			semesters.PUT("/courses/:index", profileController.UpdateCourse)
			semesters.DELETE("/courses/:index", profileController.DeleteCourse)
			semesters.POST("/courses/:index/restore", profileController.RestoreCourse)
		}
	}
}
