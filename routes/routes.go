package routes

import (
	"os"
	"strings"

	"seoanalyzer-backend/config"
	"seoanalyzer-backend/controllers"
	"seoanalyzer-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	origins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)

		profile := auth.Group("/profile")
		{
			profile.GET("", controllers.GetProfile)
			profile.PUT("", controllers.UpdateProfile)
		}
	}

	// Public catalog surface
	public := r.Group("/public")
	{
		public.GET("/services/featured", controllers.GetFeaturedServices)
		public.GET("/categories/:slug/services", controllers.GetServicesByCategorySlug)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Category routes
		categories := api.Group("/services/categories")
		{
			categories.GET("", controllers.GetCategories)
			categories.GET("/:id", controllers.GetCategory)
			categories.GET("/slug/:slug", controllers.GetCategoryBySlug)

			categories.POST("", utils.AdminMiddleware(), controllers.CreateCategory)
			categories.PUT("/:id", utils.AdminMiddleware(), controllers.UpdateCategory)
			categories.DELETE("/:id", utils.AdminMiddleware(), controllers.DeleteCategory)
		}

		// Request routes; dispatch between owner and admin happens inside
		requests := api.Group("/services/requests")
		{
			requests.POST("", controllers.CreateRequest)
			requests.GET("", controllers.GetRequests)
			requests.GET("/:id", controllers.GetRequest)
			requests.PUT("/:id", controllers.UpdateRequest)
			requests.DELETE("/:id", utils.AdminMiddleware(), controllers.DeleteRequest)
		}

		// Service routes
		services := api.Group("/services")
		{
			services.GET("", controllers.GetServices)
			services.GET("/:id", controllers.GetService)
			services.GET("/slug/:slug", controllers.GetServiceBySlug)

			services.POST("", utils.AdminMiddleware(), controllers.CreateService)
			services.PUT("/:id", utils.AdminMiddleware(), controllers.UpdateService)
			services.DELETE("/:id", utils.AdminMiddleware(), controllers.DeleteService)
		}

		// Project routes
		projects := api.Group("/projects")
		{
			projects.POST("", controllers.CreateProject)
			projects.GET("", controllers.GetProjects)
			projects.GET("/:id", controllers.GetProject)
			projects.PUT("/:id", controllers.UpdateProject)
			projects.DELETE("/:id", controllers.DeleteProject)
		}

		// Admin surface
		admin := api.Group("", utils.AdminMiddleware())
		{
			admin.GET("/dashboard", controllers.GetDashboardOverview)
			admin.GET("/notification-templates", controllers.GetNotificationTemplates)
			admin.PUT("/notification-templates", controllers.UpdateNotificationTemplate)
		}
	}

	return r
}
