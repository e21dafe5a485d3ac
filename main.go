package main

import (
	"fmt"
	"os"

	"seoanalyzer-backend/config"
	"seoanalyzer-backend/controllers"
	"seoanalyzer-backend/models"
	"seoanalyzer-backend/routes"
	"seoanalyzer-backend/services"
	"seoanalyzer-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		utils.GetLogger().Info("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ServiceCategory{},
		&models.Service{},
		&models.ServiceRequest{},
		&models.NotificationTemplate{},
		&models.NotificationLog{},
	)

	seedAdminUser()
	seedNotificationTemplates()
}

func main() {
	logger := utils.GetLogger()
	defer logger.Sync()

	notifier := services.NewNotificationService(config.DB)
	notifier.StartScheduler()

	controllers.InitRequestWorkflow(services.NewRequestWorkflow(config.DB, notifier))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

// seedAdminUser creates the admin account from env on first boot
func seedAdminUser() {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	var count int64
	config.DB.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return
	}

	admin := models.User{
		Email:    email,
		Password: password,
		Name:     "Administrator",
		Phone:    os.Getenv("ADMIN_PHONE"),
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := config.DB.Create(&admin).Error; err != nil {
		utils.GetLogger().Error("failed to seed admin user", zap.Error(err))
		return
	}
	utils.GetLogger().Info("admin user seeded", zap.String("email", email))
}

// seedNotificationTemplates inserts a default template per status when missing
func seedNotificationTemplates() {
	defaults := map[string]string{
		models.StatusPending:    "Your request for [ServiceName] has been received and is awaiting review.",
		models.StatusApproved:   "Good news! Your request for [ServiceName] has been approved and we will start working on it soon.",
		models.StatusInProgress: "We have started working on your request for [ServiceName].",
		models.StatusCompleted:  "Your [ServiceName] request is complete! Check the results in your dashboard.",
		models.StatusCancelled:  "Your request for [ServiceName] has been cancelled.",
	}

	for status, message := range defaults {
		var count int64
		config.DB.Model(&models.NotificationTemplate{}).Where("status = ?", status).Count(&count)
		if count > 0 {
			continue
		}
		template := models.NotificationTemplate{
			Status:   status,
			Message:  message,
			IsActive: true,
		}
		if err := config.DB.Create(&template).Error; err != nil {
			utils.GetLogger().Error("failed to seed notification template",
				zap.String("status", status), zap.Error(err))
		}
	}
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
