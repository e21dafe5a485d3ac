package controllers

import (
	"net/http"
	"seoanalyzer-backend/config"
	"seoanalyzer-backend/models"
	"seoanalyzer-backend/utils"
	"time"

	"github.com/gin-gonic/gin"
)

type DashboardOverview struct {
	StatusCounts     map[string]int64 `json:"statusCounts"`
	OpenRequests     int64            `json:"openRequests"`
	RequestsThisWeek int64            `json:"requestsThisWeek"`
	RecentRequests   []RecentRequest  `json:"recentRequests"`
	TopServices      []TopService     `json:"topServices"`
}

type RecentRequest struct {
	ID          string    `json:"id"`
	ServiceName string    `json:"serviceName"`
	UserEmail   string    `json:"userEmail"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type TopService struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Requests int64  `json:"requests"`
}

// GetDashboardOverview summarizes the request ledger for admins
func GetDashboardOverview(c *gin.Context) {
	statusCounts := map[string]int64{
		models.StatusPending:    0,
		models.StatusApproved:   0,
		models.StatusInProgress: 0,
		models.StatusCompleted:  0,
		models.StatusCancelled:  0,
	}

	rows, err := config.DB.Model(&models.ServiceRequest{}).
		Select("status, COUNT(*) as count").Group("status").Rows()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get status counts")
		return
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err == nil {
			statusCounts[status] = count
		}
	}

	open := statusCounts[models.StatusPending] +
		statusCounts[models.StatusApproved] +
		statusCounts[models.StatusInProgress]

	weekAgo := time.Now().AddDate(0, 0, -7)
	var thisWeek int64
	config.DB.Model(&models.ServiceRequest{}).
		Where("created_at >= ?", weekAgo).Count(&thisWeek)

	// Last 5 submitted requests with service and user context
	var recent []RecentRequest
	config.DB.Raw(`
        SELECT r.id, s.name AS service_name, u.email AS user_email, r.status, r.created_at
        FROM service_requests r
        JOIN services s ON s.id = r.service_id
        JOIN users u ON u.id = r.user_id
        ORDER BY r.created_at DESC, r.id ASC
        LIMIT 5
    `).Scan(&recent)

	// Most requested services
	var top []TopService
	config.DB.Raw(`
        SELECT s.name, s.slug, COUNT(r.id) AS requests
        FROM services s
        JOIN service_requests r ON r.service_id = s.id
        GROUP BY s.id, s.name, s.slug
        ORDER BY requests DESC
        LIMIT 5
    `).Scan(&top)

	c.JSON(http.StatusOK, DashboardOverview{
		StatusCounts:     statusCounts,
		OpenRequests:     open,
		RequestsThisWeek: thisWeek,
		RecentRequests:   recent,
		TopServices:      top,
	})
}
