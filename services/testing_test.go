package services

import (
	"testing"

	"seoanalyzer-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ServiceCategory{},
		&models.Service{},
		&models.ServiceRequest{},
		&models.NotificationTemplate{},
		&models.NotificationLog{},
	))

	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()

	user := &models.User{
		Email:    email,
		Password: "password123",
		Name:     "Test User",
		Phone:    "+14155550100",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedService(t *testing.T, db *gorm.DB, slug string, active bool) *models.Service {
	t.Helper()

	category := &models.ServiceCategory{
		Name:     "SEO",
		Slug:     "seo-" + slug,
		IsActive: true,
	}
	require.NoError(t, db.Create(category).Error)

	price := 499.0
	service := &models.Service{
		CategoryID: category.ID,
		Name:       "Keyword Audit",
		Slug:       slug,
		Price:      &price,
		PriceType:  models.PriceTypeFixed,
		IsActive:   active,
	}
	require.NoError(t, db.Create(service).Error)
	// GORM skips zero-value fields that carry a default tag, so an
	// inactive flag must be written explicitly after the insert.
	if !active {
		require.NoError(t, db.Model(service).UpdateColumn("is_active", false).Error)
		service.IsActive = false
	}
	return service
}

func seedProject(t *testing.T, db *gorm.DB, ownerID uuid.UUID) *models.Project {
	t.Helper()

	project := &models.Project{
		OwnerID:  ownerID,
		Name:     "My Site",
		Domain:   "example.com",
		IsActive: true,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

// recordingNotifier captures lifecycle callbacks for assertions
type recordingNotifier struct {
	created []uuid.UUID
	changes []statusChange
}

type statusChange struct {
	requestID uuid.UUID
	from, to  string
}

func (n *recordingNotifier) RequestCreated(req *models.ServiceRequest) {
	n.created = append(n.created, req.ID)
}

func (n *recordingNotifier) StatusChanged(req *models.ServiceRequest, oldStatus, newStatus string) {
	n.changes = append(n.changes, statusChange{requestID: req.ID, from: oldStatus, to: newStatus})
}
