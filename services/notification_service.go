// services/notification_service.go
package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"seoanalyzer-backend/models"
	"seoanalyzer-backend/utils"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Fallbacks when no active template row exists for a status
var defaultStatusMessages = map[string]string{
	models.StatusPending:    "Your request for [ServiceName] has been received and is awaiting review.",
	models.StatusApproved:   "Good news! Your request for [ServiceName] has been approved and we will start working on it soon.",
	models.StatusInProgress: "We have started working on your request for [ServiceName].",
	models.StatusCompleted:  "Your [ServiceName] request is complete! Check the results in your dashboard.",
	models.StatusCancelled:  "Your request for [ServiceName] has been cancelled.",
}

// NotificationService delivers request lifecycle messages over Twilio and
// logs every attempt. It implements Notifier; delivery runs in the
// background and never fails the triggering transition.
type NotificationService struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	// Initialize Twilio client
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &NotificationService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *NotificationService) RequestCreated(req *models.ServiceRequest) {
	go s.deliver(req, "", models.StatusPending)
}

func (s *NotificationService) StatusChanged(req *models.ServiceRequest, oldStatus, newStatus string) {
	go s.deliver(req, oldStatus, newStatus)
}

func (s *NotificationService) deliver(req *models.ServiceRequest, oldStatus, newStatus string) {
	logger := utils.GetLogger()

	var user models.User
	if err := s.db.Where("id = ?", req.UserID).First(&user).Error; err != nil {
		logger.Warn("notification skipped, user not found",
			zap.String("requestId", req.ID.String()), zap.Error(err))
		return
	}
	if user.Phone == "" {
		logger.Debug("notification skipped, user has no phone",
			zap.String("requestId", req.ID.String()))
		return
	}

	serviceName := req.Service.Name
	if serviceName == "" {
		var service models.Service
		if err := s.db.Where("id = ?", req.ServiceID).First(&service).Error; err == nil {
			serviceName = service.Name
		}
	}

	message := s.messageFor(newStatus)
	message = strings.ReplaceAll(message, "[ServiceName]", serviceName)
	message = strings.ReplaceAll(message, "[RequestID]", req.ID.String())

	channel, errMsg := s.send(user.Phone, message)

	status := "sent"
	if errMsg != "" {
		status = "failed"
	}
	log := models.NotificationLog{
		RequestID:    req.ID,
		UserID:       req.UserID,
		OldStatus:    oldStatus,
		NewStatus:    newStatus,
		Message:      message,
		Status:       status,
		ErrorMessage: errMsg,
		Channel:      channel,
		SentAt:       time.Now(),
	}
	if err := s.db.Create(&log).Error; err != nil {
		logger.Error("failed to log notification",
			zap.String("requestId", req.ID.String()), zap.Error(err))
	}
}

func (s *NotificationService) messageFor(status string) string {
	var template models.NotificationTemplate
	err := s.db.Where("status = ? AND is_active = true", status).First(&template).Error
	if err == nil {
		return template.Message
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.GetLogger().Warn("failed to load notification template", zap.Error(err))
	}
	if msg, ok := defaultStatusMessages[status]; ok {
		return msg
	}
	return "The status of your request [RequestID] has changed to: " + status
}

// send picks WhatsApp for E.164 numbers and plain SMS otherwise, mirroring
// how the account's Twilio senders are configured
func (s *NotificationService) send(phone, message string) (channel, errMsg string) {
	channel = "sms"
	to := phone
	if strings.HasPrefix(phone, "+") {
		to = "whatsapp:" + phone
		channel = "whatsapp"
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)

	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		utils.GetLogger().Warn("failed to send notification",
			zap.String("to", phone), zap.Error(err))
		return channel, err.Error()
	}
	if resp.Sid != nil {
		utils.GetLogger().Debug("notification sent",
			zap.String("to", phone), zap.String("sid", *resp.Sid))
	}
	return channel, ""
}

// StartScheduler kicks off the daily stale-pending digest
func (s *NotificationService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", s.SendPendingDigest)

	c.Start()
	utils.GetLogger().Info("notification scheduler started")
}

// SendPendingDigest texts the admin phone a summary of requests that have sat
// in pending longer than REQUEST_STALE_DAYS (default 3)
func (s *NotificationService) SendPendingDigest() {
	logger := utils.GetLogger()

	staleDays := 3
	if env := os.Getenv("REQUEST_STALE_DAYS"); env != "" {
		if d, err := strconv.Atoi(env); err == nil {
			staleDays = d
		}
	}

	adminPhone := os.Getenv("ADMIN_PHONE")
	if adminPhone == "" {
		logger.Debug("pending digest skipped, ADMIN_PHONE not set")
		return
	}

	var pending []models.ServiceRequest
	if err := s.db.Where("status = ?", models.StatusPending).Find(&pending).Error; err != nil {
		logger.Error("failed to fetch pending requests", zap.Error(err))
		return
	}

	now := time.Now()
	stale := 0
	for _, req := range pending {
		if utils.DaysBetween(req.CreatedAt, now) >= staleDays {
			stale++
		}
	}
	if stale == 0 {
		return
	}

	message := fmt.Sprintf("SEO Analyzer: %d service request(s) have been pending for %d+ days.", stale, staleDays)
	if _, errMsg := s.send(adminPhone, message); errMsg != "" {
		logger.Warn("failed to send pending digest", zap.String("error", errMsg))
		return
	}
	logger.Info("pending digest sent", zap.Int("stale", stale))
}
