package config

import (
	"time"

	"seoanalyzer-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func PerformanceLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// Process request
		c.Next()

		latency := time.Since(start)

		utils.GetLogger().Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
		)

		// Alert for slow requests
		if latency > 200*time.Millisecond {
			utils.GetLogger().Warn("slow request",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Duration("latency", latency),
			)
		}
	}
}
