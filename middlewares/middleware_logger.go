package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/junkeats-app/utils"
)

func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		fields := logrus.Fields{
			"method":  c.Request.Method,
			"status":  status,
			"latency": latency.String(),
			"client":  c.ClientIP(),
		}
		if sid, ok := c.Get(ContextSessionID); ok {
			fields["session"] = sid
		}

		if status >= 500 {
			utils.ErrorLogger.WithFields(fields).Error(path)
			return
		}
		utils.InfoLogger.WithFields(fields).Info(path)
	}
}
