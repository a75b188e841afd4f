package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/justsurfingit/careers-portal/internal/services"
)

const (
	RequestIDHeader   = "X-Request-ID"
	SessionCookieName = "careers_sid"

	controllerKey = "form_controller"
)

// RequestLogger logs one line per request and propagates a request id.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"request-id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
			"ip":         c.ClientIP(),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("request failed")
		case c.Writer.Status() >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Info("request completed")
		}
	}
}

// Sessions attaches the visitor's form controller, creating a session and
// cookie when the visitor has none.
func Sessions(store *services.SessionStore, ttl time.Duration, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		existing, _ := c.Cookie(SessionCookieName)
		ctrl, id := store.Get(existing)

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookieName, id, int(ttl.Seconds()), "/", "", secure, true)
		c.Set(controllerKey, ctrl)
		c.Next()
	}
}

// LimitBody caps the request body, uploads included.
func LimitBody(max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		c.Next()
	}
}

func controllerFrom(c *gin.Context) *services.FormController {
	return c.MustGet(controllerKey).(*services.FormController)
}
