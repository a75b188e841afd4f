package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/justsurfingit/careers-portal/internal/services"
)

type RouterConfig struct {
	Sessions       *services.SessionStore
	SessionTTL     time.Duration
	SecureCookies  bool
	MaxUploadSize  int64
	AllowedOrigins []string
	MetricsPath    string // empty disables the metrics route
	Log            *logrus.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(cfg.Log))

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", RequestIDHeader}
	r.Use(cors.New(corsConfig))

	r.SetHTMLTemplate(parseTemplates())

	if cfg.MetricsPath != "" {
		r.GET(cfg.MetricsPath, gin.WrapH(promhttp.Handler()))
	}

	sessions := Sessions(cfg.Sessions, cfg.SessionTTL, cfg.SecureCookies)
	limit := LimitBody(cfg.MaxUploadSize)
	pages := NewPageHandler()
	apps := NewApplicationHandler()

	site := r.Group("/", sessions)
	{
		site.GET("/", pages.Careers)
		site.POST("/apply-now", pages.ApplyNow)
		site.POST("/application", limit, pages.SubmitApplication)
		site.POST("/notifications/success/close", pages.CloseSuccess)
	}

	api := r.Group("/api/v1")
	{
		api.GET("/health", HealthCheck)

		app := api.Group("/application", sessions)
		app.GET("", apps.GetState)
		app.PATCH("/fields", apps.UpdateField)
		app.PUT("/position", apps.SelectPosition)
		app.POST("/apply-now", apps.ApplyNow)
		app.POST("/resume", limit, apps.AttachResume)
		app.DELETE("/resume", apps.DetachResume)
		app.POST("/submit", apps.Submit)
		app.DELETE("/notification", apps.DismissNotification)
	}
	return r
}
