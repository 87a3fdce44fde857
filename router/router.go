package router

import (
	"net/http"
	"time"

	"budget/api"
	"budget/config"
	_ "budget/docs"
	"budget/logger"
	"budget/metrics"
	"budget/middleware"
	"budget/service"
	"budget/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// 登录限流：每个 IP 每分钟 10 次
const (
	loginMaxAttempts = 10
	loginWindow      = time.Minute
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, st store.Store) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware(log.Logger))
	r.Use(metrics.GinMiddleware())
	if !cfg.CORS.Disabled {
		r.Use(CORSMiddleware(cfg.CORS.Origins))
	}

	var email *service.EmailService
	if cfg.Email.Enabled {
		email = service.NewEmailService(&cfg.Email)
	}
	budgetService := service.NewBudgetService(st)
	userHandler := api.NewUserHandler(cfg, service.NewAuthService(st))
	budgetHandler := api.NewBudgetHandler(budgetService, service.NewReportService(st, email))
	entryHandler := api.NewEntryHandler(service.NewEntryService(st))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "alive"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	users := r.Group("/users")
	{
		users.POST("/login", middleware.LoginRateLimit(loginMaxAttempts, loginWindow), userHandler.Login)

		authed := users.Group("")
		authed.Use(middleware.JWTAuth())
		authed.GET("/me", userHandler.Me)
		authed.DELETE("/logout", userHandler.Logout)
	}

	budgets := r.Group("/budgets")
	budgets.Use(middleware.JWTAuth())
	{
		budgets.GET("/current", budgetHandler.Current)
		budgets.POST("", budgetHandler.Create)
		budgets.GET("/:id/stats", budgetHandler.Stats)
		budgets.GET("/:id/export/excel", budgetHandler.ExportExcel)
		budgets.POST("/:id/report/email", budgetHandler.EmailReport)

		budgets.GET("/:id/entries", entryHandler.List)
		budgets.POST("/:id/entries", entryHandler.Create)
		budgets.PUT("/:id/entries/:entryId", entryHandler.Update)
		budgets.DELETE("/:id/entries/:entryId", entryHandler.Delete)
	}

	return r
}

// CORSMiddleware 仅允许配置中的来源携带 cookie 跨域访问
func CORSMiddleware(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && allowed[origin] {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
			h.Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
			h.Add("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
