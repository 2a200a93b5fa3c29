// Package router assembles the gin engine: the middleware stack, the
// public endpoints and the authenticated /api routes.
package router

import (
	"net/http"
	"time"

	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Config wires the engine. Nil optional parts are skipped.
type Config struct {
	Logger      *zap.Logger
	HTTP        config.HTTPConfig
	ServiceName string
	Tracing     bool
	Swagger     bool

	// Metrics records request metrics; MetricsHandler serves /metrics
	Metrics        *middleware.HTTPMetrics
	MetricsHandler http.Handler

	// JWT guards every /api route except its skip paths
	JWT middleware.JWTMiddlewareConfig

	Health gin.HandlerFunc
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	api        *gin.RouterGroup
	registrars []RouteRegistrar
}

// New creates the engine with the middleware stack in order:
// request ID, panic recovery, request logging, tracing, metrics,
// security headers, CORS, body limit, then JWT on /api.
func New(cfg Config) *Router {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Tracing {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{ServiceName: cfg.ServiceName, Enabled: true}))
		engine.Use(middleware.SpanEnricher())
	}
	if cfg.Metrics != nil {
		engine.Use(cfg.Metrics.Middleware())
	}
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{middleware.RequestIDHeader, "Content-Disposition", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}

	if cfg.Health != nil {
		engine.GET("/health", cfg.Health)
	}
	if cfg.MetricsHandler != nil {
		engine.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}
	if cfg.Swagger {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(dto.ErrCodeNotFound,
			"Route not found", c.GetString(middleware.RequestIDKey)))
	})

	api := engine.Group("/api")
	if cfg.JWT.Tokens != nil {
		api.Use(middleware.JWTAuthMiddleware(cfg.JWT))
	}

	return &Router{engine: engine, api: api}
}

// Register adds a RouteRegistrar to be registered by Setup
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes and returns the engine
func (r *Router) Setup() *gin.Engine {
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(r.api)
	}
	return r.engine
}

// Engine returns the underlying gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
