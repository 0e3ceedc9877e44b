package api

import (
	"afili_api/internal/config"
	"afili_api/internal/materials"
	"afili_api/internal/observability"
	"afili_api/internal/profile"
	"afili_api/internal/sales"
	"afili_api/internal/session"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies are the services the HTTP layer is wired to.
type Dependencies struct {
	Controller *session.Controller
	Materials  *materials.Service
	Accordion  *profile.Accordion
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	QRSize     int
}

// NewDependencies builds the simulated sales feed, the session controller and
// the materials service from cfg.
func NewDependencies(cfg *config.Config, logger *zap.Logger) Dependencies {
	metrics := observability.NewMetrics()

	feed := sales.NewFeed(sales.NewGenerator(nil, nil),
		sales.WithFetchDelay(cfg.FetchDelay),
		sales.WithPollDelay(cfg.PollDelay),
		sales.WithBatchSize(cfg.BatchSize),
		sales.WithNewSaleProbability(cfg.NewSaleProbability),
		sales.WithLogger(logger),
	)
	controller := session.NewController(feed, logger, session.Options{
		PollPeriod:      cfg.PollPeriod,
		NotificationTTL: cfg.NotificationTTL,
		Metrics:         metrics,
	})

	return Dependencies{
		Controller: controller,
		Materials:  materials.NewService(materials.NewLocalStorage(materials.Seed()...), logger),
		Accordion:  &profile.Accordion{},
		Metrics:    metrics,
		Logger:     logger,
		QRSize:     cfg.QRSize,
	}
}

// InitRoutes registers every endpoint on the given Gin engine. Only /ping,
// /metrics and /login are reachable without an active session.
func InitRoutes(e *gin.Engine, deps Dependencies) {
	e.Use(deps.Metrics.Middleware())

	sessionHandler := NewSessionHandler(deps.Controller, deps.Accordion, deps.Logger)
	salesHandler := NewSalesHandler(deps.Controller, deps.Logger)
	linksHandler := NewLinksHandler(deps.QRSize, deps.Logger)
	materialsHandler := NewMaterialsHandler(deps.Materials, deps.Logger)
	profileHandler := NewProfileHandler(deps.Accordion)

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	e.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	e.POST("/login", sessionHandler.handleLogin)

	authed := e.Group("/", requireSession(deps.Controller))
	authed.POST("/logout", sessionHandler.handleLogout)
	authed.GET("/state", sessionHandler.handleGetState)
	authed.PUT("/screen", sessionHandler.handleNavigate)
	authed.GET("/notification", sessionHandler.handleGetNotification)
	authed.DELETE("/notification/:id", sessionHandler.handleDismissNotification)

	authed.GET("/dashboard", salesHandler.handleDashboard)
	authed.GET("/sales", salesHandler.handleListSales)
	authed.GET("/sales/:id", salesHandler.handleGetSale)

	authed.POST("/links", linksHandler.handleGenerateLink)
	authed.GET("/links/qr", linksHandler.handleQRCode)

	authed.GET("/materials", materialsHandler.handleListMaterials)
	authed.POST("/materials", materialsHandler.handleCreateMaterial)
	authed.GET("/materials/:id", materialsHandler.handleGetMaterial)
	authed.DELETE("/materials/:id", materialsHandler.handleDeleteMaterial)

	authed.GET("/profile", profileHandler.handleGetProfile)
	authed.POST("/profile/tips/:id/toggle", profileHandler.handleToggleTip)
}

// requireSession rejects requests while the controller is logged out.
func requireSession(controller *session.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !controller.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Next()
	}
}
