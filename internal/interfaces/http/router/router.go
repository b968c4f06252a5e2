package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dormbill/backend/internal/infrastructure/logger"
	"github.com/dormbill/backend/internal/interfaces/http/handler"
	"github.com/dormbill/backend/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler the router mounts
type Handlers struct {
	System   *handler.SystemHandler
	Rooms    *handler.RoomHandler
	Contract *handler.ContractHandler
	Meter    *handler.MeterHandler
	Invoice  *handler.InvoiceHandler
	Settings *handler.SettingsHandler
}

// Config holds router configuration
type Config struct {
	Mode         string
	AllowOrigins []string
}

// New builds the gin engine with middleware and all API routes mounted
// under /api/v1.
func New(cfg Config, handlers Handlers, log *zap.Logger) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.AllowOrigins
	engine.Use(middleware.CORS(corsCfg))

	engine.GET("/health", handlers.System.Health)

	api := engine.Group("/api/v1")
	{
		system := api.Group("/system")
		{
			system.GET("/info", handlers.System.GetSystemInfo)
		}

		rooms := api.Group("/rooms")
		{
			rooms.POST("", handlers.Rooms.Create)
			rooms.GET("", handlers.Rooms.List)
			rooms.GET("/:id", handlers.Rooms.Get)
			rooms.PUT("/:id/overrides", handlers.Rooms.SetOverrides)
		}

		contracts := api.Group("/contracts")
		{
			contracts.POST("", handlers.Contract.Create)
			contracts.GET("", handlers.Contract.List)
			contracts.GET("/:id", handlers.Contract.Get)
			contracts.POST("/:id/terminate", handlers.Contract.Terminate)
			contracts.POST("/:id/deposit", handlers.Contract.CreditDeposit)
			contracts.PUT("/:id/channel", handlers.Contract.LinkChannel)
		}

		meters := api.Group("/meter-readings")
		{
			meters.POST("", handlers.Meter.Record)
			meters.GET("/rooms/:roomId", handlers.Meter.ListForRoom)
		}

		invoices := api.Group("/invoices")
		{
			invoices.POST("", handlers.Invoice.Generate)
			invoices.GET("", handlers.Invoice.List)
			invoices.GET("/:id", handlers.Invoice.Get)
			invoices.POST("/:id/settle", handlers.Invoice.Settle)
			invoices.POST("/:id/cancel", handlers.Invoice.Cancel)
			invoices.POST("/:id/send", handlers.Invoice.Send)
			invoices.POST("/:id/items", handlers.Invoice.AddItem)
			invoices.PUT("/:id/items/:itemId", handlers.Invoice.UpdateItem)
			invoices.DELETE("/:id/items/:itemId", handlers.Invoice.RemoveItem)
			invoices.PUT("/:id/discount", handlers.Invoice.SetDiscount)
			invoices.POST("/send-all", handlers.Invoice.SendAll)
			invoices.POST("/rooms/:roomId/send", handlers.Invoice.SendForRoom)
			invoices.POST("/sweep-overdue", handlers.Invoice.SweepOverdue)
		}

		settings := api.Group("/settings")
		{
			settings.GET("/rates", handlers.Settings.GetRates)
			settings.GET("/rates/effective", handlers.Settings.GetEffectiveRates)
			settings.PUT("/rates", handlers.Settings.UpdateRates)
			settings.GET("/auto-send", handlers.Settings.GetAutoSend)
			settings.PUT("/auto-send", handlers.Settings.UpdateAutoSend)
			settings.POST("/auto-send/trigger", handlers.Settings.TriggerAutoSend)
		}
	}

	return engine
}
