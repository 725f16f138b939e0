package routes

import (
	"log"

	"aquabot-ai/internal/apis/middlewares"
	"aquabot-ai/internal/di"

	"github.com/gin-gonic/gin"
)

func SetupEquipmentRoutes(router *gin.Engine) {
	equipmentHandler, err := di.GetEquipmentHandler()
	if err != nil {
		log.Fatalf("Failed to get equipment handler: %v", err)
	}
	alertHandler, err := di.GetAlertHandler()
	if err != nil {
		log.Fatalf("Failed to get alert handler: %v", err)
	}

	equipment := router.Group("/api/equipment")
	equipment.Use(middlewares.AuthMiddleware())
	{
		equipment.GET("/", equipmentHandler.List)
		equipment.GET("/:id", equipmentHandler.Get)
		equipment.POST("/", equipmentHandler.Create)
		equipment.PATCH("/:id", equipmentHandler.Update)
		equipment.DELETE("/:id", equipmentHandler.Delete)
		equipment.GET("/:id/readings", alertHandler.RecentReadings)
	}

	alerts := router.Group("/api/alerts")
	alerts.Use(middlewares.AuthMiddleware())
	{
		alerts.GET("/", alertHandler.ListActive)
		alerts.POST("/", alertHandler.Create)
		alerts.POST("/:id/resolve", alertHandler.Resolve)
	}

	telemetry := router.Group("/api/telemetry")
	telemetry.Use(middlewares.AuthMiddleware())
	{
		telemetry.POST("/sync", alertHandler.SyncTelemetry)
	}
}
