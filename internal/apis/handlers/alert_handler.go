package handlers

import (
	"log"
	"net/http"
	"strconv"

	"aquabot-ai/internal/apis/dtos"
	"aquabot-ai/internal/services"

	"github.com/gin-gonic/gin"
)

type AlertHandler struct {
	alertService     services.AlertService
	telemetryService services.TelemetryService
}

func NewAlertHandler(alertService services.AlertService, telemetryService services.TelemetryService) *AlertHandler {
	if alertService == nil || telemetryService == nil {
		log.Fatal("Alert and telemetry services cannot be nil")
	}
	return &AlertHandler{
		alertService:     alertService,
		telemetryService: telemetryService,
	}
}

// @Summary Create Alert
// @Description Record a water quality or equipment alert
// @Accept json
// @Produce json
// @Param createAlertRequest body dtos.CreateAlertRequest true "Create alert request"
// @Success 201 {object} dtos.Response
func (h *AlertHandler) Create(c *gin.Context) {
	var req dtos.CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorMsg := err.Error()
		c.JSON(http.StatusBadRequest, dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	userID := c.GetString("userID")
	alert, statusCode, err := h.alertService.Create(userID, &req)
	if err != nil {
		errorMsg := err.Error()
		c.JSON(int(statusCode), dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	c.JSON(int(statusCode), dtos.Response{
		Success: true,
		Data:    alert,
	})
}

// @Summary List Active Alerts
// @Description List the user's unresolved alerts
// @Produce json
// @Success 200 {object} dtos.Response
func (h *AlertHandler) ListActive(c *gin.Context) {
	userID := c.GetString("userID")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	alerts, statusCode, err := h.alertService.ListActive(userID, limit)
	if err != nil {
		errorMsg := err.Error()
		c.JSON(int(statusCode), dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	c.JSON(int(statusCode), dtos.Response{
		Success: true,
		Data:    alerts,
	})
}

// @Summary Resolve Alert
// @Description Mark one alert as resolved
// @Produce json
// @Success 200 {object} dtos.Response
func (h *AlertHandler) Resolve(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errorMsg := "invalid alert id"
		c.JSON(http.StatusBadRequest, dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	userID := c.GetString("userID")
	statusCode, err := h.alertService.Resolve(userID, uint(id))
	if err != nil {
		errorMsg := err.Error()
		c.JSON(int(statusCode), dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	c.JSON(int(statusCode), dtos.Response{
		Success: true,
		Data:    "Alert resolved",
	})
}

// @Summary Sync Telemetry
// @Description Pull fresh readings from the water meter API
// @Accept json
// @Produce json
// @Param telemetrySyncRequest body dtos.TelemetrySyncRequest true "Telemetry sync request"
// @Success 200 {object} dtos.Response
func (h *AlertHandler) SyncTelemetry(c *gin.Context) {
	var req dtos.TelemetrySyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorMsg := err.Error()
		c.JSON(http.StatusBadRequest, dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	stored, statusCode, err := h.telemetryService.Sync(c.Request.Context(), &req)
	if err != nil {
		errorMsg := err.Error()
		c.JSON(int(statusCode), dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	c.JSON(int(statusCode), dtos.Response{
		Success: true,
		Data:    gin.H{"stored": stored},
	})
}

// @Summary Recent Readings
// @Description List recent water quality readings for a piece of equipment
// @Produce json
// @Success 200 {object} dtos.Response
func (h *AlertHandler) RecentReadings(c *gin.Context) {
	hours, _ := strconv.Atoi(c.DefaultQuery("hours", "24"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	readings, statusCode, err := h.telemetryService.RecentReadings(c.Param("id"), hours, limit)
	if err != nil {
		errorMsg := err.Error()
		c.JSON(int(statusCode), dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	c.JSON(int(statusCode), dtos.Response{
		Success: true,
		Data:    readings,
	})
}
