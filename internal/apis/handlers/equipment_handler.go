package handlers

import (
	"log"
	"net/http"

	"aquabot-ai/internal/apis/dtos"
	"aquabot-ai/internal/services"

	"github.com/gin-gonic/gin"
)

type EquipmentHandler struct {
	equipmentService services.EquipmentService
}

func NewEquipmentHandler(equipmentService services.EquipmentService) *EquipmentHandler {
	if equipmentService == nil {
		log.Fatal("Equipment service cannot be nil")
	}
	return &EquipmentHandler{
		equipmentService: equipmentService,
	}
}

// @Summary List Equipment
// @Description List equipment from the upstream registry
// @Produce json
// @Success 200 {object} dtos.Response
func (h *EquipmentHandler) List(c *gin.Context) {
	var req dtos.EquipmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		errorMsg := err.Error()
		c.JSON(http.StatusBadRequest, dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	data, statusCode, err := h.equipmentService.List(c.Request.Context(), &req)
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
		Data:    data,
	})
}

// @Summary Get Equipment
// @Description Get one piece of equipment by id
// @Produce json
// @Success 200 {object} dtos.Response
func (h *EquipmentHandler) Get(c *gin.Context) {
	data, statusCode, err := h.equipmentService.Get(c.Request.Context(), c.Param("id"))
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
		Data:    data,
	})
}

// @Summary Create Equipment
// @Description Register a new piece of equipment
// @Accept json
// @Produce json
// @Param createEquipmentRequest body dtos.CreateEquipmentRequest true "Create equipment request"
// @Success 201 {object} dtos.Response
func (h *EquipmentHandler) Create(c *gin.Context) {
	var req dtos.CreateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorMsg := err.Error()
		c.JSON(http.StatusBadRequest, dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	data, statusCode, err := h.equipmentService.Create(c.Request.Context(), &req)
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
		Data:    data,
	})
}

// @Summary Update Equipment
// @Description Update fields of one piece of equipment
// @Accept json
// @Produce json
// @Param updateEquipmentRequest body dtos.UpdateEquipmentRequest true "Update equipment request"
// @Success 200 {object} dtos.Response
func (h *EquipmentHandler) Update(c *gin.Context) {
	var req dtos.UpdateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorMsg := err.Error()
		c.JSON(http.StatusBadRequest, dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	data, statusCode, err := h.equipmentService.Update(c.Request.Context(), c.Param("id"), &req)
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
		Data:    data,
	})
}

// @Summary Delete Equipment
// @Description Delete one piece of equipment
// @Produce json
// @Success 200 {object} dtos.Response
func (h *EquipmentHandler) Delete(c *gin.Context) {
	statusCode, err := h.equipmentService.Delete(c.Request.Context(), c.Param("id"))
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
		Data:    "Equipment deleted",
	})
}
