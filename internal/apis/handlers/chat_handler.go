package handlers

import (
	"log"
	"net/http"
	"strconv"

	"aquabot-ai/internal/apis/dtos"
	"aquabot-ai/internal/services"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatService services.ChatService
}

func NewChatHandler(chatService services.ChatService) *ChatHandler {
	if chatService == nil {
		log.Fatal("Chat service cannot be nil")
	}
	return &ChatHandler{
		chatService: chatService,
	}
}

// @Summary Send Message
// @Description Send a chat message and receive the assistant's reply
// @Accept json
// @Produce json
// @Param chatRequest body dtos.ChatRequest true "Chat request"
// @Success 200 {object} dtos.Response
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req dtos.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorMsg := err.Error()
		c.JSON(http.StatusBadRequest, dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	userID := c.GetString("userID")
	response, statusCode, err := h.chatService.SendMessage(c.Request.Context(), userID, &req)
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
		Data:    response,
	})
}

// @Summary List Sessions
// @Description List the user's chat sessions
// @Produce json
// @Success 200 {object} dtos.Response
func (h *ChatHandler) ListSessions(c *gin.Context) {
	userID := c.GetString("userID")
	page, pageSize := pagination(c)

	response, statusCode, err := h.chatService.ListSessions(userID, page, pageSize)
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
		Data:    response,
	})
}

// @Summary List Messages
// @Description List messages of one chat session
// @Produce json
// @Success 200 {object} dtos.Response
func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID := c.GetString("userID")
	sessionID := c.Param("sessionId")
	page, pageSize := pagination(c)

	response, statusCode, err := h.chatService.ListMessages(userID, sessionID, page, pageSize)
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
		Data:    response,
	})
}

// @Summary List Providers
// @Description List configured AI providers
// @Produce json
// @Success 200 {object} dtos.Response
func (h *ChatHandler) ListProviders(c *gin.Context) {
	c.JSON(http.StatusOK, dtos.Response{
		Success: true,
		Data:    h.chatService.ListProviders(),
	})
}

func pagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
