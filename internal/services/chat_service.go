package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"

	"aquabot-ai/internal/apis/dtos"
	"aquabot-ai/internal/constants"
	"aquabot-ai/internal/tools"
	"aquabot-ai/pkg/llm"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatService interface {
	SendMessage(ctx context.Context, userID string, req *dtos.ChatRequest) (*dtos.ChatResponse, uint, error)
	ListSessions(userID string, page, pageSize int) (*dtos.SessionListResponse, uint, error)
	ListMessages(userID, sessionID string, page, pageSize int) (*dtos.MessageListResponse, uint, error)
	ListProviders() []string
}

type chatService struct {
	memoryService MemoryService
	selector      *llm.Selector
	orchestrator  *llm.Orchestrator
	toolRegistry  *tools.Registry
}

func NewChatService(memoryService MemoryService, selector *llm.Selector, orchestrator *llm.Orchestrator, toolRegistry *tools.Registry) ChatService {
	return &chatService{
		memoryService: memoryService,
		selector:      selector,
		orchestrator:  orchestrator,
		toolRegistry:  toolRegistry,
	}
}

// SendMessage runs one full chat exchange: session continuity, history
// replay, provider selection, the agent loop and best-effort
// persistence of the new turn.
func (s *chatService) SendMessage(ctx context.Context, userID string, req *dtos.ChatRequest) (*dtos.ChatResponse, uint, error) {
	userIDPrimitive, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, http.StatusBadRequest, errors.New("invalid user id")
	}

	blocks, err := decodeBlocks(req.Blocks)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	session, err := s.memoryService.GetOrCreateSession(userIDPrimitive, req.EquipmentID)
	if err != nil {
		log.Printf("ChatService -> session lookup failed: %v", err)
		return nil, http.StatusInternalServerError, err
	}

	history, err := s.memoryService.LoadRecentHistory(userIDPrimitive)
	if err != nil {
		// history is optional, answer without it
		log.Printf("ChatService -> history load failed, continuing without it: %v", err)
		history = nil
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.TextMessage(string(constants.MessageRoleSystem), constants.AssistantSystemPrompt))
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: string(constants.MessageRoleUser), Blocks: blocks})

	adapter, providerName, err := s.selector.Resolve(ctx, req.Provider)
	if err != nil {
		log.Printf("ChatService -> provider resolution failed: %v", err)
		return nil, http.StatusServiceUnavailable, err
	}

	result, err := s.orchestrator.Run(ctx, adapter, messages, s.toolRegistry.Definitions(), s.toolRegistry.Funcs(userID))
	if err != nil {
		log.Printf("ChatService -> agent run failed: %v", err)
		return nil, http.StatusBadGateway, err
	}

	// persistence must not delay or fail the response
	go s.memoryService.SaveExchange(session, blocks, result.Text, result.ToolsUsed)

	return &dtos.ChatResponse{
		SessionID:  session.ID.Hex(),
		Reply:      result.Text,
		Provider:   providerName,
		ToolsUsed:  result.ToolsUsed,
		TokensUsed: result.TokensUsed,
		Truncated:  result.Truncated,
	}, http.StatusOK, nil
}

// ListProviders returns the provider tags that carry credentials.
func (s *chatService) ListProviders() []string {
	return s.selector.ListConfigured()
}

func (s *chatService) ListSessions(userID string, page, pageSize int) (*dtos.SessionListResponse, uint, error) {
	userIDPrimitive, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, http.StatusBadRequest, errors.New("invalid user id")
	}

	sessions, total, err := s.memoryService.ListSessions(userIDPrimitive, page, pageSize)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	response := &dtos.SessionListResponse{
		Sessions: make([]dtos.SessionResponse, 0, len(sessions)),
		Total:    total,
	}
	for _, session := range sessions {
		response.Sessions = append(response.Sessions, dtos.SessionResponse{
			ID:          session.ID.Hex(),
			Title:       session.Title,
			EquipmentID: session.EquipmentID,
			CreatedAt:   session.CreatedAt,
			UpdatedAt:   session.UpdatedAt,
		})
	}
	return response, http.StatusOK, nil
}

func (s *chatService) ListMessages(userID, sessionID string, page, pageSize int) (*dtos.MessageListResponse, uint, error) {
	userIDPrimitive, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, http.StatusBadRequest, errors.New("invalid user id")
	}
	sessionIDPrimitive, err := primitive.ObjectIDFromHex(sessionID)
	if err != nil {
		return nil, http.StatusBadRequest, errors.New("invalid session id")
	}

	messages, total, err := s.memoryService.ListMessages(sessionIDPrimitive, page, pageSize)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	response := &dtos.MessageListResponse{
		Messages: make([]dtos.ChatMessageResponse, 0, len(messages)),
		Total:    total,
	}
	for _, message := range messages {
		if message.UserID != userIDPrimitive {
			continue
		}
		response.Messages = append(response.Messages, dtos.ChatMessageResponse{
			ID:        message.ID.Hex(),
			SessionID: message.SessionID.Hex(),
			Role:      message.Role,
			Content:   message.Content,
			ToolsUsed: message.ToolsUsed,
			CreatedAt: message.CreatedAt,
		})
	}
	return response, http.StatusOK, nil
}

// decodeBlocks validates and decodes incoming content blocks. Images
// must carry an allow-listed media type and valid base64 payload.
func decodeBlocks(in []dtos.ChatContentBlock) ([]llm.ContentBlock, error) {
	blocks := make([]llm.ContentBlock, 0, len(in))
	for _, block := range in {
		switch block.Type {
		case "text":
			blocks = append(blocks, llm.ContentBlock{Type: "text", Text: block.Text})
		case "image":
			if !constants.AllowedImageMediaTypes[block.MediaType] {
				return nil, fmt.Errorf("unsupported image media type: %s", block.MediaType)
			}
			data, err := base64.StdEncoding.DecodeString(block.ImageData)
			if err != nil {
				return nil, fmt.Errorf("invalid image data: %v", err)
			}
			if len(data) == 0 {
				return nil, errors.New("empty image data")
			}
			blocks = append(blocks, llm.ContentBlock{
				Type:      "image",
				ImageData: data,
				MediaType: block.MediaType,
			})
		default:
			return nil, fmt.Errorf("unsupported block type: %s", block.Type)
		}
	}
	return blocks, nil
}
