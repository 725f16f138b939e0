package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"aquabot-ai/internal/constants"
	"aquabot-ai/internal/models"
	"aquabot-ai/internal/repositories"
	"aquabot-ai/pkg/llm"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryConfig is handed in at construction, the service reads no
// globals.
type MemoryConfig struct {
	// ContinuityWindow is how long a session stays "current". A new
	// message within the window continues the latest session, outside
	// it a fresh session starts.
	ContinuityWindow time.Duration
	// TitleMaxLength is the character budget for auto-generated
	// session titles.
	TitleMaxLength int
	// HistoryLimit caps how many past messages are replayed to the
	// model.
	HistoryLimit int
}

type MemoryService interface {
	GetOrCreateSession(userID primitive.ObjectID, equipmentID *string) (*models.ChatSession, error)
	LoadRecentHistory(userID primitive.ObjectID) ([]llm.Message, error)
	SaveExchange(session *models.ChatSession, userBlocks []llm.ContentBlock, reply string, toolsUsed []string)
	ListSessions(userID primitive.ObjectID, page, pageSize int) ([]*models.ChatSession, int64, error)
	ListMessages(sessionID primitive.ObjectID, page, pageSize int) ([]*models.ChatMessage, int64, error)
}

type memoryService struct {
	config      MemoryConfig
	sessionRepo repositories.SessionRepository
	messageRepo repositories.MessageRepository
	now         func() time.Time
}

func NewMemoryService(config MemoryConfig, sessionRepo repositories.SessionRepository, messageRepo repositories.MessageRepository) MemoryService {
	if config.ContinuityWindow <= 0 {
		config.ContinuityWindow = time.Duration(constants.DefaultSessionContinuityHours) * time.Hour
	}
	if config.TitleMaxLength <= 0 {
		config.TitleMaxLength = constants.DefaultSessionTitleMaxLength
	}
	if config.HistoryLimit <= 0 {
		config.HistoryLimit = constants.DefaultHistoryMessageLimit
	}
	return &memoryService{
		config:      config,
		sessionRepo: sessionRepo,
		messageRepo: messageRepo,
		now:         time.Now,
	}
}

// GetOrCreateSession continues the user's latest session when it was
// touched within the continuity window, otherwise starts a new one.
func (s *memoryService) GetOrCreateSession(userID primitive.ObjectID, equipmentID *string) (*models.ChatSession, error) {
	latest, err := s.sessionRepo.FindLatestByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up latest session: %v", err)
	}

	if latest != nil && s.now().Sub(latest.UpdatedAt) < s.config.ContinuityWindow {
		return latest, nil
	}

	session := models.NewChatSession(userID, equipmentID)
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %v", err)
	}
	return session, nil
}

// LoadRecentHistory replays the user's latest messages in chronological
// order. The repository returns newest first, so the slice is reversed.
func (s *memoryService) LoadRecentHistory(userID primitive.ObjectID) ([]llm.Message, error) {
	stored, err := s.messageRepo.FindRecentByUserID(userID, s.config.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %v", err)
	}

	history := make([]llm.Message, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		history = append(history, llm.TextMessage(stored[i].Role, stored[i].Content))
	}
	return history, nil
}

// SaveExchange persists the user message and the assistant reply.
// Failures are logged and swallowed: the user already has the answer,
// losing one history row must not fail the request.
func (s *memoryService) SaveExchange(session *models.ChatSession, userBlocks []llm.ContentBlock, reply string, toolsUsed []string) {
	userContent := FlattenBlocks(userBlocks)

	userMessage := models.NewChatMessage(session.ID, session.UserID, string(constants.MessageRoleUser), userContent, nil)
	if err := s.messageRepo.Create(userMessage); err != nil {
		log.Printf("MemoryService -> failed to save user message: %v", err)
	}

	assistantMessage := models.NewChatMessage(session.ID, session.UserID, string(constants.MessageRoleAssistant), reply, toolsUsed)
	if err := s.messageRepo.Create(assistantMessage); err != nil {
		log.Printf("MemoryService -> failed to save assistant message: %v", err)
	}

	if session.Title == nil {
		title := s.makeTitle(userContent)
		if title != "" {
			if err := s.sessionRepo.SetTitleIfEmpty(session.ID, title); err != nil {
				log.Printf("MemoryService -> failed to set session title: %v", err)
			}
		}
	}

	if err := s.sessionRepo.Touch(session.ID); err != nil {
		log.Printf("MemoryService -> failed to touch session: %v", err)
	}
}

func (s *memoryService) ListSessions(userID primitive.ObjectID, page, pageSize int) ([]*models.ChatSession, int64, error) {
	return s.sessionRepo.FindByUserID(userID, page, pageSize)
}

func (s *memoryService) ListMessages(sessionID primitive.ObjectID, page, pageSize int) ([]*models.ChatMessage, int64, error) {
	return s.messageRepo.FindBySessionID(sessionID, page, pageSize)
}

// makeTitle derives the session title from the first user message,
// truncated by runes so multi-byte text is not cut mid-character.
func (s *memoryService) makeTitle(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}
	runes := []rune(content)
	if len(runes) <= s.config.TitleMaxLength {
		return content
	}
	return string(runes[:s.config.TitleMaxLength]) + constants.SessionTitleEllipsis
}

// FlattenBlocks renders content blocks as one storable string. Image
// bytes are replaced with a placeholder, parts join with a single
// space.
func FlattenBlocks(blocks []llm.ContentBlock) string {
	parts := make([]string, 0, len(blocks))
	for _, block := range blocks {
		switch block.Type {
		case "text":
			if trimmed := strings.TrimSpace(block.Text); trimmed != "" {
				parts = append(parts, trimmed)
			}
		case "image":
			parts = append(parts, constants.ImageAttachmentPlaceholder)
		}
	}
	return strings.Join(parts, " ")
}
