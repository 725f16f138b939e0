package services

import (
	"strings"
	"testing"
	"time"

	"aquabot-ai/internal/constants"
	"aquabot-ai/internal/models"
	"aquabot-ai/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeSessionRepo struct {
	latest   *models.ChatSession
	created  []*models.ChatSession
	titles   map[primitive.ObjectID]string
	touched  []primitive.ObjectID
	titleErr error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{titles: make(map[primitive.ObjectID]string)}
}

func (f *fakeSessionRepo) Create(session *models.ChatSession) error {
	f.created = append(f.created, session)
	return nil
}

func (f *fakeSessionRepo) FindByID(_ primitive.ObjectID) (*models.ChatSession, error) {
	return nil, nil
}

func (f *fakeSessionRepo) FindLatestByUserID(_ primitive.ObjectID) (*models.ChatSession, error) {
	return f.latest, nil
}

func (f *fakeSessionRepo) FindByUserID(_ primitive.ObjectID, _, _ int) ([]*models.ChatSession, int64, error) {
	return nil, 0, nil
}

func (f *fakeSessionRepo) SetTitleIfEmpty(id primitive.ObjectID, title string) error {
	if f.titleErr != nil {
		return f.titleErr
	}
	if _, taken := f.titles[id]; !taken {
		f.titles[id] = title
	}
	return nil
}

func (f *fakeSessionRepo) Touch(id primitive.ObjectID) error {
	f.touched = append(f.touched, id)
	return nil
}

func (f *fakeSessionRepo) Delete(_ primitive.ObjectID) error { return nil }

type fakeMessageRepo struct {
	stored    []*models.ChatMessage
	createErr error
}

func (f *fakeMessageRepo) Create(message *models.ChatMessage) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.stored = append(f.stored, message)
	return nil
}

func (f *fakeMessageRepo) FindRecentByUserID(_ primitive.ObjectID, limit int) ([]*models.ChatMessage, error) {
	// newest first, as the real repository sorts
	out := make([]*models.ChatMessage, 0, limit)
	for i := len(f.stored) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.stored[i])
	}
	return out, nil
}

func (f *fakeMessageRepo) FindBySessionID(_ primitive.ObjectID, _, _ int) ([]*models.ChatMessage, int64, error) {
	return nil, 0, nil
}

func (f *fakeMessageRepo) DeleteBySessionID(_ primitive.ObjectID) error { return nil }

func newTestMemoryService(sessionRepo *fakeSessionRepo, messageRepo *fakeMessageRepo) *memoryService {
	return &memoryService{
		config: MemoryConfig{
			ContinuityWindow: 24 * time.Hour,
			TitleMaxLength:   50,
			HistoryLimit:     20,
		},
		sessionRepo: sessionRepo,
		messageRepo: messageRepo,
		now:         time.Now,
	}
}

func TestGetOrCreateSessionContinuesRecentSession(t *testing.T) {
	userID := primitive.NewObjectID()
	recent := models.NewChatSession(userID, nil)
	recent.UpdatedAt = time.Now().Add(-1 * time.Hour)

	sessionRepo := newFakeSessionRepo()
	sessionRepo.latest = recent
	service := newTestMemoryService(sessionRepo, &fakeMessageRepo{})

	session, err := service.GetOrCreateSession(userID, nil)
	require.NoError(t, err)
	assert.Equal(t, recent.ID, session.ID)
	assert.Empty(t, sessionRepo.created)
}

func TestGetOrCreateSessionStartsNewAfterWindow(t *testing.T) {
	userID := primitive.NewObjectID()
	stale := models.NewChatSession(userID, nil)
	stale.UpdatedAt = time.Now().Add(-25 * time.Hour)

	sessionRepo := newFakeSessionRepo()
	sessionRepo.latest = stale
	service := newTestMemoryService(sessionRepo, &fakeMessageRepo{})

	session, err := service.GetOrCreateSession(userID, nil)
	require.NoError(t, err)
	assert.NotEqual(t, stale.ID, session.ID)
	require.Len(t, sessionRepo.created, 1)
}

func TestGetOrCreateSessionForFirstMessageEver(t *testing.T) {
	userID := primitive.NewObjectID()
	sessionRepo := newFakeSessionRepo()
	service := newTestMemoryService(sessionRepo, &fakeMessageRepo{})

	session, err := service.GetOrCreateSession(userID, nil)
	require.NoError(t, err)
	assert.Equal(t, userID, session.UserID)
	require.Len(t, sessionRepo.created, 1)
}

func TestSaveExchangeReplacesImageWithPlaceholder(t *testing.T) {
	userID := primitive.NewObjectID()
	session := models.NewChatSession(userID, nil)
	sessionRepo := newFakeSessionRepo()
	messageRepo := &fakeMessageRepo{}
	service := newTestMemoryService(sessionRepo, messageRepo)

	service.SaveExchange(session, []llm.ContentBlock{
		{Type: "text", Text: "Что на фото?"},
		{Type: "image", ImageData: []byte{0xFF, 0xD8}, MediaType: "image/jpeg"},
	}, "Это фильтр обратного осмоса", nil)

	require.Len(t, messageRepo.stored, 2)
	assert.Equal(t, "Что на фото? [Фото прикреплено]", messageRepo.stored[0].Content)
	assert.Equal(t, "user", messageRepo.stored[0].Role)
	assert.Equal(t, "Это фильтр обратного осмоса", messageRepo.stored[1].Content)
	assert.Equal(t, "assistant", messageRepo.stored[1].Role)
}

func TestSaveExchangeSetsTitleFromFirstMessage(t *testing.T) {
	userID := primitive.NewObjectID()
	session := models.NewChatSession(userID, nil)
	sessionRepo := newFakeSessionRepo()
	service := newTestMemoryService(sessionRepo, &fakeMessageRepo{})

	service.SaveExchange(session, []llm.ContentBlock{
		{Type: "text", Text: "Какая жёсткость воды считается нормальной?"},
	}, "ответ", nil)

	assert.Equal(t, "Какая жёсткость воды считается нормальной?", sessionRepo.titles[session.ID])
	assert.Contains(t, sessionRepo.touched, session.ID)
}

func TestSaveExchangeTruncatesLongTitleByRunes(t *testing.T) {
	userID := primitive.NewObjectID()
	session := models.NewChatSession(userID, nil)
	sessionRepo := newFakeSessionRepo()
	service := newTestMemoryService(sessionRepo, &fakeMessageRepo{})

	long := strings.Repeat("д", 80)
	service.SaveExchange(session, []llm.ContentBlock{{Type: "text", Text: long}}, "ответ", nil)

	title := sessionRepo.titles[session.ID]
	assert.Equal(t, strings.Repeat("д", 50)+constants.SessionTitleEllipsis, title)
	assert.Len(t, []rune(title), 53)
}

func TestSaveExchangeKeepsExistingTitle(t *testing.T) {
	userID := primitive.NewObjectID()
	session := models.NewChatSession(userID, nil)
	existing := "старый заголовок"
	session.Title = &existing
	sessionRepo := newFakeSessionRepo()
	service := newTestMemoryService(sessionRepo, &fakeMessageRepo{})

	service.SaveExchange(session, []llm.ContentBlock{{Type: "text", Text: "новое сообщение"}}, "ответ", nil)

	_, written := sessionRepo.titles[session.ID]
	assert.False(t, written)
}

func TestSaveExchangeSwallowsWriteFailures(t *testing.T) {
	userID := primitive.NewObjectID()
	session := models.NewChatSession(userID, nil)
	sessionRepo := newFakeSessionRepo()
	messageRepo := &fakeMessageRepo{createErr: assert.AnError}
	service := newTestMemoryService(sessionRepo, messageRepo)

	// must not panic or surface the error
	service.SaveExchange(session, []llm.ContentBlock{{Type: "text", Text: "привет"}}, "ответ", nil)
	assert.Empty(t, messageRepo.stored)
}

func TestLoadRecentHistoryIsChronological(t *testing.T) {
	userID := primitive.NewObjectID()
	session := models.NewChatSession(userID, nil)
	sessionRepo := newFakeSessionRepo()
	messageRepo := &fakeMessageRepo{}
	service := newTestMemoryService(sessionRepo, messageRepo)

	service.SaveExchange(session, []llm.ContentBlock{{Type: "text", Text: "первый вопрос"}}, "первый ответ", nil)
	service.SaveExchange(session, []llm.ContentBlock{{Type: "text", Text: "второй вопрос"}}, "второй ответ", nil)

	history, err := service.LoadRecentHistory(userID)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, "первый вопрос", history[0].JoinedText())
	assert.Equal(t, "первый ответ", history[1].JoinedText())
	assert.Equal(t, "второй вопрос", history[2].JoinedText())
	assert.Equal(t, "второй ответ", history[3].JoinedText())
}

func TestLoadRecentHistoryHonorsLimit(t *testing.T) {
	userID := primitive.NewObjectID()
	session := models.NewChatSession(userID, nil)
	messageRepo := &fakeMessageRepo{}
	service := newTestMemoryService(newFakeSessionRepo(), messageRepo)
	service.config.HistoryLimit = 3

	for _, text := range []string{"m1", "m2", "m3", "m4", "m5"} {
		messageRepo.stored = append(messageRepo.stored,
			models.NewChatMessage(session.ID, userID, "user", text, nil))
	}

	history, err := service.LoadRecentHistory(userID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "m3", history[0].JoinedText())
	assert.Equal(t, "m4", history[1].JoinedText())
	assert.Equal(t, "m5", history[2].JoinedText())
}

func TestFlattenBlocksJoinsWithSingleSpace(t *testing.T) {
	content := FlattenBlocks([]llm.ContentBlock{
		{Type: "text", Text: "  до фото  "},
		{Type: "image", MediaType: "image/png"},
		{Type: "text", Text: "после фото"},
	})
	assert.Equal(t, "до фото [Фото прикреплено] после фото", content)
}
