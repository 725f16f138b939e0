package di

import (
	"log"
	"time"

	"aquabot-ai/config"
	"aquabot-ai/internal/apis/handlers"
	"aquabot-ai/internal/constants"
	"aquabot-ai/internal/models"
	"aquabot-ai/internal/repositories"
	"aquabot-ai/internal/services"
	"aquabot-ai/internal/tools"
	"aquabot-ai/internal/utils"
	"aquabot-ai/pkg/actionapi"
	"aquabot-ai/pkg/llm"
	"aquabot-ai/pkg/mongodb"
	"aquabot-ai/pkg/redis"
	"aquabot-ai/pkg/sqldb"

	"go.uber.org/dig"
)

var DiContainer *dig.Container

func Initialize() {
	DiContainer = dig.New()

	// Initialize MongoDB
	dbConfig := mongodb.MongoDbConfigModel{
		ConnectionUrl: config.Env.MongoURI,
		DatabaseName:  config.Env.MongoDatabaseName,
	}
	mongodbClient := mongodb.InitializeDatabaseConnection(dbConfig)

	// Initialize Redis
	redisClient, err := redis.RedisClient(config.Env.RedisHost, config.Env.RedisPort, config.Env.RedisUsername, config.Env.RedisPassword)
	if err != nil {
		log.Fatalf("Failed to initialize Redis client: %v", err)
	}

	// Initialize the telemetry SQL store
	telemetryDB, err := sqldb.InitializeDatabaseConnection(sqldb.SQLDbConfigModel{
		Driver: config.Env.TelemetryDBDriver,
		DSN:    config.Env.TelemetryDBDSN,
	})
	if err != nil {
		log.Fatalf("Failed to initialize telemetry store: %v", err)
	}
	if err := sqldb.AutoMigrate(telemetryDB, &models.Alert{}, &models.WaterReading{}); err != nil {
		log.Fatalf("Failed to migrate telemetry store: %v", err)
	}

	// Initialize services and repositories
	redisRepo := redis.NewRedisRepositories(redisClient)
	jwtService := utils.NewJWTService(
		config.Env.JWTSecret,
		time.Millisecond*time.Duration(config.Env.JWTExpirationMilliseconds),
		time.Millisecond*time.Duration(config.Env.JWTRefreshExpirationMilliseconds),
	)

	tokenRepo := repositories.NewTokenRepository(redisRepo)
	sessionRepo := repositories.NewSessionRepository(mongodbClient)
	messageRepo := repositories.NewMessageRepository(mongodbClient)
	alertRepo := repositories.NewAlertRepository(telemetryDB)
	readingRepo := repositories.NewReadingRepository(telemetryDB)

	// Upstream action API clients
	equipmentClient := actionapi.NewClient(actionapi.Config{
		BaseURL:        config.Env.EquipmentAPIBaseURL,
		Token:          config.Env.EquipmentAPIToken,
		Timeout:        time.Millisecond * time.Duration(config.Env.TransportTimeoutMs),
		MaxRetries:     config.Env.TransportMaxRetries,
		RetryBaseDelay: time.Millisecond * time.Duration(config.Env.TransportRetryBaseDelayMs),
	})
	meterClient := actionapi.NewClient(actionapi.Config{
		BaseURL:        config.Env.WaterMeterAPIBaseURL,
		Token:          config.Env.WaterMeterAPIKey,
		Timeout:        time.Millisecond * time.Duration(config.Env.TransportTimeoutMs),
		MaxRetries:     config.Env.TransportMaxRetries,
		RetryBaseDelay: time.Millisecond * time.Duration(config.Env.TransportRetryBaseDelayMs),
	})

	// Provide infrastructure
	if err := DiContainer.Provide(func() *mongodb.MongoDBClient { return mongodbClient }); err != nil {
		log.Fatalf("Failed to provide MongoDB client: %v", err)
	}

	if err := DiContainer.Provide(func() redis.IRedisRepositories { return redisRepo }); err != nil {
		log.Fatalf("Failed to provide Redis repositories: %v", err)
	}

	if err := DiContainer.Provide(func() utils.JWTService { return jwtService }); err != nil {
		log.Fatalf("Failed to provide JWT service: %v", err)
	}

	if err := DiContainer.Provide(func() repositories.TokenRepository { return tokenRepo }); err != nil {
		log.Fatalf("Failed to provide token repository: %v", err)
	}

	if err := DiContainer.Provide(func(db *mongodb.MongoDBClient) repositories.UserRepository {
		return repositories.NewUserRepository(db)
	}); err != nil {
		log.Fatalf("Failed to provide user repository: %v", err)
	}

	if err := DiContainer.Provide(func() repositories.SessionRepository { return sessionRepo }); err != nil {
		log.Fatalf("Failed to provide session repository: %v", err)
	}

	if err := DiContainer.Provide(func() repositories.MessageRepository { return messageRepo }); err != nil {
		log.Fatalf("Failed to provide message repository: %v", err)
	}

	if err := DiContainer.Provide(func() repositories.AlertRepository { return alertRepo }); err != nil {
		log.Fatalf("Failed to provide alert repository: %v", err)
	}

	if err := DiContainer.Provide(func() repositories.ReadingRepository { return readingRepo }); err != nil {
		log.Fatalf("Failed to provide reading repository: %v", err)
	}

	// Provide the AI provider selector
	if err := DiContainer.Provide(func() *llm.Selector {
		providers := make(map[string]llm.Config)
		if config.Env.OpenAIAPIKey != "" {
			providers[constants.OpenAI] = llm.Config{
				Provider:            constants.OpenAI,
				Model:               config.Env.OpenAIModel,
				APIKey:              config.Env.OpenAIAPIKey,
				MaxCompletionTokens: config.Env.OpenAIMaxCompletionTokens,
				Temperature:         config.Env.OpenAITemperature,
			}
		}
		if config.Env.GeminiAPIKey != "" {
			providers[constants.Gemini] = llm.Config{
				Provider:            constants.Gemini,
				Model:               config.Env.GeminiModel,
				APIKey:              config.Env.GeminiAPIKey,
				MaxCompletionTokens: config.Env.GeminiMaxCompletionTokens,
				Temperature:         config.Env.GeminiTemperature,
			}
		}

		defaultProvider := config.Env.DefaultAIProvider
		if _, configured := providers[defaultProvider]; !configured {
			log.Printf("Warning: default AI provider %s has no API key configured", defaultProvider)
			defaultProvider = ""
			for name := range providers {
				defaultProvider = name
				break
			}
		}

		selector, err := llm.NewSelector(llm.SelectorConfig{
			Default:   defaultProvider,
			Order:     config.Env.AIProviderOrder,
			Providers: providers,
		})
		if err != nil {
			log.Fatalf("Failed to create AI selector: %v", err)
		}
		return selector
	}); err != nil {
		log.Fatalf("Failed to provide AI selector: %v", err)
	}

	if err := DiContainer.Provide(func() *llm.Orchestrator {
		return llm.NewOrchestrator(config.Env.AgentMaxRounds)
	}); err != nil {
		log.Fatalf("Failed to provide orchestrator: %v", err)
	}

	if err := DiContainer.Provide(func(readingRepo repositories.ReadingRepository, alertRepo repositories.AlertRepository) *tools.Registry {
		return tools.NewRegistry(equipmentClient, readingRepo, alertRepo)
	}); err != nil {
		log.Fatalf("Failed to provide tool registry: %v", err)
	}

	// Provide services
	if err := DiContainer.Provide(func(userRepo repositories.UserRepository, tokenRepo repositories.TokenRepository, jwt utils.JWTService) services.AuthService {
		return services.NewAuthService(userRepo, jwt, tokenRepo)
	}); err != nil {
		log.Fatalf("Failed to provide auth service: %v", err)
	}

	if err := DiContainer.Provide(func(sessionRepo repositories.SessionRepository, messageRepo repositories.MessageRepository) services.MemoryService {
		return services.NewMemoryService(services.MemoryConfig{
			ContinuityWindow: time.Duration(config.Env.SessionContinuityHours) * time.Hour,
			TitleMaxLength:   config.Env.SessionTitleMaxLength,
			HistoryLimit:     config.Env.HistoryMessageLimit,
		}, sessionRepo, messageRepo)
	}); err != nil {
		log.Fatalf("Failed to provide memory service: %v", err)
	}

	if err := DiContainer.Provide(func(memoryService services.MemoryService, selector *llm.Selector, orchestrator *llm.Orchestrator, toolRegistry *tools.Registry) services.ChatService {
		return services.NewChatService(memoryService, selector, orchestrator, toolRegistry)
	}); err != nil {
		log.Fatalf("Failed to provide chat service: %v", err)
	}

	if err := DiContainer.Provide(func() services.EquipmentService {
		return services.NewEquipmentService(equipmentClient)
	}); err != nil {
		log.Fatalf("Failed to provide equipment service: %v", err)
	}

	if err := DiContainer.Provide(func(alertRepo repositories.AlertRepository) services.AlertService {
		return services.NewAlertService(alertRepo)
	}); err != nil {
		log.Fatalf("Failed to provide alert service: %v", err)
	}

	if err := DiContainer.Provide(func(readingRepo repositories.ReadingRepository) services.TelemetryService {
		return services.NewTelemetryService(meterClient, readingRepo)
	}); err != nil {
		log.Fatalf("Failed to provide telemetry service: %v", err)
	}

	// Provide handlers
	if err := DiContainer.Provide(func(authService services.AuthService) *handlers.AuthHandler {
		return handlers.NewAuthHandler(authService)
	}); err != nil {
		log.Fatalf("Failed to provide auth handler: %v", err)
	}

	if err := DiContainer.Provide(func(chatService services.ChatService) *handlers.ChatHandler {
		return handlers.NewChatHandler(chatService)
	}); err != nil {
		log.Fatalf("Failed to provide chat handler: %v", err)
	}

	if err := DiContainer.Provide(func(equipmentService services.EquipmentService) *handlers.EquipmentHandler {
		return handlers.NewEquipmentHandler(equipmentService)
	}); err != nil {
		log.Fatalf("Failed to provide equipment handler: %v", err)
	}

	if err := DiContainer.Provide(func(alertService services.AlertService, telemetryService services.TelemetryService) *handlers.AlertHandler {
		return handlers.NewAlertHandler(alertService, telemetryService)
	}); err != nil {
		log.Fatalf("Failed to provide alert handler: %v", err)
	}
}

// GetAuthHandler retrieves the AuthHandler from the DI container
func GetAuthHandler() (*handlers.AuthHandler, error) {
	var handler *handlers.AuthHandler
	err := DiContainer.Invoke(func(h *handlers.AuthHandler) {
		handler = h
	})
	if err != nil {
		return nil, err
	}
	return handler, nil
}

// GetChatHandler retrieves the ChatHandler from the DI container
func GetChatHandler() (*handlers.ChatHandler, error) {
	var handler *handlers.ChatHandler
	err := DiContainer.Invoke(func(h *handlers.ChatHandler) {
		handler = h
	})
	if err != nil {
		return nil, err
	}
	return handler, nil
}

// GetEquipmentHandler retrieves the EquipmentHandler from the DI container
func GetEquipmentHandler() (*handlers.EquipmentHandler, error) {
	var handler *handlers.EquipmentHandler
	err := DiContainer.Invoke(func(h *handlers.EquipmentHandler) {
		handler = h
	})
	if err != nil {
		return nil, err
	}
	return handler, nil
}

// GetAlertHandler retrieves the AlertHandler from the DI container
func GetAlertHandler() (*handlers.AlertHandler, error) {
	var handler *handlers.AlertHandler
	err := DiContainer.Invoke(func(h *handlers.AlertHandler) {
		handler = h
	})
	if err != nil {
		return nil, err
	}
	return handler, nil
}
