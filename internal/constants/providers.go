package constants

const (
	OpenAI = "openai"
	Gemini = "gemini"
)

const (
	OpenAIModel               = "gpt-4o"
	OpenAIMaxCompletionTokens = 2048
	OpenAITemperature         = 0.3

	GeminiModel               = "gemini-1.5-pro"
	GeminiMaxCompletionTokens = 2048
	GeminiTemperature         = 0.3
)

// Defaults for the chat memory and agent loop. All of them are
// overridable through the environment, see config.LoadEnv.
const (
	DefaultSessionContinuityHours = 24
	DefaultSessionTitleMaxLength  = 50
	DefaultHistoryMessageLimit    = 20
	DefaultAgentMaxRounds         = 12
)
