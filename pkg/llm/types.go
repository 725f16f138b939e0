package llm

import "context"

// ContentBlock is one piece of a message: text or an inline image.
type ContentBlock struct {
	Type      string `json:"type"` // "text" or "image"
	Text      string `json:"text,omitempty"`
	ImageData []byte `json:"image_data,omitempty"` // raw bytes, not base64
	MediaType string `json:"media_type,omitempty"` // image/jpeg, image/png...
}

// Message represents a chat message exchanged with a provider.
type Message struct {
	Role       string         `json:"role"`
	Blocks     []ContentBlock `json:"blocks,omitempty"`
	ToolCalls  []ToolCall     `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"` // set on tool result messages
	ToolName   string         `json:"tool_name,omitempty"`
}

// ToolDefinition describes a callable tool in provider-neutral form.
// Properties holds a JSON schema object keyed by parameter name.
type ToolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Properties  map[string]interface{} `json:"properties"`
	Required    []string               `json:"required"`
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON-encoded
}

// Turn is one model response: text, tool calls, or both.
type Turn struct {
	Text       string
	ToolCalls  []ToolCall
	TokensUsed int
}

// Adapter defines the interface for a single AI provider.
type Adapter interface {
	Chat(ctx context.Context, messages []Message, tools []ToolDefinition) (*Turn, error)
	IsAvailable(ctx context.Context) bool
	GetModelInfo() ModelInfo
}

// ModelInfo contains information about the provider's model.
type ModelInfo struct {
	Name                string
	Provider            string
	MaxCompletionTokens int
	ContextLimit        int
}

// Config holds configuration for provider adapters.
type Config struct {
	Provider            string
	Model               string
	APIKey              string
	BaseURL             string
	MaxCompletionTokens int
	Temperature         float64
}

// Constructor builds an adapter from its config. The selector keeps a
// registry of these keyed by provider name.
type Constructor func(config Config) (Adapter, error)

// ToolFunc executes one tool call and returns the result text handed
// back to the model.
type ToolFunc func(ctx context.Context, arguments string) (string, error)

// TextMessage is a convenience constructor for a single-text-block message.
func TextMessage(role, text string) Message {
	return Message{
		Role:   role,
		Blocks: []ContentBlock{{Type: "text", Text: text}},
	}
}

// JoinedText concatenates the text blocks of a message.
func (m Message) JoinedText() string {
	var text string
	for _, block := range m.Blocks {
		if block.Type != "text" {
			continue
		}
		if text != "" {
			text += " "
		}
		text += block.Text
	}
	return text
}
