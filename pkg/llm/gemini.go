package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"aquabot-ai/internal/utils"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type GeminiAdapter struct {
	client              *genai.Client
	model               string
	maxCompletionTokens int
	temperature         float64
}

func NewGeminiAdapter(config Config) (Adapter, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	// Create the Gemini SDK client using the provided API key.
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %v", err)
	}

	return &GeminiAdapter{
		client:              client,
		model:               config.Model,
		maxCompletionTokens: config.MaxCompletionTokens,
		temperature:         config.Temperature,
	}, nil
}

func (a *GeminiAdapter) Chat(ctx context.Context, messages []Message, tools []ToolDefinition) (*Turn, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	model := a.client.GenerativeModel(a.model)
	model.MaxOutputTokens = utils.ToInt32Ptr(int32(a.maxCompletionTokens))
	model.SetTemperature(float32(a.temperature))
	if len(tools) > 0 {
		model.Tools = toGeminiTools(tools)
	}

	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		content := toGeminiContent(msg)
		if content == nil {
			continue
		}
		if msg.Role == "system" {
			model.SystemInstruction = &genai.Content{Parts: content.Parts}
			continue
		}
		contents = append(contents, content)
	}
	if len(contents) == 0 {
		return nil, fmt.Errorf("no messages to send to Gemini")
	}

	// GenerateContent takes history plus the final parts separately.
	session := model.StartChat()
	session.History = contents[:len(contents)-1]

	resp, err := session.SendMessage(ctx, contents[len(contents)-1].Parts...)
	if err != nil {
		log.Printf("Gemini -> Chat -> err: %v", err)
		return nil, fmt.Errorf("gemini API error: %v", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response candidates returned from Gemini")
	}

	turn := &Turn{}
	if resp.UsageMetadata != nil {
		turn.TokensUsed = int(resp.UsageMetadata.TotalTokenCount)
	}
	for i, part := range resp.Candidates[0].Content.Parts {
		switch typed := part.(type) {
		case genai.Text:
			turn.Text += string(typed)
		case genai.FunctionCall:
			args, err := json.Marshal(typed.Args)
			if err != nil {
				log.Printf("Gemini -> failed to marshal args for %s: %v", typed.Name, err)
				args = []byte("{}")
			}
			// Gemini does not assign call IDs, synthesize stable ones.
			turn.ToolCalls = append(turn.ToolCalls, ToolCall{
				ID:        fmt.Sprintf("%s-%d", typed.Name, i),
				Name:      typed.Name,
				Arguments: string(args),
			})
		}
	}
	return turn, nil
}

// IsAvailable probes the API with a token count on a trivial input.
func (a *GeminiAdapter) IsAvailable(ctx context.Context) bool {
	model := a.client.GenerativeModel(a.model)
	if _, err := model.CountTokens(ctx, genai.Text("ping")); err != nil {
		log.Printf("Gemini -> IsAvailable -> probe failed: %v", err)
		return false
	}
	return true
}

func (a *GeminiAdapter) GetModelInfo() ModelInfo {
	return ModelInfo{
		Name:                a.model,
		Provider:            "gemini",
		MaxCompletionTokens: a.maxCompletionTokens,
		ContextLimit:        1000000,
	}
}

func toGeminiContent(msg Message) *genai.Content {
	role := "user"
	if msg.Role == "assistant" {
		role = "model"
	}

	parts := make([]genai.Part, 0, len(msg.Blocks)+len(msg.ToolCalls))

	if msg.ToolCallID != "" {
		var response map[string]interface{}
		if err := json.Unmarshal([]byte(msg.JoinedText()), &response); err != nil {
			response = map[string]interface{}{"result": msg.JoinedText()}
		}
		parts = append(parts, genai.FunctionResponse{
			Name:     msg.ToolName,
			Response: response,
		})
		return &genai.Content{Role: "user", Parts: parts}
	}

	for _, call := range msg.ToolCalls {
		var args map[string]interface{}
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			args = map[string]interface{}{}
		}
		parts = append(parts, genai.FunctionCall{Name: call.Name, Args: args})
	}

	for _, block := range msg.Blocks {
		switch block.Type {
		case "text":
			if block.Text != "" {
				parts = append(parts, genai.Text(block.Text))
			}
		case "image":
			parts = append(parts, genai.Blob{
				MIMEType: block.MediaType,
				Data:     block.ImageData,
			})
		}
	}

	if len(parts) == 0 {
		return nil
	}
	return &genai.Content{Role: role, Parts: parts}
}

func toGeminiTools(tools []ToolDefinition) []*genai.Tool {
	declarations := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, tool := range tools {
		declarations = append(declarations, &genai.FunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: toGeminiProperties(tool.Properties),
				Required:   tool.Required,
			},
		})
	}
	return []*genai.Tool{{FunctionDeclarations: declarations}}
}

func toGeminiProperties(properties map[string]interface{}) map[string]*genai.Schema {
	out := make(map[string]*genai.Schema, len(properties))
	for name, raw := range properties {
		spec, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		schema := &genai.Schema{Type: genai.TypeString}
		if typeName, ok := spec["type"].(string); ok {
			schema.Type = geminiType(typeName)
		}
		if description, ok := spec["description"].(string); ok {
			schema.Description = description
		}
		if values, ok := spec["enum"].([]string); ok {
			schema.Enum = values
		}
		out[name] = schema
	}
	return out
}

func geminiType(name string) genai.Type {
	switch name {
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}
