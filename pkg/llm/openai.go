package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"

	"github.com/sashabaranov/go-openai"
)

type OpenAIAdapter struct {
	client              *openai.Client
	model               string
	maxCompletionTokens int
	temperature         float64
}

func NewOpenAIAdapter(config Config) (Adapter, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	model := config.Model
	if model == "" {
		model = openai.GPT4o
	}

	return &OpenAIAdapter{
		client:              openai.NewClientWithConfig(clientConfig),
		model:               model,
		maxCompletionTokens: config.MaxCompletionTokens,
		temperature:         config.Temperature,
	}, nil
}

func (a *OpenAIAdapter) Chat(ctx context.Context, messages []Message, tools []ToolDefinition) (*Turn, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	openAIMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		openAIMessages = append(openAIMessages, toOpenAIMessage(msg))
	}

	req := openai.ChatCompletionRequest{
		Model:               a.model,
		Messages:            openAIMessages,
		MaxCompletionTokens: a.maxCompletionTokens,
		Temperature:         float32(a.temperature),
	}
	if len(tools) > 0 {
		req.Tools = toOpenAITools(tools)
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Printf("OpenAI -> Chat -> err: %v", err)
		return nil, fmt.Errorf("OpenAI API error: %v", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response choices returned from OpenAI")
	}

	choice := resp.Choices[0]
	turn := &Turn{
		Text:       choice.Message.Content,
		TokensUsed: resp.Usage.TotalTokens,
	}
	for _, call := range choice.Message.ToolCalls {
		turn.ToolCalls = append(turn.ToolCalls, ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}
	return turn, nil
}

// IsAvailable probes the API with a cheap model listing call.
func (a *OpenAIAdapter) IsAvailable(ctx context.Context) bool {
	if _, err := a.client.ListModels(ctx); err != nil {
		log.Printf("OpenAI -> IsAvailable -> probe failed: %v", err)
		return false
	}
	return true
}

func (a *OpenAIAdapter) GetModelInfo() ModelInfo {
	return ModelInfo{
		Name:                a.model,
		Provider:            "openai",
		MaxCompletionTokens: a.maxCompletionTokens,
		ContextLimit:        128000,
	}
}

func toOpenAIMessage(msg Message) openai.ChatCompletionMessage {
	out := openai.ChatCompletionMessage{Role: msg.Role}

	if msg.ToolCallID != "" {
		out.Role = openai.ChatMessageRoleTool
		out.ToolCallID = msg.ToolCallID
		out.Content = msg.JoinedText()
		return out
	}

	for _, call := range msg.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, openai.ToolCall{
			ID:   call.ID,
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      call.Name,
				Arguments: call.Arguments,
			},
		})
	}

	if hasImageBlock(msg) {
		for _, block := range msg.Blocks {
			switch block.Type {
			case "text":
				out.MultiContent = append(out.MultiContent, openai.ChatMessagePart{
					Type: openai.ChatMessagePartTypeText,
					Text: block.Text,
				})
			case "image":
				out.MultiContent = append(out.MultiContent, openai.ChatMessagePart{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL: fmt.Sprintf("data:%s;base64,%s", block.MediaType, base64.StdEncoding.EncodeToString(block.ImageData)),
					},
				})
			}
		}
		return out
	}

	out.Content = msg.JoinedText()
	return out
}

func hasImageBlock(msg Message) bool {
	for _, block := range msg.Blocks {
		if block.Type == "image" {
			return true
		}
	}
	return false
}

func toOpenAITools(tools []ToolDefinition) []openai.Tool {
	out := make([]openai.Tool, 0, len(tools))
	for _, tool := range tools {
		parameters := map[string]interface{}{
			"type":       "object",
			"properties": tool.Properties,
		}
		if len(tool.Required) > 0 {
			parameters["required"] = tool.Required
		}
		raw, err := json.Marshal(parameters)
		if err != nil {
			log.Printf("OpenAI -> failed to marshal tool parameters for %s: %v", tool.Name, err)
			continue
		}
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  json.RawMessage(raw),
			},
		})
	}
	return out
}
