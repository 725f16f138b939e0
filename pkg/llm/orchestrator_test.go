package llm

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunReturnsPlainTextWithoutTools(t *testing.T) {
	adapter := &fakeAdapter{turns: []*Turn{{Text: "pH в норме", TokensUsed: 42}}}
	orchestrator := NewOrchestrator(12)

	result, err := orchestrator.Run(context.Background(), adapter,
		[]Message{TextMessage("user", "Какой pH?")}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "pH в норме", result.Text)
	assert.Equal(t, 1, result.Rounds)
	assert.Equal(t, 42, result.TokensUsed)
	assert.Empty(t, result.ToolsUsed)
	assert.False(t, result.Truncated)
}

func TestRunExecutesToolsAndFeedsResultsBack(t *testing.T) {
	adapter := &fakeAdapter{turns: []*Turn{
		{ToolCalls: []ToolCall{{ID: "call-1", Name: "equipment_lookup", Arguments: `{"id":"eq-1"}`}}},
		{Text: "Фильтр работает штатно"},
	}}
	orchestrator := NewOrchestrator(12)

	var gotArgs string
	registry := map[string]ToolFunc{
		"equipment_lookup": func(_ context.Context, arguments string) (string, error) {
			gotArgs = arguments
			return `{"status":"ok"}`, nil
		},
	}

	result, err := orchestrator.Run(context.Background(), adapter,
		[]Message{TextMessage("user", "Как фильтр?")}, nil, registry)
	require.NoError(t, err)

	assert.Equal(t, "Фильтр работает штатно", result.Text)
	assert.Equal(t, []string{"equipment_lookup"}, result.ToolsUsed)
	assert.Equal(t, `{"id":"eq-1"}`, gotArgs)
	assert.Equal(t, 2, result.Rounds)

	// the second model turn must see the tool result message
	secondCall := adapter.seen[1]
	last := secondCall[len(secondCall)-1]
	assert.Equal(t, "tool", last.Role)
	assert.Equal(t, "call-1", last.ToolCallID)
	assert.Equal(t, `{"status":"ok"}`, last.JoinedText())
}

func TestRunReportsUnknownToolToModel(t *testing.T) {
	adapter := &fakeAdapter{turns: []*Turn{
		{ToolCalls: []ToolCall{{ID: "call-1", Name: "nonexistent_tool", Arguments: "{}"}}},
		{Text: "готово"},
	}}
	orchestrator := NewOrchestrator(12)

	result, err := orchestrator.Run(context.Background(), adapter,
		[]Message{TextMessage("user", "тест")}, nil, map[string]ToolFunc{})
	require.NoError(t, err)

	secondCall := adapter.seen[1]
	last := secondCall[len(secondCall)-1]
	assert.Equal(t, "Unknown tool: nonexistent_tool", last.JoinedText())
	assert.Equal(t, []string{"nonexistent_tool"}, result.ToolsUsed)
}

func TestRunSkipsDuplicateToolCallIDs(t *testing.T) {
	adapter := &fakeAdapter{turns: []*Turn{
		{ToolCalls: []ToolCall{
			{ID: "call-1", Name: "active_alerts", Arguments: "{}"},
			{ID: "call-1", Name: "active_alerts", Arguments: "{}"},
		}},
		{Text: "готово"},
	}}
	orchestrator := NewOrchestrator(12)

	executions := 0
	registry := map[string]ToolFunc{
		"active_alerts": func(_ context.Context, _ string) (string, error) {
			executions++
			return "[]", nil
		},
	}

	result, err := orchestrator.Run(context.Background(), adapter,
		[]Message{TextMessage("user", "алерты?")}, nil, registry)
	require.NoError(t, err)
	assert.Equal(t, 1, executions)
	assert.Equal(t, []string{"active_alerts"}, result.ToolsUsed)
}

func TestRunRepeatedToolCallAcrossRoundsExecutesBoth(t *testing.T) {
	// Gemini reuses synthesized call ids between rounds, a repeat of the
	// same tool in a later round must still run and get a result
	adapter := &fakeAdapter{turns: []*Turn{
		{ToolCalls: []ToolCall{{ID: "equipment_lookup-0", Name: "equipment_lookup", Arguments: `{"query":"filter"}`}}},
		{ToolCalls: []ToolCall{{ID: "equipment_lookup-0", Name: "equipment_lookup", Arguments: `{"query":"UV sterilizer"}`}}},
		{Text: "оба найдены"},
	}}
	orchestrator := NewOrchestrator(12)

	var gotArgs []string
	registry := map[string]ToolFunc{
		"equipment_lookup": func(_ context.Context, arguments string) (string, error) {
			gotArgs = append(gotArgs, arguments)
			return `{"status":"ok"}`, nil
		},
	}

	result, err := orchestrator.Run(context.Background(), adapter,
		[]Message{TextMessage("user", "найди фильтр и стерилизатор")}, nil, registry)
	require.NoError(t, err)

	assert.Equal(t, []string{`{"query":"filter"}`, `{"query":"UV sterilizer"}`}, gotArgs)
	assert.Equal(t, []string{"equipment_lookup", "equipment_lookup"}, result.ToolsUsed)
	assert.Equal(t, "оба найдены", result.Text)

	// every model turn that follows tool execution must see a tool
	// result last, never a dangling assistant tool call
	for _, turnMessages := range adapter.seen[1:] {
		last := turnMessages[len(turnMessages)-1]
		assert.Equal(t, "tool", last.Role)
		assert.Equal(t, "equipment_lookup-0", last.ToolCallID)
	}
}

func TestRunSameTurnDuplicateLeavesNoDanglingCall(t *testing.T) {
	adapter := &fakeAdapter{turns: []*Turn{
		{ToolCalls: []ToolCall{
			{ID: "call-1", Name: "active_alerts", Arguments: "{}"},
			{ID: "call-1", Name: "active_alerts", Arguments: "{}"},
		}},
		{Text: "готово"},
	}}
	orchestrator := NewOrchestrator(12)

	registry := map[string]ToolFunc{
		"active_alerts": func(_ context.Context, _ string) (string, error) {
			return "[]", nil
		},
	}

	_, err := orchestrator.Run(context.Background(), adapter,
		[]Message{TextMessage("user", "алерты?")}, nil, registry)
	require.NoError(t, err)

	// the assistant message carries only the kept call, matching the
	// single tool result that follows it
	secondCall := adapter.seen[1]
	assistant := secondCall[len(secondCall)-2]
	assert.Equal(t, "assistant", assistant.Role)
	require.Len(t, assistant.ToolCalls, 1)
	assert.Equal(t, "tool", secondCall[len(secondCall)-1].Role)
}

func TestRunToolErrorIsReturnedAsResultText(t *testing.T) {
	adapter := &fakeAdapter{turns: []*Turn{
		{ToolCalls: []ToolCall{{ID: "call-1", Name: "water_quality_readings", Arguments: "{}"}}},
		{Text: "не получилось"},
	}}
	orchestrator := NewOrchestrator(12)

	registry := map[string]ToolFunc{
		"water_quality_readings": func(_ context.Context, _ string) (string, error) {
			return "", fmt.Errorf("upstream down")
		},
	}

	_, err := orchestrator.Run(context.Background(), adapter,
		[]Message{TextMessage("user", "показания")}, nil, registry)
	require.NoError(t, err)

	secondCall := adapter.seen[1]
	last := secondCall[len(secondCall)-1]
	assert.Equal(t, "Tool error: upstream down", last.JoinedText())
}

func TestRunRoundCeilingReturnsPartialResult(t *testing.T) {
	// model keeps asking for tools forever, never unique-exhausting
	round := 0
	adapter := &loopingAdapter{nextID: func() string {
		round++
		return fmt.Sprintf("call-%d", round)
	}}
	orchestrator := NewOrchestrator(3)

	registry := map[string]ToolFunc{
		"active_alerts": func(_ context.Context, _ string) (string, error) {
			return "[]", nil
		},
	}

	result, err := orchestrator.Run(context.Background(), adapter,
		[]Message{TextMessage("user", "алерты?")}, nil, registry)
	require.NoError(t, err)

	assert.True(t, result.Truncated)
	assert.NotEmpty(t, result.Text)
	assert.Equal(t, 3, result.Rounds)
}

// loopingAdapter always requests one more tool call.
type loopingAdapter struct {
	nextID func() string
}

func (l *loopingAdapter) Chat(_ context.Context, _ []Message, _ []ToolDefinition) (*Turn, error) {
	return &Turn{ToolCalls: []ToolCall{{ID: l.nextID(), Name: "active_alerts", Arguments: "{}"}}}, nil
}

func (l *loopingAdapter) IsAvailable(_ context.Context) bool { return true }

func (l *loopingAdapter) GetModelInfo() ModelInfo { return ModelInfo{Provider: "fake"} }
