package llm

import (
	"context"
	"fmt"
	"log"
)

// loopState tracks where the agent loop stands. The loop is a plain
// state machine: model turn, tool execution, done.
type loopState int

const (
	stateAwaitingModelTurn loopState = iota
	stateExecutingTools
	stateDone
)

// RunResult is the outcome of one agent run.
type RunResult struct {
	Text       string
	ToolsUsed  []string
	TokensUsed int
	Rounds     int
	// Truncated is set when the round ceiling cut the loop short.
	Truncated bool
}

// Orchestrator drives the model/tool loop until the model answers in
// plain text or the round ceiling is hit.
type Orchestrator struct {
	maxRounds int
}

func NewOrchestrator(maxRounds int) *Orchestrator {
	if maxRounds <= 0 {
		maxRounds = 12
	}
	return &Orchestrator{maxRounds: maxRounds}
}

// Run executes the agent loop. Tool calls requested by the model are
// dispatched through registry, results are appended as tool messages
// and the model is asked again. Hitting the round ceiling returns a
// partial result, not an error.
func (o *Orchestrator) Run(ctx context.Context, adapter Adapter, messages []Message, tools []ToolDefinition, registry map[string]ToolFunc) (*RunResult, error) {
	result := &RunResult{}
	state := stateAwaitingModelTurn

	var turn *Turn
	for state != stateDone {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		switch state {
		case stateAwaitingModelTurn:
			if result.Rounds >= o.maxRounds {
				log.Printf("Orchestrator -> round ceiling %d hit, returning partial result", o.maxRounds)
				result.Truncated = true
				if result.Text == "" {
					result.Text = "Не удалось завершить обработку запроса за отведённое число шагов. Попробуйте сформулировать вопрос проще."
				}
				state = stateDone
				continue
			}

			var err error
			turn, err = adapter.Chat(ctx, messages, tools)
			if err != nil {
				return nil, fmt.Errorf("model turn failed: %v", err)
			}
			result.Rounds++
			result.TokensUsed += turn.TokensUsed

			if turn.Text != "" {
				result.Text = turn.Text
			}
			if len(turn.ToolCalls) == 0 {
				state = stateDone
				continue
			}
			state = stateExecutingTools

		case stateExecutingTools:
			// dedupe ids within this turn only: providers may reuse ids
			// across rounds, and every kept call must get a result
			seenCallIDs := make(map[string]bool)
			calls := make([]ToolCall, 0, len(turn.ToolCalls))
			for _, call := range turn.ToolCalls {
				if seenCallIDs[call.ID] {
					log.Printf("Orchestrator -> duplicate tool call id %s, skipping", call.ID)
					continue
				}
				seenCallIDs[call.ID] = true
				calls = append(calls, call)
			}

			assistantMsg := Message{Role: "assistant", ToolCalls: calls}
			if turn.Text != "" {
				assistantMsg.Blocks = []ContentBlock{{Type: "text", Text: turn.Text}}
			}
			messages = append(messages, assistantMsg)

			for _, call := range calls {
				output := o.executeTool(ctx, registry, call)
				messages = append(messages, Message{
					Role:       "tool",
					ToolCallID: call.ID,
					ToolName:   call.Name,
					Blocks:     []ContentBlock{{Type: "text", Text: output}},
				})
				result.ToolsUsed = append(result.ToolsUsed, call.Name)
			}
			state = stateAwaitingModelTurn
		}
	}

	return result, nil
}

func (o *Orchestrator) executeTool(ctx context.Context, registry map[string]ToolFunc, call ToolCall) string {
	toolFunc, known := registry[call.Name]
	if !known {
		log.Printf("Orchestrator -> unknown tool requested: %s", call.Name)
		return fmt.Sprintf("Unknown tool: %s", call.Name)
	}

	output, err := toolFunc(ctx, call.Arguments)
	if err != nil {
		log.Printf("Orchestrator -> tool %s failed: %v", call.Name, err)
		return fmt.Sprintf("Tool error: %v", err)
	}
	return output
}
