package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"aquabot-ai/internal/repositories"
	"aquabot-ai/pkg/actionapi"
	"aquabot-ai/pkg/llm"
)

// Registry holds the tools the assistant can call during a chat turn.
type Registry struct {
	equipmentClient *actionapi.Client
	readingRepo     repositories.ReadingRepository
	alertRepo       repositories.AlertRepository
}

func NewRegistry(equipmentClient *actionapi.Client, readingRepo repositories.ReadingRepository, alertRepo repositories.AlertRepository) *Registry {
	return &Registry{
		equipmentClient: equipmentClient,
		readingRepo:     readingRepo,
		alertRepo:       alertRepo,
	}
}

// Definitions returns the tool schemas advertised to the model.
func (r *Registry) Definitions() []llm.ToolDefinition {
	return []llm.ToolDefinition{
		{
			Name:        "equipment_lookup",
			Description: "Look up water treatment equipment by id or search by name. Returns equipment details: model, location, status, installation date.",
			Properties: map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Equipment id. Leave empty to search by query instead.",
				},
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Free text search over equipment names and models.",
				},
			},
		},
		{
			Name:        "water_quality_readings",
			Description: "Fetch recent water quality readings for a piece of equipment: pH, hardness, turbidity, chlorine and other parameters.",
			Properties: map[string]interface{}{
				"equipment_id": map[string]interface{}{
					"type":        "string",
					"description": "Equipment id to fetch readings for.",
				},
				"hours": map[string]interface{}{
					"type":        "integer",
					"description": "How many hours back to look. Defaults to 24.",
				},
			},
			Required: []string{"equipment_id"},
		},
		{
			Name:        "active_alerts",
			Description: "List unresolved water quality and equipment alerts for the current user.",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of alerts to return. Defaults to 10.",
				},
			},
		},
	}
}

// Funcs returns the executable side of the registry, bound to the
// calling user.
func (r *Registry) Funcs(userID string) map[string]llm.ToolFunc {
	return map[string]llm.ToolFunc{
		"equipment_lookup":       r.equipmentLookup,
		"water_quality_readings": r.waterQualityReadings,
		"active_alerts": func(ctx context.Context, arguments string) (string, error) {
			return r.activeAlerts(ctx, userID, arguments)
		},
	}
}

func (r *Registry) equipmentLookup(ctx context.Context, arguments string) (string, error) {
	var args struct {
		ID    string `json:"id"`
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %v", err)
	}

	if args.ID != "" {
		data, err := r.equipmentClient.Get(ctx, "getEquipment", map[string]string{"id": args.ID})
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	data, err := r.equipmentClient.Get(ctx, "searchEquipment", map[string]string{"query": args.Query})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (r *Registry) waterQualityReadings(ctx context.Context, arguments string) (string, error) {
	var args struct {
		EquipmentID string `json:"equipment_id"`
		Hours       int    `json:"hours"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %v", err)
	}
	if args.EquipmentID == "" {
		return "", fmt.Errorf("equipment_id is required")
	}
	if args.Hours <= 0 {
		args.Hours = 24
	}

	since := time.Now().Add(-time.Duration(args.Hours) * time.Hour)
	readings, err := r.readingRepo.FindByEquipmentID(args.EquipmentID, since, 100)
	if err != nil {
		return "", err
	}
	if len(readings) == 0 {
		return fmt.Sprintf("No readings for equipment %s in the last %d hours.", args.EquipmentID, args.Hours), nil
	}

	encoded, err := json.Marshal(readings)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func (r *Registry) activeAlerts(_ context.Context, userID, arguments string) (string, error) {
	var args struct {
		Limit int `json:"limit"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %v", err)
	}
	if args.Limit <= 0 {
		args.Limit = 10
	}

	alerts, err := r.alertRepo.FindActiveByUserID(userID, args.Limit)
	if err != nil {
		return "", err
	}
	if len(alerts) == 0 {
		return "No active alerts.", nil
	}

	encoded, err := json.Marshal(alerts)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}
