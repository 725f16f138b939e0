package services

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"aquabot-ai/internal/apis/dtos"
	"aquabot-ai/internal/models"
	"aquabot-ai/internal/repositories"
	"aquabot-ai/pkg/actionapi"
)

// TelemetryService pulls readings from the IoT water meter API and
// stores them in the relational telemetry store.
type TelemetryService interface {
	Sync(ctx context.Context, req *dtos.TelemetrySyncRequest) (int, uint, error)
	RecentReadings(equipmentID string, hours, limit int) ([]*models.WaterReading, uint, error)
}

type telemetryService struct {
	meterClient *actionapi.Client
	readingRepo repositories.ReadingRepository
}

func NewTelemetryService(meterClient *actionapi.Client, readingRepo repositories.ReadingRepository) TelemetryService {
	return &telemetryService{
		meterClient: meterClient,
		readingRepo: readingRepo,
	}
}

// meterReading is the wire shape of one measurement from the meter API.
type meterReading struct {
	MeterID    string    `json:"meter_id"`
	Parameter  string    `json:"parameter"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit"`
	MeasuredAt time.Time `json:"measured_at"`
}

// Sync fetches the latest measurements for a piece of equipment and
// writes them as a batch. Returns the number of stored readings.
func (s *telemetryService) Sync(ctx context.Context, req *dtos.TelemetrySyncRequest) (int, uint, error) {
	params := map[string]string{
		"equipment_id": req.EquipmentID,
		"meter_id":     req.MeterID,
	}

	data, err := s.meterClient.Get(ctx, "getReadings", params)
	if err != nil {
		log.Printf("TelemetryService -> meter fetch failed: %v", err)
		return 0, statusFromAPIError(err), err
	}

	var fetched []meterReading
	if err := json.Unmarshal(data, &fetched); err != nil {
		return 0, http.StatusBadGateway, err
	}

	readings := make([]*models.WaterReading, 0, len(fetched))
	for _, raw := range fetched {
		readings = append(readings, &models.WaterReading{
			EquipmentID: req.EquipmentID,
			MeterID:     raw.MeterID,
			Parameter:   raw.Parameter,
			Value:       raw.Value,
			Unit:        raw.Unit,
			MeasuredAt:  raw.MeasuredAt,
		})
	}

	if err := s.readingRepo.CreateBatch(readings); err != nil {
		return 0, http.StatusInternalServerError, err
	}
	return len(readings), http.StatusOK, nil
}

func (s *telemetryService) RecentReadings(equipmentID string, hours, limit int) ([]*models.WaterReading, uint, error) {
	if hours <= 0 {
		hours = 24
	}
	if limit <= 0 {
		limit = 100
	}

	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	readings, err := s.readingRepo.FindByEquipmentID(equipmentID, since, limit)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return readings, http.StatusOK, nil
}
