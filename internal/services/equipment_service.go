package services

import (
	"context"
	"encoding/json"
	"net/http"

	"aquabot-ai/internal/apis/dtos"
	"aquabot-ai/pkg/actionapi"
)

// EquipmentService proxies equipment CRUD to the upstream action API.
// The upstream owns the data, this service owns transport policy and
// error mapping.
type EquipmentService interface {
	List(ctx context.Context, req *dtos.EquipmentListRequest) (json.RawMessage, uint, error)
	Get(ctx context.Context, id string) (json.RawMessage, uint, error)
	Create(ctx context.Context, req *dtos.CreateEquipmentRequest) (json.RawMessage, uint, error)
	Update(ctx context.Context, id string, req *dtos.UpdateEquipmentRequest) (json.RawMessage, uint, error)
	Delete(ctx context.Context, id string) (uint, error)
}

type equipmentService struct {
	client *actionapi.Client
}

func NewEquipmentService(client *actionapi.Client) EquipmentService {
	return &equipmentService{client: client}
}

func (s *equipmentService) List(ctx context.Context, req *dtos.EquipmentListRequest) (json.RawMessage, uint, error) {
	data, err := s.client.Get(ctx, "listEquipment", map[string]string{
		"query":  req.Query,
		"status": req.Status,
	})
	if err != nil {
		return nil, statusFromAPIError(err), err
	}
	return data, http.StatusOK, nil
}

func (s *equipmentService) Get(ctx context.Context, id string) (json.RawMessage, uint, error) {
	data, err := s.client.Get(ctx, "getEquipment", map[string]string{"id": id})
	if err != nil {
		return nil, statusFromAPIError(err), err
	}
	return data, http.StatusOK, nil
}

func (s *equipmentService) Create(ctx context.Context, req *dtos.CreateEquipmentRequest) (json.RawMessage, uint, error) {
	body := map[string]interface{}{
		"name":          req.Name,
		"model":         req.Model,
		"serial_number": req.SerialNumber,
		"location":      req.Location,
		"status":        req.Status,
	}
	if req.InstalledAt != nil {
		body["installed_at"] = *req.InstalledAt
	}

	data, err := s.client.Post(ctx, "createEquipment", body)
	if err != nil {
		return nil, statusFromAPIError(err), err
	}
	return data, http.StatusCreated, nil
}

func (s *equipmentService) Update(ctx context.Context, id string, req *dtos.UpdateEquipmentRequest) (json.RawMessage, uint, error) {
	body := map[string]interface{}{"id": id}
	if req.Name != nil {
		body["name"] = *req.Name
	}
	if req.Model != nil {
		body["model"] = *req.Model
	}
	if req.Location != nil {
		body["location"] = *req.Location
	}
	if req.Status != nil {
		body["status"] = *req.Status
	}

	data, err := s.client.Post(ctx, "updateEquipment", body)
	if err != nil {
		return nil, statusFromAPIError(err), err
	}
	return data, http.StatusOK, nil
}

func (s *equipmentService) Delete(ctx context.Context, id string) (uint, error) {
	_, err := s.client.Post(ctx, "deleteEquipment", map[string]interface{}{"id": id})
	if err != nil {
		return statusFromAPIError(err), err
	}
	return http.StatusOK, nil
}

// statusFromAPIError maps transport errors onto the HTTP status the
// handler should answer with.
func statusFromAPIError(err error) uint {
	apiErr, ok := actionapi.AsError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch apiErr.Kind {
	case actionapi.ErrKindTimeout:
		return http.StatusGatewayTimeout
	case actionapi.ErrKindNetwork:
		return http.StatusBadGateway
	case actionapi.ErrKindHTTP:
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			return uint(apiErr.Status)
		}
		return http.StatusBadGateway
	case actionapi.ErrKindBusiness:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
