package services

import (
	"errors"
	"net/http"

	"aquabot-ai/internal/apis/dtos"
	"aquabot-ai/internal/models"
	"aquabot-ai/internal/repositories"
)

type AlertService interface {
	Create(userID string, req *dtos.CreateAlertRequest) (*models.Alert, uint, error)
	ListActive(userID string, limit int) ([]*models.Alert, uint, error)
	Resolve(userID string, id uint) (uint, error)
}

type alertService struct {
	alertRepo repositories.AlertRepository
}

func NewAlertService(alertRepo repositories.AlertRepository) AlertService {
	return &alertService{alertRepo: alertRepo}
}

func (s *alertService) Create(userID string, req *dtos.CreateAlertRequest) (*models.Alert, uint, error) {
	alert := &models.Alert{
		UserID:      userID,
		EquipmentID: req.EquipmentID,
		Parameter:   req.Parameter,
		Severity:    req.Severity,
		Message:     req.Message,
		Value:       req.Value,
		Threshold:   req.Threshold,
	}
	if err := s.alertRepo.Create(alert); err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return alert, http.StatusCreated, nil
}

func (s *alertService) ListActive(userID string, limit int) ([]*models.Alert, uint, error) {
	if limit <= 0 {
		limit = 50
	}
	alerts, err := s.alertRepo.FindActiveByUserID(userID, limit)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return alerts, http.StatusOK, nil
}

func (s *alertService) Resolve(userID string, id uint) (uint, error) {
	if userID == "" {
		return http.StatusUnauthorized, errors.New("missing user")
	}
	if err := s.alertRepo.Resolve(userID, id); err != nil {
		if errors.Is(err, repositories.ErrAlertNotFound) {
			return http.StatusNotFound, err
		}
		return http.StatusInternalServerError, err
	}
	return http.StatusOK, nil
}
