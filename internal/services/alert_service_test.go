package services

import (
	"net/http"
	"testing"

	"aquabot-ai/internal/models"
	"aquabot-ai/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAlertRepo struct {
	alerts []*models.Alert
}

func (f *fakeAlertRepo) Create(alert *models.Alert) error {
	alert.ID = uint(len(f.alerts) + 1)
	f.alerts = append(f.alerts, alert)
	return nil
}

func (f *fakeAlertRepo) FindActiveByUserID(userID string, limit int) ([]*models.Alert, error) {
	var out []*models.Alert
	for _, alert := range f.alerts {
		if alert.UserID == userID && !alert.Resolved && len(out) < limit {
			out = append(out, alert)
		}
	}
	return out, nil
}

func (f *fakeAlertRepo) FindByEquipmentID(_ string, _ int) ([]*models.Alert, error) {
	return nil, nil
}

// Resolve mirrors the SQL filter: id and user_id must both match.
func (f *fakeAlertRepo) Resolve(userID string, id uint) error {
	for _, alert := range f.alerts {
		if alert.ID == id && alert.UserID == userID {
			alert.Resolved = true
			return nil
		}
	}
	return repositories.ErrAlertNotFound
}

func TestResolveMarksOwnAlertResolved(t *testing.T) {
	repo := &fakeAlertRepo{}
	require.NoError(t, repo.Create(&models.Alert{UserID: "user-1", EquipmentID: "eq-1", Severity: "warning"}))
	service := NewAlertService(repo)

	statusCode, err := service.Resolve("user-1", 1)
	require.NoError(t, err)
	assert.Equal(t, uint(http.StatusOK), statusCode)
	assert.True(t, repo.alerts[0].Resolved)
}

func TestResolveRejectsForeignAlert(t *testing.T) {
	repo := &fakeAlertRepo{}
	require.NoError(t, repo.Create(&models.Alert{UserID: "user-1", EquipmentID: "eq-1", Severity: "critical"}))
	service := NewAlertService(repo)

	statusCode, err := service.Resolve("user-2", 1)
	require.Error(t, err)
	assert.Equal(t, uint(http.StatusNotFound), statusCode)
	assert.False(t, repo.alerts[0].Resolved)
}

func TestResolveRequiresUser(t *testing.T) {
	service := NewAlertService(&fakeAlertRepo{})

	statusCode, err := service.Resolve("", 1)
	require.Error(t, err)
	assert.Equal(t, uint(http.StatusUnauthorized), statusCode)
}
