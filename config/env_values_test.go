package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFailsWhenEquipmentAPIBaseURLMissing(t *testing.T) {
	t.Setenv("IS_DOCKER", "true")
	t.Setenv("EQUIPMENT_API_BASE_URL", "")

	err := LoadEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EQUIPMENT_API_BASE_URL")
}

func TestLoadEnvSucceedsWithEquipmentAPIBaseURLSet(t *testing.T) {
	t.Setenv("IS_DOCKER", "true")
	t.Setenv("EQUIPMENT_API_BASE_URL", "https://sheets.example.com/api")

	err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://sheets.example.com/api", Env.EquipmentAPIBaseURL)
}
