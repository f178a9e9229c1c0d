package controllers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/Danidiaz0799/fungicloud/config"
	"github.com/Danidiaz0799/fungicloud/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStaleServer(t *testing.T, userID uint, serverID string, ago time.Duration) *models.LocalServer {
	t.Helper()
	lastSeen := time.Now().Add(-ago)
	server := models.LocalServer{
		UserID:        userID,
		ServerID:      serverID,
		Name:          "Server " + serverID,
		Status:        models.StatusOnline,
		LastSeen:      &lastSeen,
		AlertsEnabled: true,
	}
	require.NoError(t, config.DB.Create(&server).Error)
	return &server
}

func TestOfflineServersDefaultThreshold(t *testing.T) {
	r := setupTest(t)
	user, token := createUser(t, "owner@example.com", false)

	seedStaleServer(t, user.ID, "stale", 40*time.Minute)
	seedStaleServer(t, user.ID, "fresh", 5*time.Minute)

	w := doJSON(t, r, http.MethodGet, "/alerts/servers/offline", token, nil)
	requireStatus(t, w, http.StatusOK)
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, float64(30), body["threshold_minutes"])

	listed := body["offline_servers"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "stale", listed["server_id"])
}

func TestOfflineServersCustomThreshold(t *testing.T) {
	r := setupTest(t)
	user, token := createUser(t, "owner@example.com", false)

	seedStaleServer(t, user.ID, "stale", 40*time.Minute)

	w := doJSON(t, r, http.MethodGet, "/alerts/servers/offline?threshold=60", token, nil)
	requireStatus(t, w, http.StatusOK)
	body := decodeBody(t, w)
	assert.Equal(t, float64(0), body["count"])
}

func TestOfflineServersScopedToCaller(t *testing.T) {
	r := setupTest(t)
	other, _ := createUser(t, "other@example.com", false)
	_, token := createUser(t, "owner@example.com", false)

	seedStaleServer(t, other.ID, "theirs", 40*time.Minute)

	w := doJSON(t, r, http.MethodGet, "/alerts/servers/offline", token, nil)
	requireStatus(t, w, http.StatusOK)
	body := decodeBody(t, w)
	assert.Equal(t, float64(0), body["count"])
}

func TestUpdateAlertSettings(t *testing.T) {
	r := setupTest(t)
	user, token := createUser(t, "owner@example.com", false)
	server := seedStaleServer(t, user.ID, "S1", time.Minute)

	path := fmt.Sprintf("/alerts/servers/%d/settings", server.ID)
	w := doJSON(t, r, http.MethodPut, path, token, map[string]interface{}{
		"alerts_enabled": false,
		"alert_email":    "ops@example.com",
	})
	requireStatus(t, w, http.StatusOK)

	var updated models.LocalServer
	require.NoError(t, config.DB.First(&updated, server.ID).Error)
	assert.False(t, updated.AlertsEnabled)
	assert.Equal(t, "ops@example.com", updated.AlertEmail)
}

func TestUpdateAlertSettingsWrongOwner(t *testing.T) {
	r := setupTest(t)
	owner, _ := createUser(t, "owner@example.com", false)
	_, otherToken := createUser(t, "other@example.com", false)
	server := seedStaleServer(t, owner.ID, "S1", time.Minute)

	path := fmt.Sprintf("/alerts/servers/%d/settings", server.ID)
	w := doJSON(t, r, http.MethodPut, path, otherToken, map[string]interface{}{"alerts_enabled": false})
	requireStatus(t, w, http.StatusNotFound)
}
