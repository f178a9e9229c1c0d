package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Danidiaz0799/fungicloud/config"
	"github.com/Danidiaz0799/fungicloud/models"

	"github.com/gin-gonic/gin"
)

// GetOfflineServers lists the caller's servers that have been silent longer
// than the threshold query parameter (minutes, default 30).
func GetOfflineServers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	thresholdMinutes := 30
	if v := c.Query("threshold"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			thresholdMinutes = n
		}
	}
	threshold := time.Now().Add(-time.Duration(thresholdMinutes) * time.Minute)

	var servers []models.LocalServer
	err := config.DB.Where("user_id = ? AND last_seen < ?", userID, threshold).Find(&servers).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch servers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"offline_servers":   servers,
		"count":             len(servers),
		"threshold_minutes": thresholdMinutes,
	})
}

type alertSettingsRequest struct {
	AlertsEnabled *bool   `json:"alerts_enabled"`
	AlertEmail    *string `json:"alert_email"`
}

// UpdateAlertSettings updates alerts_enabled / alert_email for one server.
func UpdateAlertSettings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req alertSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var server models.LocalServer
	err := config.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&server).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Server not found"})
		return
	}

	if req.AlertsEnabled != nil {
		server.AlertsEnabled = *req.AlertsEnabled
	}
	if req.AlertEmail != nil {
		server.AlertEmail = *req.AlertEmail
	}

	if err := config.DB.Save(&server).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"server": server})
}
