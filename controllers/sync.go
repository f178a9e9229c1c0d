package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/Danidiaz0799/fungicloud/config"
	"github.com/Danidiaz0799/fungicloud/models"
	"github.com/Danidiaz0799/fungicloud/services"

	"github.com/gin-gonic/gin"
)

// RegisterServer registers a new local server or refreshes an existing one.
func RegisterServer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "server_id required"})
		return
	}
	if req.Name == "" {
		req.Name = "Local Server"
	}

	registry := services.NewRegistry(config.DB)
	server, err := registry.UpsertOnRegister(req.ServerID, userID, req.Name, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register server"})
		return
	}

	log.Printf("server registered: %s for user %d", server.ServerID, userID)
	c.JSON(http.StatusOK, gin.H{"server": server})
}

// ReceiveSyncData ingests an aggregate payload from a local server.
func ReceiveSyncData(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var payload models.SyncPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "server_id required"})
		return
	}

	registry := services.NewRegistry(config.DB)
	data, err := registry.Ingest(userID, &payload, c.ClientIP())
	if err != nil {
		if errors.Is(err, services.ErrNotRegistered) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Server not registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store sync data"})
		return
	}

	// Push the fresh reading to any connected dashboard clients.
	BroadcastSyncUpdate(userID, data)

	log.Printf("sync data stored for server %s", payload.ServerID)
	c.JSON(http.StatusOK, gin.H{"message": "Data synchronized"})
}

// ListServers returns the caller's registered servers.
func ListServers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	registry := services.NewRegistry(config.DB)
	servers, err := registry.ListByOwner(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch servers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"servers": servers, "count": len(servers)})
}
