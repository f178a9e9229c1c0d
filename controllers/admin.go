package controllers

import (
	"net/http"
	"time"

	"github.com/Danidiaz0799/fungicloud/config"
	"github.com/Danidiaz0799/fungicloud/models"

	"github.com/gin-gonic/gin"
)

// GetDashboard returns platform-wide stats for admins.
func GetDashboard(c *gin.Context) {
	db := config.DB

	var totalUsers int64
	db.Model(&models.User{}).Where("is_active = ?", true).Count(&totalUsers)

	type planCount struct {
		PlanType string
		Count    int64
	}
	var byPlan []planCount
	db.Model(&models.UserBilling{}).
		Select("plan_type, count(id) as count").
		Group("plan_type").
		Scan(&byPlan)

	planStats := make(map[string]int64)
	mrr := 0.0
	for _, p := range byPlan {
		planStats[p.PlanType] = p.Count
		mrr += float64(p.Count) * models.PlanPrices[p.PlanType]
	}

	var totalServers, serversOnline int64
	db.Model(&models.LocalServer{}).Count(&totalServers)
	db.Model(&models.LocalServer{}).Where("status = ?", models.StatusOnline).Count(&serversOnline)

	var totalClients, clientsOnline int64
	db.Model(&models.LocalServer{}).Select("coalesce(sum(clients_count), 0)").Scan(&totalClients)
	db.Model(&models.LocalServer{}).Select("coalesce(sum(clients_online), 0)").Scan(&clientsOnline)

	var recentSyncs []models.SyncData
	db.Order("received_at desc").Limit(10).Find(&recentSyncs)

	threshold := time.Now().Add(-30 * time.Minute)
	var staleServers []models.LocalServer
	db.Where("last_seen < ?", threshold).Find(&staleServers)

	c.JSON(http.StatusOK, gin.H{
		"dashboard": gin.H{
			"users": gin.H{
				"total":   totalUsers,
				"by_plan": planStats,
			},
			"servers": gin.H{
				"total":   totalServers,
				"online":  serversOnline,
				"offline": totalServers - serversOnline,
			},
			"clients": gin.H{
				"total":   totalClients,
				"online":  clientsOnline,
				"offline": totalClients - clientsOnline,
			},
			"revenue": gin.H{
				"mrr":      mrr,
				"currency": "USD",
			},
			"recent_syncs":    recentSyncs,
			"offline_servers": staleServers,
		},
	})
}

// ListAllUsers returns every user with billing info and server counts.
func ListAllUsers(c *gin.Context) {
	var users []models.User
	if err := config.DB.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch users"})
		return
	}

	now := time.Now()
	onlineWindow := config.LoadSettings().OnlineWindow

	result := make([]gin.H, 0, len(users))
	for _, user := range users {
		var billing models.UserBilling
		config.DB.Where("user_id = ?", user.ID).First(&billing)

		var servers []models.LocalServer
		config.DB.Where("user_id = ?", user.ID).Find(&servers)

		online := 0
		for i := range servers {
			if servers[i].IsOnline(now, onlineWindow) {
				online++
			}
		}

		result = append(result, gin.H{
			"user":           user,
			"billing":        billing,
			"servers_count":  len(servers),
			"servers_online": online,
		})
	}

	c.JSON(http.StatusOK, gin.H{"users": result, "count": len(result)})
}
