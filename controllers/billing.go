package controllers

import (
	"net/http"

	"github.com/Danidiaz0799/fungicloud/config"
	"github.com/Danidiaz0799/fungicloud/models"

	"github.com/gin-gonic/gin"
)

// GetPlans returns the static plan catalog.
func GetPlans(c *gin.Context) {
	plans := []gin.H{
		{"plan_type": models.PlanFree, "price": models.PlanPrices[models.PlanFree], "max_servers": 1},
		{"plan_type": models.PlanStarter, "price": models.PlanPrices[models.PlanStarter], "max_servers": 3},
		{"plan_type": models.PlanAdvance, "price": models.PlanPrices[models.PlanAdvance], "max_servers": 10},
		{"plan_type": models.PlanExpert, "price": models.PlanPrices[models.PlanExpert], "max_servers": 50},
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans, "currency": "USD"})
}

// GetSubscription returns the caller's current billing row.
func GetSubscription(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var billing models.UserBilling
	if err := config.DB.Where("user_id = ?", userID).First(&billing).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Billing record not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscription": billing})
}
