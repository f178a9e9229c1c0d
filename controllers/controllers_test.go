package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/Danidiaz0799/fungicloud/config"
	"github.com/Danidiaz0799/fungicloud/middlewares"
	"github.com/Danidiaz0799/fungicloud/models"
	"github.com/Danidiaz0799/fungicloud/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq int64

func setupTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:controllers_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	config.DB = db

	r := gin.New()
	r.POST("/auth/register", Signup)
	r.POST("/auth/login", Login)

	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	auth.GET("/auth/profile", GetProfile)
	auth.POST("/sync/register", RegisterServer)
	auth.POST("/sync/data", ReceiveSyncData)
	auth.GET("/sync/servers", ListServers)
	auth.GET("/alerts/servers/offline", GetOfflineServers)
	auth.PUT("/alerts/servers/:id/settings", UpdateAlertSettings)
	auth.GET("/billing/plans", GetPlans)
	auth.GET("/billing/subscription", GetSubscription)

	admin := auth.Group("/admin")
	admin.Use(middlewares.AdminMiddleware())
	admin.GET("/dashboard", GetDashboard)
	admin.GET("/users", ListAllUsers)

	return r
}

func createUser(t *testing.T, email string, isAdmin bool) (*models.User, string) {
	t.Helper()
	user := models.User{Email: email, Password: "x", IsAdmin: isAdmin, IsActive: true}
	require.NoError(t, config.DB.Create(&user).Error)

	token, err := utils.CreateToken(&user)
	require.NoError(t, err)
	return &user, token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "10.0.0.9:51234"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "body: %s", w.Body.String())
}
