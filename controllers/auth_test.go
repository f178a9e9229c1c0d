package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/Danidiaz0799/fungicloud/config"
	"github.com/Danidiaz0799/fungicloud/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupCreatesUserOnFreePlan(t *testing.T) {
	r := setupTest(t)

	w := doJSON(t, r, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"email":    "New@Example.com",
		"password": "supersecret",
	})
	requireStatus(t, w, http.StatusCreated)
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["token"])

	var user models.User
	require.NoError(t, config.DB.Where("email = ?", "new@example.com").First(&user).Error)

	var billing models.UserBilling
	require.NoError(t, config.DB.Where("user_id = ?", user.ID).First(&billing).Error)
	assert.Equal(t, models.PlanFree, billing.PlanType)
}

func TestSignupRejectsShortPassword(t *testing.T) {
	r := setupTest(t)

	w := doJSON(t, r, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"email":    "new@example.com",
		"password": "short",
	})
	requireStatus(t, w, http.StatusBadRequest)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	r := setupTest(t)

	payload := map[string]interface{}{"email": "dup@example.com", "password": "supersecret"}
	w := doJSON(t, r, http.MethodPost, "/auth/register", "", payload)
	requireStatus(t, w, http.StatusCreated)

	w = doJSON(t, r, http.MethodPost, "/auth/register", "", payload)
	requireStatus(t, w, http.StatusConflict)
}

func TestLoginRoundTrip(t *testing.T) {
	r := setupTest(t)

	w := doJSON(t, r, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"email":    "user@example.com",
		"password": "supersecret",
	})
	requireStatus(t, w, http.StatusCreated)

	w = doJSON(t, r, http.MethodPost, "/auth/login", "", map[string]interface{}{
		"email":    "user@example.com",
		"password": "supersecret",
	})
	requireStatus(t, w, http.StatusOK)
	token := decodeBody(t, w)["token"].(string)

	w = doJSON(t, r, http.MethodGet, "/auth/profile", token, nil)
	requireStatus(t, w, http.StatusOK)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	r := setupTest(t)

	w := doJSON(t, r, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"email":    "user@example.com",
		"password": "supersecret",
	})
	requireStatus(t, w, http.StatusCreated)

	w = doJSON(t, r, http.MethodPost, "/auth/login", "", map[string]interface{}{
		"email":    "user@example.com",
		"password": "wrongwrong",
	})
	requireStatus(t, w, http.StatusUnauthorized)
}

func TestAdminRoutesRejectNonAdmins(t *testing.T) {
	r := setupTest(t)
	_, token := createUser(t, "user@example.com", false)

	w := doJSON(t, r, http.MethodGet, "/admin/dashboard", token, nil)
	requireStatus(t, w, http.StatusForbidden)
}

func TestAdminDashboard(t *testing.T) {
	r := setupTest(t)
	_, adminToken := createUser(t, "admin@example.com", true)
	user, _ := createUser(t, "user@example.com", false)
	seedStaleServer(t, user.ID, "S1", time.Minute)

	w := doJSON(t, r, http.MethodGet, "/admin/dashboard", adminToken, nil)
	requireStatus(t, w, http.StatusOK)
	body := decodeBody(t, w)
	dashboard := body["dashboard"].(map[string]interface{})
	servers := dashboard["servers"].(map[string]interface{})
	assert.Equal(t, float64(1), servers["total"])
	assert.Equal(t, float64(1), servers["online"])
}
