package handler

import (
	"net/http"
	"testing"

	"transcendence/backend/internal/database"
	"transcendence/backend/internal/models"
)

func TestLoginIssuesTokenAndMarksOnline(t *testing.T) {
	router := setupTest(t)
	user := seedUser(t, "marvin", "mrvn", "password123")

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", map[string]interface{}{
		"login":    "mrvn",
		"password": "password123",
	}, "")
	expectStatus(t, w, http.StatusOK)

	body := decodeBody(t, w)
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("login response carries no token")
	}

	var reloaded models.User
	if err := database.DB.First(&reloaded, user.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if !reloaded.IsOnline {
		t.Error("user not marked online after login")
	}
	if reloaded.LastLogin.IsZero() {
		t.Error("last login timestamp not set")
	}

	// The token must be accepted by the protected routes.
	w = doJSON(t, router, http.MethodGet, "/api/v1/users/me", nil, token)
	expectStatus(t, w, http.StatusOK)
	me := decodeBody(t, w)
	if me["alias"] != "mrvn" {
		t.Errorf("me endpoint returned alias %v, want mrvn", me["alias"])
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	router := setupTest(t)
	seedUser(t, "marvin", "mrvn", "password123")

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", map[string]interface{}{
		"login":    "marvin",
		"password": "wrong",
	}, "")
	expectStatus(t, w, http.StatusUnauthorized)
}

func TestLoginUnknownUser(t *testing.T) {
	router := setupTest(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", map[string]interface{}{
		"login":    "nobody",
		"password": "password123",
	}, "")
	expectStatus(t, w, http.StatusNotFound)
}

func TestLogoutMarksOffline(t *testing.T) {
	router := setupTest(t)
	user := seedUser(t, "marvin", "mrvn", "password123")
	database.DB.Model(user).Update("is_online", true)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/logout", nil, tokenFor(t, user))
	expectStatus(t, w, http.StatusOK)

	var reloaded models.User
	if err := database.DB.First(&reloaded, user.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if reloaded.IsOnline {
		t.Error("user still marked online after logout")
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := setupTest(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/users/me", nil, "")
	expectStatus(t, w, http.StatusUnauthorized)
}
