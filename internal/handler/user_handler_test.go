package handler

import (
	"net/http"
	"strings"
	"testing"

	"transcendence/backend/internal/database"
	"transcendence/backend/internal/models"

	"golang.org/x/crypto/bcrypt"
)

func TestDefaultLanding(t *testing.T) {
	router := setupTest(t)

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		w := doJSON(t, router, method, "/", nil, "")
		expectStatus(t, w, http.StatusOK)
		if w.Body.String() != "Nothing to see here." {
			t.Errorf("%s /: body = %q", method, w.Body.String())
		}
	}
}

func TestAddUser(t *testing.T) {
	router := setupTest(t)

	w := doJSON(t, router, http.MethodPost, "/api/users/add", map[string]interface{}{
		"name":     "marvin",
		"alias":    "mrvn",
		"password": "password123",
		"email":    "marvin@example.com",
	}, "")
	expectStatus(t, w, http.StatusCreated)

	body := decodeBody(t, w)
	if body["name"] != "marvin" || body["alias"] != "mrvn" || body["email"] != "marvin@example.com" {
		t.Errorf("unexpected identity fields in %v", body)
	}
	if body["wins"] != float64(0) || body["losses"] != float64(0) {
		t.Errorf("fresh user has non-zero stats: %v", body)
	}
	if _, leaked := body["password"]; leaked {
		t.Error("password echoed in response")
	}

	// The stored hash must verify against the original password.
	var user models.User
	if err := database.DB.Where("name = ?", "marvin").First(&user).Error; err != nil {
		t.Fatalf("user not persisted: %v", err)
	}
	if user.PasswordHash == "password123" {
		t.Error("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestAddUserMissingFields(t *testing.T) {
	router := setupTest(t)

	w := doJSON(t, router, http.MethodPost, "/api/users/add", map[string]interface{}{
		"name":  "marvin",
		"alias": "mrvn",
	}, "")
	expectStatus(t, w, http.StatusBadRequest)

	body := decodeBody(t, w)
	if body["error"] != "All fields are required" {
		t.Errorf("error = %v, want field message", body["error"])
	}
}

func TestAddUserWrongMethod(t *testing.T) {
	router := setupTest(t)

	w := doJSON(t, router, http.MethodGet, "/api/users/add", nil, "")
	expectStatus(t, w, http.StatusMethodNotAllowed)

	body := decodeBody(t, w)
	if body["error"] != "Only POST requests are allowed" {
		t.Errorf("error = %v, want method message", body["error"])
	}
}

func TestDeleteUser(t *testing.T) {
	router := setupTest(t)
	seedUser(t, "marvin", "mrvn", "pw")

	w := doJSON(t, router, http.MethodDelete, "/api/users/delete", map[string]interface{}{
		"name": "marvin",
	}, "")
	expectStatus(t, w, http.StatusOK)

	body := decodeBody(t, w)
	if body["user"] != "deleted" {
		t.Errorf("body = %v, want user deleted confirmation", body)
	}
}

func TestDeleteUserUnknownName(t *testing.T) {
	router := setupTest(t)

	w := doJSON(t, router, http.MethodDelete, "/api/users/delete", map[string]interface{}{
		"name": "ghost",
	}, "")
	expectStatus(t, w, http.StatusNotFound)

	body := decodeBody(t, w)
	if msg, _ := body["error"].(string); !strings.Contains(msg, "ghost") {
		t.Errorf("error %q does not name the attempted user", msg)
	}
}

func TestDeleteUserMissingName(t *testing.T) {
	router := setupTest(t)

	w := doJSON(t, router, http.MethodDelete, "/api/users/delete", map[string]interface{}{}, "")
	expectStatus(t, w, http.StatusBadRequest)

	body := decodeBody(t, w)
	if body["error"] != "No name provided" {
		t.Errorf("error = %v, want name message", body["error"])
	}
}

func TestDeleteUserAnonymizesMatchHistory(t *testing.T) {
	router := setupTest(t)
	left := seedUser(t, "marvin", "mrvn", "pw")
	right := seedUser(t, "zaphod", "zphd", "pw")

	match := models.Match{
		LeftPlayerID:  left.ID,
		RightPlayerID: right.ID,
		WinnerID:      left.ID,
		LoserID:       right.ID,
		Result:        "11-3",
	}
	if err := database.DB.Create(&match).Error; err != nil {
		t.Fatalf("failed to seed match: %v", err)
	}

	w := doJSON(t, router, http.MethodDelete, "/api/users/delete", map[string]interface{}{
		"name": "marvin",
	}, "")
	expectStatus(t, w, http.StatusOK)

	anon, err := models.Anonymize(database.DB)
	if err != nil {
		t.Fatalf("Anonymize failed: %v", err)
	}

	var reloaded models.Match
	if err := database.DB.First(&reloaded, match.ID).Error; err != nil {
		t.Fatalf("match deleted along with user: %v", err)
	}
	if reloaded.LeftPlayerID != anon.ID || reloaded.WinnerID != anon.ID {
		t.Errorf("match references not anonymized: left=%d winner=%d, want %d",
			reloaded.LeftPlayerID, reloaded.WinnerID, anon.ID)
	}
}
