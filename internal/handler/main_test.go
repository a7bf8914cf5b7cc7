package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"transcendence/backend/internal/auth"
	"transcendence/backend/internal/config"
	"transcendence/backend/internal/database"
	"transcendence/backend/internal/models"
	"transcendence/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTest points the package globals at an isolated in-memory database
// and returns a router with the full route table.
func setupTest(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	database.DB = db

	router := gin.New()
	router.Any("/", Default)
	api := router.Group("/api")
	api.Any("/users/add", AddUser)
	api.Any("/users/delete", DeleteUser)
	api.Any("/tournaments/add", AddTournament)
	api.Any("/tournaments/delete", DeleteTournament)

	v1 := api.Group("/v1")
	v1.POST("/auth/login", LoginUser)
	protected := v1.Group("")
	protected.Use(auth.AuthMiddleware())
	protected.POST("/auth/logout", LogoutUser)
	protected.GET("/users/me", GetMe)
	protected.GET("/friends", GetFriends)
	protected.POST("/friends/:id", AddFriendHandler)
	protected.DELETE("/friends/:id", RemoveFriendHandler)
	protected.POST("/matches", CreateMatch)
	protected.GET("/matches", GetMatches)
	protected.GET("/matches/:id", GetMatchByID)
	protected.POST("/chats", CreateChat)
	protected.GET("/chats", GetChats)
	protected.DELETE("/chats/:id", DeleteChat)
	protected.GET("/chats/:id/messages", GetChatMessages)
	protected.POST("/chats/:id/messages", SendMessage)

	return router
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a JSON response body into a generic map.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func seedUser(t *testing.T, name, alias, password string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{Name: name, Alias: alias, PasswordHash: string(hash), Email: name + "@example.com"}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", name, err)
	}
	return &user
}

func tokenFor(t *testing.T, user *models.User) string {
	t.Helper()

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()

	if w.Code != want {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, want, w.Body.String())
	}
}
