package handler

import (
	"errors"
	"fmt"
	"net/http"

	"transcendence/backend/internal/database"
	"transcendence/backend/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// region --- DTOs ---

// AddUserInput defines the structure for user signup.
type AddUserInput struct {
	Name     string `json:"name" example:"marvin"`
	Alias    string `json:"alias" example:"mrvn"`
	Password string `json:"password" example:"password123"`
	Email    string `json:"email" example:"marvin@example.com"`
}

// DeleteUserInput identifies the user to delete by name.
type DeleteUserInput struct {
	Name string `json:"name" example:"marvin"`
}

// UserResponse defines the structure for a created user. The password hash
// is never echoed back.
type UserResponse struct {
	ID     uint   `json:"id" example:"1"`
	Name   string `json:"name" example:"marvin"`
	Alias  string `json:"alias" example:"mrvn"`
	Email  string `json:"email" example:"marvin@example.com"`
	Wins   int    `json:"wins" example:"0"`
	Losses int    `json:"losses" example:"0"`
}

// PrivateUserResponse defines the structure for the authenticated user's own profile.
type PrivateUserResponse struct {
	ID           uint   `json:"id" example:"1"`
	Name         string `json:"name" example:"marvin"`
	Alias        string `json:"alias" example:"mrvn"`
	Email        string `json:"email" example:"marvin@example.com"`
	IsOnline     bool   `json:"is_online"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	FriendsCount int64  `json:"friends_count"`
}

// PublicUserResponse defines the structure for another user's public profile.
type PublicUserResponse struct {
	ID     uint   `json:"id" example:"2"`
	Alias  string `json:"alias" example:"zaphod"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// endregion

// region --- Public Handlers ---

// Default godoc
// @Summary      Landing stub
// @Description  Returns a fixed plain-text placeholder for any request.
// @Tags         misc
// @Produce      plain
// @Success      200  {string}  string
// @Router       / [get]
func Default(c *gin.Context) {
	c.String(http.StatusOK, "Nothing to see here.")
}

// AddUser godoc
// @Summary      Create a user
// @Description  Creates a new user account. The password is hashed before storage.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        input body AddUserInput true "Signup Info"
// @Success      201  {object}  UserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      405  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /users/add [post]
func AddUser(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Only POST requests are allowed"})
		return
	}

	var input AddUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if input.Name == "" || input.Alias == "" || input.Password == "" || input.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	user := models.User{
		Name:         input.Name,
		Alias:        input.Alias,
		PasswordHash: string(hashedPassword),
		Email:        input.Email,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, UserResponse{
		ID:     user.ID,
		Name:   user.Name,
		Alias:  user.Alias,
		Email:  user.Email,
		Wins:   user.Wins,
		Losses: user.Losses,
	})
}

// DeleteUser godoc
// @Summary      Delete a user
// @Description  Deletes a user by name. Historical records referencing the user are rebound to the anonymous placeholder rather than removed.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        input body DeleteUserInput true "User name"
// @Success      200  {object}  map[string]string "{"user": "deleted"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      405  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /users/delete [delete]
func DeleteUser(c *gin.Context) {
	if c.Request.Method != http.MethodDelete {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Only DELETE requests are allowed"})
		return
	}

	var input DeleteUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if input.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No name provided"})
		return
	}

	var user models.User
	if err := database.DB.Where("name = ?", input.Name).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Unable to find user name %s", input.Name)})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// The BeforeDelete hook anonymizes every reference inside the same
	// transaction as the delete itself.
	if err := database.DB.Delete(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": "deleted"})
}

// endregion

// region --- Protected Handlers ---

// GetMe godoc
// @Summary      Get current user's info
// @Description  Retrieves the private profile for the currently authenticated user.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PrivateUserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /users/me [get]
func GetMe(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var user models.User
	if err := database.DB.First(&user, viewerID.(uint)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var friendsCount int64
	if err := database.DB.Table("user_friends").Where("user_id = ?", user.ID).Count(&friendsCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count friends"})
		return
	}

	c.JSON(http.StatusOK, PrivateUserResponse{
		ID:           user.ID,
		Name:         user.Name,
		Alias:        user.Alias,
		Email:        user.Email,
		IsOnline:     user.IsOnline,
		Wins:         user.Wins,
		Losses:       user.Losses,
		FriendsCount: friendsCount,
	})
}

// endregion

func buildPublicUserResponse(user models.User) PublicUserResponse {
	return PublicUserResponse{
		ID:     user.ID,
		Alias:  user.Alias,
		Wins:   user.Wins,
		Losses: user.Losses,
	}
}
