package handler

import (
	"errors"
	"net/http"
	"strconv"

	"transcendence/backend/internal/database"
	"transcendence/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// GetFriends godoc
// @Summary      List friends
// @Description  Returns the authenticated user's friends.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   PublicUserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /friends [get]
func GetFriends(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var friends []models.User
	err := database.DB.
		Joins("JOIN user_friends ON user_friends.friend_id = users.id").
		Where("user_friends.user_id = ?", viewerID).
		Find(&friends).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friends"})
		return
	}

	responses := make([]PublicUserResponse, 0, len(friends))
	for _, friend := range friends {
		responses = append(responses, buildPublicUserResponse(friend))
	}

	c.JSON(http.StatusOK, responses)
}

// AddFriendHandler godoc
// @Summary      Add a friend
// @Description  Creates a symmetric friendship between the authenticated user and the target user.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      201  {object}  map[string]string "{"message": "Friend added"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /friends/{id} [post]
func AddFriendHandler(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target user ID"})
		return
	}

	var viewer, target models.User
	if err := database.DB.First(&viewer, viewerID.(uint)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err := database.DB.First(&target, uint(targetID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Target user not found"})
		return
	}

	switch err := models.AddFriend(database.DB, &viewer, &target); {
	case errors.Is(err, models.ErrSelfFriendship):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrAlreadyFriends):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add friend"})
	default:
		c.JSON(http.StatusCreated, gin.H{"message": "Friend added"})
	}
}

// RemoveFriendHandler godoc
// @Summary      Remove a friend
// @Description  Removes the symmetric friendship between the authenticated user and the target user.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      200  {object}  map[string]string "{"message": "Friend removed"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /friends/{id} [delete]
func RemoveFriendHandler(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target user ID"})
		return
	}

	removed, err := models.RemoveFriend(database.DB, viewerID.(uint), uint(targetID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove friend"})
		return
	}
	if removed == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Friendship not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Friend removed"})
}
