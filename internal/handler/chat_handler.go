package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"transcendence/backend/internal/database"
	"transcendence/backend/internal/hub"
	"transcendence/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// region --- DTOs ---

// ChatInput identifies the peer to open a chat with.
type ChatInput struct {
	UserID uint `json:"user_id" binding:"required"`
}

// MessageInput carries the body of a chat message.
type MessageInput struct {
	Body string `json:"body" binding:"required,max=4096"`
}

// ChatResponse describes a chat from the viewer's perspective.
type ChatResponse struct {
	ID   uint               `json:"id"`
	Peer PublicUserResponse `json:"peer"`
}

// MessageResponse describes a single chat message.
type MessageResponse struct {
	ID       uint   `json:"id"`
	ChatID   uint   `json:"chat_id"`
	SenderID uint   `json:"sender_id"`
	Body     string `json:"body"`
}

func newMessageResponse(message models.Message) MessageResponse {
	return MessageResponse{
		ID:       message.ID,
		ChatID:   message.ChatID,
		SenderID: message.SenderID,
		Body:     message.Body,
	}
}

// endregion

// loadChatForViewer fetches a chat and checks the viewer takes part in it.
func loadChatForViewer(c *gin.Context) (*models.Chat, bool) {
	viewerID, _ := c.Get("userID")
	chatID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chat ID"})
		return nil, false
	}

	var chat models.Chat
	if err := database.DB.First(&chat, uint(chatID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chat"})
		return nil, false
	}
	if !chat.HasParticipant(viewerID.(uint)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a participant of this chat"})
		return nil, false
	}
	return &chat, true
}

// CreateChat godoc
// @Summary      Open a chat
// @Description  Opens a chat between the authenticated user and another user. The pair is stored in canonical order, so at most one chat exists per pair.
// @Tags         chats
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body ChatInput true "Peer"
// @Success      201  {object}  ChatResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Chat already exists"
// @Failure      500  {object}  ErrorResponse
// @Router       /chats [post]
func CreateChat(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var input ChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.UserID == viewerID.(uint) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot open a chat with yourself"})
		return
	}

	var peer models.User
	if err := database.DB.First(&peer, input.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	first, second := viewerID.(uint), input.UserID
	if first > second {
		first, second = second, first
	}
	var existing models.Chat
	err := database.DB.Where("first_user_id = ? AND second_user_id = ?", first, second).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Chat already exists"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	chat := models.Chat{FirstUserID: viewerID.(uint), SecondUserID: input.UserID}
	if err := database.DB.Create(&chat).Error; err != nil {
		// The unique index on the canonical pair backstops the precheck.
		c.JSON(http.StatusConflict, gin.H{"error": "Chat already exists"})
		return
	}

	c.JSON(http.StatusCreated, ChatResponse{ID: chat.ID, Peer: buildPublicUserResponse(peer)})
}

// GetChats godoc
// @Summary      List chats
// @Description  Returns the authenticated user's chats with peer info.
// @Tags         chats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ChatResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /chats [get]
func GetChats(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var chats []models.Chat
	err := database.DB.
		Preload("FirstUser").Preload("SecondUser").
		Where("first_user_id = ? OR second_user_id = ?", viewerID, viewerID).
		Find(&chats).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chats"})
		return
	}

	responses := make([]ChatResponse, 0, len(chats))
	for _, chat := range chats {
		peer := chat.FirstUser
		if chat.FirstUserID == viewerID.(uint) {
			peer = chat.SecondUser
		}
		responses = append(responses, ChatResponse{ID: chat.ID, Peer: buildPublicUserResponse(peer)})
	}

	c.JSON(http.StatusOK, responses)
}

// DeleteChat godoc
// @Summary      Delete a chat
// @Description  Deletes a chat and all of its messages. Only a participant may delete it.
// @Tags         chats
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Chat ID"
// @Success      200  {object}  map[string]string "{"chat": "deleted"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /chats/{id} [delete]
func DeleteChat(c *gin.Context) {
	chat, ok := loadChatForViewer(c)
	if !ok {
		return
	}

	// Hard delete so the canonical pair can be reused; BeforeDelete
	// cascades the messages.
	if err := database.DB.Unscoped().Delete(chat).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete chat"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"chat": "deleted"})
}

// GetChatMessages godoc
// @Summary      List chat messages
// @Description  Returns the messages of a chat, newest first, paginated.
// @Tags         chats
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true   "Chat ID"
// @Param        page  query     int  false  "Page number" default(1)
// @Param        limit query     int  false  "Items per page" default(20)
// @Success      200  {object}  PaginatedResponse[MessageResponse]
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /chats/{id}/messages [get]
func GetChatMessages(c *gin.Context) {
	chat, ok := loadChatForViewer(c)
	if !ok {
		return
	}
	page, limit := pageParams(c)

	query := database.DB.Model(&models.Message{}).
		Where("chat_id = ?", chat.ID).
		Order("created_at DESC")

	result, err := Paginate[models.Message](query, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	responses := make([]MessageResponse, len(result.Data))
	for i, message := range result.Data {
		responses[i] = newMessageResponse(message)
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(responses, result.Meta.TotalItems, page, limit))
}

// SendMessage godoc
// @Summary      Send a message
// @Description  Posts a message to a chat and broadcasts it to live listeners.
// @Tags         chats
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int          true  "Chat ID"
// @Param        input body  MessageInput true  "Message body"
// @Success      201  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /chats/{id}/messages [post]
func SendMessage(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	chat, ok := loadChatForViewer(c)
	if !ok {
		return
	}

	var input MessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message := models.Message{
		ChatID:   chat.ID,
		SenderID: viewerID.(uint),
		Body:     input.Body,
	}
	if err := database.DB.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	response := newMessageResponse(message)
	hub.GlobalHub.Broadcast(chat.ID, hub.Event{Type: "message", Payload: response})

	c.JSON(http.StatusCreated, response)
}

// ChatEvents godoc
// @Summary      Stream chat events
// @Description  Server-sent event stream of new messages in a chat.
// @Tags         chats
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        id   path  int  true  "Chat ID"
// @Success      200  {string}  string
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /chats/{id}/events [get]
func ChatEvents(c *gin.Context) {
	chat, ok := loadChatForViewer(c)
	if !ok {
		return
	}

	client := make(hub.Client, 16)
	hub.GlobalHub.Subscribe(chat.ID, client)
	defer hub.GlobalHub.Unsubscribe(chat.ID, client)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, open := <-client:
			if !open {
				return false
			}
			c.SSEvent("message", string(event))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
