package handler

import (
	"errors"
	"net/http"

	"transcendence/backend/internal/database"
	"transcendence/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// region --- DTOs ---

// MatchInput defines the structure for recording a finished match.
type MatchInput struct {
	LeftPlayerID  uint   `json:"left_player_id" binding:"required"`
	RightPlayerID uint   `json:"right_player_id" binding:"required"`
	WinnerID      uint   `json:"winner_id" binding:"required"`
	LoserID       uint   `json:"loser_id" binding:"required"`
	Result        string `json:"result"`
	TournamentID  *uint  `json:"tournament_id"`
}

// MatchResponse describes a recorded match.
type MatchResponse struct {
	ID            uint   `json:"id"`
	LeftPlayerID  uint   `json:"left_player_id"`
	RightPlayerID uint   `json:"right_player_id"`
	WinnerID      uint   `json:"winner_id"`
	LoserID       uint   `json:"loser_id"`
	Result        string `json:"result"`
	TournamentID  *uint  `json:"tournament_id,omitempty"`
}

func newMatchResponse(match models.Match) MatchResponse {
	return MatchResponse{
		ID:            match.ID,
		LeftPlayerID:  match.LeftPlayerID,
		RightPlayerID: match.RightPlayerID,
		WinnerID:      match.WinnerID,
		LoserID:       match.LoserID,
		Result:        match.Result,
		TournamentID:  match.TournamentID,
	}
}

// endregion

// CreateMatch godoc
// @Summary      Record a match
// @Description  Records a finished match and updates the winner's and loser's stats in one transaction.
// @Tags         matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body MatchInput true "Match Info"
// @Success      201  {object}  MatchResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /matches [post]
func CreateMatch(c *gin.Context) {
	var input MatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	match := models.Match{
		LeftPlayerID:  input.LeftPlayerID,
		RightPlayerID: input.RightPlayerID,
		WinnerID:      input.WinnerID,
		LoserID:       input.LoserID,
		Result:        input.Result,
		TournamentID:  input.TournamentID,
	}
	if !match.ValidatePlayers() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Winner and loser must be the two listed players"})
		return
	}

	for _, playerID := range []uint{input.LeftPlayerID, input.RightPlayerID} {
		var player models.User
		if err := database.DB.First(&player, playerID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
			return
		}
	}
	if input.TournamentID != nil {
		var tournament models.Tournament
		if err := database.DB.First(&tournament, *input.TournamentID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tournament not found"})
			return
		}
	}

	// Match row and player stats move together or not at all.
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&match).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", match.WinnerID).
			Update("wins", gorm.Expr("wins + 1")).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", match.LoserID).
			Update("losses", gorm.Expr("losses + 1")).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record match"})
		return
	}

	c.JSON(http.StatusCreated, newMatchResponse(match))
}

// GetMatches godoc
// @Summary      Get match history
// @Description  Returns the authenticated user's matches, most recent first, paginated.
// @Tags         matches
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "Page number" default(1)
// @Param        limit query     int  false  "Items per page" default(20)
// @Success      200  {object}  PaginatedResponse[MatchResponse]
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /matches [get]
func GetMatches(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	page, limit := pageParams(c)

	query := database.DB.Model(&models.Match{}).
		Where("left_player_id = ? OR right_player_id = ?", viewerID, viewerID).
		Order("created_at DESC")

	result, err := Paginate[models.Match](query, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch matches"})
		return
	}

	responses := make([]MatchResponse, len(result.Data))
	for i, match := range result.Data {
		responses[i] = newMatchResponse(match)
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(responses, result.Meta.TotalItems, page, limit))
}

// GetMatchByID godoc
// @Summary      Get a match
// @Description  Returns a single match by ID.
// @Tags         matches
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Match ID"
// @Success      200  {object}  MatchResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /matches/{id} [get]
func GetMatchByID(c *gin.Context) {
	var match models.Match
	if err := database.DB.First(&match, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Match not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch match"})
		return
	}

	c.JSON(http.StatusOK, newMatchResponse(match))
}
