package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"transcendence/backend/internal/database"
	"transcendence/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// region --- DTOs ---

// AddTournamentInput defines the structure for tournament creation.
// PlayerAmount is accepted as a JSON number or a numeric string.
type AddTournamentInput struct {
	Name         string      `json:"name" example:"Cup"`
	PlayerAmount interface{} `json:"player_amount" swaggertype:"integer" example:"4"`
	Players      []string    `json:"players"`
}

// DeleteTournamentInput identifies the tournament to delete.
type DeleteTournamentInput struct {
	TournamentID interface{} `json:"tournament_id" swaggertype:"integer" example:"1"`
}

// TournamentResponse echoes a created tournament with its roster aliases
// in input order.
type TournamentResponse struct {
	ID           uint     `json:"id" example:"1"`
	Name         string   `json:"name" example:"Cup"`
	PlayerAmount int      `json:"player_amount" example:"4"`
	Players      []string `json:"players"`
}

// endregion

// coerceInt converts a decoded JSON value to an int the permissive way the
// endpoints accept it: numbers and numeric strings both count.
func coerceInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case string:
		return strconv.Atoi(n)
	default:
		return 0, fmt.Errorf("cannot interpret %v as an integer", v)
	}
}

// AddTournament godoc
// @Summary      Create a tournament
// @Description  Creates a tournament with a fixed roster resolved from user aliases.
// @Tags         tournaments
// @Accept       json
// @Produce      json
// @Param        input body AddTournamentInput true "Tournament Info"
// @Success      201  {object}  map[string]TournamentResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      405  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /tournaments/add [post]
func AddTournament(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Only POST requests are allowed"})
		return
	}

	var input AddTournamentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if input.Name == "" || input.PlayerAmount == nil || len(input.Players) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	playerAmount, err := coerceInt(input.PlayerAmount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if playerAmount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	// Fixed-size roster: more aliases than capacity is an overflow. A
	// negative capacity means every alias overflows.
	if playerAmount < 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Too many players for the given tournament."})
		return
	}
	roster := make([]*models.User, playerAmount)
	for i, alias := range input.Players {
		if i >= playerAmount {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Too many players for the given tournament."})
			return
		}
		var user models.User
		if err := database.DB.Where("alias = ?", alias).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("User with alias %s does not exist", alias)})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		roster[i] = &user
	}

	// Unfilled slots are dropped; the roster size is not revalidated
	// against the declared capacity.
	players := make([]*models.User, 0, len(roster))
	for _, p := range roster {
		if p != nil {
			players = append(players, p)
		}
	}

	tournament := models.Tournament{
		Name:         input.Name,
		PlayerAmount: playerAmount,
	}
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tournament).Error; err != nil {
			return err
		}
		return tx.Model(&tournament).Association("Players").Append(players)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	aliases := make([]string, len(players))
	for i, p := range players {
		aliases[i] = p.Alias
	}
	c.JSON(http.StatusCreated, gin.H{"created": TournamentResponse{
		ID:           tournament.ID,
		Name:         tournament.Name,
		PlayerAmount: tournament.PlayerAmount,
		Players:      aliases,
	}})
}

// DeleteTournament godoc
// @Summary      Delete a tournament
// @Description  Deletes a tournament. Its matches are detached, not deleted.
// @Tags         tournaments
// @Accept       json
// @Produce      json
// @Param        input body DeleteTournamentInput true "Tournament ID"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      405  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /tournaments/delete [delete]
func DeleteTournament(c *gin.Context) {
	if c.Request.Method != http.MethodDelete {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Only DELETE requests are allowed"})
		return
	}

	var input DeleteTournamentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if input.TournamentID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	tournamentID, err := coerceInt(input.TournamentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if tournamentID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	var tournament models.Tournament
	if err := database.DB.First(&tournament, tournamentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Tournament with id %d does not exist", tournamentID)})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := database.DB.Delete(&tournament).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": fmt.Sprintf("Tournament with id %d deleted", tournamentID)})
}
