package handler

import (
	"net/http"
	"testing"

	"transcendence/backend/internal/database"
	"transcendence/backend/internal/models"
)

func TestCreateMatchUpdatesStats(t *testing.T) {
	router := setupTest(t)
	winner := seedUser(t, "alice", "a", "pw")
	loser := seedUser(t, "bob", "b", "pw")

	w := doJSON(t, router, http.MethodPost, "/api/v1/matches", map[string]interface{}{
		"left_player_id":  winner.ID,
		"right_player_id": loser.ID,
		"winner_id":       winner.ID,
		"loser_id":        loser.ID,
		"result":          "11-7",
	}, tokenFor(t, winner))
	expectStatus(t, w, http.StatusCreated)

	var reloadedWinner, reloadedLoser models.User
	database.DB.First(&reloadedWinner, winner.ID)
	database.DB.First(&reloadedLoser, loser.ID)
	if reloadedWinner.Wins != 1 || reloadedWinner.Losses != 0 {
		t.Errorf("winner stats = %d/%d, want 1/0", reloadedWinner.Wins, reloadedWinner.Losses)
	}
	if reloadedLoser.Wins != 0 || reloadedLoser.Losses != 1 {
		t.Errorf("loser stats = %d/%d, want 0/1", reloadedLoser.Wins, reloadedLoser.Losses)
	}
}

func TestCreateMatchRejectsOutsideWinner(t *testing.T) {
	router := setupTest(t)
	u1 := seedUser(t, "alice", "a", "pw")
	u2 := seedUser(t, "bob", "b", "pw")
	u3 := seedUser(t, "carol", "c", "pw")

	w := doJSON(t, router, http.MethodPost, "/api/v1/matches", map[string]interface{}{
		"left_player_id":  u1.ID,
		"right_player_id": u2.ID,
		"winner_id":       u3.ID,
		"loser_id":        u2.ID,
	}, tokenFor(t, u1))
	expectStatus(t, w, http.StatusBadRequest)
}

func TestCreateMatchUnknownTournament(t *testing.T) {
	router := setupTest(t)
	u1 := seedUser(t, "alice", "a", "pw")
	u2 := seedUser(t, "bob", "b", "pw")

	w := doJSON(t, router, http.MethodPost, "/api/v1/matches", map[string]interface{}{
		"left_player_id":  u1.ID,
		"right_player_id": u2.ID,
		"winner_id":       u1.ID,
		"loser_id":        u2.ID,
		"tournament_id":   7,
	}, tokenFor(t, u1))
	expectStatus(t, w, http.StatusNotFound)
}

func TestGetMatchesReturnsViewerHistory(t *testing.T) {
	router := setupTest(t)
	u1 := seedUser(t, "alice", "a", "pw")
	u2 := seedUser(t, "bob", "b", "pw")
	u3 := seedUser(t, "carol", "c", "pw")

	for _, m := range []models.Match{
		{LeftPlayerID: u1.ID, RightPlayerID: u2.ID, WinnerID: u1.ID, LoserID: u2.ID},
		{LeftPlayerID: u2.ID, RightPlayerID: u3.ID, WinnerID: u3.ID, LoserID: u2.ID},
	} {
		if err := database.DB.Create(&m).Error; err != nil {
			t.Fatalf("failed to seed match: %v", err)
		}
	}

	w := doJSON(t, router, http.MethodGet, "/api/v1/matches", nil, tokenFor(t, u1))
	expectStatus(t, w, http.StatusOK)

	body := decodeBody(t, w)
	meta, _ := body["meta"].(map[string]interface{})
	if meta == nil || meta["total_items"] != float64(1) {
		t.Errorf("expected exactly one match for viewer, meta = %v", meta)
	}
}

func TestGetMatchByIDNotFound(t *testing.T) {
	router := setupTest(t)
	u1 := seedUser(t, "alice", "a", "pw")

	w := doJSON(t, router, http.MethodGet, "/api/v1/matches/5", nil, tokenFor(t, u1))
	expectStatus(t, w, http.StatusNotFound)
}
