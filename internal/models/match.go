package models

import "gorm.io/gorm"

// Match represents a finished game between two players. Player references
// are redirected to the anonymous user when an account is deleted, so match
// history is never lost. Winner and loser must be one of the two listed
// players; the store does not enforce this, ValidatePlayers does.
type Match struct {
	gorm.Model
	LeftPlayerID  uint   `gorm:"not null;index"`
	RightPlayerID uint   `gorm:"not null;index"`
	WinnerID      uint   `gorm:"not null"`
	LoserID       uint   `gorm:"not null"`
	Result        string `gorm:"size:255"`
	TournamentID  *uint  `gorm:"index"`

	LeftPlayer  User        `gorm:"foreignKey:LeftPlayerID"`
	RightPlayer User        `gorm:"foreignKey:RightPlayerID"`
	Winner      User        `gorm:"foreignKey:WinnerID"`
	Loser       User        `gorm:"foreignKey:LoserID"`
	Tournament  *Tournament `gorm:"foreignKey:TournamentID"`
}

// ValidatePlayers checks that winner and loser are each one of the two
// listed players and that they differ.
func (m *Match) ValidatePlayers() bool {
	isPlayer := func(id uint) bool {
		return id == m.LeftPlayerID || id == m.RightPlayerID
	}
	return m.WinnerID != m.LoserID && isPlayer(m.WinnerID) && isPlayer(m.LoserID)
}
