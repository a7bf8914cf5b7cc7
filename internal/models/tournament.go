package models

import "gorm.io/gorm"

// Tournament represents a bracket with a fixed player capacity. The roster
// is resolved from aliases at creation time; its size is declared by
// PlayerAmount but not revalidated after attachment.
type Tournament struct {
	gorm.Model
	Name         string  `gorm:"size:255;not null"`
	PlayerAmount int     `gorm:"not null;check:chk_tournament_capacity,player_amount >= 4 AND player_amount <= 16"`
	Players      []*User `gorm:"many2many:tournament_players"`
	Matches      []Match `gorm:"foreignKey:TournamentID"`
}

// BeforeDelete detaches the tournament's matches instead of deleting them
// and drops the roster join rows. Runs inside the delete transaction.
func (t *Tournament) BeforeDelete(tx *gorm.DB) error {
	if err := tx.Model(&Match{}).Where("tournament_id = ?", t.ID).Update("tournament_id", gorm.Expr("NULL")).Error; err != nil {
		return err
	}
	return tx.Exec("DELETE FROM tournament_players WHERE tournament_id = ?", t.ID).Error
}
