package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a player account.
type User struct {
	gorm.Model
	Name         string `gorm:"size:255;not null"`
	Alias        string `gorm:"size:255;not null;index"`
	PasswordHash string `gorm:"size:255;not null"`
	Email        string `gorm:"size:255;not null"`
	IsOnline     bool   `gorm:"not null;default:false"`
	LastLogin    time.Time
	Wins         int `gorm:"not null;default:0;check:chk_user_wins,wins >= 0"`
	Losses       int `gorm:"not null;default:0;check:chk_user_losses,losses >= 0"`

	// Symmetric friendship: AddFriend/RemoveFriend maintain both directions
	// of the join table, so loading Friends from either side is enough.
	Friends []*User `gorm:"many2many:user_friends"`
}

// AddFriend links two users symmetrically. Linking a user to themselves
// or twice to the same user is an error.
func AddFriend(db *gorm.DB, user, friend *User) error {
	if user.ID == friend.ID {
		return ErrSelfFriendship
	}
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Table("user_friends").
			Where("user_id = ? AND friend_id = ?", user.ID, friend.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyFriends
		}
		if err := tx.Exec("INSERT INTO user_friends (user_id, friend_id) VALUES (?, ?)", user.ID, friend.ID).Error; err != nil {
			return err
		}
		return tx.Exec("INSERT INTO user_friends (user_id, friend_id) VALUES (?, ?)", friend.ID, user.ID).Error
	})
}

// RemoveFriend removes the link in both directions. Returns the number of
// join rows deleted; zero means the users were not friends.
func RemoveFriend(db *gorm.DB, userID, friendID uint) (int64, error) {
	res := db.Exec(
		"DELETE FROM user_friends WHERE (user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
		userID, friendID, friendID, userID,
	)
	return res.RowsAffected, res.Error
}

// BeforeDelete rebinds every reference to this user onto the anonymous
// placeholder so that match history, chats and messages survive the
// deletion. Runs inside the delete transaction.
func (u *User) BeforeDelete(tx *gorm.DB) error {
	if u.Name == AnonymousName {
		return ErrAnonymousUserImmutable
	}

	anon, err := Anonymize(tx)
	if err != nil {
		return err
	}

	for _, column := range []string{"left_player_id", "right_player_id", "winner_id", "loser_id"} {
		if err := tx.Model(&Match{}).Where(column+" = ?", u.ID).Update(column, anon.ID).Error; err != nil {
			return err
		}
	}
	if err := anonymizeChats(tx, u.ID, anon.ID); err != nil {
		return err
	}
	if err := tx.Model(&Message{}).Where("sender_id = ?", u.ID).Update("sender_id", anon.ID).Error; err != nil {
		return err
	}

	// Friendship and tournament membership rows are pure join records:
	// they are dropped outright instead of being rebound.
	if err := tx.Exec("DELETE FROM user_friends WHERE user_id = ? OR friend_id = ?", u.ID, u.ID).Error; err != nil {
		return err
	}
	return tx.Exec("DELETE FROM tournament_players WHERE user_id = ?", u.ID).Error
}

// anonymizeChats rebinds the chats of a deleted user to the placeholder.
// The rebound pair is re-canonicalized so the ordering constraint holds;
// a chat whose pair collapses onto the placeholder itself, or collides
// with an already-anonymized chat of the same peer, is dropped instead.
func anonymizeChats(tx *gorm.DB, userID, anonID uint) error {
	var chats []Chat
	if err := tx.Where("first_user_id = ? OR second_user_id = ?", userID, userID).Find(&chats).Error; err != nil {
		return err
	}
	for i := range chats {
		chat := chats[i]
		first, second := chat.FirstUserID, chat.SecondUserID
		if first == userID {
			first = anonID
		}
		if second == userID {
			second = anonID
		}
		if first > second {
			first, second = second, first
		}

		drop := first == second
		if !drop {
			var count int64
			if err := tx.Model(&Chat{}).
				Where("first_user_id = ? AND second_user_id = ? AND id <> ?", first, second, chat.ID).
				Count(&count).Error; err != nil {
				return err
			}
			drop = count > 0
		}
		if drop {
			if err := tx.Unscoped().Delete(&chat).Error; err != nil {
				return err
			}
			continue
		}

		err := tx.Model(&Chat{}).Where("id = ?", chat.ID).
			Updates(map[string]interface{}{"first_user_id": first, "second_user_id": second}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
