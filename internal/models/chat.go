package models

import "gorm.io/gorm"

// Chat is a conversation between exactly two users. The pair is stored in
// canonical order (first_user_id < second_user_id): BeforeSave swaps the
// fields on every save, and the unique index on the ordered pair guarantees
// at most one chat per unordered pair of users.
type Chat struct {
	gorm.Model
	FirstUserID  uint `gorm:"not null;uniqueIndex:idx_chat_pair;check:chk_chat_order,first_user_id < second_user_id"`
	SecondUserID uint `gorm:"not null;uniqueIndex:idx_chat_pair"`

	FirstUser  User      `gorm:"foreignKey:FirstUserID"`
	SecondUser User      `gorm:"foreignKey:SecondUserID"`
	Messages   []Message `gorm:"foreignKey:ChatID"`
}

// BeforeSave normalizes the participant order. It must run on every save,
// not only on create, so updates cannot break the ordering invariant.
func (c *Chat) BeforeSave(tx *gorm.DB) error {
	if c.FirstUserID > c.SecondUserID {
		c.FirstUserID, c.SecondUserID = c.SecondUserID, c.FirstUserID
		c.FirstUser, c.SecondUser = c.SecondUser, c.FirstUser
	}
	return nil
}

// BeforeDelete removes the chat's messages. This is the only cascading
// relation in the schema.
func (c *Chat) BeforeDelete(tx *gorm.DB) error {
	return tx.Unscoped().Where("chat_id = ?", c.ID).Delete(&Message{}).Error
}

// Peer returns the participant that is not the given user.
func (c *Chat) Peer(userID uint) uint {
	if c.FirstUserID == userID {
		return c.SecondUserID
	}
	return c.FirstUserID
}

// HasParticipant reports whether the user takes part in the chat.
func (c *Chat) HasParticipant(userID uint) bool {
	return c.FirstUserID == userID || c.SecondUserID == userID
}
