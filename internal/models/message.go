package models

import "gorm.io/gorm"

// MaxMessageLength caps the body of a chat message.
const MaxMessageLength = 4096

// Message belongs to exactly one chat and is deleted with it. The sender
// reference is anonymized when the sending account is deleted.
type Message struct {
	gorm.Model
	ChatID   uint   `gorm:"not null;index"`
	SenderID uint   `gorm:"not null"`
	Body     string `gorm:"size:4096;not null"`

	Chat   Chat `gorm:"foreignKey:ChatID"`
	Sender User `gorm:"foreignKey:SenderID"`
}
