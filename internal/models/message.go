package models

import (
	"time"

	"gorm.io/gorm"
)

// Message represents a chat message between two accounts.
//
// A message is immutable after creation except for the read transition
// (IsRead/ReadAt, flipped once by the receiver) and the soft-delete
// tombstone. The integer primary key is assigned by the store and breaks
// ordering ties between messages created at the same instant.
type Message struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	SenderID   string         `gorm:"size:36;not null;index" json:"senderId"`
	ReceiverID string         `gorm:"size:36;not null;index" json:"receiverId"`
	Content    string         `gorm:"type:text;not null" json:"content"`
	IsRead     bool           `gorm:"default:false" json:"isRead"`
	ReadAt     *time.Time     `json:"readAt"`
	CreatedAt  time.Time      `json:"createdAt"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Sender   *User `gorm:"foreignKey:SenderID" json:"-"`
	Receiver *User `gorm:"foreignKey:ReceiverID" json:"-"`
}
