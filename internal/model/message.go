package model

import "time"

// Message is a single chat-room entry. Messages are immutable once stored.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Body      string    `gorm:"column:message;type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}

// MessageView is a message joined with its author's display name, the shape
// the API and the newMessage push carry.
type MessageView struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Body      string    `gorm:"column:message" json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
