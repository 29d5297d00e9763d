package repository

import (
	"gorm.io/gorm"

	"teamcollab-api/internal/database"
	"teamcollab-api/internal/model"
)

type MessageRepository interface {
	Create(message *model.Message) error
	ListWithAuthors() ([]model.MessageView, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) conn() *gorm.DB {
	if r.db != nil {
		return r.db
	}
	return database.GetDB()
}

func (r *messageRepository) Create(message *model.Message) error {
	db := r.conn()
	if db == nil {
		return gorm.ErrInvalidDB
	}
	return db.Create(message).Error
}

// ListWithAuthors returns the full room history joined with author names,
// oldest first, the order the chat view renders.
func (r *messageRepository) ListWithAuthors() ([]model.MessageView, error) {
	db := r.conn()
	if db == nil {
		return nil, gorm.ErrInvalidDB
	}
	var views []model.MessageView
	err := db.Model(&model.Message{}).
		Select("messages.id, messages.user_id, users.username, messages.message, messages.created_at").
		Joins("JOIN users ON users.id = messages.user_id").
		Order("messages.created_at ASC").
		Scan(&views).Error
	return views, err
}
