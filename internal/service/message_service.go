package service

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"teamcollab-api/internal/middleware"
	"teamcollab-api/internal/model"
	"teamcollab-api/internal/realtime"
	"teamcollab-api/internal/repository"
)

type MessageService interface {
	List() ([]model.MessageView, error)
	Send(userID uint, body string) (*model.MessageView, error)
}

type messageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	notifier    realtime.Notifier
	logger      *zap.Logger
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	notifier realtime.Notifier,
	logger *zap.Logger,
) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

func (s *messageService) List() ([]model.MessageView, error) {
	return s.messageRepo.ListWithAuthors()
}

// Send stores the message and broadcasts it to every connected client with
// the author's name resolved. The push is issued after the write succeeds
// and is best-effort only.
func (s *messageService) Send(userID uint, body string) (*model.MessageView, error) {
	author, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve author: %w", err)
	}

	message := &model.Message{
		UserID: userID,
		Body:   body,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	view := &model.MessageView{
		ID:        message.ID,
		UserID:    message.UserID,
		Username:  author.Username,
		Body:      message.Body,
		CreatedAt: message.CreatedAt,
	}

	middleware.RecordMessageSent()
	s.notifier.Broadcast(realtime.EventNewMessage, view)

	return view, nil
}
