package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"teamcollab-api/internal/model"
	"teamcollab-api/internal/realtime"
)

func TestMessageService_SendBroadcastsWithAuthorName(t *testing.T) {
	users := &mockUserRepo{
		FindByIDFunc: func(id uint) (*model.User, error) {
			return &model.User{ID: id, Username: "alice"}, nil
		},
	}
	messages := &mockMessageRepo{
		CreateFunc: func(message *model.Message) error {
			message.ID = 12
			return nil
		},
	}
	notifier := &mockNotifier{}
	svc := NewMessageService(messages, users, notifier, zap.NewNop())

	view, err := svc.Send(3, "hello room")
	require.NoError(t, err)
	assert.Equal(t, uint(12), view.ID)
	assert.Equal(t, "alice", view.Username)
	assert.Equal(t, "hello room", view.Body)

	require.Len(t, notifier.broadcasts, 1)
	assert.Equal(t, realtime.EventNewMessage, notifier.broadcasts[0].event)
	assert.Equal(t, view, notifier.broadcasts[0].data)
}

func TestMessageService_SendUnknownAuthor(t *testing.T) {
	notifier := &mockNotifier{}
	svc := NewMessageService(&mockMessageRepo{}, &mockUserRepo{}, notifier, zap.NewNop())

	_, err := svc.Send(99, "hello")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, notifier.broadcasts)
}

func TestMessageService_SendStoreFailureSkipsBroadcast(t *testing.T) {
	users := &mockUserRepo{
		FindByIDFunc: func(id uint) (*model.User, error) {
			return &model.User{ID: id, Username: "alice"}, nil
		},
	}
	messages := &mockMessageRepo{
		CreateFunc: func(message *model.Message) error {
			return errors.New("disk full")
		},
	}
	notifier := &mockNotifier{}
	svc := NewMessageService(messages, users, notifier, zap.NewNop())

	_, err := svc.Send(3, "hello")
	require.Error(t, err)
	assert.Empty(t, notifier.broadcasts)
}
