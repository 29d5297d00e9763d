package service

import (
	"gorm.io/gorm"

	"teamcollab-api/internal/model"
)

type mockUserRepo struct {
	CreateFunc      func(user *model.User) error
	FindByIDFunc    func(id uint) (*model.User, error)
	FindByEmailFunc func(email string) (*model.User, error)
	EmailExistsFunc func(email string) (bool, error)
	ListFunc        func() ([]model.User, error)
}

func (m *mockUserRepo) Create(user *model.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(user)
	}
	return nil
}

func (m *mockUserRepo) FindByID(id uint) (*model.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) FindByEmail(email string) (*model.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) EmailExists(email string) (bool, error) {
	if m.EmailExistsFunc != nil {
		return m.EmailExistsFunc(email)
	}
	return false, nil
}

func (m *mockUserRepo) List() ([]model.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc()
	}
	return nil, nil
}

type mockMessageRepo struct {
	CreateFunc          func(message *model.Message) error
	ListWithAuthorsFunc func() ([]model.MessageView, error)
}

func (m *mockMessageRepo) Create(message *model.Message) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(message)
	}
	return nil
}

func (m *mockMessageRepo) ListWithAuthors() ([]model.MessageView, error) {
	if m.ListWithAuthorsFunc != nil {
		return m.ListWithAuthorsFunc()
	}
	return nil, nil
}

type mockTaskRepo struct {
	CreateFunc         func(task *model.Task) error
	FindViewByIDFunc   func(id uint) (*model.TaskView, error)
	ListAllFunc        func() ([]model.TaskView, error)
	ListByAssigneeFunc func(userID uint) ([]model.TaskView, error)
	UpdateStatusFunc   func(id uint, status model.TaskStatus) error
}

func (m *mockTaskRepo) Create(task *model.Task) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(task)
	}
	return nil
}

func (m *mockTaskRepo) FindViewByID(id uint) (*model.TaskView, error) {
	if m.FindViewByIDFunc != nil {
		return m.FindViewByIDFunc(id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTaskRepo) ListAll() ([]model.TaskView, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc()
	}
	return nil, nil
}

func (m *mockTaskRepo) ListByAssignee(userID uint) ([]model.TaskView, error) {
	if m.ListByAssigneeFunc != nil {
		return m.ListByAssigneeFunc(userID)
	}
	return nil, nil
}

func (m *mockTaskRepo) UpdateStatus(id uint, status model.TaskStatus) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(id, status)
	}
	return nil
}

// mockNotifier records fan-out calls so tests can assert on the pushes a
// service issued without running the hub.
type mockNotifier struct {
	broadcasts []notifierCall
	targeted   []notifierCall
	online     map[uint]bool
}

type notifierCall struct {
	userID uint
	event  string
	data   interface{}
}

func (m *mockNotifier) Broadcast(event string, data interface{}) {
	m.broadcasts = append(m.broadcasts, notifierCall{event: event, data: data})
}

func (m *mockNotifier) SendToUser(userID uint, event string, data interface{}) {
	m.targeted = append(m.targeted, notifierCall{userID: userID, event: event, data: data})
}

func (m *mockNotifier) IsOnline(userID uint) bool {
	return m.online[userID]
}

func (m *mockNotifier) OnlineUsers() []uint {
	users := make([]uint, 0, len(m.online))
	for id := range m.online {
		users = append(users, id)
	}
	return users
}
