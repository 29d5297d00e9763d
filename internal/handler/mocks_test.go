package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"teamcollab-api/internal/model"
	"teamcollab-api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockUserService struct {
	RegisterFunc func(username, email, password string) (*model.User, error)
	LoginFunc    func(email, password string) (*model.User, error)
	GetByIDFunc  func(id uint) (*model.User, error)
	ListFunc     func() ([]model.User, error)
}

func (m *mockUserService) Register(username, email, password string) (*model.User, error) {
	return m.RegisterFunc(username, email, password)
}

func (m *mockUserService) Login(email, password string) (*model.User, error) {
	return m.LoginFunc(email, password)
}

func (m *mockUserService) GetByID(id uint) (*model.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(id)
	}
	return nil, service.ErrUserNotFound
}

func (m *mockUserService) List() ([]model.User, error) {
	return m.ListFunc()
}

type mockMessageService struct {
	ListFunc func() ([]model.MessageView, error)
	SendFunc func(userID uint, body string) (*model.MessageView, error)
}

func (m *mockMessageService) List() ([]model.MessageView, error) {
	return m.ListFunc()
}

func (m *mockMessageService) Send(userID uint, body string) (*model.MessageView, error) {
	return m.SendFunc(userID, body)
}

type mockTaskService struct {
	ListForFunc      func(requesterID uint) ([]model.TaskView, error)
	AssignFunc       func(in service.AssignTaskInput) (*model.TaskView, error)
	UpdateStatusFunc func(taskID uint, status model.TaskStatus, actorID *uint) (*model.TaskView, error)
}

func (m *mockTaskService) ListFor(requesterID uint) ([]model.TaskView, error) {
	return m.ListForFunc(requesterID)
}

func (m *mockTaskService) Assign(in service.AssignTaskInput) (*model.TaskView, error) {
	return m.AssignFunc(in)
}

func (m *mockTaskService) UpdateStatus(taskID uint, status model.TaskStatus, actorID *uint) (*model.TaskView, error) {
	return m.UpdateStatusFunc(taskID, status, actorID)
}

func performJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a JSON response into a generic map for assertions.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
