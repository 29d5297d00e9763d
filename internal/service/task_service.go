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

// AssignTaskInput is what an admin submits when putting a task on the board.
type AssignTaskInput struct {
	Title       string
	Description string
	AssignedTo  uint
	Priority    model.TaskPriority
}

// TaskUpdatedPayload is the consolidated taskUpdated push: the full task
// record plus who moved it, so clients can filter by role without the server
// maintaining two event names.
type TaskUpdatedPayload struct {
	model.TaskView
	UpdatedBy string `json:"updated_by"`
}

type TaskService interface {
	ListFor(requesterID uint) ([]model.TaskView, error)
	Assign(in AssignTaskInput) (*model.TaskView, error)
	UpdateStatus(taskID uint, status model.TaskStatus, actorID *uint) (*model.TaskView, error)
}

type taskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	notifier realtime.Notifier
	logger   *zap.Logger
}

func NewTaskService(
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	notifier realtime.Notifier,
	logger *zap.Logger,
) TaskService {
	return &taskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		notifier: notifier,
		logger:   logger,
	}
}

// ListFor scopes the board by the requesting user's role: admins see every
// task, members only their own.
func (s *taskService) ListFor(requesterID uint) ([]model.TaskView, error) {
	user, err := s.userRepo.FindByID(requesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	if user.IsAdmin() {
		return s.taskRepo.ListAll()
	}
	return s.taskRepo.ListByAssignee(requesterID)
}

// Assign creates the task in the pending column, broadcasts it to everyone
// and additionally pushes it straight to the assignee's connection when they
// are online. Both pushes carry the resolved assignee name.
func (s *taskService) Assign(in AssignTaskInput) (*model.TaskView, error) {
	assignee, err := s.userRepo.FindByID(in.AssignedTo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve assignee: %w", err)
	}

	priority := in.Priority
	if priority == "" {
		priority = model.TaskPriorityMedium
	}

	task := &model.Task{
		Title:       in.Title,
		Description: in.Description,
		AssignedTo:  &in.AssignedTo,
		Priority:    priority,
		Status:      model.TaskStatusPending,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	view := &model.TaskView{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		AssignedTo:     task.AssignedTo,
		AssignedToName: assignee.Username,
		Priority:       task.Priority,
		Status:         task.Status,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}

	middleware.RecordTaskAssigned()
	s.notifier.Broadcast(realtime.EventNewTask, view)
	s.notifier.SendToUser(in.AssignedTo, realtime.EventNewTask, view)

	return view, nil
}

// UpdateStatus overwrites the task's column and broadcasts one consolidated
// taskUpdated event. The actor, when known, decides the updated_by stamp;
// transitions themselves are unconstrained, including completed -> pending.
func (s *taskService) UpdateStatus(taskID uint, status model.TaskStatus, actorID *uint) (*model.TaskView, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	if err := s.taskRepo.UpdateStatus(taskID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	view, err := s.taskRepo.FindViewByID(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}

	updatedBy := realtime.UpdatedByAssignee
	if actorID != nil {
		if actor, err := s.userRepo.FindByID(*actorID); err == nil && actor.IsAdmin() {
			updatedBy = realtime.UpdatedByAdmin
		}
	}

	middleware.RecordTaskUpdate(string(status))
	s.notifier.Broadcast(realtime.EventTaskUpdated, TaskUpdatedPayload{
		TaskView:  *view,
		UpdatedBy: updatedBy,
	})

	return view, nil
}
