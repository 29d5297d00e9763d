package repository

import (
	"time"

	"gorm.io/gorm"

	"teamcollab-api/internal/database"
	"teamcollab-api/internal/model"
)

type TaskRepository interface {
	Create(task *model.Task) error
	FindViewByID(id uint) (*model.TaskView, error)
	ListAll() ([]model.TaskView, error)
	ListByAssignee(userID uint) ([]model.TaskView, error)
	UpdateStatus(id uint, status model.TaskStatus) error
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskViewSelect = "tasks.id, tasks.title, tasks.description, tasks.assigned_to, " +
	"users.username AS assigned_to_name, tasks.priority, tasks.status, tasks.created_at, tasks.updated_at"

func (r *taskRepository) conn() *gorm.DB {
	if r.db != nil {
		return r.db
	}
	return database.GetDB()
}

func (r *taskRepository) Create(task *model.Task) error {
	db := r.conn()
	if db == nil {
		return gorm.ErrInvalidDB
	}
	return db.Create(task).Error
}

func (r *taskRepository) FindViewByID(id uint) (*model.TaskView, error) {
	db := r.conn()
	if db == nil {
		return nil, gorm.ErrInvalidDB
	}
	var view model.TaskView
	err := db.Model(&model.Task{}).
		Select(taskViewSelect).
		Joins("LEFT JOIN users ON users.id = tasks.assigned_to").
		Where("tasks.id = ?", id).
		Take(&view).Error
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (r *taskRepository) ListAll() ([]model.TaskView, error) {
	db := r.conn()
	if db == nil {
		return nil, gorm.ErrInvalidDB
	}
	var views []model.TaskView
	err := db.Model(&model.Task{}).
		Select(taskViewSelect).
		Joins("LEFT JOIN users ON users.id = tasks.assigned_to").
		Order("tasks.created_at DESC").
		Scan(&views).Error
	return views, err
}

func (r *taskRepository) ListByAssignee(userID uint) ([]model.TaskView, error) {
	db := r.conn()
	if db == nil {
		return nil, gorm.ErrInvalidDB
	}
	var views []model.TaskView
	err := db.Model(&model.Task{}).
		Select(taskViewSelect).
		Joins("LEFT JOIN users ON users.id = tasks.assigned_to").
		Where("tasks.assigned_to = ?", userID).
		Order("tasks.created_at DESC").
		Scan(&views).Error
	return views, err
}

// UpdateStatus overwrites the status and refreshes updated_at. Last write
// wins; repeating the same status is a harmless overwrite.
func (r *taskRepository) UpdateStatus(id uint, status model.TaskStatus) error {
	db := r.conn()
	if db == nil {
		return gorm.ErrInvalidDB
	}
	result := db.Model(&model.Task{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
