package repository

import (
	"gorm.io/gorm"

	"teamcollab-api/internal/database"
	"teamcollab-api/internal/model"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	EmailExists(email string) (bool, error)
	List() ([]model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// conn returns the handle the repository was built with, falling back to the
// shared connection so a repository wired before the database came up starts
// working once the async connect succeeds.
func (r *userRepository) conn() *gorm.DB {
	if r.db != nil {
		return r.db
	}
	return database.GetDB()
}

func (r *userRepository) Create(user *model.User) error {
	db := r.conn()
	if db == nil {
		return gorm.ErrInvalidDB
	}
	return db.Create(user).Error
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	db := r.conn()
	if db == nil {
		return nil, gorm.ErrInvalidDB
	}
	var user model.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	db := r.conn()
	if db == nil {
		return nil, gorm.ErrInvalidDB
	}
	var user model.User
	if err := db.First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) EmailExists(email string) (bool, error) {
	db := r.conn()
	if db == nil {
		return false, gorm.ErrInvalidDB
	}
	var count int64
	err := db.Model(&model.User{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) List() ([]model.User, error) {
	db := r.conn()
	if db == nil {
		return nil, gorm.ErrInvalidDB
	}
	var users []model.User
	err := db.Order("id ASC").Find(&users).Error
	return users, err
}
