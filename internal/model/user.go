package model

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// User represents a registered account. Self-registration always creates a
// member; admin accounts are provisioned directly in the database.
type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Username  string     `gorm:"type:varchar(100);not null" json:"username"`
	Email     string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Password  string     `gorm:"type:varchar(255);not null" json:"-"`
	Role      Role       `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	Status    UserStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
