package domain

import "time"

type User struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	Username     string     `gorm:"uniqueIndex;size:64" json:"username"`
	Email        string     `gorm:"uniqueIndex;size:191" json:"email"`
	Phone        string     `gorm:"size:32" json:"phone"`
	PasswordHash string     `gorm:"size:191" json:"-"`
	IsAdmin      bool       `json:"isAdmin"`
	IsVerified   bool       `json:"isVerified"`
	IsBlocked    bool       `json:"isBlocked"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	DeletedAt    *time.Time `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// Role 映射到 JWT 的 role 声明
func (u *User) Role() string {
	if u.IsAdmin {
		return "admin"
	}
	return "user"
}

type UserRepository interface {
	Create(u *User) error
	FindByID(id string) (*User, error)
	FindByUsername(username string) (*User, error)
	FindByEmail(email string) (*User, error)
	List(offset, limit int) ([]User, int64, error)
	Update(u *User) error
}
