package models

import "time"

type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// User is keyed by username. A username rename is modeled as delete+recreate
// in the repository, so there is no surrogate ID to keep stable.
type User struct {
	Username     string    `gorm:"type:varchar(100);primaryKey" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null" json:"role"`
	Org          string    `gorm:"type:varchar(255)" json:"org,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
