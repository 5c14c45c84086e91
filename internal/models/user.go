package models

import (
	"time"

	"github.com/google/uuid"
)

// Role distinguishes operators who may manage devices and users
// from those who may only view and send power commands.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

type User struct {
	ID                  uuid.UUID  `db:"id"                    json:"id"`
	Username            string     `db:"username"              json:"username"`
	Password            string     `db:"password"              json:"-"`
	Role                Role       `db:"role"                  json:"role"`
	FailedLoginAttempts int        `db:"failed_login_attempts" json:"-"`
	IsDisabled          bool       `db:"is_disabled"           json:"isDisabled"`
	ForcePasswordChange bool       `db:"force_password_change" json:"forcePasswordChange"`
	LastLoginAt         *time.Time `db:"last_login_at"         json:"lastLoginAt"`
	CreatedAt           time.Time  `db:"created_at"            json:"createdAt"`
	UpdatedAt           time.Time  `db:"updated_at"            json:"updatedAt"`
}
