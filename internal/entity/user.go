package entity

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleStudent  Role = "student"
	RoleLecturer Role = "lecturer"
)

// Roles lists every accepted role in display order.
var Roles = []Role{RoleStudent, RoleLecturer}

// ParseRole normalizes s (case insensitive, surrounding space ignored).
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleLecturer:
		return RoleLecturer, nil
	}

	allowed := make([]string, len(Roles))
	for i, r := range Roles {
		allowed[i] = string(r)
	}
	return "", fmt.Errorf("'%s' is not a valid role. Must be one of: %s", s, strings.Join(allowed, ", "))
}

func (r Role) String() string {
	return string(r)
}

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	RegNumber      *string   `gorm:"size:50;uniqueIndex" json:"reg_number"`
	HashedPassword string    `gorm:"size:255;not null" json:"-"`
	FullName       string    `gorm:"size:255;index" json:"full_name"`
	Role           Role      `gorm:"type:varchar(20);not null;default:student" json:"role"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (u *User) IsLecturer() bool {
	return u.Role == RoleLecturer
}

func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}
