package domain

import (
	"time"
)

type Role string

const (
	RoleMember      Role = "普通成员"
	RoleOrgAdmin    Role = "组织管理员"
	RoleSystemAdmin Role = "系统管理员"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
