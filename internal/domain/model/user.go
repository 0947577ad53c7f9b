package model

import (
	"errors"
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

var ErrInvalidRole = errors.New("invalid role")

// 前後の空白と大文字小文字の違いは吸収する
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.EqualFold(s, string(RoleUser)):
		return RoleUser, nil
	case strings.EqualFold(s, string(RoleAdmin)):
		return RoleAdmin, nil
	default:
		return "", ErrInvalidRole
	}
}

type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"uniqueIndex;type:varchar(255);not null"`
	PasswordHash string `gorm:"column:password_hash;not null"`
	Role         Role   `gorm:"type:varchar(20);not null;default:'User'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
