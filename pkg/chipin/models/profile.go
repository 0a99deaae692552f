package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	// DefaultMaxSpend is the per-event spending ceiling assigned to new profiles
	DefaultMaxSpend = 100.00
	// DefaultBalance is the starting balance assigned to new profiles
	DefaultBalance = 100.00
)

// Profile holds per-user spending settings. Every user has exactly one,
// created alongside the user by NewUserWithProfile.
type Profile struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	Nickname  string    `gorm:"uniqueIndex;not null" json:"nickname"`
	MaxSpend  float64   `gorm:"default:100" json:"max_spend"`
	Balance   float64   `gorm:"default:100" json:"balance"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// UniqueNickname generates a nickname from a base string, appending -2, -3, ...
// until it is unique. Uniqueness is case-insensitive, so "Alice" blocks "alice".
func UniqueNickname(db *gorm.DB, base string) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		base = "user"
	}

	candidate := base
	for i := 2; ; i++ {
		var count int64
		err := db.Model(&Profile{}).
			Where("LOWER(nickname) = ?", strings.ToLower(candidate)).
			Count(&count).Error
		if err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
