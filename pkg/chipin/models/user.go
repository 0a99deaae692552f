package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// SystemRole represents a user's system-wide role
type SystemRole string

const (
	SystemRoleAdmin SystemRole = "admin"
	SystemRoleUser  SystemRole = "user"
)

// User represents a user in the system
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	SystemRole   SystemRole     `gorm:"type:varchar(20);default:'user'" json:"system_role"`

	// Relationships
	Profile          Profile           `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	GroupMemberships []GroupMembership `gorm:"foreignKey:UserID" json:"group_memberships,omitempty"`
	AdminGroups      []Group           `gorm:"foreignKey:AdminID" json:"admin_groups,omitempty"`
}

// NewUserWithProfile creates a user and its profile in a single transaction.
// Every user must have exactly one profile, so this is the only supported way
// to create a user. The profile nickname is derived from the user's name (or
// the local part of the email) and made unique with a numeric suffix.
func NewUserWithProfile(db *gorm.DB, email, passwordHash, name string, role SystemRole) (*User, error) {
	user := &User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		SystemRole:   role,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		base := name
		if base == "" {
			base = strings.SplitN(email, "@", 2)[0]
		}
		nickname, err := UniqueNickname(tx, base)
		if err != nil {
			return err
		}

		profile := Profile{
			UserID:   user.ID,
			Nickname: nickname,
			MaxSpend: DefaultMaxSpend,
			Balance:  DefaultBalance,
		}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		user.Profile = profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
