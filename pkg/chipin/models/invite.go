package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InviteValidity is how long an invitation stays usable after it is
// created or re-armed.
const InviteValidity = 14 * 24 * time.Hour

// Invite is a tokenized invitation of one user into one group. At most one
// invite exists per (group, invited user) pair; re-inviting after expiry
// re-arms the existing record instead of minting a new token.
type Invite struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	GroupID       uint       `gorm:"not null;uniqueIndex:idx_group_invitee" json:"group_id"`
	InvitedUserID uint       `gorm:"not null;uniqueIndex:idx_group_invitee" json:"invited_user_id"`
	InvitedByID   uint       `gorm:"not null" json:"invited_by_id"`
	Token         string     `gorm:"uniqueIndex;not null" json:"-"`
	Accepted      bool       `gorm:"default:false" json:"accepted"`
	UsedAt        *time.Time `json:"used_at"`
	ExpiresAt     time.Time  `gorm:"not null" json:"expires_at"`

	// Relationships
	Group       Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	InvitedUser User  `gorm:"foreignKey:InvitedUserID" json:"invited_user,omitempty"`
	InvitedBy   User  `gorm:"foreignKey:InvitedByID" json:"invited_by,omitempty"`
}

// BeforeCreate assigns the token and default expiry. The token is never
// regenerated after this point.
func (i *Invite) BeforeCreate(tx *gorm.DB) error {
	if i.Token == "" {
		i.Token = uuid.NewString()
	}
	if i.ExpiresAt.IsZero() {
		i.ExpiresAt = time.Now().Add(InviteValidity)
	}
	return nil
}

// IsExpired reports whether the invite is past its expiry.
func (i *Invite) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// AcceptPath returns the URL path that resolves this invite.
func (i *Invite) AcceptPath() string {
	return "/invites/accept/" + i.Token
}
