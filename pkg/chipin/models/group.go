package models

import (
	"time"

	"gorm.io/gorm"
)

// Group represents a group of users coordinating shared event spending.
// The admin is fixed at creation time and is also added as a member; the
// leave operation never removes the admin.
type Group struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Name      string         `gorm:"not null" json:"name"`
	AdminID   uint           `gorm:"not null;index" json:"admin_id"`

	// Relationships
	Admin        User               `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
	Members      []GroupMembership  `gorm:"foreignKey:GroupID" json:"members,omitempty"`
	Invites      []Invite           `gorm:"foreignKey:GroupID" json:"invites,omitempty"`
	Events       []Event            `gorm:"foreignKey:GroupID" json:"events,omitempty"`
	JoinRequests []GroupJoinRequest `gorm:"foreignKey:GroupID" json:"join_requests,omitempty"`
	Comments     []Comment          `gorm:"foreignKey:GroupID" json:"comments,omitempty"`
}

// MemberCount returns the number of current members of the group.
func (g *Group) MemberCount(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&GroupMembership{}).Where("group_id = ?", g.ID).Count(&count).Error
	return count, err
}

// IsMember reports whether the user is a current member of the group.
func (g *Group) IsMember(db *gorm.DB, userID uint) (bool, error) {
	var count int64
	err := db.Model(&GroupMembership{}).
		Where("group_id = ? AND user_id = ?", g.ID, userID).
		Count(&count).Error
	return count > 0, err
}
