package models

import (
	"time"
)

// GroupJoinRequest is a request by a non-member to join a group, approved
// by a vote of the current members.
type GroupJoinRequest struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_request_user_group" json:"user_id"`
	GroupID   uint      `gorm:"not null;uniqueIndex:idx_request_user_group" json:"group_id"`
	Approved  bool      `gorm:"default:false" json:"approved"`

	// Relationships
	User  User              `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Group Group             `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	Votes []JoinRequestVote `gorm:"foreignKey:JoinRequestID" json:"votes,omitempty"`
}

// JoinRequestVote records one member's approval vote on a join request
type JoinRequestVote struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	JoinRequestID uint      `gorm:"not null;uniqueIndex:idx_request_voter" json:"join_request_id"`
	VoterID       uint      `gorm:"not null;uniqueIndex:idx_request_voter" json:"voter_id"`

	// Relationships
	JoinRequest GroupJoinRequest `gorm:"foreignKey:JoinRequestID" json:"join_request,omitempty"`
	Voter       User             `gorm:"foreignKey:VoterID" json:"voter,omitempty"`
}
