package models

import (
	"time"

	"gorm.io/gorm"
)

// EventStatus represents an event's viability status
type EventStatus string

const (
	// EventStatusPending means at least one group member cannot afford
	// their share of the event
	EventStatusPending EventStatus = "Pending"
	// EventStatusActive means every group member can afford their share
	EventStatusActive EventStatus = "Active"
	// EventStatusArchived is terminal; archived events are never re-evaluated
	EventStatusArchived EventStatus = "Archived"
)

// Event represents a planned group outing with a total spend. Its status is
// derived from comparing each group member's spending ceiling against an
// even split of the total spend.
type Event struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	GroupID    uint           `gorm:"not null;index" json:"group_id"`
	Name       string         `gorm:"not null" json:"name"`
	Date       time.Time      `json:"date"`
	TotalSpend float64        `gorm:"not null" json:"total_spend"`
	Status     EventStatus    `gorm:"type:varchar(20);default:'Pending';index" json:"status"`
	ArchivedAt *time.Time     `json:"archived_at"`

	// Relationships
	Group     Group             `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	Attendees []EventAttendance `gorm:"foreignKey:EventID" json:"attendees,omitempty"`
}

// EventAttendance marks a group member as attending an event.
// Attendance is bookkeeping only; viability is computed over the whole group.
type EventAttendance struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	EventID   uint      `gorm:"not null;uniqueIndex:idx_event_user" json:"event_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_event_user" json:"user_id"`

	// Relationships
	Event Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
