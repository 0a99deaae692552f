package models

import (
	"time"
)

// Transaction records a movement on a user's balance. Transactions are
// bookkeeping only and are never reconciled against real payments.
type Transaction struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Description string    `json:"description"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
