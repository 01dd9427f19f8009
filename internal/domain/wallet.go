package domain

import "time"

// Wallet Model: an external wallet address connected to a user
type Wallet struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                // Primary key
	UserID    uint      `gorm:"index;not null" json:"userId"`        // Foreign key to User
	Address   string    `gorm:"uniqueIndex;not null" json:"address"` // Wallet address, lowercased at write time
	IsActive  bool      `gorm:"default:true" json:"isActive"`        // Whether the connection is active
	CreatedAt time.Time `json:"createdAt"`                           // Timestamp of creation
	UpdatedAt time.Time `json:"updatedAt"`                           // Timestamp of last update
}
