package domain

import "time"

// User Model
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`         // Primary key
	Name      string    `gorm:"not null" json:"name"`         // Display name
	Email     string    `gorm:"unique;not null" json:"email"` // Unique email, lowercased at write time
	Password  string    `gorm:"not null" json:"-"`            // Hashed password, never serialized
	Age       int       `json:"age,omitempty"`                // Optional age
	Address   string    `json:"address,omitempty"`            // Optional address
	Role      string    `gorm:"default:user" json:"role"`     // Role: user or admin
	CreatedAt time.Time `json:"createdAt"`                    // Timestamp of creation
	UpdatedAt time.Time `json:"updatedAt"`                    // Timestamp of last update
}
