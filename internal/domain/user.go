package domain

import "time"

// Gender labels stored on User
const (
	GenderUnknown = "unknown"
	GenderMale    = "male"
	GenderFemale  = "female"
)

// User Model
type User struct {
	UserID    string    `gorm:"primaryKey;size:64" json:"user_id"`              // External id issued by the login provider
	Name      string    `gorm:"size:128;not null;default:''" json:"name"`       // Display name
	Gender    string    `gorm:"size:16;not null;default:unknown" json:"gender"` // unknown, male or female
	Mobile    string    `gorm:"size:32;not null;default:''" json:"mobile"`      // Mobile number
	Email     string    `gorm:"size:128;not null;default:''" json:"email"`      // Email address
	Avatar    string    `gorm:"size:512;not null;default:''" json:"avatar"`     // Protocol-relative avatar URL
	IsLocked  bool      `gorm:"not null;default:false" json:"is_locked"`        // Locked users' proxies are hidden from lookups
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
