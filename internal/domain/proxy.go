package domain

import (
	"time" // Timestamps

	"gorm.io/datatypes" // JSON column type
)

// Proxy Model
type Proxy struct {
	ProxyID    uint           `gorm:"primaryKey" json:"proxy_id"`                                 // Primary key
	Domain     string         `gorm:"size:255;uniqueIndex;not null" json:"domain"`                // Unique domain served by the edge proxy
	UserID     string         `gorm:"size:64;index;not null" json:"user_id"`                      // Owner (external user id)
	IsEnabled  bool           `gorm:"not null" json:"is_enabled"`                                 // Disabled proxies are hidden from lookups
	Upstream   string         `gorm:"size:255;not null;default:''" json:"upstream"`               // Routing target
	ForceHTTPS bool           `gorm:"not null;default:false" json:"force_https"`                  // Redirect plain HTTP to HTTPS
	Options    datatypes.JSON `json:"options"`                                                    // Free-form routing options
	SslID      *uint          `gorm:"index" json:"ssl_id"`                                        // Optional certificate
	User       *User          `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"` // Owner projection, never cached
	Ssl        *Ssl           `gorm:"foreignKey:SslID;references:SslID" json:"ssl,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
