package domain

import "time"

// Ssl is a certificate attached to at most one Proxy.
type Ssl struct {
	SslID     uint      `gorm:"primaryKey" json:"ssl_id"`
	Domain    string    `gorm:"size:255;index" json:"domain"`
	CertPEM   string    `gorm:"type:text" json:"-"`
	KeyPEM    string    `gorm:"type:text" json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
