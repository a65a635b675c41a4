package service

import (
	"context" // Request-scoped store calls
	"errors"  // Error inspection
	"fmt"     // Error wrapping

	"proxy_manager/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// CertificateStore is the part of the certificate service proxy removal needs.
// Both calls run on the transaction handle they are given.
type CertificateStore interface {
	Get(ctx context.Context, tx *gorm.DB, sslID uint) (*domain.Ssl, error)
	RemoveCertificate(ctx context.Context, tx *gorm.DB, sslID uint) error
}

// SslService manages certificate rows. Issuance and renewal live elsewhere.
type SslService struct{}

// NewSslService creates a new SslService
func NewSslService() *SslService {
	return &SslService{}
}

// Get returns nil when the certificate does not exist
func (s *SslService) Get(ctx context.Context, tx *gorm.DB, sslID uint) (*domain.Ssl, error) {
	var ssl domain.Ssl
	err := tx.WithContext(ctx).Where("ssl_id = ?", sslID).First(&ssl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("get ssl %d: %w", sslID, err)
	}
	return &ssl, nil
}

// RemoveCertificate deletes a certificate row on the given transaction.
// Removing a certificate that does not exist is not an error.
func (s *SslService) RemoveCertificate(ctx context.Context, tx *gorm.DB, sslID uint) error {
	if err := tx.WithContext(ctx).Where("ssl_id = ?", sslID).Delete(&domain.Ssl{}).Error; err != nil {
		return fmt.Errorf("delete ssl %d: %w", sslID, err)
	}
	logrus.WithField("ssl_id", sslID).Info("Certificate removed")
	return nil
}
