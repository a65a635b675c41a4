package service

import (
	"context"       // Request-scoped store calls
	"encoding/json" // Cache snapshot encoding
	"errors"        // Error inspection
	"fmt"           // Error wrapping

	"proxy_manager/internal/domain" // Importing domain models
	"proxy_manager/internal/utils"  // Cache store

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/datatypes"          // JSON column type
	"gorm.io/gorm"               // GORM ORM library
)

// ProxyService owns proxy records and the domain-keyed lookup cache.
//
// Lookups are read-through: only a cold lookup populates the cache. Writes
// invalidate instead of updating in place. Invalidation is not atomic with
// the database write, so a reader racing a write may see the old snapshot
// until the next invalidation.
//
// Methods return a nil record, not an error, when the row does not exist.
type ProxyService struct {
	db    *gorm.DB         // System of record
	cache utils.CacheStore // Domain -> JSON snapshot
	ssl   CertificateStore // Certificates removed with their proxy
}

// NewProxyService wires a ProxyService
func NewProxyService(db *gorm.DB, cache utils.CacheStore, ssl CertificateStore) *ProxyService {
	return &ProxyService{db: db, cache: cache, ssl: ssl}
}

// ProxyPatch holds the fields to change on Update. Nil fields are left as is.
type ProxyPatch struct {
	Domain     *string
	IsEnabled  *bool
	Upstream   *string
	ForceHTTPS *bool
	Options    datatypes.JSON
}

func (p ProxyPatch) columns() map[string]any {
	cols := make(map[string]any)
	if p.Domain != nil {
		cols["domain"] = *p.Domain
	}
	if p.IsEnabled != nil {
		cols["is_enabled"] = *p.IsEnabled
	}
	if p.Upstream != nil {
		cols["upstream"] = *p.Upstream
	}
	if p.ForceHTTPS != nil {
		cols["force_https"] = *p.ForceHTTPS
	}
	if p.Options != nil {
		cols["options"] = p.Options
	}
	return cols
}

// LookupByDomain returns the proxy serving domainName.
//
// A cache hit is returned as stored, without re-checking is_enabled or the
// owner's lock: the filter only runs on the cold path, so an entry cached by
// an includeDisabled lookup is also served to callers that did not ask for it.
func (s *ProxyService) LookupByDomain(ctx context.Context, domainName string, includeDisabled bool) (*domain.Proxy, error) {
	if cached := s.readCache(ctx, domainName); cached != nil {
		return cached, nil
	}

	var proxy domain.Proxy
	err := s.db.WithContext(ctx).Preload("User").Where("domain = ?", domainName).First(&proxy).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("lookup proxy %q: %w", domainName, err)
	}

	if !includeDisabled && !visible(&proxy) {
		return nil, nil
	}

	proxy.User = nil // Only proxy data is cached
	s.writeCache(ctx, &proxy)
	return &proxy, nil
}

// visible reports whether a proxy may be served to the edge
func visible(p *domain.Proxy) bool {
	return p.IsEnabled && p.User != nil && !p.User.IsLocked
}

// Invalidate drops the cached snapshot for domainName. Missing entries are fine.
func (s *ProxyService) Invalidate(ctx context.Context, domainName string) error {
	if domainName == "" {
		return nil
	}
	if err := s.cache.Delete(ctx, domainName); err != nil {
		return fmt.Errorf("invalidate %q: %w", domainName, err)
	}
	return nil
}

// readCache treats every cache failure as a miss
func (s *ProxyService) readCache(ctx context.Context, domainName string) *domain.Proxy {
	raw, found, err := s.cache.Get(ctx, domainName)
	if err != nil {
		logrus.WithFields(logrus.Fields{"domain": domainName, "error": err.Error()}).Warn("Proxy cache read failed")
		return nil
	}
	if !found {
		return nil
	}
	var proxy domain.Proxy
	if err := json.Unmarshal([]byte(raw), &proxy); err != nil {
		logrus.WithFields(logrus.Fields{"domain": domainName, "error": err.Error()}).Warn("Discarding undecodable proxy cache entry")
		return nil
	}
	return &proxy
}

func (s *ProxyService) writeCache(ctx context.Context, proxy *domain.Proxy) {
	b, err := json.Marshal(proxy)
	if err == nil {
		err = s.cache.Set(ctx, proxy.Domain, string(b))
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{"domain": proxy.Domain, "error": err.Error()}).Warn("Proxy cache write failed")
	}
}

// Get fetches a proxy by primary key
func (s *ProxyService) Get(ctx context.Context, proxyID uint) (*domain.Proxy, error) {
	return s.get(s.db.WithContext(ctx), proxyID)
}

func (s *ProxyService) get(conn *gorm.DB, proxyID uint) (*domain.Proxy, error) {
	var proxy domain.Proxy
	err := conn.Where("proxy_id = ?", proxyID).First(&proxy).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("get proxy %d: %w", proxyID, err)
	}
	return &proxy, nil
}

// ListByUser returns every proxy owned by userID
func (s *ProxyService) ListByUser(ctx context.Context, userID string) ([]domain.Proxy, error) {
	proxies := []domain.Proxy{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("proxy_id").Find(&proxies).Error; err != nil {
		return nil, fmt.Errorf("list proxies of %q: %w", userID, err)
	}
	return proxies, nil
}

// Add inserts a proxy. Domain legality is checked by the caller; a duplicate
// domain is reported by the unique index as a plain write error.
func (s *ProxyService) Add(ctx context.Context, proxy *domain.Proxy) (*domain.Proxy, error) {
	if len(proxy.Options) == 0 {
		proxy.Options = datatypes.JSON("{}")
	}
	if err := s.db.WithContext(ctx).Create(proxy).Error; err != nil {
		return nil, fmt.Errorf("create proxy %q: %w", proxy.Domain, err)
	}
	logrus.WithFields(logrus.Fields{
		"proxy_id": proxy.ProxyID,
		"domain":   proxy.Domain,
		"user_id":  proxy.UserID,
	}).Info("Proxy created")
	return proxy, nil
}

// Update applies patch to a proxy. The cache entries for both the current and
// the requested domain are dropped before the row is written.
func (s *ProxyService) Update(ctx context.Context, proxyID uint, patch ProxyPatch) (*domain.Proxy, error) {
	proxy, err := s.Get(ctx, proxyID)
	if err != nil || proxy == nil {
		return nil, err
	}

	if err := s.Invalidate(ctx, proxy.Domain); err != nil {
		return nil, err
	}
	if patch.Domain != nil && *patch.Domain != proxy.Domain {
		if err := s.Invalidate(ctx, *patch.Domain); err != nil {
			return nil, err
		}
	}

	if cols := patch.columns(); len(cols) > 0 {
		if err := s.db.WithContext(ctx).Model(&domain.Proxy{}).Where("proxy_id = ?", proxyID).Updates(cols).Error; err != nil {
			return nil, fmt.Errorf("update proxy %d: %w", proxyID, err)
		}
	}
	logrus.WithFields(logrus.Fields{"proxy_id": proxyID, "domain": proxy.Domain}).Info("Proxy updated")
	return s.Get(ctx, proxyID)
}

// Remove deletes a proxy together with its certificate.
//
// When tx is non-nil the work joins the caller's transaction, otherwise a new
// one is opened. The cache entry is dropped before the transaction commits; a
// later rollback leaves a spurious miss, which the next lookup repairs.
func (s *ProxyService) Remove(ctx context.Context, proxyID uint, tx *gorm.DB) (*domain.Proxy, error) {
	conn := s.db
	if tx != nil {
		conn = tx
	}
	proxy, err := s.get(conn.WithContext(ctx), proxyID)
	if err != nil || proxy == nil {
		return nil, err
	}

	remove := func(tx *gorm.DB) error {
		if proxy.SslID != nil {
			ssl, err := s.ssl.Get(ctx, tx, *proxy.SslID)
			if err != nil {
				return err
			}
			if ssl != nil {
				if err := s.ssl.RemoveCertificate(ctx, tx, ssl.SslID); err != nil {
					return err
				}
			}
		}
		if err := tx.Where("proxy_id = ?", proxy.ProxyID).Delete(&domain.Proxy{}).Error; err != nil {
			return fmt.Errorf("delete proxy %d: %w", proxy.ProxyID, err)
		}
		return s.Invalidate(ctx, proxy.Domain)
	}

	if tx != nil {
		err = remove(tx.WithContext(ctx))
	} else {
		err = s.db.WithContext(ctx).Transaction(remove) // Commits on nil, rolls back on error or panic
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"proxy_id": proxy.ProxyID,
			"domain":   proxy.Domain,
			"error":    err.Error(),
		}).Error("Proxy removal failed")
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"proxy_id": proxy.ProxyID, "domain": proxy.Domain}).Info("Proxy removed")
	return proxy, nil
}
