package service

import (
	"context" // Request-scoped store calls
	"errors"  // Error inspection
	"fmt"     // Error wrapping
	"strings" // Profile normalization

	"proxy_manager/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/clause"        // ON CONFLICT clause
)

// UserService is the user directory. Absent rows are reported as nil/false.
type UserService struct {
	db *gorm.DB
}

// NewUserService wires a UserService
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// ExternalProfile is the payload a federated login provider hands back
type ExternalProfile struct {
	UserID string `json:"userid" binding:"required"` // Provider user id
	Name   string `json:"name"`                      // Display name
	Gender int    `json:"gender"`                    // 0 unknown, 1 male, 2 female
	Mobile string `json:"mobile"`                    // Mobile number
	Email  string `json:"email"`                     // Email address
	Avatar string `json:"avatar"`                    // Avatar URL
}

var genderLabels = []string{domain.GenderUnknown, domain.GenderMale, domain.GenderFemale}

// Normalize maps a provider profile onto a User row
func (p ExternalProfile) Normalize() domain.User {
	gender := domain.GenderUnknown
	if p.Gender >= 0 && p.Gender < len(genderLabels) {
		gender = genderLabels[p.Gender]
	}
	return domain.User{
		UserID: p.UserID,
		Name:   p.Name,
		Gender: gender,
		Mobile: p.Mobile,
		Email:  p.Email,
		// "https://cdn/a.png" -> "//cdn/a.png"
		Avatar: strings.TrimLeft(p.Avatar, "htps:"),
	}
}

// UpsertByExternalIdentity creates or refreshes the user behind a federated login
func (s *UserService) UpsertByExternalIdentity(ctx context.Context, profile ExternalProfile) (*domain.User, error) {
	user := profile.Normalize()
	return s.Upsert(ctx, &user)
}

// Upsert inserts user or overwrites the profile fields of the existing row in
// a single statement. is_locked is never touched by an upsert.
func (s *UserService) Upsert(ctx context.Context, user *domain.User) (*domain.User, error) {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "gender", "mobile", "email", "avatar", "updated_at"}),
	}).Create(user).Error
	if err != nil {
		return nil, fmt.Errorf("upsert user %q: %w", user.UserID, err)
	}
	logrus.WithField("user_id", user.UserID).Debug("User upserted")
	return s.Get(ctx, user.UserID)
}

// Get fetches a user by external id
func (s *UserService) Get(ctx context.Context, userID string) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("get user %q: %w", userID, err)
	}
	return &user, nil
}

// Search matches key as a substring of the user id or name
func (s *UserService) Search(ctx context.Context, key string) ([]domain.User, error) {
	pattern := "%" + strings.Trim(key, "%") + "%"
	users := []domain.User{}
	err := s.db.WithContext(ctx).
		Where("user_id LIKE ? OR name LIKE ?", pattern, pattern).
		Order("user_id").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("search users %q: %w", key, err)
	}
	return users, nil
}

// UserPatch holds the fields to change on Update. Nil fields are left as is.
type UserPatch struct {
	Name     *string `json:"name"`
	Mobile   *string `json:"mobile"`
	Email    *string `json:"email"`
	Avatar   *string `json:"avatar"`
	IsLocked *bool   `json:"is_locked"`
}

func (p UserPatch) columns() map[string]any {
	cols := make(map[string]any)
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Mobile != nil {
		cols["mobile"] = *p.Mobile
	}
	if p.Email != nil {
		cols["email"] = *p.Email
	}
	if p.Avatar != nil {
		cols["avatar"] = *p.Avatar
	}
	if p.IsLocked != nil {
		cols["is_locked"] = *p.IsLocked
	}
	return cols
}

// Update changes a user's profile or lock state
func (s *UserService) Update(ctx context.Context, userID string, patch UserPatch) (*domain.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil || user == nil {
		return nil, err
	}
	if cols := patch.columns(); len(cols) > 0 {
		if err := s.db.WithContext(ctx).Model(&domain.User{}).Where("user_id = ?", userID).Updates(cols).Error; err != nil {
			return nil, fmt.Errorf("update user %q: %w", userID, err)
		}
	}
	return s.Get(ctx, userID)
}

// Remove deletes a user row. The user's proxies are left in place; lookups
// hide them because the owner is missing.
func (s *UserService) Remove(ctx context.Context, userID string) (bool, error) {
	res := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.User{})
	if res.Error != nil {
		return false, fmt.Errorf("delete user %q: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	logrus.WithField("user_id", userID).Info("User removed")
	return true, nil
}
