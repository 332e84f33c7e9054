package repository

import (
	"context" // Request scoped operations
	"errors"  // Error inspection

	"account_portal/internal/domain" // Domain models

	"gorm.io/gorm" // GORM ORM library
)

// GormUserRepository is the MySQL backed UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository wraps an open gorm connection
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts a new user
func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

// FindByID loads a user by primary key
func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindByEmail loads a user by normalized email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("email = ?", domain.NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// Update saves every column of the user
func (r *GormUserRepository) Update(ctx context.Context, user *domain.User) error {
	res := r.db.WithContext(ctx).Omit("Notifications").Save(user)
	return translate(res.Error)
}

// Delete removes the user's notifications and the user in one transaction
func (r *GormUserRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&domain.Notification{}).Error; err != nil {
			return err // Return error to rollback
		}
		res := tx.Delete(&domain.User{}, id)
		if res.Error != nil {
			return res.Error // Return error to rollback
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil // Commit transaction
	})
}

// translate maps gorm errors onto repository sentinels.
// Duplicate keys are only reported when the connection sets TranslateError.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateEmail
	default:
		return err
	}
}
