package repository

import (
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update persists changes to an existing user.
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Rename swaps the primary key atomically: the old record is deleted and the
// user recreated under the new username with role, org and password hash
// preserved by the caller.
func (r *GormUserRepository) Rename(oldUsername string, user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("username = ?", oldUsername).Delete(&models.User{}).Error; err != nil {
			return err
		}
		return tx.Create(user).Error
	})
}

// Delete removes a user by username.
func (r *GormUserRepository) Delete(username string) error {
	return r.db.Where("username = ?", username).Delete(&models.User{}).Error
}
