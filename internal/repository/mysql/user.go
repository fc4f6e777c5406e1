package mysql

import (
	"context"

	"github.com/Guyuepp/Go-Clean-Architecture-Novel/domain"
	"github.com/Guyuepp/Go-Clean-Architecture-Novel/internal/repository/mysql/model"
	"gorm.io/gorm"
)

type userRepository struct {
	DB *gorm.DB
}

var _ domain.UserDirectory = (*userRepository)(nil)

// NewUserRepository will create an implementation of domain.UserDirectory
func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{
		DB: db,
	}
}

func (m *userRepository) UserExists(ctx context.Context, userID int64) (bool, error) {
	var count int64
	err := m.DB.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}
