package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Guyuepp/Go-Clean-Architecture-Novel/domain"
	"github.com/Guyuepp/Go-Clean-Architecture-Novel/internal/repository/mysql/model"
)

type novelRepository struct {
	DB *gorm.DB
}

// mysql层只读 catalog 的 novels 表
var _ domain.NovelCatalog = (*novelRepository)(nil)

func NewNovelRepository(db *gorm.DB) *novelRepository {
	return &novelRepository{db}
}

func (m *novelRepository) NovelExists(ctx context.Context, novelID int64) (bool, error) {
	var count int64
	err := m.DB.WithContext(ctx).
		Model(&model.Novel{}).
		Where("id = ?", novelID).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

func (m *novelRepository) get(ctx context.Context, novelID int64, columns string) (model.Novel, error) {
	var novel model.Novel
	err := m.DB.WithContext(ctx).
		Select(columns).
		First(&novel, "id = ?", novelID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Novel{}, domain.ErrNovelNotFound
	}
	if err != nil {
		return model.Novel{}, translateError(err)
	}
	return novel, nil
}

func (m *novelRepository) GetViewCount(ctx context.Context, novelID int64) (int64, error) {
	novel, err := m.get(ctx, novelID, "id, views")
	if err != nil {
		return 0, err
	}
	return novel.Views, nil
}

func (m *novelRepository) GetAverageRating(ctx context.Context, novelID int64) (*float64, error) {
	novel, err := m.get(ctx, novelID, "id, average_rating")
	if err != nil {
		return nil, err
	}
	if !novel.AverageRating.Valid {
		return nil, nil
	}
	rating := novel.AverageRating.Float64
	return &rating, nil
}

func (m *novelRepository) GetLastUpdateTime(ctx context.Context, novelID int64) (time.Time, error) {
	novel, err := m.get(ctx, novelID, "id, updated_at")
	if err != nil {
		return time.Time{}, err
	}
	return novel.UpdatedAt, nil
}

type categoryRepository struct {
	DB *gorm.DB
}

var _ domain.CategoryRegistry = (*categoryRepository)(nil)

func NewCategoryRepository(db *gorm.DB) *categoryRepository {
	return &categoryRepository{db}
}

func (m *categoryRepository) CategoryExists(ctx context.Context, categoryID int64) (bool, error) {
	var count int64
	err := m.DB.WithContext(ctx).
		Model(&model.Category{}).
		Where("id = ?", categoryID).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}
