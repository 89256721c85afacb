package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"andromeda/internal/models"
)

type PlaceRepository interface {
	Create(ctx context.Context, place *models.ObservationPlace) error
	GetAll(ctx context.Context) ([]models.ObservationPlace, error)
	GetByID(ctx context.Context, id string) (*models.ObservationPlace, error)
	Count(ctx context.Context) (int64, error)
}

type placeRepository struct {
	db *gorm.DB
}

func NewPlaceRepository(db *gorm.DB) PlaceRepository {
	return &placeRepository{db: db}
}

func (r *placeRepository) Create(ctx context.Context, place *models.ObservationPlace) error {
	return r.db.WithContext(ctx).Create(place).Error
}

func (r *placeRepository) GetAll(ctx context.Context) ([]models.ObservationPlace, error) {
	var places []models.ObservationPlace
	err := r.db.WithContext(ctx).
		Order("created_at").
		Find(&places).
		Error
	return places, err
}

func (r *placeRepository) GetByID(ctx context.Context, id string) (*models.ObservationPlace, error) {
	var place models.ObservationPlace
	err := r.db.WithContext(ctx).First(&place, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &place, nil
}

func (r *placeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ObservationPlace{}).
		Count(&count).
		Error
	return count, err
}
