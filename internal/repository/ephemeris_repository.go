package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"andromeda/internal/models"
)

type EphemerisRepository interface {
	InsertAll(ctx context.Context, samples []models.EphemerisSample) error
	ClearForMission(ctx context.Context, missionKey, observationPlaceID string) error
	PruneNotIn(ctx context.Context, missionKeys []string, observationPlaceID string) error
	FutureSamples(ctx context.Context, missionKey, observationPlaceID string, after int64) ([]models.EphemerisSample, error)
	Count(ctx context.Context, observationPlaceID string) (int64, error)
}

type ephemerisRepository struct {
	db *gorm.DB
}

func NewEphemerisRepository(db *gorm.DB) EphemerisRepository {
	return &ephemerisRepository{db: db}
}

func (r *ephemerisRepository) InsertAll(ctx context.Context, samples []models.EphemerisSample) error {
	if len(samples) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&samples).
		Error
}

func (r *ephemerisRepository) ClearForMission(ctx context.Context, missionKey, observationPlaceID string) error {
	return r.db.WithContext(ctx).
		Where("mission_key = ? AND observation_place_id = ?", missionKey, observationPlaceID).
		Delete(&models.EphemerisSample{}).
		Error
}

// PruneNotIn удаляет серии миссий, которых нет в свежем результате
// авторитетного окна. Пустой набор ключей чистит все серии точки.
func (r *ephemerisRepository) PruneNotIn(ctx context.Context, missionKeys []string, observationPlaceID string) error {
	query := r.db.WithContext(ctx).Where("observation_place_id = ?", observationPlaceID)
	if len(missionKeys) > 0 {
		query = query.Where("mission_key NOT IN ?", missionKeys)
	}
	return query.Delete(&models.EphemerisSample{}).Error
}

func (r *ephemerisRepository) FutureSamples(ctx context.Context, missionKey, observationPlaceID string, after int64) ([]models.EphemerisSample, error) {
	var samples []models.EphemerisSample
	err := r.db.WithContext(ctx).
		Where("mission_key = ? AND observation_place_id = ? AND timestamp > ?", missionKey, observationPlaceID, after).
		Order("timestamp").
		Find(&samples).
		Error
	return samples, err
}

func (r *ephemerisRepository) Count(ctx context.Context, observationPlaceID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.EphemerisSample{}).
		Where("observation_place_id = ?", observationPlaceID).
		Count(&count).
		Error
	return count, err
}
