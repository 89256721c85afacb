package repository

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"andromeda/internal/models"
)

type MissionRepository interface {
	InsertAll(ctx context.Context, missions []models.Mission) error
	ClearAll(ctx context.Context, observationPlaceID string) error
	GetByPlace(ctx context.Context, observationPlaceID string) ([]models.Mission, error)
	GetByKey(ctx context.Context, missionKey, observationPlaceID string) (*models.Mission, error)
	Count(ctx context.Context, observationPlaceID string) (int64, error)
	Watch(ctx context.Context, observationPlaceID string) <-chan []models.Mission
}

type missionRepository struct {
	db *gorm.DB

	mu       sync.Mutex
	watchers map[string][]chan struct{}
}

func NewMissionRepository(db *gorm.DB) MissionRepository {
	return &missionRepository{
		db:       db,
		watchers: make(map[string][]chan struct{}),
	}
}

func (r *missionRepository) InsertAll(ctx context.Context, missions []models.Mission) error {
	if len(missions) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&missions).
		Error
	if err != nil {
		return err
	}

	seen := make(map[string]bool)
	for _, m := range missions {
		if !seen[m.ObservationPlaceID] {
			seen[m.ObservationPlaceID] = true
			r.notify(m.ObservationPlaceID)
		}
	}
	return nil
}

func (r *missionRepository) ClearAll(ctx context.Context, observationPlaceID string) error {
	err := r.db.WithContext(ctx).
		Where("observation_place_id = ?", observationPlaceID).
		Delete(&models.Mission{}).
		Error
	if err != nil {
		return err
	}

	r.notify(observationPlaceID)
	return nil
}

func (r *missionRepository) GetByPlace(ctx context.Context, observationPlaceID string) ([]models.Mission, error) {
	var missions []models.Mission
	err := r.db.WithContext(ctx).
		Where("observation_place_id = ?", observationPlaceID).
		Order("mission_key").
		Find(&missions).
		Error
	return missions, err
}

func (r *missionRepository) GetByKey(ctx context.Context, missionKey, observationPlaceID string) (*models.Mission, error) {
	var mission models.Mission
	err := r.db.WithContext(ctx).
		First(&mission, "mission_key = ? AND observation_place_id = ?", missionKey, observationPlaceID).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &mission, nil
}

func (r *missionRepository) Count(ctx context.Context, observationPlaceID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Mission{}).
		Where("observation_place_id = ?", observationPlaceID).
		Count(&count).
		Error
	return count, err
}

// Watch возвращает живую подписку на миссии точки наблюдения: сразу
// текущий снимок, затем новый снимок после каждой записи. Канал
// закрывается при отмене контекста.
func (r *missionRepository) Watch(ctx context.Context, observationPlaceID string) <-chan []models.Mission {
	signal := make(chan struct{}, 1)
	out := make(chan []models.Mission, 1)

	r.mu.Lock()
	r.watchers[observationPlaceID] = append(r.watchers[observationPlaceID], signal)
	r.mu.Unlock()

	go func() {
		defer close(out)
		defer r.unsubscribe(observationPlaceID, signal)

		r.publish(ctx, observationPlaceID, out)
		for {
			select {
			case <-ctx.Done():
				return
			case <-signal:
				r.publish(ctx, observationPlaceID, out)
			}
		}
	}()

	return out
}

func (r *missionRepository) publish(ctx context.Context, observationPlaceID string, out chan []models.Mission) {
	missions, err := r.GetByPlace(ctx, observationPlaceID)
	if err != nil {
		return
	}

	// буфер на один снимок: медленный потребитель видит только последний
	select {
	case out <- missions:
	default:
		select {
		case <-out:
		default:
		}
		select {
		case out <- missions:
		case <-ctx.Done():
		}
	}
}

func (r *missionRepository) notify(observationPlaceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, signal := range r.watchers[observationPlaceID] {
		select {
		case signal <- struct{}{}:
		default:
		}
	}
}

func (r *missionRepository) unsubscribe(observationPlaceID string, signal chan struct{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs := r.watchers[observationPlaceID]
	for i, s := range subs {
		if s == signal {
			r.watchers[observationPlaceID] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(r.watchers[observationPlaceID]) == 0 {
		delete(r.watchers, observationPlaceID)
	}
}
