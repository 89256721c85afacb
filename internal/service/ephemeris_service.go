package service

import (
	"context"
	"log"
	"time"

	"andromeda/internal/clients"
	"andromeda/internal/models"
	"andromeda/internal/parser"
	"andromeda/internal/repository"
)

type EphemerisService interface {
	GetEphemeris(ctx context.Context, mission models.Mission) ([]models.EphemerisSample, error)
	Prefetch(mission models.Mission)
}

type ephemerisService struct {
	repo   repository.EphemerisRepository
	client clients.ScienceClient
	now    func() time.Time
}

func NewEphemerisService(
	repo repository.EphemerisRepository,
	client clients.ScienceClient,
) EphemerisService {
	return &ephemerisService{
		repo:   repo,
		client: client,
		now:    time.Now,
	}
}

// GetEphemeris отдает серию позиций миссии, сперва из кэша. Кэш валиден,
// пока в нем есть хотя бы одна точка в будущем; иначе серия считается
// устаревшей, чистится и запрашивается заново. Пустой ответ API -
// нормальный исход, кэш остается пустым. Блокировки между очисткой,
// запросом и вставкой нет: при гонке выигрывает последняя вставка.
func (s *ephemerisService) GetEphemeris(ctx context.Context, mission models.Mission) ([]models.EphemerisSample, error) {
	if mission.Kind != models.MissionKindComet && mission.Kind != models.MissionKindDefense {
		return nil, nil
	}
	if !mission.HasEphemerisArgs() {
		return nil, nil
	}

	cached, err := s.repo.FutureSamples(ctx, mission.MissionKey, mission.ObservationPlaceID, s.now().UnixMilli())
	if err != nil {
		return nil, err
	}
	if len(cached) > 0 {
		return cached, nil
	}

	// кэш пуст или устарел - чистим серию перед новым запросом
	if err := s.repo.ClearForMission(ctx, mission.MissionKey, mission.ObservationPlaceID); err != nil {
		log.Printf("Failed to clear stale ephemeris for %s: %v", mission.MissionKey, err)
	}

	body, err := s.client.FetchEphemeris(ctx, mission.EphemerisArgs)
	if err != nil {
		log.Printf("Ephemeris fetch failed for %s: %v", mission.MissionKey, err)
		return nil, nil
	}

	samples, err := parser.ParseEphemeris(body, mission.MissionKey, mission.ObservationPlaceID)
	if err != nil {
		log.Printf("Ephemeris decode failed for %s: %v", mission.MissionKey, err)
		return nil, nil
	}

	if len(samples) > 0 {
		if err := s.repo.InsertAll(ctx, samples); err != nil {
			log.Printf("Failed to store ephemeris for %s: %v", mission.MissionKey, err)
		}
	}

	return samples, nil
}

// Prefetch греет кэш эфемерид в фоне. Задача отсоединена от цикла
// обновления: ошибки только логируются и никогда не влияют на его исход.
func (s *ephemerisService) Prefetch(mission models.Mission) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
		defer cancel()

		if _, err := s.GetEphemeris(ctx, mission); err != nil {
			log.Printf("Ephemeris prefetch failed for %s: %v", mission.MissionKey, err)
		}
	}()
}
