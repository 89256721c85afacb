package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"andromeda/internal/models"
	"andromeda/internal/repository"
)

type PlaceService interface {
	Create(ctx context.Context, place models.ObservationPlace) (*models.ObservationPlace, error)
	List(ctx context.Context) ([]models.ObservationPlace, error)
	Current() (models.ObservationPlace, bool)
	Select(ctx context.Context, id string) error
	CurrentSections() []models.MissionSection
	Close()
}

// placeService держит текущую точку наблюдения и конвейер ее миссий.
// Смена точки отменяет подписку предыдущей и стартует новую
// (cancel-then-restart, без очереди).
type placeService struct {
	repo       repository.PlaceRepository
	missionSvc MissionService

	mu          sync.Mutex
	current     *models.ObservationPlace
	cancelWatch context.CancelFunc
	sections    atomic.Value // []models.MissionSection
}

func NewPlaceService(repo repository.PlaceRepository, missionSvc MissionService) PlaceService {
	s := &placeService{
		repo:       repo,
		missionSvc: missionSvc,
	}
	s.sections.Store([]models.MissionSection{})
	return s
}

// Create валидирует и сохраняет точку; невалидная запись в хранилище не
// попадает. Первая созданная точка сразу становится текущей.
func (s *placeService) Create(ctx context.Context, place models.ObservationPlace) (*models.ObservationPlace, error) {
	if err := place.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, &place); err != nil {
		return nil, fmt.Errorf("create observation place: %w", err)
	}

	s.mu.Lock()
	noCurrent := s.current == nil
	s.mu.Unlock()
	if noCurrent {
		if err := s.Select(ctx, place.ID); err != nil {
			log.Printf("Failed to select new place %s: %v", place.ID, err)
		}
	}

	return &place, nil
}

func (s *placeService) List(ctx context.Context) ([]models.ObservationPlace, error) {
	return s.repo.GetAll(ctx)
}

func (s *placeService) Current() (models.ObservationPlace, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return models.ObservationPlace{}, false
	}
	return *s.current, true
}

// Select делает точку текущей: конвейер предыдущей точки отменяется до
// старта нового, после чего запускается фоновый цикл обновления.
func (s *placeService) Select(ctx context.Context, id string) error {
	place, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load observation place: %w", err)
	}
	if place == nil {
		return fmt.Errorf("observation place %s not found", id)
	}

	s.mu.Lock()
	if s.cancelWatch != nil {
		s.cancelWatch()
	}
	watchCtx, cancel := context.WithCancel(context.Background())
	s.cancelWatch = cancel
	s.current = place
	s.sections.Store([]models.MissionSection{})
	s.mu.Unlock()

	go s.watchSections(watchCtx, *place)
	go func() {
		if err := s.missionSvc.Refresh(context.Background(), *place); err != nil {
			log.Printf("Refresh failed for place %s: %v", place.ID, err)
		}
	}()

	log.Printf("Observation place selected: %s (%s)", place.Name, place.ID)
	return nil
}

// CurrentSections отдает последний рассчитанный снимок секций текущей точки.
func (s *placeService) CurrentSections() []models.MissionSection {
	sections, _ := s.sections.Load().([]models.MissionSection)
	return sections
}

func (s *placeService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelWatch != nil {
		s.cancelWatch()
		s.cancelWatch = nil
	}
}

func (s *placeService) watchSections(ctx context.Context, place models.ObservationPlace) {
	for sections := range s.missionSvc.Watch(ctx, place) {
		s.mu.Lock()
		isCurrent := s.current != nil && s.current.ID == place.ID
		s.mu.Unlock()
		if !isCurrent {
			return
		}
		s.sections.Store(sections)
	}
}
