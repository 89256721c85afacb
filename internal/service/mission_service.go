package service

import (
	"context"
	"log"
	"sync"
	"time"

	"andromeda/internal/clients"
	"andromeda/internal/config"
	"andromeda/internal/models"
	"andromeda/internal/parser"
	"andromeda/internal/repository"
	"andromeda/internal/timeutil"
)

type MissionService interface {
	Refresh(ctx context.Context, place models.ObservationPlace) error
	IsRefreshing(observationPlaceID string) bool
	GetSections(ctx context.Context, place models.ObservationPlace) ([]models.MissionSection, error)
	Watch(ctx context.Context, place models.ObservationPlace) <-chan []models.MissionSection
}

type missionService struct {
	missions  repository.MissionRepository
	ephemeris repository.EphemerisRepository
	ephSvc    EphemerisService
	client    clients.ScienceClient
	cacheRepo repository.CacheRepository
	cfg       config.SyncConfig
	now       func() time.Time

	mu         sync.Mutex
	refreshing map[string]bool
}

func NewMissionService(
	missions repository.MissionRepository,
	ephemeris repository.EphemerisRepository,
	ephSvc EphemerisService,
	client clients.ScienceClient,
	cacheRepo repository.CacheRepository,
	cfg config.SyncConfig,
) MissionService {
	return &missionService{
		missions:   missions,
		ephemeris:  ephemeris,
		ephSvc:     ephSvc,
		client:     client,
		cacheRepo:  cacheRepo,
		cfg:        cfg,
		now:        time.Now,
		refreshing: make(map[string]bool),
	}
}

// Refresh выполняет цикл обновления миссий для точки наблюдения.
// Сначала синхронно авторитетное окно [now, now+NearWindowDays]: его
// непустой результат заменяет сохраненный набор целиком (clear+insert) и
// подрезает кэш эфемерид по набору ключей. Затем параллельные фоновые
// чанки по ChunkDays дней, только upsert. Отказ любого окна дает пустой
// результат этого окна и не прерывает остальные. Повторный вызов при
// идущем обновлении той же точки игнорируется.
func (s *missionService) Refresh(ctx context.Context, place models.ObservationPlace) error {
	if !s.begin(place.ID) {
		log.Printf("Refresh already running for place %s, skipping", place.ID)
		return nil
	}

	if s.throttled(ctx, place.ID) {
		s.end(place.ID)
		return nil
	}

	log.Printf("Refreshing missions for place %s (%s)", place.Name, place.ID)

	now := s.now()
	start := timeutil.DateTimeWithOffset(now, 0)
	end := timeutil.DateTimeWithOffset(now, s.cfg.NearWindowDays)

	stored := s.syncWindow(ctx, place, start, end, true)

	// флаг загрузки гаснет после авторитетного окна, чанки идут в фоне
	s.end(place.ID)

	if stored {
		s.markRefreshed(ctx, place.ID)
	} else {
		log.Printf("Authoritative window empty for place %s, keeping cached missions", place.ID)
	}

	var wg sync.WaitGroup
	for i := 1; i <= s.cfg.ChunkCount; i++ {
		offset := i * s.cfg.ChunkDays
		chunkStart := timeutil.DateTimeWithOffset(now, offset)
		chunkEnd := timeutil.DateTimeWithOffset(now, offset+s.cfg.ChunkDays-1)

		wg.Add(1)
		go func(start, end string) {
			defer wg.Done()
			s.syncWindow(ctx, place, start, end, false)
		}(chunkStart, chunkEnd)
	}
	wg.Wait()

	return nil
}

func (s *missionService) IsRefreshing(observationPlaceID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshing[observationPlaceID]
}

func (s *missionService) GetSections(ctx context.Context, place models.ObservationPlace) ([]models.MissionSection, error) {
	missions, err := s.missions.GetByPlace(ctx, place.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return GroupMissionsByDate(missions, timeutil.CurrentDate(now), now), nil
}

// Watch пересчитывает секции на каждый снимок живой подписки хранилища.
func (s *missionService) Watch(ctx context.Context, place models.ObservationPlace) <-chan []models.MissionSection {
	missions := s.missions.Watch(ctx, place.ID)
	out := make(chan []models.MissionSection, 1)

	go func() {
		defer close(out)
		for snapshot := range missions {
			now := s.now()
			sections := GroupMissionsByDate(snapshot, timeutil.CurrentDate(now), now)
			select {
			case out <- sections:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

// syncWindow загружает и сохраняет одно окно. Возвращает true, если в
// хранилище что-то записано. Любая сетевая ошибка или ошибка декодера
// деградирует до пустого окна.
func (s *missionService) syncWindow(ctx context.Context, place models.ObservationPlace, start, end string, authoritative bool) bool {
	body, err := s.client.ListMissions(ctx, place, start, end)
	if err != nil {
		log.Printf("Mission fetch failed for window [%s, %s]: %v", start, end, err)
		return false
	}

	parsed, err := parser.ParseMissions(body, place.ID)
	if err != nil {
		log.Printf("Mission decode failed for window [%s, %s]: %v", start, end, err)
		return false
	}

	// Unknown-записи не сохраняем
	missions := make([]models.Mission, 0, len(parsed))
	for _, m := range parsed {
		if m.Kind != models.MissionKindUnknown {
			missions = append(missions, m)
		}
	}

	if len(missions) == 0 {
		return false
	}

	if authoritative {
		if err := s.missions.ClearAll(ctx, place.ID); err != nil {
			log.Printf("Failed to clear missions for place %s: %v", place.ID, err)
		}
	}

	if err := s.missions.InsertAll(ctx, missions); err != nil {
		log.Printf("Failed to store missions for place %s: %v", place.ID, err)
		return false
	}

	if authoritative {
		// подрезаем эфемериды по набору ключей окна; миссии за пределами
		// окна тоже теряют кэш - известная неточность, повторный запрос
		// восстановит серию
		keys := make([]string, len(missions))
		for i, m := range missions {
			keys[i] = m.MissionKey
		}
		if err := s.ephemeris.PruneNotIn(ctx, keys, place.ID); err != nil {
			log.Printf("Failed to prune ephemeris for place %s: %v", place.ID, err)
		}
	}

	for _, m := range missions {
		if m.Kind == models.MissionKindComet || m.Kind == models.MissionKindDefense {
			s.ephSvc.Prefetch(m)
		}
	}

	log.Printf("Window [%s, %s] stored %d missions for place %s", start, end, len(missions), place.ID)
	return true
}

func (s *missionService) begin(observationPlaceID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refreshing[observationPlaceID] {
		return false
	}
	s.refreshing[observationPlaceID] = true
	return true
}

func (s *missionService) end(observationPlaceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.refreshing, observationPlaceID)
}

func (s *missionService) throttled(ctx context.Context, observationPlaceID string) bool {
	if s.cacheRepo == nil || s.cfg.RefreshThrottle <= 0 {
		return false
	}
	if cached, _ := s.cacheRepo.Get(ctx, "missions:last_refresh:"+observationPlaceID); cached != "" {
		log.Printf("Refresh throttled for place %s", observationPlaceID)
		return true
	}
	return false
}

func (s *missionService) markRefreshed(ctx context.Context, observationPlaceID string) {
	if s.cacheRepo == nil || s.cfg.RefreshThrottle <= 0 {
		return
	}
	if err := s.cacheRepo.Set(ctx, "missions:last_refresh:"+observationPlaceID, "1", s.cfg.RefreshThrottle); err != nil {
		log.Printf("Failed to set refresh marker for place %s: %v", observationPlaceID, err)
	}
}
