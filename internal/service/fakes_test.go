package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"andromeda/internal/clients"
	"andromeda/internal/models"
	"andromeda/internal/repository"
)

type fakeScienceClient struct {
	mu          sync.Mutex
	listCalls   int
	ephCalls    int
	listFn      func(place models.ObservationPlace, start, end string) ([]byte, error)
	ephFn       func(args models.EphemerisArgs) ([]byte, error)
	listWindows [][2]string
}

var _ clients.ScienceClient = (*fakeScienceClient)(nil)

func (c *fakeScienceClient) ListMissions(ctx context.Context, place models.ObservationPlace, start, end string) ([]byte, error) {
	c.mu.Lock()
	c.listCalls++
	c.listWindows = append(c.listWindows, [2]string{start, end})
	fn := c.listFn
	c.mu.Unlock()

	if fn == nil {
		return []byte(`{}`), nil
	}
	return fn(place, start, end)
}

func (c *fakeScienceClient) FetchEphemeris(ctx context.Context, args models.EphemerisArgs) ([]byte, error) {
	c.mu.Lock()
	c.ephCalls++
	fn := c.ephFn
	c.mu.Unlock()

	if fn == nil {
		return []byte(`[]`), nil
	}
	return fn(args)
}

func (c *fakeScienceClient) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listCalls
}

func (c *fakeScienceClient) ephemerisCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ephCalls
}

type fakeMissionRepo struct {
	mu         sync.Mutex
	missions   map[string]models.Mission // key: missionKey|placeID
	clearCalls int
}

var _ repository.MissionRepository = (*fakeMissionRepo)(nil)

func newFakeMissionRepo() *fakeMissionRepo {
	return &fakeMissionRepo{missions: make(map[string]models.Mission)}
}

func (r *fakeMissionRepo) InsertAll(ctx context.Context, missions []models.Mission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range missions {
		r.missions[m.MissionKey+"|"+m.ObservationPlaceID] = m
	}
	return nil
}

func (r *fakeMissionRepo) ClearAll(ctx context.Context, observationPlaceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearCalls++
	for key, m := range r.missions {
		if m.ObservationPlaceID == observationPlaceID {
			delete(r.missions, key)
		}
	}
	return nil
}

func (r *fakeMissionRepo) GetByPlace(ctx context.Context, observationPlaceID string) ([]models.Mission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Mission
	for _, m := range r.missions {
		if m.ObservationPlaceID == observationPlaceID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MissionKey < out[j].MissionKey })
	return out, nil
}

func (r *fakeMissionRepo) GetByKey(ctx context.Context, missionKey, observationPlaceID string) (*models.Mission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.missions[missionKey+"|"+observationPlaceID]; ok {
		return &m, nil
	}
	return nil, nil
}

func (r *fakeMissionRepo) Count(ctx context.Context, observationPlaceID string) (int64, error) {
	missions, _ := r.GetByPlace(ctx, observationPlaceID)
	return int64(len(missions)), nil
}

func (r *fakeMissionRepo) Watch(ctx context.Context, observationPlaceID string) <-chan []models.Mission {
	out := make(chan []models.Mission, 1)
	missions, _ := r.GetByPlace(ctx, observationPlaceID)
	out <- missions
	close(out)
	return out
}

type fakeEphemerisRepo struct {
	mu         sync.Mutex
	samples    map[string][]models.EphemerisSample // key: missionKey|placeID
	pruneCalls [][]string
	clearCalls []string
}

var _ repository.EphemerisRepository = (*fakeEphemerisRepo)(nil)

func newFakeEphemerisRepo() *fakeEphemerisRepo {
	return &fakeEphemerisRepo{samples: make(map[string][]models.EphemerisSample)}
}

func (r *fakeEphemerisRepo) InsertAll(ctx context.Context, samples []models.EphemerisSample) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range samples {
		key := s.MissionKey + "|" + s.ObservationPlaceID
		r.samples[key] = append(r.samples[key], s)
	}
	return nil
}

func (r *fakeEphemerisRepo) ClearForMission(ctx context.Context, missionKey, observationPlaceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearCalls = append(r.clearCalls, missionKey)
	delete(r.samples, missionKey+"|"+observationPlaceID)
	return nil
}

func (r *fakeEphemerisRepo) PruneNotIn(ctx context.Context, missionKeys []string, observationPlaceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneCalls = append(r.pruneCalls, missionKeys)

	keep := make(map[string]bool, len(missionKeys))
	for _, k := range missionKeys {
		keep[k] = true
	}
	for key, samples := range r.samples {
		if len(samples) == 0 {
			continue
		}
		if samples[0].ObservationPlaceID == observationPlaceID && !keep[samples[0].MissionKey] {
			delete(r.samples, key)
		}
	}
	return nil
}

func (r *fakeEphemerisRepo) FutureSamples(ctx context.Context, missionKey, observationPlaceID string, after int64) ([]models.EphemerisSample, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.EphemerisSample
	for _, s := range r.samples[missionKey+"|"+observationPlaceID] {
		if s.Timestamp > after {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out, nil
}

func (r *fakeEphemerisRepo) Count(ctx context.Context, observationPlaceID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, samples := range r.samples {
		for _, s := range samples {
			if s.ObservationPlaceID == observationPlaceID {
				count++
			}
		}
	}
	return count, nil
}

func (r *fakeEphemerisRepo) has(missionKey, observationPlaceID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.samples[missionKey+"|"+observationPlaceID]) > 0
}

// fakeEphemerisService записывает префетчи синхронно, чтобы тесты
// оркестратора не зависели от фоновых горутин.
type fakeEphemerisService struct {
	mu         sync.Mutex
	prefetched []string
}

var _ EphemerisService = (*fakeEphemerisService)(nil)

func (s *fakeEphemerisService) GetEphemeris(ctx context.Context, mission models.Mission) ([]models.EphemerisSample, error) {
	return nil, nil
}

func (s *fakeEphemerisService) Prefetch(mission models.Mission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefetched = append(s.prefetched, mission.MissionKey)
}

func (s *fakeEphemerisService) prefetchedKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]string(nil), s.prefetched...)
	sort.Strings(out)
	return out
}

type fakeCacheRepo struct {
	mu     sync.Mutex
	values map[string]string
}

var _ repository.CacheRepository = (*fakeCacheRepo)(nil)

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{values: make(map[string]string)}
}

func (r *fakeCacheRepo) Get(ctx context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.values[key], nil
}

func (r *fakeCacheRepo) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

func (r *fakeCacheRepo) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, key)
	return nil
}

func (r *fakeCacheRepo) GetJSON(ctx context.Context, key string, dest interface{}) error {
	return nil
}

func (r *fakeCacheRepo) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}
