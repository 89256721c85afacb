package worker

import (
	"context"
	"log"
	"time"

	"andromeda/internal/repository"
	"andromeda/internal/service"
)

// MissionWorker периодически перезапускает цикл обновления миссий для
// всех сохраненных точек наблюдения.
type MissionWorker struct {
	places   repository.PlaceRepository
	missions service.MissionService
	interval time.Duration
	stopChan chan struct{}
	running  bool
}

func NewMissionWorker(places repository.PlaceRepository, missions service.MissionService, interval time.Duration) *MissionWorker {
	return &MissionWorker{
		places:   places,
		missions: missions,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (w *MissionWorker) Start() {
	if w.running {
		return
	}

	w.running = true
	log.Printf("Mission Worker started with interval %v", w.interval)

	// первая синхронизация сразу при старте
	w.syncAll()

	go w.run()
}

func (w *MissionWorker) Stop() {
	if !w.running {
		return
	}

	close(w.stopChan)
	w.running = false
	log.Println("Mission Worker stopped")
}

func (w *MissionWorker) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.syncAll()
		case <-w.stopChan:
			return
		}
	}
}

func (w *MissionWorker) syncAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	places, err := w.places.GetAll(ctx)
	if err != nil {
		log.Printf("Mission Worker: failed to list places: %v", err)
		return
	}

	log.Printf("Mission Worker: syncing %d places", len(places))

	for _, place := range places {
		if err := w.missions.Refresh(ctx, place); err != nil {
			log.Printf("Mission Worker: refresh failed for place %s: %v", place.ID, err)
		}
	}

	log.Println("Mission Worker: sync completed")
}
