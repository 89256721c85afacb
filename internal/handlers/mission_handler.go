package handlers

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"andromeda/internal/repository"
	"andromeda/internal/service"
	"andromeda/internal/utils"
)

type MissionHandler struct {
	places    service.PlaceService
	missions  service.MissionService
	ephemeris service.EphemerisService
	repo      repository.MissionRepository
	exportDir string
}

func NewMissionHandler(
	places service.PlaceService,
	missions service.MissionService,
	ephemeris service.EphemerisService,
	repo repository.MissionRepository,
	exportDir string,
) *MissionHandler {
	return &MissionHandler{
		places:    places,
		missions:  missions,
		ephemeris: ephemeris,
		repo:      repo,
		exportDir: exportDir,
	}
}

func (h *MissionHandler) GetMissions(c *gin.Context) {
	ctx := c.Request.Context()

	place, ok := h.places.Current()
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "no observation place configured"})
		return
	}

	sections, err := h.missions.GetSections(ctx, place)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load missions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"place":    place.ID,
			"sections": sections,
			"loading":  h.missions.IsRefreshing(place.ID),
		},
	})
}

// StreamMissions отдает живые снимки секций через SSE, пока клиент
// держит соединение.
func (h *MissionHandler) StreamMissions(c *gin.Context) {
	place, ok := h.places.Current()
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "no observation place configured"})
		return
	}

	sections := h.missions.Watch(c.Request.Context(), place)

	c.Stream(func(w io.Writer) bool {
		snapshot, open := <-sections
		if !open {
			return false
		}
		c.SSEvent("sections", snapshot)
		return true
	})
}

func (h *MissionHandler) GetEphemeris(c *gin.Context) {
	ctx := c.Request.Context()
	missionKey := c.Param("key")

	place, ok := h.places.Current()
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "no observation place configured"})
		return
	}

	mission, err := h.repo.GetByKey(ctx, missionKey, place.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load mission"})
		return
	}
	if mission == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "mission not found"})
		return
	}

	samples, err := h.ephemeris.GetEphemeris(ctx, *mission)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load ephemeris"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"mission": missionKey,
			"samples": samples,
			"count":   len(samples),
		},
	})
}

func (h *MissionHandler) Refresh(c *gin.Context) {
	place, ok := h.places.Current()
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "no observation place configured"})
		return
	}

	if h.missions.IsRefreshing(place.ID) {
		c.JSON(http.StatusConflict, gin.H{"error": "refresh already in progress"})
		return
	}

	go func() {
		if err := h.missions.Refresh(context.Background(), place); err != nil {
			log.Printf("Manual refresh failed for place %s: %v", place.ID, err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"success": true, "message": "refresh started"})
}

func (h *MissionHandler) Export(c *gin.Context) {
	ctx := c.Request.Context()

	place, ok := h.places.Current()
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "no observation place configured"})
		return
	}

	missions, err := h.repo.GetByPlace(ctx, place.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load missions"})
		return
	}

	format := c.DefaultQuery("format", "csv")
	timestamp := time.Now().UTC().Format("20060102_150405")

	var path string
	switch format {
	case "xlsx":
		path = filepath.Join(h.exportDir, fmt.Sprintf("missions_%s.xlsx", timestamp))
		err = utils.CreateMissionsExcelFile(path, missions)
	case "csv":
		path = filepath.Join(h.exportDir, fmt.Sprintf("missions_%s.csv", timestamp))
		err = utils.WriteMissionsCSV(path, missions)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported format, use csv or xlsx"})
		return
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export missions"})
		return
	}

	c.FileAttachment(path, filepath.Base(path))
}
