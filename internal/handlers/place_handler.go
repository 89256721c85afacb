package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"andromeda/internal/models"
	"andromeda/internal/service"
)

type PlaceHandler struct {
	service service.PlaceService
}

func NewPlaceHandler(service service.PlaceService) *PlaceHandler {
	return &PlaceHandler{service: service}
}

type createPlaceRequest struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	AltMin    int     `json:"alt_min"`
	AltMax    int     `json:"alt_max"`
	AzMin     int     `json:"az_min"`
	AzMax     int     `json:"az_max"`
}

func (h *PlaceHandler) CreatePlace(c *gin.Context) {
	ctx := c.Request.Context()

	var req createPlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	place := models.NewObservationPlace(
		req.Name,
		req.Latitude, req.Longitude,
		req.AltMin, req.AltMax,
		req.AzMin, req.AzMax,
	)

	created, err := h.service.Create(ctx, place)
	if err != nil {
		// ошибки валидации отдаем по полям
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			details := make(map[string]string, len(fieldErrors))
			for _, fe := range fieldErrors {
				details[fe.Field()] = fe.Tag()
			}
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":  "validation failed",
				"fields": details,
			})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": created})
}

func (h *PlaceHandler) ListPlaces(c *gin.Context) {
	ctx := c.Request.Context()

	places, err := h.service.List(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list observation places"})
		return
	}

	current, hasCurrent := h.service.Current()
	currentID := ""
	if hasCurrent {
		currentID = current.ID
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"places":  places,
			"count":   len(places),
			"current": currentID,
		},
	})
}

func (h *PlaceHandler) SelectPlace(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if err := h.service.Select(ctx, id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "selected": id})
}
