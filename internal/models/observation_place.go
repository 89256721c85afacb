package models

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var placeValidator = validator.New()

// ObservationPlace - сохраненная точка наблюдения: координаты плюс
// видимое окно по высоте и азимуту. Запись неизменяема после создания,
// пути удаления нет.
type ObservationPlace struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name" validate:"required"`
	Latitude  float64   `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64   `json:"longitude" validate:"gte=-180,lte=180"`
	AltMin    int       `json:"alt_min" validate:"gte=0,lte=90"`
	AltMax    int       `json:"alt_max" validate:"gte=0,lte=90"`
	AzMin     int       `json:"az_min" validate:"gte=0,lte=360"`
	AzMax     int       `json:"az_max" validate:"gte=0,lte=360"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}

func NewObservationPlace(name string, latitude, longitude float64, altMin, altMax, azMin, azMax int) ObservationPlace {
	return ObservationPlace{
		ID:        uuid.NewString(),
		Name:      name,
		Latitude:  latitude,
		Longitude: longitude,
		AltMin:    altMin,
		AltMax:    altMax,
		AzMin:     azMin,
		AzMax:     azMax,
	}
}

// Validate проверяет диапазоны полей и согласованность окон.
// Невалидная точка никогда не попадает в хранилище.
func (p ObservationPlace) Validate() error {
	if err := placeValidator.Struct(p); err != nil {
		return err
	}
	if p.AltMin > p.AltMax {
		return fmt.Errorf("altitude window: min %d greater than max %d", p.AltMin, p.AltMax)
	}
	if p.AzMin > p.AzMax {
		return fmt.Errorf("azimuth window: min %d greater than max %d", p.AzMin, p.AzMax)
	}
	return nil
}
