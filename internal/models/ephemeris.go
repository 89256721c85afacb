package models

import "time"

// EphemerisSample - одна рассчитанная позиция цели на небе в момент времени.
// Серия для миссии всегда заменяется целиком, частичных обновлений нет.
type EphemerisSample struct {
	MissionKey         string    `gorm:"primaryKey" json:"mission_key"`
	ObservationPlaceID string    `gorm:"primaryKey" json:"observation_place_id"`
	Timestamp          int64     `gorm:"primaryKey;index" json:"timestamp"`
	Date               string    `json:"date"`
	RA                 string    `json:"ra"`
	Dec                string    `json:"dec"`
	RAHMS              string    `json:"ra_hms"`
	DecDMS             string    `json:"dec_dms"`
	Alt                float64   `json:"alt"`
	Az                 float64   `json:"az"`
	Deeplink           string    `json:"deeplink"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"-"`
}
