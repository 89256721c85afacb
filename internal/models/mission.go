package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"

	"andromeda/internal/timeutil"
)

type MissionKind string

const (
	MissionKindOccultation MissionKind = "occultation"
	MissionKindComet       MissionKind = "comet"
	MissionKindTransit     MissionKind = "transit"
	MissionKindDefense     MissionKind = "defense"
	MissionKindUnknown     MissionKind = "unknown"
)

// KindForMissionKey определяет тип миссии по маркеру в ключе.
// Сравнение чувствительно к регистру, выигрывает первое совпадение.
func KindForMissionKey(key string) MissionKind {
	switch {
	case strings.Contains(key, "_occultation_"):
		return MissionKindOccultation
	case strings.Contains(key, "_comet_"):
		return MissionKindComet
	case strings.Contains(key, "_transit_"):
		return MissionKindTransit
	case strings.Contains(key, "_defense_"):
		return MissionKindDefense
	default:
		return MissionKindUnknown
	}
}

// Mission - одна наблюдательная возможность из научного API.
// Первичный ключ (mission_key, observation_place_id): повторная загрузка
// того же ключа перезаписывает запись целиком.
type Mission struct {
	MissionKey         string         `gorm:"primaryKey" json:"mission_key"`
	ObservationPlaceID string         `gorm:"primaryKey;index" json:"observation_place_id"`
	Kind               MissionKind    `gorm:"index" json:"kind"`
	PipelineType       string         `json:"pipeline_type"`
	TargetName         string         `json:"target_name"`
	TargetNumber       string         `json:"target_number"`
	OrbitType          string         `json:"orbit_type"`
	RA                 string         `json:"ra"`
	Dec                string         `json:"dec"`
	RAHMS              string         `json:"ra_hms"`
	DecDMS             string         `json:"dec_dms"`
	Alt                int            `json:"alt"`
	Az                 int            `json:"az"`
	CardinalDirection  string         `json:"cardinal_direction"`
	Constellation      string         `json:"constellation"`
	KMLURL             string         `json:"kml_url"`
	Deeplink           string         `json:"deeplink"`
	Duration           string         `json:"duration"`
	ExposureTime       int            `json:"et"`
	Gain               int            `json:"gain"`
	Cadence            int            `json:"cadence"`
	Priority           bool           `json:"priority"`
	TStart             string         `json:"tstart"`
	TEnd               string         `json:"tend"`
	EphemerisURL       string         `json:"ephemeris_url"`
	EphemerisArgs      EphemerisArgs  `gorm:"embedded;embeddedPrefix:eph_args_" json:"ephemeris_args"`
	Category           string         `json:"category"`
	Raw                datatypes.JSON `gorm:"type:jsonb" json:"-"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"-"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"-"`
}

// EphemerisArgs - параметры запроса эфемерид для комет и planetary defense.
// Числовые поля приходят строками ("120.0") и усекаются до целой части
// перед отправкой в API.
type EphemerisArgs struct {
	Name     string `json:"name"`
	Loc      string `json:"loc"`
	TStart   string `json:"tstart"`
	AutoStep string `json:"auto_step"`
	Duration string `json:"duration"`
	Gain     string `json:"gain"`
	ExpTime  string `json:"exp_time"`
	IsComet  string `json:"is_comet"`
}

func (m Mission) HasEphemerisArgs() bool {
	return m.EphemerisArgs.Name != "" || m.EphemerisArgs.Loc != ""
}

// StartTimestamp возвращает сортируемую метку старта в эпохальных миллисекундах.
// Дата без времени трактуется как полночь локального пояса.
func (m Mission) StartTimestamp() int64 {
	return timeutil.TimestampMillis(m.TStart)
}

// StartDate возвращает календарную дату старта ("2006-01-02") для группировки.
func (m Mission) StartDate() string {
	return timeutil.DateOnly(m.TStart)
}

func (m Mission) StartDisplay() string {
	return timeutil.DisplayDateTime(m.TStart)
}

func (m Mission) EndDisplay() string {
	return timeutil.DisplayDateTime(m.TEnd)
}
