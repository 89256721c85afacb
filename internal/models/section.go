package models

// MissionSection - производная секция для отображения: метка даты
// (или "Today") и миссии этой даты. Не персистится, пересчитывается
// при каждом изменении списка миссий.
type MissionSection struct {
	Label    string    `json:"label"`
	Missions []Mission `json:"missions"`
}
