package parser

import (
	"encoding/json"
	"fmt"

	"andromeda/internal/models"
	"andromeda/internal/timeutil"
)

// ParseEphemeris разбирает серию позиций для миссии. API отдает либо
// голый массив, либо объект с полем "data".
func ParseEphemeris(payload []byte, missionKey, observationPlaceID string) ([]models.EphemerisSample, error) {
	var entries []map[string]interface{}
	if err := json.Unmarshal(payload, &entries); err != nil {
		var wrapper struct {
			Data []map[string]interface{} `json:"data"`
		}
		if err := json.Unmarshal(payload, &wrapper); err != nil {
			return nil, fmt.Errorf("decode ephemeris payload: %w", err)
		}
		entries = wrapper.Data
	}

	samples := make([]models.EphemerisSample, 0, len(entries))
	for _, entry := range entries {
		sample := models.EphemerisSample{
			MissionKey:         missionKey,
			ObservationPlaceID: observationPlaceID,
			Date:               extractString(entry, "date"),
			RA:                 extractString(entry, "ra"),
			Dec:                extractString(entry, "dec"),
			RAHMS:              extractString(entry, "ra_hms"),
			DecDMS:             extractString(entry, "dec_dms"),
			Alt:                extractFloat(entry, "alt"),
			Az:                 extractFloat(entry, "az"),
			Deeplink:           extractString(entry, "deeplink"),
		}

		// метка времени: либо явный epoch millis, либо производная от даты
		if ts, ok := entry["timestamp"].(float64); ok {
			sample.Timestamp = int64(ts)
		} else {
			sample.Timestamp = timeutil.TimestampMillis(sample.Date)
		}

		samples = append(samples, sample)
	}

	return samples, nil
}
