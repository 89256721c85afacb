package parser

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"andromeda/internal/models"
)

// ParseMissions разбирает ответ листинга миссий: JSON-объект, где ключи -
// идентификаторы миссий, значения - тела миссий. Служебный ключ "query"
// пропускается. Ошибка одной записи не валит весь разбор: запись
// деградирует до Unknown с сырым телом, вернуться может только ошибка
// внешнего JSON.
func ParseMissions(payload []byte, observationPlaceID string) ([]models.Mission, error) {
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(payload, &outer); err != nil {
		return nil, fmt.Errorf("decode mission payload: %w", err)
	}

	missions := make([]models.Mission, 0, len(outer))
	for key, raw := range outer {
		if key == "query" {
			continue
		}
		missions = append(missions, parseEntry(key, observationPlaceID, raw))
	}

	return missions, nil
}

func parseEntry(key, observationPlaceID string, raw json.RawMessage) models.Mission {
	mission := models.Mission{
		MissionKey:         key,
		ObservationPlaceID: observationPlaceID,
		Kind:               models.MissionKindUnknown,
		Raw:                []byte(raw),
	}

	kind := models.KindForMissionKey(key)
	if kind == models.MissionKindUnknown {
		return mission
	}

	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		// тело не объект - деградируем до Unknown-записи с сырым текстом
		return mission
	}

	mission.Kind = kind

	mission.PipelineType = extractString(body, "pipeline_type")
	mission.TargetName = extractString(body, "target_name")
	mission.TargetNumber = extractString(body, "target_number")
	mission.OrbitType = extractString(body, "orbit_type")
	mission.RA = extractString(body, "ra")
	mission.Dec = extractString(body, "dec")
	mission.RAHMS = extractString(body, "ra_hms")
	mission.DecDMS = extractString(body, "dec_dms")
	mission.Alt = extractInt(body, "alt")
	mission.Az = extractInt(body, "az")
	mission.CardinalDirection = extractString(body, "cardinal_direction")
	mission.Constellation = extractString(body, "constellation")
	mission.KMLURL = extractString(body, "kml_url")
	mission.Deeplink = extractString(body, "deeplink")
	mission.Duration = extractString(body, "duration")
	mission.ExposureTime = extractInt(body, "et")
	mission.Gain = extractInt(body, "gain")
	mission.Cadence = extractInt(body, "cadence")
	mission.Priority = extractBool(body, "priority")
	mission.TStart = extractString(body, "tstart")
	mission.TEnd = extractString(body, "tend")
	mission.EphemerisURL = extractString(body, "ephemeris_url")
	mission.Category = extractString(body, "category")

	if args, ok := body["ephemeris_args"].(map[string]interface{}); ok {
		mission.EphemerisArgs = models.EphemerisArgs{
			Name:     extractString(args, "name"),
			Loc:      extractString(args, "loc"),
			TStart:   extractString(args, "tstart"),
			AutoStep: extractString(args, "auto_step"),
			Duration: extractString(args, "duration"),
			Gain:     extractString(args, "gain"),
			ExpTime:  extractString(args, "exp_time"),
			IsComet:  extractString(args, "is_comet"),
		}
	}

	return mission
}

// extract-хелперы терпимы к разнотипным литералам: числа строками,
// булевы значения числами и т.п.

func extractString(data map[string]interface{}, key string) string {
	val, ok := data[key]
	if !ok || val == nil {
		return ""
	}
	switch v := val.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

func extractInt(data map[string]interface{}, key string) int {
	val, ok := data[key]
	if !ok || val == nil {
		return 0
	}
	switch v := val.(type) {
	case float64:
		return int(v)
	case string:
		trimmed := strings.SplitN(strings.TrimSpace(v), ".", 2)[0]
		if n, err := strconv.Atoi(trimmed); err == nil {
			return n
		}
	case bool:
		if v {
			return 1
		}
	}
	return 0
}

func extractBool(data map[string]interface{}, key string) bool {
	val, ok := data[key]
	if !ok || val == nil {
		return false
	}
	switch v := val.(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	case float64:
		return v != 0
	}
	return false
}

func extractFloat(data map[string]interface{}, key string) float64 {
	val, ok := data[key]
	if !ok || val == nil {
		return 0
	}
	switch v := val.(type) {
	case float64:
		return v
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return 0
}
