package service

import (
	"sort"
	"time"

	"andromeda/internal/models"
)

// GroupMissionsByDate раскладывает миссии по секциям календарных дат.
// Кометная миссия, стартовавшая в прошлом, все еще наблюдаема и
// прижимается к "сегодня" - и для сортировки, и для секции. Секция
// сегодняшней даты получает метку "Today", пустые секции выбрасываются.
func GroupMissionsByDate(missions []models.Mission, today string, now time.Time) []models.MissionSection {
	if len(missions) == 0 {
		return nil
	}

	nowMillis := now.UnixMilli()

	type entry struct {
		mission   models.Mission
		timestamp int64
		date      string
	}

	entries := make([]entry, 0, len(missions))
	for _, m := range missions {
		e := entry{mission: m, timestamp: m.StartTimestamp(), date: m.StartDate()}
		if m.Kind == models.MissionKindComet && e.timestamp <= nowMillis {
			e.timestamp = nowMillis
			e.date = today
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].timestamp < entries[j].timestamp
	})

	var sections []models.MissionSection
	currentDate := ""
	var currentList []models.Mission

	flush := func() {
		if currentDate == "" || len(currentList) == 0 {
			return
		}
		label := currentDate
		if currentDate == today {
			label = "Today"
		}
		sections = append(sections, models.MissionSection{Label: label, Missions: currentList})
	}

	for _, e := range entries {
		if e.date != currentDate {
			flush()
			currentDate = e.date
			currentList = nil
		}
		currentList = append(currentList, e.mission)
	}
	flush()

	return sections
}
