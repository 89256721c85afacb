package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"andromeda/internal/models"
)

func sectionKeys(s models.MissionSection) []string {
	keys := make([]string, len(s.Missions))
	for i, m := range s.Missions {
		keys[i] = m.MissionKey
	}
	return keys
}

func TestGroupMissionsByDate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	today := "2025-06-01"

	missions := []models.Mission{
		{MissionKey: "m3", Kind: models.MissionKindOccultation, TStart: "2025-06-02"},
		{MissionKey: "m1", Kind: models.MissionKindTransit, TStart: "2025-06-01"},
		{MissionKey: "m2", Kind: models.MissionKindOccultation, TStart: "2025-06-01"},
	}

	sections := GroupMissionsByDate(missions, today, now)

	require.Len(t, sections, 2)
	assert.Equal(t, "Today", sections[0].Label)
	assert.Equal(t, []string{"m1", "m2"}, sectionKeys(sections[0]), "same-day order follows input order")
	assert.Equal(t, "2025-06-02", sections[1].Label)
	assert.Equal(t, []string{"m3"}, sectionKeys(sections[1]))
}

func TestGroupMissionsByDatePinsInProgressComet(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	today := "2025-06-01"

	missions := []models.Mission{
		{MissionKey: "comet", Kind: models.MissionKindComet, TStart: "2025-05-20"},
		{MissionKey: "occ", Kind: models.MissionKindOccultation, TStart: "2025-06-01"},
	}

	sections := GroupMissionsByDate(missions, today, now)

	// стартовавшая комета все еще наблюдаема: не в прошлом, а в "сегодня",
	// причем после миссий с конкретным временем суток
	require.Len(t, sections, 1)
	assert.Equal(t, "Today", sections[0].Label)
	assert.Equal(t, []string{"occ", "comet"}, sectionKeys(sections[0]))
}

func TestGroupMissionsByDateFutureCometKeepsItsDate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)

	missions := []models.Mission{
		{MissionKey: "comet", Kind: models.MissionKindComet, TStart: "2025-06-05"},
	}

	sections := GroupMissionsByDate(missions, "2025-06-01", now)

	require.Len(t, sections, 1)
	assert.Equal(t, "2025-06-05", sections[0].Label)
}

func TestGroupMissionsByDatePastNonCometStaysInPast(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)

	missions := []models.Mission{
		{MissionKey: "old", Kind: models.MissionKindTransit, TStart: "2025-05-30"},
		{MissionKey: "new", Kind: models.MissionKindTransit, TStart: "2025-06-01"},
	}

	sections := GroupMissionsByDate(missions, "2025-06-01", now)

	require.Len(t, sections, 2)
	assert.Equal(t, "2025-05-30", sections[0].Label)
	assert.Equal(t, "Today", sections[1].Label)
}

func TestGroupMissionsByDateEmptyInput(t *testing.T) {
	assert.Nil(t, GroupMissionsByDate(nil, "2025-06-01", time.Now()))
}

func TestGroupMissionsByDateDropsUndatedEntries(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)

	missions := []models.Mission{
		{MissionKey: "undated", Kind: models.MissionKindTransit, TStart: ""},
		{MissionKey: "dated", Kind: models.MissionKindTransit, TStart: "2025-06-01"},
	}

	sections := GroupMissionsByDate(missions, "2025-06-01", now)

	require.Len(t, sections, 1)
	assert.Equal(t, []string{"dated"}, sectionKeys(sections[0]))
}
