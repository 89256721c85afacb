package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMissionTimeInstants(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2025-06-01T20:30", time.Date(2025, 6, 1, 20, 30, 0, 0, time.UTC)},
		{"2025-06-01T20:30:15", time.Date(2025, 6, 1, 20, 30, 15, 0, time.UTC)},
		{"2025-06-01T20:30:15.5", time.Date(2025, 6, 1, 20, 30, 15, 500000000, time.UTC)},
		// строчный разделитель тоже валиден
		{"2025-06-01t20:30", time.Date(2025, 6, 1, 20, 30, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		got, ok := ParseMissionTime(tc.in)
		require.True(t, ok, tc.in)
		assert.True(t, got.Equal(tc.want), "%s parsed as %v", tc.in, got)
	}
}

func TestParseMissionTimeBareDateIsLocalMidnight(t *testing.T) {
	got, ok := ParseMissionTime("2025-06-01")
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)))
}

func TestParseMissionTimeRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "not a date", "2025-06-01Tnoon", "06/01/2025"} {
		_, ok := ParseMissionTime(in)
		assert.False(t, ok, in)
	}
}

func TestTimestampMillis(t *testing.T) {
	assert.Equal(t, time.Date(2025, 6, 1, 20, 30, 0, 0, time.UTC).UnixMilli(), TimestampMillis("2025-06-01T20:30"))
	assert.Equal(t, int64(0), TimestampMillis("bogus"))
}

func TestTimestampMillisOrdering(t *testing.T) {
	// полный момент и голая дата сортируются в одной шкале
	bare := TimestampMillis("2025-06-01")
	instant := TimestampMillis("2025-06-02T12:00")
	assert.Less(t, bare, instant)
}

func TestDateOnly(t *testing.T) {
	assert.Equal(t, "2025-06-01", DateOnly("2025-06-01"))
	assert.Equal(t, "2025-06-01", DateOnly(" 2025-06-01 "), "bare dates are trimmed, not reformatted")
	assert.Equal(t, "", DateOnly("2025-06-99T12:00"))

	local := time.Date(2025, 6, 1, 23, 30, 0, 0, time.UTC).In(time.Local)
	assert.Equal(t, local.Format("2006-01-02"), DateOnly("2025-06-01T23:30"))
}

func TestDisplayDateTime(t *testing.T) {
	assert.Equal(t, "2025-06-01", DisplayDateTime("2025-06-01"), "bare dates pass through untouched")

	local := time.Date(2025, 6, 1, 20, 30, 0, 0, time.UTC).In(time.Local)
	assert.Equal(t, local.Format("2006-01-02 15:04"), DisplayDateTime("2025-06-01T20:30"))
}

func TestCurrentDate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	assert.Equal(t, "2025-06-01", CurrentDate(now))
}

func TestDateTimeWithOffset(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-06-01T12:00", DateTimeWithOffset(now, 0))
	assert.Equal(t, "2025-06-03T12:00", DateTimeWithOffset(now, 2))
	assert.Equal(t, "2025-07-01T12:00", DateTimeWithOffset(now, 30))
}
