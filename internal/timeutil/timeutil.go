package timeutil

import (
	"strings"
	"time"
)

// Форматы, приходящие из научного API: полный момент с опциональными
// секундами/долями и голая календарная дата.
var instantFormats = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

const (
	dateFormat     = "2006-01-02"
	dateTimeFormat = "2006-01-02T15:04"
	displayFormat  = "2006-01-02 15:04"
)

// HasTimeComponent сообщает, содержит ли литерал компонент времени
// (разделитель T, регистр не важен).
func HasTimeComponent(s string) bool {
	return strings.ContainsAny(s, "Tt")
}

// ParseMissionTime разбирает литерал времени миссии. Полный момент
// трактуется как UTC, дата без времени - как полночь локального пояса.
func ParseMissionTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if HasTimeComponent(s) {
		normalized := strings.Replace(s, "t", "T", 1)
		for _, format := range instantFormats {
			if t, err := time.Parse(format, normalized); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}

	t, err := time.ParseInLocation(dateFormat, s, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// TimestampMillis возвращает сортируемую метку в эпохальных миллисекундах,
// 0 если литерал не разобрался.
func TimestampMillis(s string) int64 {
	t, ok := ParseMissionTime(s)
	if !ok {
		return 0
	}
	return t.UnixMilli()
}

// DateOnly возвращает календарную дату литерала в локальном поясе.
// Голая дата сохраняется как есть - строка показывается пользователю
// без изменений.
func DateOnly(s string) string {
	if !HasTimeComponent(s) {
		return strings.TrimSpace(s)
	}
	t, ok := ParseMissionTime(s)
	if !ok {
		return ""
	}
	return t.In(time.Local).Format(dateFormat)
}

// DisplayDateTime приводит момент к локальному поясу для отображения.
// Голая дата не трогается.
func DisplayDateTime(s string) string {
	if !HasTimeComponent(s) {
		return s
	}
	t, ok := ParseMissionTime(s)
	if !ok {
		return s
	}
	return t.In(time.Local).Format(displayFormat)
}

// CurrentDate возвращает сегодняшнюю дату в локальном поясе.
func CurrentDate(now time.Time) string {
	return now.In(time.Local).Format(dateFormat)
}

// DateTimeWithOffset возвращает момент "сейчас + N дней" в UTC в формате,
// который принимает научный API.
func DateTimeWithOffset(now time.Time, offsetDays int) string {
	return now.UTC().AddDate(0, 0, offsetDays).Format(dateTimeFormat)
}
