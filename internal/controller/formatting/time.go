package formatting

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/sports_booking/internal/model"
)

// FormatDateTime форматирует дату и время
func FormatDateTime(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}

// FormatDate форматирует календарный день
func FormatDate(d model.Date) string {
	return d.Time().Format("02.01.2006")
}

// FormatDateWithWeekday форматирует день с кратким днём недели
func FormatDateWithWeekday(d model.Date) string {
	return fmt.Sprintf("%s (%s)", FormatDate(d), GetWeekdayShortName(int(d.Time().Weekday())))
}

// FormatInterval форматирует интервал времени
func FormatInterval(iv model.Interval) string {
	return fmt.Sprintf("%s–%s", iv.Start, iv.End)
}

// FormatDuration форматирует длительность в минутах
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d мин", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%d ч", hours)
	}
	return fmt.Sprintf("%d ч %d мин", hours, mins)
}

// GetWeekdayShortName возвращает краткое название дня недели на русском
func GetWeekdayShortName(weekday int) string {
	names := []string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}
	if weekday >= 0 && weekday < len(names) {
		return names[weekday]
	}
	return "?"
}
