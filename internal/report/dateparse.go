package report

import "time"

// Запасные форматы для нестрогого разбора дат, когда вход не совпадает
// с форматом HTML date-input (YYYY-MM-DD)
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
}

// ParseDateBound разбирает строку даты из HTML date-input (YYYY-MM-DD)
// в момент локального времени: начало дня (00:00:00.000) или конец дня
// (23:59:59.999) в зависимости от флага endOfDay.
//
// Наивный разбор YYYY-MM-DD как UTC-полуночи даёт сдвиг на день при
// отображении в локальной зоне, поэтому дата собирается явно в локальной
// зоне. При несовпадении со строгим форматом пробуются запасные форматы.
// Пустая или некорректная строка возвращает ok=false, ошибок нет.
func ParseDateBound(s string, endOfDay bool) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return boundOfDay(t, endOfDay), true
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return boundOfDay(t.Local(), endOfDay), true
		}
	}
	return time.Time{}, false
}

// boundOfDay прижимает момент к границе его календарного дня
func boundOfDay(t time.Time, end bool) time.Time {
	y, m, d := t.Date()
	if end {
		return time.Date(y, m, d, 23, 59, 59, 999000000, t.Location())
	}
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
