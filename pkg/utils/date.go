package utils

import "time"

func ParseDate(dateStr string) (*time.Time, error) {
	var date time.Time

	if dateStr != "" {
		incomingDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, err
		}

		date = incomingDate
	}

	return &date, nil
}

// WeekStart trunca a data para a segunda-feira da mesma semana (semana ISO).
func WeekStart(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // domingo fecha a semana, não a abre
	}

	return t.AddDate(0, 0, -(weekday - 1))
}

// WeekEnd retorna o domingo da semana iniciada em weekStart.
func WeekEnd(weekStart time.Time) time.Time {
	return weekStart.AddDate(0, 0, 6)
}

// LastFullWeekStart retorna a segunda-feira da última semana completa
// anterior à data de referência.
func LastFullWeekStart(ref time.Time) time.Time {
	return WeekStart(ref).AddDate(0, 0, -7)
}

// TrailingWeekStarts retorna os inícios das últimas n semanas completas,
// da mais antiga para a mais recente.
func TrailingWeekStarts(ref time.Time, n int) []time.Time {
	last := LastFullWeekStart(ref)

	weeks := make([]time.Time, 0, n)
	for i := n - 1; i >= 0; i-- {
		weeks = append(weeks, last.AddDate(0, 0, -7*i))
	}

	return weeks
}
