package utils

import "time"

const DateLayout = "2006-01-02"

// ParseDate lê uma data AAAA-MM-DD no fuso informado (UTC quando nil)
func ParseDate(dateStr string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout, dateStr, loc)
}

// Today retorna a data de hoje no formato AAAA-MM-DD
func Today(now time.Time) string {
	return now.Format(DateLayout)
}
