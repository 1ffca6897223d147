package utils

import "time"

const DateLayout = "2006-01-02"

func TodayDate() string {
	return time.Now().Format(DateLayout)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate interprets a YYYY-MM-DD string as local midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}
