package model

import (
	"math"
	"time"
)

const (
	DateKeyLayout = "2006-01-02"
	TimeKeyLayout = "15:04"
)

// DateKey identifies one calendar day, used as a night key for room booked
// counts and as the outer key of service booked counts.
type DateKey string

// TimeKey identifies a recurring time-of-day slot. Keys in HH:MM form sort
// lexicographically in slot order.
type TimeKey string

func DateKeyOf(t time.Time) DateKey {
	return DateKey(t.UTC().Format(DateKeyLayout))
}

func TimeKeyOf(t time.Time) TimeKey {
	return TimeKey(t.UTC().Format(TimeKeyLayout))
}

func (d DateKey) Time() (time.Time, error) {
	return time.Parse(DateKeyLayout, string(d))
}

// NightCount returns the number of nights in a stay, the day difference
// between check-in and check-out rounded to the nearest whole day.
func NightCount(checkIn, checkOut time.Time) int {
	return int(math.Round(checkOut.Sub(checkIn).Hours() / 24))
}

// NightKeys expands [checkIn, checkOut) into one key per night of the stay.
// The check-out day is excluded.
func NightKeys(checkIn, checkOut time.Time) []DateKey {
	nights := NightCount(checkIn, checkOut)
	if nights <= 0 {
		return nil
	}

	day := checkIn.UTC().Truncate(24 * time.Hour)
	keys := make([]DateKey, 0, nights)
	for i := 0; i < nights; i++ {
		keys = append(keys, DateKeyOf(day.AddDate(0, 0, i)))
	}
	return keys
}
