package model

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNightKeys_ExcludesCheckOutDay(t *testing.T) {
	checkIn := date(2025, time.June, 1)
	checkOut := date(2025, time.June, 3)

	if nights := NightCount(checkIn, checkOut); nights != 2 {
		t.Fatalf("expected 2 nights, got %d", nights)
	}

	keys := NightKeys(checkIn, checkOut)
	expected := []DateKey{"2025-06-01", "2025-06-02"}

	if len(keys) != len(expected) {
		t.Fatalf("expected %d night keys, got %d: %v", len(expected), len(keys), keys)
	}
	for i, key := range expected {
		if keys[i] != key {
			t.Errorf("night key %d: expected %s, got %s", i, key, keys[i])
		}
	}
}

func TestNightKeys_SingleNight(t *testing.T) {
	keys := NightKeys(date(2025, time.June, 1), date(2025, time.June, 2))
	if len(keys) != 1 || keys[0] != "2025-06-01" {
		t.Errorf("expected single key 2025-06-01, got %v", keys)
	}
}

func TestNightKeys_InvalidRange(t *testing.T) {
	if keys := NightKeys(date(2025, time.June, 3), date(2025, time.June, 1)); keys != nil {
		t.Errorf("expected nil for inverted range, got %v", keys)
	}
	if keys := NightKeys(date(2025, time.June, 1), date(2025, time.June, 1)); keys != nil {
		t.Errorf("expected nil for zero-length stay, got %v", keys)
	}
}

func TestNightCount_RoundsPartialDays(t *testing.T) {
	// Check-in at 15:00, check-out at 11:00 two days later is still a
	// two-night stay.
	checkIn := time.Date(2025, time.June, 1, 15, 0, 0, 0, time.UTC)
	checkOut := time.Date(2025, time.June, 3, 11, 0, 0, 0, time.UTC)

	if nights := NightCount(checkIn, checkOut); nights != 2 {
		t.Errorf("expected 2 nights, got %d", nights)
	}
}

func TestTimeKeyOf(t *testing.T) {
	at := time.Date(2025, time.June, 1, 9, 30, 0, 0, time.UTC)
	if key := TimeKeyOf(at); key != "09:30" {
		t.Errorf("expected 09:30, got %s", key)
	}
	if key := DateKeyOf(at); key != "2025-06-01" {
		t.Errorf("expected 2025-06-01, got %s", key)
	}
}
