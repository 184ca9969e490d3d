package model

import (
	"testing"
	"time"
)

func TestBookingRecord_StatusBoundary(t *testing.T) {
	now := time.Date(2025, time.June, 3, 11, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		status    string
		checkOut  time.Time
		active    bool
		completed bool
		cancelled bool
	}{
		{"confirmed with future check-out is active", StatusConfirmed, now.Add(24 * time.Hour), true, false, false},
		{"check-out exactly now counts as completed", StatusConfirmed, now, false, true, false},
		{"confirmed with past check-out is completed", StatusConfirmed, now.Add(-time.Hour), false, true, false},
		{"cancelled is neither active nor completed", StatusCancelled, now.Add(24 * time.Hour), false, false, true},
		{"pending is neither active nor completed", StatusPending, now.Add(24 * time.Hour), false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &BookingRecord{Status: tt.status, CheckOut: tt.checkOut}

			if got := b.IsActive(now); got != tt.active {
				t.Errorf("IsActive = %v, want %v", got, tt.active)
			}
			if got := b.IsCompleted(now); got != tt.completed {
				t.Errorf("IsCompleted = %v, want %v", got, tt.completed)
			}
			if got := b.IsCancelled(); got != tt.cancelled {
				t.Errorf("IsCancelled = %v, want %v", got, tt.cancelled)
			}
		})
	}
}

func TestServiceInventory_Slots(t *testing.T) {
	inv := &ServiceInventory{
		SlotCapacity: map[TimeKey]int{
			"14:00": 2,
			"09:00": 3,
			"11:30": 1,
		},
	}

	slots := inv.Slots()
	expected := []TimeKey{"09:00", "11:30", "14:00"}
	for i, slot := range expected {
		if slots[i] != slot {
			t.Errorf("slot %d: expected %s, got %s", i, slot, slots[i])
		}
	}
}

func TestInventory_MissingKeyMeansZero(t *testing.T) {
	room := &RoomInventory{DailyCapacity: 5}
	if got := room.BookedOn("2025-06-01"); got != 0 {
		t.Errorf("expected 0 for missing night key, got %d", got)
	}

	svc := &ServiceInventory{}
	if got := svc.BookedAt("2025-06-01", "09:00"); got != 0 {
		t.Errorf("expected 0 for missing slot key, got %d", got)
	}
	if got := svc.CapacityOf("09:00"); got != 0 {
		t.Errorf("expected 0 capacity for undefined slot, got %d", got)
	}
}
