package availability

import (
	"testing"
	"time"

	"staybook/pkg/model"
)

func newCalculator() *Calculator {
	return NewCalculator("09:00", "12:00", time.Hour, 2)
}

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestRemainingRoomCapacity(t *testing.T) {
	calc := newCalculator()
	room := &model.RoomInventory{
		ID:            "deluxe",
		DailyCapacity: 5,
		BookedByDate: map[model.DateKey]int{
			"2025-06-01": 3,
			"2025-06-02": 5,
		},
	}

	tests := []struct {
		name  string
		night model.DateKey
		want  int
	}{
		{"partially booked", "2025-06-01", 2},
		{"fully booked", "2025-06-02", 0},
		{"untouched night means full capacity", "2025-06-03", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := calc.RemainingRoomCapacity(room, tt.night); got != tt.want {
				t.Errorf("RemainingRoomCapacity(%s) = %d, want %d", tt.night, got, tt.want)
			}
		})
	}
}

func TestRemainingRoomCapacityClampsOverbookedNights(t *testing.T) {
	calc := newCalculator()
	room := &model.RoomInventory{
		DailyCapacity: 2,
		BookedByDate:  map[model.DateKey]int{"2025-06-01": 4},
	}

	if got := calc.RemainingRoomCapacity(room, "2025-06-01"); got != 0 {
		t.Errorf("expected clamped zero for overbooked night, got %d", got)
	}
}

func TestMinRemainingRoomCapacity(t *testing.T) {
	calc := newCalculator()
	room := &model.RoomInventory{
		DailyCapacity: 5,
		BookedByDate: map[model.DateKey]int{
			"2025-06-01": 1,
			"2025-06-02": 4,
		},
	}

	got := calc.MinRemainingRoomCapacity(room, date("2025-06-01"), date("2025-06-04"))
	if got != 1 {
		t.Errorf("expected minimum across nights to be 1, got %d", got)
	}
}

func TestMinRemainingRoomCapacityExcludesCheckOutDay(t *testing.T) {
	calc := newCalculator()
	room := &model.RoomInventory{
		DailyCapacity: 5,
		BookedByDate: map[model.DateKey]int{
			"2025-06-03": 5, // check-out day, must not count
		},
	}

	got := calc.MinRemainingRoomCapacity(room, date("2025-06-01"), date("2025-06-03"))
	if got != 5 {
		t.Errorf("check-out day leaked into the night range, got %d", got)
	}
}

func TestMinRemainingRoomCapacityEmptyRange(t *testing.T) {
	calc := newCalculator()
	room := &model.RoomInventory{DailyCapacity: 5}

	if got := calc.MinRemainingRoomCapacity(room, date("2025-06-03"), date("2025-06-01")); got != 0 {
		t.Errorf("inverted range should yield 0, got %d", got)
	}
	if got := calc.MinRemainingRoomCapacity(room, date("2025-06-01"), date("2025-06-01")); got != 0 {
		t.Errorf("zero-night range should yield 0, got %d", got)
	}
}

func TestRemainingServiceCapacity(t *testing.T) {
	calc := newCalculator()
	svc := &model.ServiceInventory{
		ID: "spa",
		SlotCapacity: map[model.TimeKey]int{
			"10:00": 3,
			"11:00": 1,
		},
		BookedByDateTime: map[model.DateKey]map[model.TimeKey]int{
			"2025-06-01": {"10:00": 2, "11:00": 1},
		},
	}

	if got := calc.RemainingServiceCapacity(svc, "2025-06-01", "10:00"); got != 1 {
		t.Errorf("expected 1 remaining, got %d", got)
	}
	if got := calc.RemainingServiceCapacity(svc, "2025-06-01", "11:00"); got != 0 {
		t.Errorf("expected full slot to have 0 remaining, got %d", got)
	}
	if got := calc.RemainingServiceCapacity(svc, "2025-06-02", "10:00"); got != 3 {
		t.Errorf("untouched date should have full capacity, got %d", got)
	}
}

func TestServiceDefaultGridFallback(t *testing.T) {
	calc := newCalculator()
	svc := &model.ServiceInventory{ID: "massage"} // no schedule of its own

	grid := calc.SlotGrid(svc)
	want := []model.TimeKey{"09:00", "10:00", "11:00"}
	if len(grid) != len(want) {
		t.Fatalf("expected %d default slots, got %d", len(want), len(grid))
	}
	for i, slot := range want {
		if grid[i] != slot {
			t.Errorf("grid[%d] = %s, want %s", i, grid[i], slot)
		}
	}

	if got := calc.RemainingServiceCapacity(svc, "2025-06-01", "09:00"); got != 2 {
		t.Errorf("default slot capacity should apply, got %d", got)
	}
}

func TestRemainingServiceCapacityForDate(t *testing.T) {
	calc := newCalculator()
	svc := &model.ServiceInventory{
		ID: "spa",
		SlotCapacity: map[model.TimeKey]int{
			"10:00": 3,
			"11:00": 1,
		},
		BookedByDateTime: map[model.DateKey]map[model.TimeKey]int{
			"2025-06-01": {"10:00": 2, "11:00": 1},
			"2025-06-02": {"10:00": 3, "11:00": 1},
		},
	}

	if got := calc.RemainingServiceCapacityForDate(svc, "2025-06-01"); got != 1 {
		t.Errorf("best remainder on 2025-06-01 = %d, want 1", got)
	}
	if got := calc.RemainingServiceCapacityForDate(svc, "2025-06-02"); got != 0 {
		t.Errorf("fully booked date should yield 0, got %d", got)
	}
	if got := calc.RemainingServiceCapacityForDate(svc, "2025-06-03"); got != 3 {
		t.Errorf("untouched date should yield the largest slot capacity, got %d", got)
	}
}

func TestMinRemainingServiceCapacity(t *testing.T) {
	calc := newCalculator()
	svc := &model.ServiceInventory{
		ID: "spa",
		SlotCapacity: map[model.TimeKey]int{
			"10:00": 3,
		},
		BookedByDateTime: map[model.DateKey]map[model.TimeKey]int{
			"2025-06-02": {"10:00": 2},
		},
	}

	if got := calc.MinRemainingServiceCapacity(svc, date("2025-06-01"), date("2025-06-03")); got != 1 {
		t.Errorf("min across range = %d, want 1", got)
	}
	if got := calc.MinRemainingServiceCapacity(svc, date("2025-06-03"), date("2025-06-01")); got != 0 {
		t.Errorf("inverted range should yield 0, got %d", got)
	}
}

func TestAvailableTimeSlots(t *testing.T) {
	calc := newCalculator()
	svc := &model.ServiceInventory{
		SlotCapacity: map[model.TimeKey]int{
			"14:00": 2,
			"09:00": 1,
		},
		BookedByDateTime: map[model.DateKey]map[model.TimeKey]int{
			"2025-06-01": {"09:00": 1},
		},
	}

	slots := calc.AvailableTimeSlots(svc, "2025-06-01")
	if len(slots) != 1 {
		t.Fatalf("expected only the slot with headroom, got %d slots", len(slots))
	}
	if slots[0].Slot != "14:00" || slots[0].Remaining != 2 {
		t.Errorf("slots[0] = %+v, want 14:00 with 2 remaining", slots[0])
	}
}

func TestAvailableTimeSlotsOmitsFullyBookedSlots(t *testing.T) {
	calc := newCalculator()
	svc := &model.ServiceInventory{
		SlotCapacity: map[model.TimeKey]int{
			"09:00": 1,
		},
		BookedByDateTime: map[model.DateKey]map[model.TimeKey]int{
			"2025-06-01": {"09:00": 1},
		},
	}

	if slots := calc.AvailableTimeSlots(svc, "2025-06-01"); len(slots) != 0 {
		t.Errorf("sold-out date should list no bookable slots, got %+v", slots)
	}
	if slots := calc.AvailableTimeSlots(svc, "2025-06-02"); len(slots) != 1 {
		t.Errorf("untouched date should list the slot, got %+v", slots)
	}
}
