package availability

import (
	"time"

	"staybook/pkg/model"
)

// SlotAvailability pairs a service time slot with its remaining capacity on
// a particular date.
type SlotAvailability struct {
	Slot      model.TimeKey `json:"slot"`
	Remaining int           `json:"remaining"`
}

// Calculator derives remaining capacity from inventory ledgers. It never
// mutates inventory and never reserves; counts are only authoritative at the
// instant they are read, the commit transaction re-checks them.
type Calculator struct {
	slotStart    model.TimeKey
	slotEnd      model.TimeKey
	slotStep     time.Duration
	slotCapacity int
}

// NewCalculator builds a calculator with the fallback slot grid used by
// services that do not define their own slot schedule.
func NewCalculator(slotStart, slotEnd model.TimeKey, slotStep time.Duration, slotCapacity int) *Calculator {
	return &Calculator{
		slotStart:    slotStart,
		slotEnd:      slotEnd,
		slotStep:     slotStep,
		slotCapacity: slotCapacity,
	}
}

// RemainingRoomCapacity returns how many units of a room type are still free
// on one night. A missing booked count means the night is fully free.
func (c *Calculator) RemainingRoomCapacity(room *model.RoomInventory, night model.DateKey) int {
	remaining := room.DailyCapacity - room.BookedOn(night)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// MinRemainingRoomCapacity returns the largest quantity bookable across every
// night of [checkIn, checkOut), the minimum of the per-night remainders.
// An empty or inverted range has no bookable nights and yields zero.
func (c *Calculator) MinRemainingRoomCapacity(room *model.RoomInventory, checkIn, checkOut time.Time) int {
	nights := model.NightKeys(checkIn, checkOut)
	if len(nights) == 0 {
		return 0
	}

	min := c.RemainingRoomCapacity(room, nights[0])
	for _, night := range nights[1:] {
		if r := c.RemainingRoomCapacity(room, night); r < min {
			min = r
		}
	}
	return min
}

// SlotCapacity returns the defined capacity of a service slot, falling back
// to the configured default when the service has no slot schedule of its own.
func (c *Calculator) SlotCapacity(svc *model.ServiceInventory, slot model.TimeKey) int {
	if len(svc.SlotCapacity) == 0 {
		return c.slotCapacity
	}
	return svc.CapacityOf(slot)
}

// RemainingServiceCapacity returns the free capacity of one slot on one date.
func (c *Calculator) RemainingServiceCapacity(svc *model.ServiceInventory, date model.DateKey, slot model.TimeKey) int {
	remaining := c.SlotCapacity(svc, slot) - svc.BookedAt(date, slot)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RemainingServiceCapacityForDate returns the best free capacity across all
// slots of a date, the most that a single slot can still take.
func (c *Calculator) RemainingServiceCapacityForDate(svc *model.ServiceInventory, date model.DateKey) int {
	best := 0
	for _, slot := range c.SlotGrid(svc) {
		if r := c.RemainingServiceCapacity(svc, date, slot); r > best {
			best = r
		}
	}
	return best
}

// MinRemainingServiceCapacity returns the quantity bookable on every day of
// [checkIn, checkOut), the minimum of the per-date best remainders. An empty
// or inverted range yields zero.
func (c *Calculator) MinRemainingServiceCapacity(svc *model.ServiceInventory, checkIn, checkOut time.Time) int {
	dates := model.NightKeys(checkIn, checkOut)
	if len(dates) == 0 {
		return 0
	}

	min := c.RemainingServiceCapacityForDate(svc, dates[0])
	for _, date := range dates[1:] {
		if r := c.RemainingServiceCapacityForDate(svc, date); r < min {
			min = r
		}
	}
	return min
}

// SlotGrid returns the slots a service can be booked at, the service's own
// schedule when defined, otherwise the default grid.
func (c *Calculator) SlotGrid(svc *model.ServiceInventory) []model.TimeKey {
	if len(svc.SlotCapacity) > 0 {
		return svc.Slots()
	}
	return c.defaultGrid()
}

// AvailableTimeSlots lists the slots of the service's grid that still have
// headroom on a date. Fully booked slots are omitted; they are not bookable
// options.
func (c *Calculator) AvailableTimeSlots(svc *model.ServiceInventory, date model.DateKey) []SlotAvailability {
	grid := c.SlotGrid(svc)
	slots := make([]SlotAvailability, 0, len(grid))
	for _, slot := range grid {
		remaining := c.RemainingServiceCapacity(svc, date, slot)
		if remaining == 0 {
			continue
		}
		slots = append(slots, SlotAvailability{
			Slot:      slot,
			Remaining: remaining,
		})
	}
	return slots
}

func (c *Calculator) defaultGrid() []model.TimeKey {
	start, err := time.Parse(model.TimeKeyLayout, string(c.slotStart))
	if err != nil {
		return nil
	}
	end, err := time.Parse(model.TimeKeyLayout, string(c.slotEnd))
	if err != nil || c.slotStep <= 0 {
		return nil
	}

	var grid []model.TimeKey
	for t := start; t.Before(end); t = t.Add(c.slotStep) {
		grid = append(grid, model.TimeKey(t.Format(model.TimeKeyLayout)))
	}
	return grid
}
