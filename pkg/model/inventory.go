package model

import "sort"

// RoomInventory is the persisted capacity ledger for one room type. Booked
// counts are sparse: a missing night key means zero bookings for that night.
type RoomInventory struct {
	ID            string          `json:"id" bson:"_id"`
	Name          string          `json:"name" bson:"name"`
	PricePerNight Money           `json:"price_per_night" bson:"price_per_night"`
	DailyCapacity int             `json:"daily_capacity" bson:"daily_capacity" validate:"min=0"`
	BookedByDate  map[DateKey]int `json:"booked_by_date" bson:"booked_by_date"`
}

func (r *RoomInventory) BookedOn(date DateKey) int {
	return r.BookedByDate[date]
}

// ServiceInventory is the capacity ledger for one bookable service. Capacity
// is defined per recurring time-of-day slot; booked counts are nested per day
// and slot, sparse at both levels.
type ServiceInventory struct {
	ID               string                      `json:"id" bson:"_id"`
	Name             string                      `json:"name" bson:"name"`
	Price            Money                       `json:"price" bson:"price"`
	DurationMinutes  int                         `json:"duration_minutes" bson:"duration_minutes"`
	SlotCapacity     map[TimeKey]int             `json:"slot_capacity" bson:"slot_capacity"`
	BookedByDateTime map[DateKey]map[TimeKey]int `json:"booked_by_date_time" bson:"booked_by_date_time"`
}

func (s *ServiceInventory) BookedAt(date DateKey, slot TimeKey) int {
	return s.BookedByDateTime[date][slot]
}

// CapacityOf returns the defined capacity for a slot, zero if the slot is not
// part of this service's schedule.
func (s *ServiceInventory) CapacityOf(slot TimeKey) int {
	return s.SlotCapacity[slot]
}

// Slots returns the defined slot keys in slot order.
func (s *ServiceInventory) Slots() []TimeKey {
	slots := make([]TimeKey, 0, len(s.SlotCapacity))
	for slot := range s.SlotCapacity {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
	return slots
}
