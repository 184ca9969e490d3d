package model

import "time"

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// BookedRoom is an immutable room line item on a booking record, carrying the
// price locked at selection time and the subtotal computed at commit time.
type BookedRoom struct {
	RoomID        string `json:"room_id" bson:"room_id"`
	Quantity      int    `json:"quantity" bson:"quantity"`
	PricePerNight Money  `json:"price_per_night" bson:"price_per_night"`
	Nights        int    `json:"nights" bson:"nights"`
	Subtotal      Money  `json:"subtotal" bson:"subtotal"`
}

// BookedService is an immutable service line item on a booking record.
type BookedService struct {
	ServiceID   string    `json:"service_id" bson:"service_id"`
	Quantity    int       `json:"quantity" bson:"quantity"`
	Price       Money     `json:"price" bson:"price"`
	ScheduledAt time.Time `json:"scheduled_at" bson:"scheduled_at"`
}

// BookingRecord is the persisted outcome of a successful commit. Once written
// with status confirmed, line items and totals never change; only the status
// field is mutated afterwards, by cancellation.
type BookingRecord struct {
	ID         string          `json:"id,omitempty" bson:"_id,omitempty"`
	UserID     string          `json:"user_id" bson:"user_id"`
	CheckIn    time.Time       `json:"check_in" bson:"check_in"`
	CheckOut   time.Time       `json:"check_out" bson:"check_out"`
	Status     string          `json:"status" bson:"status"`
	Currency   string          `json:"currency" bson:"currency"`
	TotalPrice Money           `json:"total_price" bson:"total_price"`
	CreatedAt  time.Time       `json:"created_at" bson:"created_at"`
	Rooms      []BookedRoom    `json:"rooms" bson:"rooms"`
	Services   []BookedService `json:"services" bson:"services"`
}

// IsActive reports a confirmed booking whose stay has not ended. A stay ending
// exactly now counts as completed, not active.
func (b *BookingRecord) IsActive(now time.Time) bool {
	return b.Status == StatusConfirmed && b.CheckOut.After(now)
}

func (b *BookingRecord) IsCompleted(now time.Time) bool {
	return b.Status == StatusConfirmed && !b.CheckOut.After(now)
}

func (b *BookingRecord) IsCancelled() bool {
	return b.Status == StatusCancelled
}
