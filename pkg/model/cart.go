package model

import (
	"errors"
	"time"
)

var (
	ErrInvalidStayRange     = errors.New("check-out must be after check-in")
	ErrSelectionOutOfRange  = errors.New("selection index out of range")
	ErrCurrencyMismatch     = errors.New("selection currency differs from cart currency")
	ErrNonPositiveQuantity  = errors.New("quantity must be positive")
	ErrStayNotSet           = errors.New("stay dates are not set")
	ErrNoRoomSelected       = errors.New("at least one room selection is required")
	ErrEmptyCart            = errors.New("cart is empty")
)

// RoomSelection is one room line in a cart. The price is locked at selection
// time and never re-read from the catalog.
type RoomSelection struct {
	RoomID        string `json:"room_id"`
	Name          string `json:"name"`
	PricePerNight Money  `json:"price_per_night"`
	Quantity      int    `json:"quantity"`
}

// ServiceSelection is one service line in a cart. The same service may appear
// on multiple lines, each with its own schedule.
type ServiceSelection struct {
	ServiceID   string    `json:"service_id"`
	Name        string    `json:"name"`
	Price       Money     `json:"price"`
	Quantity    int       `json:"quantity"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

// Cart aggregates the selections of one user session. It is owned by exactly
// one concurrent caller; callers needing cross-goroutine access must hold the
// session registry's per-cart lock.
type Cart struct {
	CheckIn  time.Time                `json:"check_in"`
	CheckOut time.Time                `json:"check_out"`
	Currency string                   `json:"currency"`
	Rooms    map[string]RoomSelection `json:"rooms"`
	Services []ServiceSelection       `json:"services"`
}

func NewCart(currency string) *Cart {
	return &Cart{
		Currency: currency,
		Rooms:    make(map[string]RoomSelection),
	}
}

// SetStay records the stay range. Check-out must be strictly after check-in.
func (c *Cart) SetStay(checkIn, checkOut time.Time) error {
	if !checkOut.After(checkIn) {
		return ErrInvalidStayRange
	}
	c.CheckIn = checkIn
	c.CheckOut = checkOut
	return nil
}

func (c *Cart) HasStay() bool {
	return !c.CheckIn.IsZero() && !c.CheckOut.IsZero()
}

// UpsertRoom replaces any prior selection for the room. Quantity is absolute,
// not incremental.
func (c *Cart) UpsertRoom(roomID, name string, pricePerNight Money, quantity int) error {
	if quantity <= 0 {
		return ErrNonPositiveQuantity
	}
	if pricePerNight.Currency != c.Currency {
		return ErrCurrencyMismatch
	}
	if c.Rooms == nil {
		c.Rooms = make(map[string]RoomSelection)
	}
	c.Rooms[roomID] = RoomSelection{
		RoomID:        roomID,
		Name:          name,
		PricePerNight: pricePerNight,
		Quantity:      quantity,
	}
	return nil
}

func (c *Cart) RemoveRoom(roomID string) {
	delete(c.Rooms, roomID)
}

// AddService appends a new line. Lines for the same service are never merged
// because each carries its own schedule.
func (c *Cart) AddService(serviceID, name string, price Money, quantity int, scheduledAt time.Time) error {
	if quantity <= 0 {
		return ErrNonPositiveQuantity
	}
	if price.Currency != c.Currency {
		return ErrCurrencyMismatch
	}
	c.Services = append(c.Services, ServiceSelection{
		ServiceID:   serviceID,
		Name:        name,
		Price:       price,
		Quantity:    quantity,
		ScheduledAt: scheduledAt,
	})
	return nil
}

func (c *Cart) RemoveService(index int) error {
	if index < 0 || index >= len(c.Services) {
		return ErrSelectionOutOfRange
	}
	c.Services = append(c.Services[:index], c.Services[index+1:]...)
	return nil
}

func (c *Cart) Clear() {
	c.CheckIn = time.Time{}
	c.CheckOut = time.Time{}
	c.Rooms = make(map[string]RoomSelection)
	c.Services = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Rooms) == 0 && len(c.Services) == 0
}

func (c *Cart) Nights() int {
	if !c.HasStay() {
		return 0
	}
	return NightCount(c.CheckIn, c.CheckOut)
}

func (c *Cart) RoomsSubtotal() Money {
	subtotal := Money{Currency: c.Currency}
	nights := int64(c.Nights())
	for _, sel := range c.Rooms {
		subtotal = subtotal.Add(sel.PricePerNight.MulInt(int64(sel.Quantity) * nights))
	}
	return subtotal
}

func (c *Cart) ServicesSubtotal() Money {
	subtotal := Money{Currency: c.Currency}
	for _, sel := range c.Services {
		subtotal = subtotal.Add(sel.Price.MulInt(int64(sel.Quantity)))
	}
	return subtotal
}

func (c *Cart) Total() Money {
	return c.RoomsSubtotal().Add(c.ServicesSubtotal())
}

// Snapshot returns a deep copy, so a commit can work from an immutable view
// while the session keeps mutating the live cart.
func (c *Cart) Snapshot() *Cart {
	copied := &Cart{
		CheckIn:  c.CheckIn,
		CheckOut: c.CheckOut,
		Currency: c.Currency,
		Rooms:    make(map[string]RoomSelection, len(c.Rooms)),
	}
	for id, sel := range c.Rooms {
		copied.Rooms[id] = sel
	}
	copied.Services = append(copied.Services, c.Services...)
	return copied
}
