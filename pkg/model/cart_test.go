package model

import (
	"errors"
	"testing"
	"time"
)

func stayCart(t *testing.T) *Cart {
	t.Helper()
	cart := NewCart("USD")
	if err := cart.SetStay(date(2025, time.June, 1), date(2025, time.June, 3)); err != nil {
		t.Fatalf("SetStay failed: %v", err)
	}
	return cart
}

func TestCart_SetStay_RejectsInvertedRange(t *testing.T) {
	cart := NewCart("USD")

	err := cart.SetStay(date(2025, time.June, 3), date(2025, time.June, 1))
	if !errors.Is(err, ErrInvalidStayRange) {
		t.Errorf("expected ErrInvalidStayRange, got %v", err)
	}

	err = cart.SetStay(date(2025, time.June, 1), date(2025, time.June, 1))
	if !errors.Is(err, ErrInvalidStayRange) {
		t.Errorf("expected ErrInvalidStayRange for equal dates, got %v", err)
	}
}

func TestCart_SubtotalArithmetic(t *testing.T) {
	// Room at 100/night, quantity 2, over 2 nights => 400. One service at 50
	// => services subtotal 50, total 450.
	cart := stayCart(t)

	if err := cart.UpsertRoom("r1", "Sea View", NewMoney(10000, "USD"), 2); err != nil {
		t.Fatalf("UpsertRoom failed: %v", err)
	}
	if err := cart.AddService("s1", "Spa", NewMoney(5000, "USD"), 1, date(2025, time.June, 2)); err != nil {
		t.Fatalf("AddService failed: %v", err)
	}

	if got := cart.RoomsSubtotal().Amount; got != 40000 {
		t.Errorf("rooms subtotal: expected 40000, got %d", got)
	}
	if got := cart.ServicesSubtotal().Amount; got != 5000 {
		t.Errorf("services subtotal: expected 5000, got %d", got)
	}
	if got := cart.Total().Amount; got != 45000 {
		t.Errorf("total: expected 45000, got %d", got)
	}
}

func TestCart_UpsertRoom_ReplacesSelection(t *testing.T) {
	cart := stayCart(t)

	if err := cart.UpsertRoom("r1", "Sea View", NewMoney(10000, "USD"), 3); err != nil {
		t.Fatalf("UpsertRoom failed: %v", err)
	}
	if err := cart.UpsertRoom("r1", "Sea View", NewMoney(12000, "USD"), 1); err != nil {
		t.Fatalf("UpsertRoom failed: %v", err)
	}

	if len(cart.Rooms) != 1 {
		t.Fatalf("expected one room selection, got %d", len(cart.Rooms))
	}
	sel := cart.Rooms["r1"]
	if sel.Quantity != 1 {
		t.Errorf("quantity is absolute: expected 1, got %d", sel.Quantity)
	}
	if sel.PricePerNight.Amount != 12000 {
		t.Errorf("expected locked price to be replaced, got %d", sel.PricePerNight.Amount)
	}
}

func TestCart_AddService_AppendsDistinctLines(t *testing.T) {
	cart := stayCart(t)

	morning := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
	evening := time.Date(2025, time.June, 1, 18, 0, 0, 0, time.UTC)

	_ = cart.AddService("s1", "Spa", NewMoney(5000, "USD"), 1, morning)
	_ = cart.AddService("s1", "Spa", NewMoney(5000, "USD"), 2, evening)

	if len(cart.Services) != 2 {
		t.Fatalf("same service with different schedules must stay on separate lines, got %d", len(cart.Services))
	}

	if err := cart.RemoveService(0); err != nil {
		t.Fatalf("RemoveService failed: %v", err)
	}
	if len(cart.Services) != 1 || !cart.Services[0].ScheduledAt.Equal(evening) {
		t.Errorf("expected the evening line to remain, got %+v", cart.Services)
	}

	if err := cart.RemoveService(5); !errors.Is(err, ErrSelectionOutOfRange) {
		t.Errorf("expected ErrSelectionOutOfRange, got %v", err)
	}
}

func TestCart_CurrencyMismatchRejected(t *testing.T) {
	cart := stayCart(t)

	if err := cart.UpsertRoom("r1", "Sea View", NewMoney(10000, "EUR"), 1); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("expected ErrCurrencyMismatch, got %v", err)
	}
	if err := cart.AddService("s1", "Spa", NewMoney(100, "EUR"), 1, date(2025, time.June, 1)); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("expected ErrCurrencyMismatch, got %v", err)
	}
}

func TestCart_ClearResetsEverything(t *testing.T) {
	cart := stayCart(t)
	_ = cart.UpsertRoom("r1", "Sea View", NewMoney(10000, "USD"), 1)
	_ = cart.AddService("s1", "Spa", NewMoney(5000, "USD"), 1, date(2025, time.June, 1))

	cart.Clear()

	if !cart.IsEmpty() {
		t.Errorf("expected empty cart after Clear")
	}
	if cart.HasStay() {
		t.Errorf("expected stay dates to be reset")
	}
	if cart.Total().Amount != 0 {
		t.Errorf("expected zero total after Clear, got %d", cart.Total().Amount)
	}
}

func TestCart_SnapshotIsIndependent(t *testing.T) {
	cart := stayCart(t)
	_ = cart.UpsertRoom("r1", "Sea View", NewMoney(10000, "USD"), 1)
	_ = cart.AddService("s1", "Spa", NewMoney(5000, "USD"), 1, date(2025, time.June, 1))

	snap := cart.Snapshot()
	cart.Clear()

	if snap.IsEmpty() {
		t.Errorf("snapshot must survive clearing the live cart")
	}
	if snap.Total().Amount != 25000 {
		t.Errorf("expected snapshot total 25000, got %d", snap.Total().Amount)
	}
}
