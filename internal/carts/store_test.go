package carts

import (
	"sync"
	"testing"
	"time"

	"staybook/pkg/model"
)

func TestUpdateCreatesCartOnFirstTouch(t *testing.T) {
	store := NewStore(time.Hour, "USD")
	defer store.Stop()

	err := store.Update("session-1", func(cart *model.Cart) error {
		if cart == nil {
			t.Fatal("expected a cart to be created")
		}
		if cart.Currency != "USD" {
			t.Errorf("expected USD cart, got %s", cart.Currency)
		}
		return cart.UpsertRoom("deluxe", "Deluxe", model.Money{Amount: 10000, Currency: "USD"}, 1)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.Len() != 1 {
		t.Errorf("expected 1 cart, got %d", store.Len())
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	store := NewStore(time.Hour, "USD")
	defer store.Stop()

	_ = store.Update("session-a", func(cart *model.Cart) error {
		return cart.UpsertRoom("deluxe", "Deluxe", model.Money{Amount: 10000, Currency: "USD"}, 2)
	})
	_ = store.Update("session-b", func(cart *model.Cart) error {
		return cart.UpsertRoom("suite", "Suite", model.Money{Amount: 25000, Currency: "USD"}, 1)
	})

	cartA, ok := store.Snapshot("session-a")
	if !ok {
		t.Fatal("expected cart for session-a")
	}
	if _, exists := cartA.Rooms["suite"]; exists {
		t.Error("session-a cart leaked session-b's selection")
	}
	if cartA.Rooms["deluxe"].Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", cartA.Rooms["deluxe"].Quantity)
	}
}

func TestSnapshotIsIndependentOfLiveCart(t *testing.T) {
	store := NewStore(time.Hour, "USD")
	defer store.Stop()

	_ = store.Update("session-1", func(cart *model.Cart) error {
		return cart.UpsertRoom("deluxe", "Deluxe", model.Money{Amount: 10000, Currency: "USD"}, 1)
	})

	snap, _ := store.Snapshot("session-1")

	_ = store.Update("session-1", func(cart *model.Cart) error {
		cart.Clear()
		return nil
	})

	if len(snap.Rooms) != 1 {
		t.Error("snapshot was mutated by a later update to the live cart")
	}
}

func TestSnapshotMissingSession(t *testing.T) {
	store := NewStore(time.Hour, "USD")
	defer store.Stop()

	if _, ok := store.Snapshot("unknown"); ok {
		t.Error("expected no cart for unknown session")
	}
}

func TestRemove(t *testing.T) {
	store := NewStore(time.Hour, "USD")
	defer store.Stop()

	_ = store.Update("session-1", func(cart *model.Cart) error { return nil })
	store.Remove("session-1")

	if store.Len() != 0 {
		t.Errorf("expected empty store after remove, got %d carts", store.Len())
	}
}

func TestConcurrentUpdatesSerialize(t *testing.T) {
	store := NewStore(time.Hour, "USD")
	defer store.Stop()

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_ = store.Update("session-1", func(cart *model.Cart) error {
				return cart.AddService("spa", "Spa", model.Money{Amount: 5000, Currency: "USD"}, 1, time.Now())
			})
		}()
	}
	wg.Wait()

	cart, _ := store.Snapshot("session-1")
	if len(cart.Services) != workers {
		t.Errorf("expected %d service lines, got %d", workers, len(cart.Services))
	}
}
