package model

import "testing"

func TestMoney_Format(t *testing.T) {
	tests := []struct {
		name     string
		money    Money
		expected string
	}{
		{"default currency gets symbol", NewMoney(12345, "USD"), "$123.45"},
		{"non-default currency gets code suffix", NewMoney(12345, "EUR"), "123.45 EUR"},
		{"whole amount keeps two decimals", NewMoney(10000, "USD"), "$100.00"},
		{"sub-unit amount pads zeros", NewMoney(5, "USD"), "$0.05"},
		{"negative amount keeps sign before digits", NewMoney(-250, "USD"), "$-2.50"},
		{"zero", NewMoney(0, "ILS"), "0.00 ILS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.money.Format(); got != tt.expected {
				t.Errorf("Format() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestMoney_Arithmetic(t *testing.T) {
	a := NewMoney(1000, "USD")
	b := NewMoney(250, "USD")

	if got := a.Add(b); got.Amount != 1250 {
		t.Errorf("Add: expected 1250, got %d", got.Amount)
	}
	if got := a.MulInt(3); got.Amount != 3000 {
		t.Errorf("MulInt: expected 3000, got %d", got.Amount)
	}
	if got := a.MulInt(3); got.Currency != "USD" {
		t.Errorf("MulInt should preserve currency, got %s", got.Currency)
	}
}
