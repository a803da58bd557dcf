package models

import (
	"testing"
	"time"
)

func TestValidTickerCategory(t *testing.T) {
	for _, c := range []string{"new-spots", "featured", "events", "tips", "offers", "updates", "seasonal"} {
		if !ValidTickerCategory(c) {
			t.Errorf("expected %q to be valid", c)
		}
	}
	for _, c := range []string{"", "EVENTS", "breaking", "event"} {
		if ValidTickerCategory(c) {
			t.Errorf("expected %q to be rejected", c)
		}
	}
}

func TestDisplayableAt(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name string
		item TickerItem
		want bool
	}{
		{"active without end date", TickerItem{IsActive: true}, true},
		{"active with future end date", TickerItem{IsActive: true, EndDate: &future}, true},
		{"active but expired", TickerItem{IsActive: true, EndDate: &past}, false},
		{"inactive", TickerItem{IsActive: false}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.DisplayableAt(now); got != tt.want {
				t.Errorf("DisplayableAt() = %v, want %v", got, tt.want)
			}
		})
	}
}
