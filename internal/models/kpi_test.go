package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewEmptySnapshotShape(t *testing.T) {
	timestamp := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	snapshot := NewEmptySnapshot(timestamp)

	if snapshot.SnapshotID == "" {
		t.Error("expected a generated snapshot ID")
	}
	if !snapshot.Timestamp.Equal(timestamp) {
		t.Errorf("expected timestamp %v, got %v", timestamp, snapshot.Timestamp)
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	// List fields serialize as empty arrays, never null
	for _, field := range []string{"topProducts", "revenueTrends", "trendingProducts",
		"orderStatusDistribution", "topCategories"} {
		value, ok := decoded[field]
		if !ok {
			t.Errorf("missing field %q", field)
			continue
		}
		list, ok := value.([]interface{})
		if !ok {
			t.Errorf("field %q is %T, expected array", field, value)
			continue
		}
		if len(list) != 0 {
			t.Errorf("field %q should be empty, got %d entries", field, len(list))
		}
	}
}

func TestKPISnapshotValidate(t *testing.T) {
	snapshot := NewEmptySnapshot(time.Now().UTC())
	if err := snapshot.Validate(); err != nil {
		t.Errorf("valid snapshot rejected: %v", err)
	}

	snapshot.SnapshotID = ""
	if err := snapshot.Validate(); err == nil {
		t.Error("expected error for missing snapshot ID")
	}

	snapshot = NewEmptySnapshot(time.Time{})
	if err := snapshot.Validate(); err == nil {
		t.Error("expected error for zero timestamp")
	}
}

func TestOrderIsRefunded(t *testing.T) {
	order := NewOrder("c1")
	if order.IsRefunded() {
		t.Error("paid order must not count as refunded")
	}

	order.Status = OrderStatusPartiallyRefunded
	if order.IsRefunded() {
		t.Error("partially refunded orders still count toward aggregates")
	}

	order.Status = OrderStatusRefunded
	if !order.IsRefunded() {
		t.Error("refunded order must count as refunded")
	}
}

func TestOrderValidate(t *testing.T) {
	order := NewOrder("c1")
	order.Items = []LineItem{{ProductID: "p1", Name: "One", Quantity: 2, UnitPrice: 1.5}}
	if err := order.Validate(); err != nil {
		t.Errorf("valid order rejected: %v", err)
	}

	order.Status = "expédiée"
	if err := order.Validate(); err == nil {
		t.Error("expected error for unknown status")
	}

	order = NewOrder("c1")
	order.Items = []LineItem{{ProductID: "p1", Quantity: 0, UnitPrice: 1.5}}
	if err := order.Validate(); err == nil {
		t.Error("expected error for zero quantity line item")
	}
}

func TestLineItemRevenue(t *testing.T) {
	item := LineItem{ProductID: "p1", Quantity: 3, UnitPrice: 2.5}
	if got := item.Revenue(); got != 7.5 {
		t.Errorf("expected revenue 7.5, got %v", got)
	}
}

func TestPrimaryCategory(t *testing.T) {
	cases := []struct {
		categories string
		expected   string
	}{
		{"Boissons, Jus, Bio", "Boissons"},
		{"Boissons", "Boissons"},
		{" Pains , Boulangerie", "Pains"},
		{"", UncategorizedLabel},
		{"  ,Jus", UncategorizedLabel},
	}

	for _, tc := range cases {
		product := &Product{ProductID: "p1", Name: "One", Categories: tc.categories}
		if got := product.PrimaryCategory(); got != tc.expected {
			t.Errorf("PrimaryCategory(%q) = %q, expected %q", tc.categories, got, tc.expected)
		}
	}

	var missing *Product
	if got := missing.PrimaryCategory(); got != UncategorizedLabel {
		t.Errorf("nil product should fall back to %q, got %q", UncategorizedLabel, got)
	}
}
