package pipeline

import (
	"testing"

	"github.com/shopspring/decimal"

	"vip-hunter/internal/models"
)

func tx(customerID string, qty int64, price string) models.Transaction {
	return models.Transaction{
		InvoiceNo:  "536365",
		CustomerID: customerID,
		Quantity:   qty,
		UnitPrice:  decimal.RequireFromString(price),
		Country:    "United Kingdom",
	}
}

func TestAggregate_Arithmetic(t *testing.T) {
	rows := []models.Transaction{
		tx("17850", 2, "10.0"),
		tx("17850", 3, "20.0"),
	}

	features := Aggregate(rows)
	if len(features) != 1 {
		t.Fatalf("expected 1 feature vector, got %d", len(features))
	}

	f := features[0]
	if f.CustomerID != "17850" {
		t.Errorf("expected CustomerID 17850, got %q", f.CustomerID)
	}
	if f.TotalQty != 5 {
		t.Errorf("expected TotalQty 5, got %d", f.TotalQty)
	}
	// Unweighted mean of unit prices: (10+20)/2 = 15, not the
	// quantity-weighted 16.
	if !f.AvgUnitPrice.Equal(decimal.NewFromInt(15)) {
		t.Errorf("expected AvgUnitPrice 15, got %s", f.AvgUnitPrice)
	}
	if !f.MonetaryValue.Equal(decimal.NewFromInt(80)) {
		t.Errorf("expected Monetary_Value 80, got %s", f.MonetaryValue)
	}
}

func TestAggregate_OneVectorPerCustomer(t *testing.T) {
	rows := []models.Transaction{
		tx("17850", 1, "1.00"),
		tx("13047", 2, "2.00"),
		tx("17850", 3, "3.00"),
		tx("12583", 4, "4.00"),
	}

	features := Aggregate(rows)
	if len(features) != 3 {
		t.Fatalf("expected 3 feature vectors, got %d", len(features))
	}

	// First-seen order is deterministic.
	wantOrder := []string{"17850", "13047", "12583"}
	for i, want := range wantOrder {
		if features[i].CustomerID != want {
			t.Errorf("position %d: expected %q, got %q", i, want, features[i].CustomerID)
		}
	}
}

func TestAggregate_Empty(t *testing.T) {
	features := Aggregate(nil)
	if len(features) != 0 {
		t.Errorf("empty input should yield an empty set, got %d vectors", len(features))
	}
}

func TestAggregate_SingleRowCustomer(t *testing.T) {
	features := Aggregate([]models.Transaction{tx("17850", 6, "2.55")})
	if len(features) != 1 {
		t.Fatalf("expected 1 feature vector, got %d", len(features))
	}

	f := features[0]
	if !f.AvgUnitPrice.Equal(decimal.RequireFromString("2.55")) {
		t.Errorf("expected AvgUnitPrice 2.55, got %s", f.AvgUnitPrice)
	}
	if !f.MonetaryValue.Equal(decimal.RequireFromString("15.30")) {
		t.Errorf("expected Monetary_Value 15.30, got %s", f.MonetaryValue)
	}
}
