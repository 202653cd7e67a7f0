package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one cleaned retail transaction row. Every instance satisfies
// the cleaning invariants: non-cancelled invoice, known customer, positive
// quantity and unit price.
type Transaction struct {
	InvoiceNo   string
	CustomerID  string
	InvoiceDate time.Time
	Quantity    int64
	UnitPrice   decimal.Decimal
	Country     string
}

// CustomerFeatures is the per-customer feature vector the regression model
// consumes. Field order mirrors the model input binding exactly:
// TotalQty, AvgUnitPrice, Monetary_Value.
type CustomerFeatures struct {
	CustomerID    string          `json:"customer_id"`
	TotalQty      int64           `json:"total_qty"`
	AvgUnitPrice  decimal.Decimal `json:"avg_unit_price"`
	MonetaryValue decimal.Decimal `json:"monetary_value"`
}

// Prediction couples a feature vector with its floored, two-decimal
// 3-month CLV estimate.
type Prediction struct {
	CustomerFeatures
	PredictedCLV decimal.Decimal `json:"predicted_3m_clv"`
}
