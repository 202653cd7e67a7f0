package pipeline

import (
	"github.com/shopspring/decimal"

	"vip-hunter/internal/models"
)

type customerGroup struct {
	totalQty int64
	prices   []decimal.Decimal
	monetary decimal.Decimal
}

// Aggregate collapses cleaned transaction rows into one feature vector per
// distinct customer, in first-seen order. AvgUnitPrice is the unweighted mean
// of the row-level unit prices; that it is not quantity-weighted is the exact
// business rule the model was trained on. An empty input yields an empty
// slice: a customer set with zero rows is vacuously consistent.
func Aggregate(rows []models.Transaction) []models.CustomerFeatures {
	groups := make(map[string]*customerGroup)
	order := make([]string, 0)

	for _, tx := range rows {
		g := groups[tx.CustomerID]
		if g == nil {
			g = &customerGroup{}
			groups[tx.CustomerID] = g
			order = append(order, tx.CustomerID)
		}
		g.totalQty += tx.Quantity
		g.prices = append(g.prices, tx.UnitPrice)
		g.monetary = g.monetary.Add(tx.UnitPrice.Mul(decimal.NewFromInt(tx.Quantity)))
	}

	features := make([]models.CustomerFeatures, 0, len(order))
	for _, id := range order {
		g := groups[id]
		features = append(features, models.CustomerFeatures{
			CustomerID:    id,
			TotalQty:      g.totalQty,
			AvgUnitPrice:  decimal.Avg(g.prices[0], g.prices[1:]...),
			MonetaryValue: g.monetary,
		})
	}
	return features
}
