package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"vip-hunter/internal/errors"
	"vip-hunter/internal/models"
)

const (
	batchSize  = 5000
	maxWorkers = 8

	// Invoices whose number starts with this marker are cancellations.
	// The match is case-sensitive, as found in the source data.
	cancelledPrefix = "C"
)

// RequiredColumns are the upload columns the cleaner binds by name.
// Additional columns are tolerated and ignored.
var RequiredColumns = []string{"InvoiceNo", "CustomerID", "InvoiceDate", "Quantity", "UnitPrice", "Country"}

// invoiceDateLayouts cover the export formats seen in online retail data.
var invoiceDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
}

type columnIndex struct {
	invoiceNo   int
	customerID  int
	invoiceDate int
	quantity    int
	unitPrice   int
	country     int
	width       int
}

func bindColumns(header []string) (columnIndex, error) {
	byName := make(map[string]int, len(header))
	for i, name := range header {
		byName[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := byName[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return columnIndex{}, errors.Schema(fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")))
	}

	idx := columnIndex{
		invoiceNo:   byName["InvoiceNo"],
		customerID:  byName["CustomerID"],
		invoiceDate: byName["InvoiceDate"],
		quantity:    byName["Quantity"],
		unitPrice:   byName["UnitPrice"],
		country:     byName["Country"],
	}
	idx.width = max(idx.invoiceNo, idx.customerID, idx.invoiceDate, idx.quantity, idx.unitPrice, idx.country) + 1
	return idx, nil
}

// Clean filters and type-normalizes raw transaction rows. Rows dropped here
// (missing customer, cancelled invoice, non-positive quantity or price) are
// business rules, not errors; a value that is present but unconvertible
// aborts the whole call. Output preserves input order.
func Clean(ctx context.Context, header []string, rows [][]string) ([]models.Transaction, error) {
	cols, err := bindColumns(header)
	if err != nil {
		return nil, err
	}

	// Each worker owns a disjoint index range, so the shared results slice
	// needs no locking.
	results := make([]*models.Transaction, len(rows))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		g.Go(func() error {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}

				tx, keep, err := cleanRow(cols, i, rows[i])
				if err != nil {
					return err
				}
				if keep {
					results[i] = &tx
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	cleaned := make([]models.Transaction, 0, len(rows))
	for _, tx := range results {
		if tx != nil {
			cleaned = append(cleaned, *tx)
		}
	}
	return cleaned, nil
}

func cleanRow(cols columnIndex, rowNum int, row []string) (models.Transaction, bool, error) {
	if len(row) < cols.width {
		return models.Transaction{}, false, errors.Parse(fmt.Sprintf("row %d has %d columns, need at least %d", rowNum+1, len(row), cols.width))
	}

	// The missing-customer drop runs before anything is parsed, so rows
	// without an identifier can never raise a parse failure.
	rawID := strings.TrimSpace(row[cols.customerID])
	if rawID == "" {
		return models.Transaction{}, false, nil
	}

	invoiceNo := strings.TrimSpace(row[cols.invoiceNo])
	if strings.HasPrefix(invoiceNo, cancelledPrefix) {
		return models.Transaction{}, false, nil
	}

	invoiceDate, err := parseInvoiceDate(strings.TrimSpace(row[cols.invoiceDate]))
	if err != nil {
		return models.Transaction{}, false, errors.ParseWrap(err, fmt.Sprintf("row %d: unparseable invoice date %q", rowNum+1, row[cols.invoiceDate]))
	}

	customerID, err := normalizeCustomerID(rawID)
	if err != nil {
		return models.Transaction{}, false, errors.ParseWrap(err, fmt.Sprintf("row %d: invalid customer identifier %q", rowNum+1, rawID))
	}

	quantity, err := strconv.ParseInt(strings.TrimSpace(row[cols.quantity]), 10, 64)
	if err != nil {
		return models.Transaction{}, false, errors.ParseWrap(err, fmt.Sprintf("row %d: non-numeric quantity %q", rowNum+1, row[cols.quantity]))
	}

	unitPrice, err := decimal.NewFromString(strings.TrimSpace(row[cols.unitPrice]))
	if err != nil {
		return models.Transaction{}, false, errors.ParseWrap(err, fmt.Sprintf("row %d: non-numeric unit price %q", rowNum+1, row[cols.unitPrice]))
	}

	if quantity <= 0 {
		return models.Transaction{}, false, nil
	}
	if unitPrice.Sign() <= 0 {
		return models.Transaction{}, false, nil
	}

	return models.Transaction{
		InvoiceNo:   invoiceNo,
		CustomerID:  customerID,
		InvoiceDate: invoiceDate,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Country:     strings.TrimSpace(row[cols.country]),
	}, true, nil
}

func parseInvoiceDate(value string) (time.Time, error) {
	for _, layout := range invoiceDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("no known date layout matches %q", value)
}

// normalizeCustomerID canonicalizes identifiers that arrive as decimal-looking
// numbers (17850.0 becomes "17850"). A residual fractional part is a
// data-quality fault, not something to coerce away.
func normalizeCustomerID(raw string) (string, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return "", err
	}
	if !d.IsInteger() {
		return "", fmt.Errorf("customer identifier has a fractional part")
	}
	return strconv.FormatInt(d.IntPart(), 10), nil
}
