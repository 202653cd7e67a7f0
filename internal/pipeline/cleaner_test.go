package pipeline

import (
	"context"
	stderrors "errors"
	"testing"

	apperrors "vip-hunter/internal/errors"
)

func defaultHeader() []string {
	return []string{"InvoiceNo", "CustomerID", "InvoiceDate", "Quantity", "UnitPrice", "Country"}
}

func validRow() []string {
	return []string{"536365", "17850.0", "2010-12-01 08:26:00", "6", "2.55", "United Kingdom"}
}

func errorCode(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
	var appErr *apperrors.AppError
	if !stderrors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	return appErr.Code
}

func TestClean_MissingRequiredColumn(t *testing.T) {
	header := []string{"InvoiceNo", "InvoiceDate", "Quantity", "UnitPrice", "Country"}

	_, err := Clean(context.Background(), header, [][]string{})
	if err == nil {
		t.Fatal("Clean() should fail when CustomerID column is absent")
	}
	if code := errorCode(t, err); code != apperrors.CodeSchema {
		t.Errorf("expected %s, got %s", apperrors.CodeSchema, code)
	}
}

func TestClean_ExtraColumnsTolerated(t *testing.T) {
	header := []string{"StockCode", "InvoiceNo", "CustomerID", "InvoiceDate", "Quantity", "UnitPrice", "Country", "Description"}
	rows := [][]string{
		{"85123A", "536365", "17850.0", "2010-12-01 08:26:00", "6", "2.55", "United Kingdom", "holder"},
	}

	cleaned, err := Clean(context.Background(), header, rows)
	if err != nil {
		t.Fatalf("Clean() failed: %v", err)
	}
	if len(cleaned) != 1 {
		t.Fatalf("expected 1 row, got %d", len(cleaned))
	}
	if cleaned[0].InvoiceNo != "536365" {
		t.Errorf("expected InvoiceNo 536365, got %q", cleaned[0].InvoiceNo)
	}
}

func TestClean_CancellationFilter(t *testing.T) {
	// A cancelled invoice never survives, even when its other fields would
	// not parse.
	rows := [][]string{
		{"C536365", "17850.0", "not-a-date", "garbage", "junk", "United Kingdom"},
		validRow(),
	}

	cleaned, err := Clean(context.Background(), defaultHeader(), rows)
	if err != nil {
		t.Fatalf("Clean() failed: %v", err)
	}
	if len(cleaned) != 1 {
		t.Fatalf("expected 1 row, got %d", len(cleaned))
	}
	if cleaned[0].InvoiceNo != "536365" {
		t.Errorf("cancelled invoice leaked into output: %+v", cleaned[0])
	}
}

func TestClean_CancellationPrefixIsCaseSensitive(t *testing.T) {
	row := validRow()
	row[0] = "c536365"
	cleaned, err := Clean(context.Background(), defaultHeader(), [][]string{row})
	if err != nil {
		t.Fatalf("Clean() failed: %v", err)
	}
	if len(cleaned) != 1 {
		t.Errorf("lowercase prefix is not a cancellation marker, row should survive")
	}
}

func TestClean_MissingCustomerDroppedBeforeParsing(t *testing.T) {
	// The missing-ID drop runs first, so unparseable fields on those rows
	// must never raise an error.
	rows := [][]string{
		{"536365", "", "not-a-date", "garbage", "junk", "United Kingdom"},
		{"536366", "   ", "also-bad", "x", "y", "France"},
		validRow(),
	}

	cleaned, err := Clean(context.Background(), defaultHeader(), rows)
	if err != nil {
		t.Fatalf("Clean() should not error on missing-customer rows: %v", err)
	}
	if len(cleaned) != 1 {
		t.Errorf("expected 1 row, got %d", len(cleaned))
	}
}

func TestClean_Positivity(t *testing.T) {
	mkRow := func(qty, price string) []string {
		return []string{"536365", "17850.0", "2010-12-01 08:26:00", qty, price, "United Kingdom"}
	}
	rows := [][]string{
		mkRow("0", "2.55"),
		mkRow("-3", "2.55"),
		mkRow("6", "0.0"),
		mkRow("6", "-5.0"),
		validRow(),
	}

	cleaned, err := Clean(context.Background(), defaultHeader(), rows)
	if err != nil {
		t.Fatalf("Clean() failed: %v", err)
	}
	if len(cleaned) != 1 {
		t.Fatalf("expected only the valid row to survive, got %d rows", len(cleaned))
	}
	for _, tx := range cleaned {
		if tx.Quantity <= 0 {
			t.Errorf("non-positive quantity %d in output", tx.Quantity)
		}
		if tx.UnitPrice.Sign() <= 0 {
			t.Errorf("non-positive unit price %s in output", tx.UnitPrice)
		}
	}
}

func TestClean_CustomerIDNormalization(t *testing.T) {
	tests := []struct {
		name    string
		rawID   string
		want    string
		wantErr bool
	}{
		{name: "decimal-looking identifier", rawID: "17850.0", want: "17850"},
		{name: "plain integer identifier", rawID: "17850", want: "17850"},
		{name: "trailing zeros", rawID: "17850.000", want: "17850"},
		{name: "residual fraction is a data fault", rawID: "17850.5", wantErr: true},
		{name: "non-numeric identifier", rawID: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := validRow()
			row[1] = tt.rawID

			cleaned, err := Clean(context.Background(), defaultHeader(), [][]string{row})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected a parse error")
				}
				if code := errorCode(t, err); code != apperrors.CodeParse {
					t.Errorf("expected %s, got %s", apperrors.CodeParse, code)
				}
				return
			}
			if err != nil {
				t.Fatalf("Clean() failed: %v", err)
			}
			if cleaned[0].CustomerID != tt.want {
				t.Errorf("expected CustomerID %q, got %q", tt.want, cleaned[0].CustomerID)
			}
		})
	}
}

func TestClean_ParseFailuresAbort(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(row []string)
	}{
		{name: "unparseable date", mutate: func(row []string) { row[2] = "tomorrow-ish" }},
		{name: "non-numeric quantity", mutate: func(row []string) { row[3] = "six" }},
		{name: "non-numeric unit price", mutate: func(row []string) { row[4] = "cheap" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := validRow()
			tt.mutate(row)

			_, err := Clean(context.Background(), defaultHeader(), [][]string{row, validRow()})
			if err == nil {
				t.Fatal("a bad value must abort the whole call, not be skipped")
			}
			if code := errorCode(t, err); code != apperrors.CodeParse {
				t.Errorf("expected %s, got %s", apperrors.CodeParse, code)
			}
		})
	}
}

func TestClean_OutputOrderPreserved(t *testing.T) {
	rows := make([][]string, 0, 30)
	for i := 0; i < 30; i++ {
		row := validRow()
		row[0] = "INV" + string(rune('A'+i%26)) + string(rune('A'+i/26))
		rows = append(rows, row)
	}

	cleaned, err := Clean(context.Background(), defaultHeader(), rows)
	if err != nil {
		t.Fatalf("Clean() failed: %v", err)
	}
	if len(cleaned) != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), len(cleaned))
	}
	for i, tx := range cleaned {
		if tx.InvoiceNo != rows[i][0] {
			t.Fatalf("row %d out of order: got %q, want %q", i, tx.InvoiceNo, rows[i][0])
		}
	}
}

func TestClean_EmptyInput(t *testing.T) {
	cleaned, err := Clean(context.Background(), defaultHeader(), nil)
	if err != nil {
		t.Fatalf("Clean() failed: %v", err)
	}
	if len(cleaned) != 0 {
		t.Errorf("expected empty output, got %d rows", len(cleaned))
	}
}

func TestClean_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := make([][]string, 2*batchSize)
	for i := range rows {
		rows[i] = validRow()
	}

	if _, err := Clean(ctx, defaultHeader(), rows); err == nil {
		t.Error("expected context cancellation to abort cleaning")
	}
}
