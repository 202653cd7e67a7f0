package templates

import (
	"context"
	"strings"
	"testing"
)

func TestDashboard_Render(t *testing.T) {
	var buf strings.Builder
	if err := Dashboard().Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	html := buf.String()
	expectedContent := []string{
		"<!DOCTYPE html>",
		"VIP Hunter",
		`action="/api/predict/batch"`,
		`enctype="multipart/form-data"`,
		`accept=".csv"`,
		"data-signals",
		"data-bind-totalQty",
		"data-bind-avgUnitPrice",
		"data-bind-monetaryValue",
		"@post('/sse/score-customer')",
		"@get('/sse/model-info')",
		`id="score-result"`,
	}
	for _, content := range expectedContent {
		if !strings.Contains(html, content) {
			t.Errorf("expected dashboard HTML to contain %q", content)
		}
	}
}
