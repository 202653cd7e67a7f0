// Package templates renders the VIP Hunter dashboard as templ components.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Dashboard is the single-page front-end: a batch upload tab that posts raw
// retail CSVs for scoring, and a single-customer tab wired to the SSE
// scoring endpoint through datastar signals.
func Dashboard() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, dashboardHTML)
		return err
	})
}

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>VIP Hunter — CLV Prediction Engine</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"></script>
<style>
body { font-family: system-ui, sans-serif; max-width: 760px; margin: 2rem auto; padding: 0 1rem; color: #1f2933; }
h1 { font-size: 1.6rem; }
.tabs { display: flex; gap: 0.5rem; margin: 1.5rem 0 0; }
.tabs label { padding: 0.5rem 1rem; border: 1px solid #cbd2d9; border-bottom: none; border-radius: 6px 6px 0 0; cursor: pointer; background: #f5f7fa; }
.tab-toggle { display: none; }
.tab-panel { display: none; border: 1px solid #cbd2d9; border-radius: 0 6px 6px 6px; padding: 1.5rem; }
#tab-batch:checked ~ .panels #panel-batch { display: block; }
#tab-single:checked ~ .panels #panel-single { display: block; }
#tab-batch:checked ~ .tabs label[for="tab-batch"],
#tab-single:checked ~ .tabs label[for="tab-single"] { background: #fff; font-weight: 600; }
.field { margin-bottom: 1rem; }
.field label { display: block; margin-bottom: 0.25rem; font-size: 0.9rem; }
input[type="number"], input[type="file"] { padding: 0.4rem; width: 100%; box-sizing: border-box; }
button { padding: 0.6rem 1.2rem; border: none; border-radius: 6px; background: #1d4ed8; color: #fff; cursor: pointer; }
.metric-card { display: flex; flex-direction: column; gap: 0.25rem; margin-top: 1.5rem; padding: 1rem; border: 1px solid #cbd2d9; border-radius: 6px; }
.metric-label { font-size: 0.85rem; color: #52606d; }
.metric-value { font-size: 2rem; font-weight: 700; }
.metric-card.error { color: #b91c1c; }
.model-panel { margin-top: 2rem; font-size: 0.85rem; color: #52606d; }
</style>
</head>
<body>
<h1>VIP Hunter: CLV Prediction Engine</h1>
<p>Upload raw retail data to identify your highest-value customers, or score a single customer in real time.</p>

<input class="tab-toggle" type="radio" name="tab" id="tab-batch" checked>
<input class="tab-toggle" type="radio" name="tab" id="tab-single">
<div class="tabs">
<label for="tab-batch">Batch VIP Prediction</label>
<label for="tab-single">Single Customer Scoring</label>
</div>

<div class="panels">
<div class="tab-panel" id="panel-batch">
<h2>Process Raw Sales Data</h2>
<p>Upload a raw system export. The pipeline cleans it, engineers customer features, and predicts the 3-month CLV. The ranked VIP list downloads as a CSV.</p>
<form method="post" action="/api/predict/batch" enctype="multipart/form-data">
<div class="field">
<label for="file">Raw transaction CSV</label>
<input type="file" id="file" name="file" accept=".csv" required>
</div>
<button type="submit">Predict VIPs</button>
</form>
</div>

<div class="tab-panel" id="panel-single" data-signals="{totalQty: 5, avgUnitPrice: 450, monetaryValue: 2250}">
<h2>Real-Time CRM Scoring</h2>
<p>Enter a customer's current metrics to predict their future value instantly.</p>
<div class="field">
<label for="totalQty">Total Quantity Bought</label>
<input type="number" id="totalQty" min="0" data-bind-totalQty>
</div>
<div class="field">
<label for="avgUnitPrice">Avg Unit Price ($)</label>
<input type="number" id="avgUnitPrice" min="0" step="0.01" data-bind-avgUnitPrice>
</div>
<div class="field">
<label for="monetaryValue">Total Spent ($)</label>
<input type="number" id="monetaryValue" min="0" step="0.01" data-bind-monetaryValue>
</div>
<button data-on-click="@post('/sse/score-customer')">Calculate 3-Month CLV</button>
<div id="score-result"></div>
</div>
</div>

<div class="model-panel" id="model-content" data-on-load="@get('/sse/model-info')"></div>
</body>
</html>
`
