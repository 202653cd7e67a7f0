package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"vip-hunter/internal/services"
)

var scoreCardTemplate = template.Must(template.New("scoreCard").Parse(`
<div id="score-result" class="metric-card">
<span class="metric-label">Predicted 3-Month Future Spend</span>
<span class="metric-value">${{.Value}}</span>
</div>`))

const scoreErrorHTML = `<div id="score-result" class="metric-card error">Scoring failed</div>`

type SSEHandlers struct {
	scorer *services.Scorer
	logger *slog.Logger
}

func NewSSEHandlers(scorer *services.Scorer, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		scorer: scorer,
		logger: logger,
	}
}

// scoreSignals mirrors the dashboard's single-scoring form signals.
type scoreSignals struct {
	TotalQty      float64 `json:"totalQty"`
	AvgUnitPrice  float64 `json:"avgUnitPrice"`
	MonetaryValue float64 `json:"monetaryValue"`
}

func (h *SSEHandlers) renderScoreCard(value string) (string, error) {
	var buf strings.Builder
	err := scoreCardTemplate.Execute(&buf, struct{ Value string }{Value: value})
	return buf.String(), err
}

// HandleScoreCustomer reads the scoring form signals, runs single-customer
// inference, and patches the result metric card. Failures patch a generic
// indicator; the detail stays in the logs.
func (h *SSEHandlers) HandleScoreCustomer(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	var signals scoreSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		h.logger.Warn("invalid scoring signals", "error", err)
		sse.PatchElements(scoreErrorHTML)
		return
	}

	predicted, err := h.scorer.PredictSingle(signals.TotalQty, signals.AvgUnitPrice, signals.MonetaryValue)
	if err != nil {
		h.logger.Error("single scoring failed", "error", err)
		sse.PatchElements(scoreErrorHTML)
		return
	}

	html, err := h.renderScoreCard(predicted.StringFixed(2))
	if err != nil {
		h.logger.Error("render score card", "error", err)
		return
	}
	sse.PatchElements(html)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// HandleModelInfo pushes the scorer stats into the dashboard's model panel.
func (h *SSEHandlers) HandleModelInfo(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	jsonData, err := json.Marshal(map[string]any{
		"modelStats": h.scorer.Stats(),
	})
	if err != nil {
		h.logger.Error("marshal model stats", "error", err)
		return
	}
	sse.PatchSignals(jsonData)

	sse.PatchElements(`<div id="model-content">Model loaded: linear regression over ` +
		strings.Join(services.ModelFeatures, ", ") + `</div>`)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
