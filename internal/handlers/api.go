package handlers

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"vip-hunter/internal/errors"
	"vip-hunter/internal/models"
	"vip-hunter/internal/observability"
	"vip-hunter/internal/services"
)

const (
	uploadFieldName    = "file"
	downloadFilename   = "VIP_Predictions.csv"
	multipartMemoryCap = 16 << 20
)

// predictionColumns is the batch output contract: fixed names, fixed order,
// sorted descending by the last column.
var predictionColumns = []string{"CustomerID", "TotalQty", "AvgUnitPrice", "Monetary_Value", "Predicted_3M_CLV"}

type APIHandlers struct {
	scorer *services.Scorer
	logger *slog.Logger
}

func NewAPIHandlers(scorer *services.Scorer, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		scorer: scorer,
		logger: logger,
	}
}

// HandlePredictBatch accepts a raw transaction CSV upload and returns the
// ranked prediction set as a downloadable CSV attachment. Non-CSV uploads are
// rejected before the pipeline runs; any pipeline failure surfaces as a
// server error carrying the underlying message.
func (h *APIHandlers) HandlePredictBatch(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	if err := r.ParseMultipartForm(multipartMemoryCap); err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "expected a multipart file upload"), requestID)
		return
	}

	file, header, err := r.FormFile(uploadFieldName)
	if err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "upload a CSV file in the \"file\" field"), requestID)
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		errors.WriteError(w, h.logger, errors.BadRequest("only CSV files are accepted"), requestID)
		return
	}

	predictions, err := h.scorer.ScoreCSV(r.Context(), file)
	if err != nil {
		errors.WriteError(w, h.logger, errors.ServerError(err), requestID)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+downloadFilename+`"`)

	if err := writePredictionsCSV(w, predictions); err != nil {
		h.logger.Error("failed to stream predictions CSV",
			"error", err,
			"request_id", requestID,
		)
	}
}

func writePredictionsCSV(w io.Writer, predictions []models.Prediction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(predictionColumns); err != nil {
		return err
	}
	for _, p := range predictions {
		record := []string{
			p.CustomerID,
			strconv.FormatInt(p.TotalQty, 10),
			p.AvgUnitPrice.String(),
			p.MonetaryValue.String(),
			p.PredictedCLV.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// singlePredictionRequest uses pointer fields so that a missing field is
// distinguishable from a zero value.
type singlePredictionRequest struct {
	TotalQty      *float64 `json:"TotalQty"`
	AvgUnitPrice  *float64 `json:"AvgUnitPrice"`
	MonetaryValue *float64 `json:"Monetary_Value"`
}

// HandlePredictSingle scores one customer profile from a JSON payload.
func (h *APIHandlers) HandlePredictSingle(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	var req singlePredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "invalid JSON payload"), requestID)
		return
	}

	if req.TotalQty == nil || req.AvgUnitPrice == nil || req.MonetaryValue == nil {
		errors.WriteError(w, h.logger,
			errors.Schema("TotalQty, AvgUnitPrice and Monetary_Value are required numeric fields"), requestID)
		return
	}

	predicted, err := h.scorer.PredictSingle(*req.TotalQty, *req.AvgUnitPrice, *req.MonetaryValue)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	errors.WriteSuccess(w, map[string]any{
		"status":               "success",
		"predicted_3m_clv_usd": predicted,
	})
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats := h.scorer.Stats()

	headers := map[string]string{
		"Cache-Control": "no-store",
	}

	errors.WriteSuccessWithHeaders(w, stats, headers)
}
