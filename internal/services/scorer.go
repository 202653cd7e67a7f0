package services

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"slices"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/mat"

	"vip-hunter/internal/errors"
	"vip-hunter/internal/models"
	"vip-hunter/internal/pipeline"
)

// Scorer runs the clean -> aggregate -> predict pipeline against a fixed,
// read-only model. Every method allocates fresh output, so concurrent
// requests share nothing mutable.
type Scorer struct {
	model  *LinearModel
	logger *slog.Logger

	customersScored atomic.Int64
	batchRequests   atomic.Int64
	singleRequests  atomic.Int64
}

func NewScorer(model *LinearModel, logger *slog.Logger) *Scorer {
	return &Scorer{
		model:  model,
		logger: logger,
	}
}

// ScoreCSV runs a raw transaction upload through the full pipeline and
// returns one ranked prediction per customer.
func (s *Scorer) ScoreCSV(ctx context.Context, r io.Reader) ([]models.Prediction, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.Schema("uploaded file is empty")
	}
	if err != nil {
		return nil, errors.ParseWrap(err, "cannot read CSV header")
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.ParseWrap(err, "malformed CSV upload")
	}

	cleaned, err := pipeline.Clean(ctx, header, rows)
	if err != nil {
		return nil, err
	}

	features := pipeline.Aggregate(cleaned)
	predictions, err := s.PredictBatch(features)
	if err != nil {
		return nil, err
	}

	s.logger.Info("batch scored",
		"rows_uploaded", len(rows),
		"rows_cleaned", len(cleaned),
		"customers", len(features),
	)
	return predictions, nil
}

// PredictBatch scores a set of feature vectors, applies the non-negativity
// floor and two-decimal rounding, and ranks the result descending by
// predicted value (stable on ties).
func (s *Scorer) PredictBatch(features []models.CustomerFeatures) ([]models.Prediction, error) {
	if len(features) == 0 {
		return nil, errors.Validation("no scorable customers in input")
	}

	raw, err := s.model.Predict(featureMatrix(features))
	if err != nil {
		return nil, err
	}

	predictions := make([]models.Prediction, len(features))
	for i, f := range features {
		predictions[i] = models.Prediction{
			CustomerFeatures: f,
			PredictedCLV:     floorAndRound(raw[i]),
		}
	}

	slices.SortStableFunc(predictions, func(a, b models.Prediction) int {
		return b.PredictedCLV.Cmp(a.PredictedCLV)
	})

	s.customersScored.Add(int64(len(predictions)))
	s.batchRequests.Add(1)
	return predictions, nil
}

// PredictSingle scores one customer profile. It runs the same matrix path as
// PredictBatch, so an identical triple produces an identical rounded value.
func (s *Scorer) PredictSingle(totalQty, avgUnitPrice, monetary float64) (decimal.Decimal, error) {
	raw, err := s.model.Predict(mat.NewDense(1, len(ModelFeatures), []float64{totalQty, avgUnitPrice, monetary}))
	if err != nil {
		return decimal.Decimal{}, err
	}

	s.customersScored.Add(1)
	s.singleRequests.Add(1)
	return floorAndRound(raw[0]), nil
}

func (s *Scorer) Stats() map[string]any {
	return map[string]any{
		"model_features":   ModelFeatures,
		"customers_scored": s.customersScored.Load(),
		"batch_requests":   s.batchRequests.Load(),
		"single_requests":  s.singleRequests.Load(),
	}
}

func featureMatrix(features []models.CustomerFeatures) *mat.Dense {
	data := make([]float64, 0, len(features)*len(ModelFeatures))
	for _, f := range features {
		data = append(data,
			float64(f.TotalQty),
			f.AvgUnitPrice.InexactFloat64(),
			f.MonetaryValue.InexactFloat64(),
		)
	}
	return mat.NewDense(len(features), len(ModelFeatures), data)
}

// floorAndRound applies the business floor: a customer cannot have negative
// future value.
func floorAndRound(raw float64) decimal.Decimal {
	if raw <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(raw).Round(2)
}
