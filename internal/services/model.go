package services

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"gonum.org/v1/gonum/mat"

	"vip-hunter/internal/errors"
)

const modelTypeLinearRegression = "linear_regression"

// ModelFeatures is the model input binding: feature name and position must
// match how the regression was fitted, in this exact order.
var ModelFeatures = []string{"TotalQty", "AvgUnitPrice", "Monetary_Value"}

type modelArtifact struct {
	ModelType    string    `json:"model_type"`
	Features     []string  `json:"features"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// LinearModel is a fitted linear regression. It is loaded once at startup and
// immutable afterwards, so concurrent requests can share it without locking.
type LinearModel struct {
	weights   *mat.VecDense
	intercept float64
}

// NewLinearModel builds a model from raw parameters. Production code goes
// through LoadModel; tests substitute deterministic stubs here.
func NewLinearModel(coefficients []float64, intercept float64) (*LinearModel, error) {
	if len(coefficients) != len(ModelFeatures) {
		return nil, errors.Model(fmt.Sprintf("model has %d coefficients, expected %d", len(coefficients), len(ModelFeatures)))
	}
	return &LinearModel{
		weights:   mat.NewVecDense(len(coefficients), slices.Clone(coefficients)),
		intercept: intercept,
	}, nil
}

// LoadModel reads the serialized regression artifact from disk and validates
// it against the expected feature binding. Callers treat any failure here as
// fatal; there is no request-time reload path.
func LoadModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ModelWrap(err, fmt.Sprintf("cannot read model artifact %s", path))
	}

	var artifact modelArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, errors.ModelWrap(err, fmt.Sprintf("model artifact %s is not valid JSON", path))
	}

	if artifact.ModelType != modelTypeLinearRegression {
		return nil, errors.Model(fmt.Sprintf("unsupported model type %q, expected %q", artifact.ModelType, modelTypeLinearRegression))
	}
	if !slices.Equal(artifact.Features, ModelFeatures) {
		return nil, errors.Model(fmt.Sprintf("model features [%s] do not match expected binding [%s]",
			strings.Join(artifact.Features, ", "), strings.Join(ModelFeatures, ", ")))
	}

	return NewLinearModel(artifact.Coefficients, artifact.Intercept)
}

// Predict applies the regression to a row-major feature matrix and returns
// one raw, unfloored score per row.
func (m *LinearModel) Predict(x *mat.Dense) ([]float64, error) {
	rows, cols := x.Dims()
	if cols != m.weights.Len() {
		return nil, errors.Model(fmt.Sprintf("feature matrix has %d columns, model expects %d", cols, m.weights.Len()))
	}

	var scores mat.VecDense
	scores.MulVec(x, m.weights)

	raw := make([]float64, rows)
	for i := range raw {
		raw[i] = scores.AtVec(i) + m.intercept
	}
	return raw, nil
}
