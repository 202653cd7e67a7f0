package services

import (
	stderrors "errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"

	apperrors "vip-hunter/internal/errors"
)

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "linreg.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func assertModelError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected a model error")
	}
	var appErr *apperrors.AppError
	if !stderrors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != apperrors.CodeModel {
		t.Errorf("expected %s, got %s", apperrors.CodeModel, appErr.Code)
	}
}

func TestLoadModel_Valid(t *testing.T) {
	path := writeArtifact(t, `{
		"model_type": "linear_regression",
		"features": ["TotalQty", "AvgUnitPrice", "Monetary_Value"],
		"coefficients": [1.5, 0.25, 2.0],
		"intercept": 10.0
	}`)

	model, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel() failed: %v", err)
	}

	raw, err := model.Predict(mat.NewDense(1, 3, []float64{2, 4, 3}))
	if err != nil {
		t.Fatalf("Predict() failed: %v", err)
	}
	// 1.5*2 + 0.25*4 + 2.0*3 + 10 = 20
	if math.Abs(raw[0]-20.0) > 1e-9 {
		t.Errorf("expected raw score 20.0, got %f", raw[0])
	}
}

func TestLoadModel_Failures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "invalid JSON",
			content: `{"model_type": "linear_regression"`,
		},
		{
			name: "unsupported model type",
			content: `{"model_type": "random_forest",
				"features": ["TotalQty", "AvgUnitPrice", "Monetary_Value"],
				"coefficients": [1, 2, 3], "intercept": 0}`,
		},
		{
			name: "wrong feature names",
			content: `{"model_type": "linear_regression",
				"features": ["TotalQty", "AvgUnitPrice", "Frequency"],
				"coefficients": [1, 2, 3], "intercept": 0}`,
		},
		{
			name: "wrong feature order",
			content: `{"model_type": "linear_regression",
				"features": ["AvgUnitPrice", "TotalQty", "Monetary_Value"],
				"coefficients": [1, 2, 3], "intercept": 0}`,
		},
		{
			name: "coefficient arity mismatch",
			content: `{"model_type": "linear_regression",
				"features": ["TotalQty", "AvgUnitPrice", "Monetary_Value"],
				"coefficients": [1, 2], "intercept": 0}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadModel(writeArtifact(t, tt.content))
			assertModelError(t, err)
		})
	}
}

func TestLoadModel_MissingFile(t *testing.T) {
	_, err := LoadModel(filepath.Join(t.TempDir(), "nope.json"))
	assertModelError(t, err)
}

func TestLinearModel_PredictDimensionMismatch(t *testing.T) {
	model, err := NewLinearModel([]float64{1, 1, 1}, 0)
	if err != nil {
		t.Fatal(err)
	}

	_, err = model.Predict(mat.NewDense(1, 2, []float64{1, 2}))
	assertModelError(t, err)
}

func TestNewLinearModel_Arity(t *testing.T) {
	if _, err := NewLinearModel([]float64{1, 2, 3, 4}, 0); err == nil {
		t.Error("expected arity mismatch to fail")
	}
}
