package httpmodel

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketpulse/internal/core"
	"marketpulse/internal/model"
	"marketpulse/internal/schema"
)

var _ model.Classifier = (*Client)(nil)

func testRow() schema.FeatureRow {
	row := schema.FeatureRow{}
	for i, name := range schema.Features {
		row[name] = float64(i + 1)
	}
	return row
}

func TestPredict(t *testing.T) {
	var gotPath string
	var gotFeatures []float64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var req predictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		gotFeatures = req.Features
		json.NewEncoder(w).Encode(predictResponse{Class: 1})
	}))
	defer srv.Close()

	c, err := New(srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	class, err := c.Predict(context.Background(), testRow())
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if class != 1 {
		t.Errorf("class = %d, want 1", class)
	}
	if gotPath != "/predict" {
		t.Errorf("path = %q, want /predict", gotPath)
	}
	if len(gotFeatures) != len(schema.Features) {
		t.Fatalf("sent %d features, want %d", len(gotFeatures), len(schema.Features))
	}
	// vector must follow schema order
	for i := range gotFeatures {
		if gotFeatures[i] != float64(i+1) {
			t.Errorf("feature[%d] = %v, want %v", i, gotFeatures[i], float64(i+1))
		}
	}
}

func TestPredictProba(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict_proba" {
			t.Errorf("path = %q, want /predict_proba", r.URL.Path)
		}
		json.NewEncoder(w).Encode(probaResponse{Probabilities: []float64{0.3, 0.7}})
	}))
	defer srv.Close()

	c, _ := New(srv.URL, 5*time.Second)
	probs, err := c.PredictProba(context.Background(), testRow())
	if err != nil {
		t.Fatalf("PredictProba: %v", err)
	}
	if probs != [2]float64{0.3, 0.7} {
		t.Errorf("probabilities = %v, want [0.3 0.7]", probs)
	}
}

func TestPredictServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, _ := New(srv.URL, 5*time.Second)
	if _, err := c.Predict(context.Background(), testRow()); !errors.Is(err, core.ErrModelFailed) {
		t.Errorf("error = %v, want MODEL_FAILED", err)
	}
}

func TestPredictBadClass(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(predictResponse{Class: 3})
	}))
	defer srv.Close()

	c, _ := New(srv.URL, 5*time.Second)
	if _, err := c.Predict(context.Background(), testRow()); !errors.Is(err, core.ErrModelFailed) {
		t.Errorf("error = %v, want MODEL_FAILED", err)
	}
}

func TestPredictProbaWrongShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(probaResponse{Probabilities: []float64{1.0}})
	}))
	defer srv.Close()

	c, _ := New(srv.URL, 5*time.Second)
	if _, err := c.PredictProba(context.Background(), testRow()); !errors.Is(err, core.ErrModelFailed) {
		t.Errorf("error = %v, want MODEL_FAILED", err)
	}
}

func TestPredictInvalidRow(t *testing.T) {
	c, _ := New("http://localhost:9", 5*time.Second)
	row := testRow()
	delete(row, schema.FeatureClose)
	if _, err := c.Predict(context.Background(), row); !errors.Is(err, core.ErrSchemaMismatch) {
		t.Errorf("error = %v, want SCHEMA_MISMATCH", err)
	}
}

func TestNewRequiresEndpoint(t *testing.T) {
	if _, err := New("", 0); !errors.Is(err, core.ErrConfigMissing) {
		t.Errorf("error = %v, want CONFIG_MISSING", err)
	}
}
