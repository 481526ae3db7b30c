// internal/model/httpmodel/httpmodel.go
package httpmodel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"marketpulse/internal/core"
	"marketpulse/internal/schema"
)

// Client implements the Classifier interface against a model serving
// endpoint. The server holds the trained booster; this client only ships
// feature vectors in schema order and reads back labels and probabilities.
type Client struct {
	endpoint string
	client   *http.Client
}

// New creates a model client for the given endpoint.
func New(endpoint string, timeout time.Duration) (*Client, error) {
	if endpoint == "" {
		return nil, core.WrapError(core.ErrConfigMissing, fmt.Errorf("model endpoint not set"))
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

type predictRequest struct {
	Features []float64 `json:"features"`
}

type predictResponse struct {
	Class int `json:"class"`
}

type probaResponse struct {
	Probabilities []float64 `json:"probabilities"`
}

// Predict returns the predicted class label for the row.
func (c *Client) Predict(ctx context.Context, row schema.FeatureRow) (int, error) {
	vector, err := row.Vector()
	if err != nil {
		return 0, err
	}

	var result predictResponse
	if err := c.post(ctx, "/predict", vector, &result); err != nil {
		return 0, err
	}
	if result.Class != 0 && result.Class != 1 {
		return 0, core.WrapError(core.ErrModelFailed, fmt.Errorf("unexpected class %d", result.Class))
	}
	return result.Class, nil
}

// PredictProba returns [P(down), P(up)] for the row.
func (c *Client) PredictProba(ctx context.Context, row schema.FeatureRow) ([2]float64, error) {
	vector, err := row.Vector()
	if err != nil {
		return [2]float64{}, err
	}

	var result probaResponse
	if err := c.post(ctx, "/predict_proba", vector, &result); err != nil {
		return [2]float64{}, err
	}
	if len(result.Probabilities) != 2 {
		return [2]float64{}, core.WrapError(core.ErrModelFailed,
			fmt.Errorf("expected 2 probabilities, got %d", len(result.Probabilities)))
	}
	return [2]float64{result.Probabilities[0], result.Probabilities[1]}, nil
}

func (c *Client) post(ctx context.Context, path string, features []float64, out any) error {
	body, err := json.Marshal(predictRequest{Features: features})
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return core.WrapError(core.ErrModelFailed, fmt.Errorf("model server: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return core.WrapError(core.ErrModelFailed,
			fmt.Errorf("model server returned status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return core.WrapError(core.ErrModelFailed, fmt.Errorf("decoding response: %w", err))
	}
	return nil
}
