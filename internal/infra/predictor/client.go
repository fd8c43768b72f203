package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yanqian/crop-advisor/internal/domain/crop"
	apperrors "github.com/yanqian/crop-advisor/pkg/errors"
)

const (
	// DefaultEndpoint is the hosted crop model.
	DefaultEndpoint = "https://crop-recommendation-backend-4va0.onrender.com/predict"
	defaultTimeout  = 10 * time.Second
	maxResponseSize = 1 << 20
)

// Client submits feature vectors to the prediction service.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient builds a prediction client. A non-positive timeout falls back to 10s.
func NewClient(endpoint string, timeout time.Duration) *Client {
	url := strings.TrimSpace(endpoint)
	if url == "" {
		url = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Endpoint returns the URL requests are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

type predictRequest struct {
	Features crop.FeatureVector `json:"features"`
}

type predictResponse struct {
	Prediction []int `json:"prediction"`
}

// Predict issues a single POST and resolves prediction[0] against the label table.
func (c *Client) Predict(ctx context.Context, features crop.FeatureVector) (crop.Crop, error) {
	payload, err := json.Marshal(predictRequest{Features: features})
	if err != nil {
		return 0, apperrors.Wrap(crop.CodeTransport, "encode prediction request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, apperrors.Wrap(crop.CodeTransport, "build prediction request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, apperrors.Wrap(crop.CodeTransport, "prediction service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return 0, apperrors.Wrap(crop.CodeRequestFailed, "recommendation failed", fmt.Errorf("upstream status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return 0, apperrors.Wrap(crop.CodeTransport, "read prediction response", err)
	}
	return decodePrediction(body)
}

func decodePrediction(body []byte) (crop.Crop, error) {
	var raw predictResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return 0, apperrors.Wrap(crop.CodeDecoding, "malformed prediction response", err)
	}
	if len(raw.Prediction) == 0 {
		return 0, apperrors.Wrap(crop.CodeDecoding, "malformed prediction response", errors.New("prediction missing"))
	}
	c, err := crop.CropFromIndex(raw.Prediction[0])
	if err != nil {
		return 0, apperrors.Wrap(crop.CodeDecoding, "invalid prediction index", err)
	}
	return c, nil
}

var _ crop.Predictor = (*Client)(nil)
