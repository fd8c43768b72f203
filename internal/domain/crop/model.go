package crop

import (
	"time"

	"github.com/yanqian/crop-advisor/pkg/metrics"
)

// Request carries raw form input for a recommendation.
type Request struct {
	Values FormValues
}

// Response is serialized back to API consumers.
type Response struct {
	Crop     Crop            `json:"crop"`
	Index    int             `json:"index"`
	Features FeatureVector   `json:"features"`
	RecordID string          `json:"recordId,omitempty"`
	Timing   metrics.Latency `json:"timing"`
}

// Record is the audit entry stored for each resolved submission.
type Record struct {
	ID        string        `json:"id"`
	Features  FeatureVector `json:"features"`
	Crop      string        `json:"crop,omitempty"`
	ErrorCode string        `json:"errorCode,omitempty"`
	LatencyMs int64         `json:"latencyMs"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Succeeded reports whether the record resolved to a crop.
func (r Record) Succeeded() bool {
	return r.ErrorCode == "" && r.Crop != ""
}

// CropCount is a popularity tally for one crop.
type CropCount struct {
	Crop  Crop  `json:"crop"`
	Count int64 `json:"count"`
}

// Config wires runtime limits for the recommendation domain.
type Config struct {
	HistoryLimit int
	PopularLimit int
}
