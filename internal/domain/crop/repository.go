package crop

import "context"

// Predictor submits a feature vector to the prediction service.
type Predictor interface {
	Predict(ctx context.Context, features FeatureVector) (Crop, error)
}

// HistoryRepository persists audit records.
type HistoryRepository interface {
	Append(ctx context.Context, record Record) error
	Latest(ctx context.Context, limit int) ([]Record, error)
}

// StatsStore tracks how often each crop was recommended.
type StatsStore interface {
	Increment(ctx context.Context, c Crop) error
	Top(ctx context.Context, limit int) ([]CropCount, error)
}
