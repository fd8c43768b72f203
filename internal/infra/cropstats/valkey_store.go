package cropstats

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/crop-advisor/internal/domain/crop"
)

// ValkeyStore keeps popularity counters in a Valkey sorted set.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "crop"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Increment(ctx context.Context, c crop.Crop) error {
	if !c.Valid() {
		return nil
	}
	cmd := s.client.B().Zincrby().Key(s.popularKey()).Increment(1).Member(c.String()).Build()
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) Top(ctx context.Context, limit int) ([]crop.CropCount, error) {
	if limit <= 0 {
		limit = crop.LabelCount
	}
	resp := s.client.Do(ctx, s.client.B().Zrevrange().Key(s.popularKey()).Start(0).Stop(int64(limit-1)).Withscores().Build())
	scores, err := resp.AsZScores()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}
	return toCounts(scores), nil
}

func toCounts(scores []valkey.ZScore) []crop.CropCount {
	out := make([]crop.CropCount, 0, len(scores))
	for _, z := range scores {
		c, ok := crop.ParseCrop(z.Member)
		if !ok {
			continue
		}
		out = append(out, crop.CropCount{Crop: c, Count: int64(z.Score)})
	}
	return out
}

func (s *ValkeyStore) popularKey() string {
	return fmt.Sprintf("%s:popular", s.prefix)
}

var _ crop.StatsStore = (*ValkeyStore)(nil)
