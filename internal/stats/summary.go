package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"hsbot/internal/model"
)

// KindSummary aggregates the searches of one request kind.
type KindSummary struct {
	Searches int64            `json:"searches"`
	Rejected int64            `json:"rejected"`
	Filters  map[string]int64 `json:"filters"`
}

// Summary is the read side served to operators.
type Summary struct {
	Kinds  map[string]KindSummary `json:"kinds"`
	Recent []model.SearchEvent    `json:"recent"`
}

var kinds = []string{"card", "deck"}

// Reader queries the read models written by Projector.
type Reader struct {
	rdb *redis.Client
}

func NewReader(rdb *redis.Client) *Reader {
	return &Reader{rdb: rdb}
}

// Summary collects counters, filter usage and the latest events.
func (r *Reader) Summary(ctx context.Context) (*Summary, error) {
	s := &Summary{Kinds: map[string]KindSummary{}}
	for _, k := range kinds {
		ks := KindSummary{Filters: map[string]int64{}}
		var err error
		if ks.Searches, err = r.counter(ctx, "stats:searches:"+k); err != nil {
			return nil, err
		}
		if ks.Rejected, err = r.counter(ctx, "stats:rejected:"+k); err != nil {
			return nil, err
		}
		// redis/go-redis/v9: ZRevRangeWithScores lists the most used filters first.
		zs, err := r.rdb.ZRevRangeWithScores(ctx, "stats:filters:"+k, 0, -1).Result()
		if err != nil {
			return nil, fmt.Errorf("read filters of %s: %w", k, err)
		}
		for _, z := range zs {
			ks.Filters[fmt.Sprint(z.Member)] = int64(z.Score)
		}
		s.Kinds[k] = ks
	}

	raw, err := r.rdb.LRange(ctx, "stats:recent", 0, recentLimit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read recent searches: %w", err)
	}
	for _, item := range raw {
		var evt model.SearchEvent
		if json.Unmarshal([]byte(item), &evt) == nil {
			s.Recent = append(s.Recent, evt)
		}
	}
	return s, nil
}

func (r *Reader) counter(ctx context.Context, key string) (int64, error) {
	n, err := r.rdb.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", key, err)
	}
	return n, nil
}

// Text renders s for a chat message.
func (s *Summary) Text() string {
	var b strings.Builder
	b.WriteString("<b>Search statistics</b>\n")
	for _, k := range kinds {
		ks := s.Kinds[k]
		fmt.Fprintf(&b, "\n<b>%s</b>: %d searches, %d too broad\n", k, ks.Searches, ks.Rejected)

		names := make([]string, 0, len(ks.Filters))
		for name := range ks.Filters {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			if ks.Filters[names[i]] != ks.Filters[names[j]] {
				return ks.Filters[names[i]] > ks.Filters[names[j]]
			}
			return names[i] < names[j]
		})
		for _, name := range names {
			fmt.Fprintf(&b, "  %s: %d\n", name, ks.Filters[name])
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
