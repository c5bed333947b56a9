// Package stats maintains read models of search activity in Redis, built
// from the search event stream.
package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"hsbot/internal/model"
)

const recentLimit = 20

// Projector applies search events to the Redis read models:
//
//	stats:searches:<kind>  counter of answered searches
//	stats:rejected:<kind>  counter of searches over the result ceiling
//	stats:filters:<kind>   sorted set, filter name -> times used
//	stats:recent           list of the latest events, newest first
type Projector struct {
	rdb *redis.Client
}

func NewProjector(rdb *redis.Client) *Projector {
	return &Projector{rdb: rdb}
}

// Apply is a kstream.SearchHandler.
func (p *Projector) Apply(ctx context.Context, evt model.SearchEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	// redis/go-redis/v9: TxPipelined sends every projection update in a
	// single MULTI/EXEC round trip.
	_, err = p.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, "stats:searches:"+evt.Kind)
		if !evt.Accepted {
			pipe.Incr(ctx, "stats:rejected:"+evt.Kind)
		}
		for _, f := range filterNames(evt.Params) {
			pipe.ZIncrBy(ctx, "stats:filters:"+evt.Kind, 1, f)
		}
		pipe.LPush(ctx, "stats:recent", data)
		pipe.LTrim(ctx, "stats:recent", 0, recentLimit-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("project search %s: %w", evt.ID, err)
	}
	return nil
}

// filterNames folds <f>_min/<f>_max back into f.
func filterNames(params map[string]string) []string {
	seen := map[string]bool{}
	var out []string
	for k := range params {
		name := strings.TrimSuffix(strings.TrimSuffix(k, "_min"), "_max")
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}
