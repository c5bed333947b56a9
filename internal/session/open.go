package session

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"hsbot/internal/config"
)

const probeTimeout = 3 * time.Second

// Open builds the configured backend and probes it. When the durable backend
// cannot be created or does not answer the probe, Open logs the failure and
// falls back to a MemoryStore; it never fails.
func Open(ctx context.Context, cfg config.Storage, log *logrus.Entry) Store {
	durable, err := build(cfg)
	if err == nil && durable != nil {
		pctx, cancel := context.WithTimeout(ctx, probeTimeout)
		err = durable.Ping(pctx)
		cancel()
		if err == nil {
			log.WithField("backend", durable.Name()).Info("session store ready")
			return durable
		}
		_ = durable.Close()
	}

	if err != nil {
		log.WithError(err).WithField("backend", cfg.Backend).Warn("session store unavailable, falling back to memory")
	}
	log.WithField("backend", "memory").Info("session store ready")
	return NewMemoryStore()
}

func build(cfg config.Storage) (Store, error) {
	switch cfg.Backend {
	case "redis", "":
		return NewRedisStore(cfg), nil
	case "sqlite":
		return OpenSQLite(cfg.SQLitePath)
	case "memory":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
}
