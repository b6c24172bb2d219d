package narrative

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"MorningRadar/internal/collector"
	"MorningRadar/internal/config"
)

// NewFromConfig builds the configured generator and its cache. The generator
// is nil when narratives are disabled or no API key is set.
func NewFromConfig(cfg *config.Config, log *logrus.Logger) (Generator, Cache, error) {
	n := cfg.Narrative
	if !n.Enabled || n.APIKey == "" {
		log.Info("narrative disabled, using band text")
		return nil, NewNoopCache(), nil
	}

	var cache Cache = NewNoopCache()
	if path := cfg.Database.SQLitePath; path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create data dir: %w", err)
		}
		sc, err := NewSQLiteCache(path, time.Duration(n.CacheTTLMin)*time.Minute, log)
		if err != nil {
			return nil, nil, err
		}
		cache = sc
	}

	client := NewLLMClient(n.BaseURL, n.Model, n.APIKey, collector.NewHTTPClient(cfg.Proxy, time.Duration(n.TimeoutSec)*time.Second))
	return NewCachedGenerator(client, cache, log), cache, nil
}
