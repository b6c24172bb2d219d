package narrative

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"MorningRadar/internal/model"
)

// Cache memoizes narratives by context key.
type Cache interface {
	Get(key string) (model.Narrative, bool, error)
	Put(key string, n model.Narrative) error
	Close() error
}

// NoopCache never stores anything; used when SQLite is not configured.
type NoopCache struct{}

func NewNoopCache() *NoopCache { return &NoopCache{} }

func (NoopCache) Get(string) (model.Narrative, bool, error) { return model.Narrative{}, false, nil }
func (NoopCache) Put(string, model.Narrative) error         { return nil }
func (NoopCache) Close() error                              { return nil }

// SQLiteCache keeps narratives in a SQLite table; entries older than TTL are ignored.
type SQLiteCache struct {
	db  *sql.DB
	mu  sync.Mutex
	ttl time.Duration
	log *logrus.Entry
	now func() time.Time
}

// NewSQLiteCache opens (or creates) the database and runs migrations.
func NewSQLiteCache(dbPath string, ttl time.Duration, log *logrus.Logger) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// WAL lets the dashboard read while a refresh writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	c := &SQLiteCache{db: db, ttl: ttl, log: log.WithField("component", "narrative-cache"), now: time.Now}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	c.log.WithField("path", dbPath).Info("sqlite narrative cache opened")
	return c, nil
}

func (c *SQLiteCache) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS narratives (
			key        TEXT PRIMARY KEY,
			headline   TEXT NOT NULL,
			action     TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_narratives_created ON narratives(created_at)`,
	}
	for _, s := range stmts {
		if _, err := c.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (c *SQLiteCache) Get(key string) (model.Narrative, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n model.Narrative
	var created int64
	err := c.db.QueryRow(`SELECT headline, action, created_at FROM narratives WHERE key = ?`, key).
		Scan(&n.Headline, &n.Action, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Narrative{}, false, nil
	}
	if err != nil {
		return model.Narrative{}, false, fmt.Errorf("query narrative: %w", err)
	}
	if c.ttl > 0 && c.now().Sub(time.Unix(created, 0)) > c.ttl {
		return model.Narrative{}, false, nil
	}
	return n, true, nil
}

func (c *SQLiteCache) Put(key string, n model.Narrative) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().Unix()
	if _, err := c.db.Exec(`INSERT INTO narratives (key, headline, action, created_at)
		VALUES (?,?,?,?)
		ON CONFLICT(key) DO UPDATE SET headline = excluded.headline,
			action = excluded.action, created_at = excluded.created_at`,
		key, n.Headline, n.Action, now,
	); err != nil {
		return fmt.Errorf("store narrative: %w", err)
	}
	if c.ttl > 0 {
		// expired rows are never read again
		cutoff := now - int64(c.ttl/time.Second)
		if _, err := c.db.Exec(`DELETE FROM narratives WHERE created_at < ?`, cutoff); err != nil {
			return fmt.Errorf("prune narratives: %w", err)
		}
	}
	return nil
}

func (c *SQLiteCache) Close() error {
	c.log.Info("closing sqlite narrative cache")
	return c.db.Close()
}

// CachedGenerator serves repeated contexts from a Cache instead of the model.
type CachedGenerator struct {
	Inner Generator
	Cache Cache
	Log   *logrus.Entry
}

// NewCachedGenerator wraps inner with cache.
func NewCachedGenerator(inner Generator, cache Cache, log *logrus.Logger) *CachedGenerator {
	return &CachedGenerator{Inner: inner, Cache: cache, Log: log.WithField("component", "narrative")}
}

func (g *CachedGenerator) Generate(ctx context.Context, in Context) (model.Narrative, error) {
	key := Key(in)
	if n, ok, err := g.Cache.Get(key); err != nil {
		g.Log.WithError(err).Warn("narrative cache read failed")
	} else if ok {
		g.Log.WithField("key", key[:12]).Debug("narrative cache hit")
		return n, nil
	}

	n, err := g.Inner.Generate(ctx, in)
	if err != nil {
		return model.Narrative{}, err
	}
	if err := g.Cache.Put(key, n); err != nil {
		g.Log.WithError(err).Warn("narrative cache write failed")
	}
	return n, nil
}

// Key hashes the parts of a context that change the narrative. Severities are
// rounded to 5 points so tiny price moves reuse the previous answer.
func Key(in Context) string {
	var b strings.Builder
	s := in.Score
	fmt.Fprintf(&b, "v=%d|band=%s", s.Value, s.Level.Label)
	for _, f := range s.Risks {
		fmt.Fprintf(&b, "|r:%s:%.0f", f.ID, bucket(f.Severity))
	}
	for _, f := range s.Opportunities {
		fmt.Fprintf(&b, "|o:%s:%.0f", f.ID, bucket(f.Severity))
	}
	for _, id := range s.Missing {
		fmt.Fprintf(&b, "|m:%s", id)
	}
	if f := in.Flow; f != nil {
		fmt.Fprintf(&b, "|f:%s:%.0f:%.0f:%.0f", f.Market, f.Foreign, f.Institution, f.Individual)
	}
	if w := in.Weather; w != nil {
		fmt.Fprintf(&b, "|w:%s:%.0f", w.Summary, w.TempC)
	}
	for _, h := range in.Headlines {
		fmt.Fprintf(&b, "|h:%s", h.Title)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func bucket(v float64) float64 {
	return math.Round(v/5) * 5
}
