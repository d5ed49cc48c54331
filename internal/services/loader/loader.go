package loader

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	domrepo "EigenFlow/internal/domain/repository"
	"EigenFlow/pkg/cache"
	"EigenFlow/pkg/logger"
)

// Files names the data files inside the source.
type Files struct {
	// LatestPointer, when set, names a file whose first line is the directory
	// holding the current snapshot and top-10 files.
	LatestPointer string
	Snapshot      string
	Top10         string
	History       string
	// Latest is the optional one-row latest reading.
	Latest string
}

// TTLs bounds how long raw file bytes are reused before the source is read again.
type TTLs struct {
	Snapshot time.Duration
	Signals  time.Duration
	History  time.Duration
}

// Loader reads the dashboard data files. It never returns an error directly:
// every outcome is folded into a Result.
type Loader struct {
	src     domrepo.Source
	cache   cache.Service
	files   Files
	ttl     TTLs
	metrics domrepo.Metrics
	log     *logger.Logger
	now     domrepo.Clock
}

func New(src domrepo.Source, c cache.Service, files Files, ttl TTLs, metrics domrepo.Metrics, log *logger.Logger) *Loader {
	if log == nil {
		log = logger.Nop()
	}
	return &Loader{
		src:     src,
		cache:   c,
		files:   files,
		ttl:     ttl,
		metrics: metrics,
		log:     log,
		now:     time.Now,
	}
}

// LatestDir returns the current data directory named by the pointer file, or "".
func (l *Loader) LatestDir(ctx context.Context) string {
	if l.files.LatestPointer == "" {
		return ""
	}
	b, err := l.fetch(ctx, "latest_dir", l.files.LatestPointer, l.ttl.Snapshot)
	if err != nil {
		if !errors.Is(err, domrepo.ErrNotFound) {
			l.log.Warn("latest pointer unavailable",
				logger.String("file", l.files.LatestPointer),
				logger.Error(err),
			)
		}
		return ""
	}
	line, _, _ := strings.Cut(string(stripBOM(b)), "\n")
	dir := strings.Trim(strings.TrimSpace(line), "/")
	if dir == "" || strings.Contains(dir, "..") {
		return ""
	}
	return dir
}

// resolve places name under the latest directory when one is configured.
func (l *Loader) resolve(ctx context.Context, name string) string {
	if dir := l.LatestDir(ctx); dir != "" {
		return path.Join(dir, name)
	}
	return name
}

// fetch returns raw bytes for name, going to the source only on a cache miss.
// Only successful reads are cached.
func (l *Loader) fetch(ctx context.Context, kind, name string, ttl time.Duration) ([]byte, error) {
	key := cache.GenerateKeyWithParams("source", l.src.Kind(), name)

	if l.cache != nil {
		b, err := l.cache.Get(ctx, key)
		if err == nil {
			l.recordCache(kind, true)
			return b, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			l.log.Debug("cache read failed", logger.String("key", key), logger.Error(err))
		}
		l.recordCache(kind, false)
	}

	start := l.now()
	b, err := l.src.Fetch(ctx, name)
	if l.metrics != nil {
		l.metrics.RecordLatency("fetch_"+kind, l.now().Sub(start).Seconds())
	}
	if err != nil {
		return nil, err
	}

	if l.cache != nil && ttl > 0 {
		if err := l.cache.Set(ctx, key, b, ttl); err != nil {
			l.log.Debug("cache write failed", logger.String("key", key), logger.Error(err))
		}
	}
	return b, nil
}

func (l *Loader) recordCache(kind string, hit bool) {
	if l.metrics != nil {
		l.metrics.RecordCache(kind, hit)
	}
}

// finish records the outcome and logs anything other than success or absence.
func finish[T any](l *Loader, kind string, r Result[T]) Result[T] {
	if l.metrics != nil {
		l.metrics.RecordLoad(kind, string(r.Status))
	}
	if r.Status == StatusFailed {
		l.log.Warn("load failed",
			logger.String("source", kind),
			logger.String("file", r.Source),
			logger.Error(r.Err),
		)
	}
	return r
}

// fetchErr maps a fetch error to an empty or failed result.
func fetchErr[T any](err error, name string) Result[T] {
	if errors.Is(err, domrepo.ErrNotFound) {
		return empty[T](name)
	}
	return failed[T](err, name)
}
