// Package timeouts centralizes the deadlines used for store and
// index operations. Values can be overridden at startup through
// environment variables so operators can loosen them for slow or
// remote databases without a rebuild.
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultPing   = 5 * time.Second
	defaultShort  = 5 * time.Second
	defaultMedium = 15 * time.Second
	defaultLong   = 30 * time.Second
	defaultBatch  = 2 * time.Minute
)

var (
	mu     sync.RWMutex
	ping   = defaultPing
	short  = defaultShort
	medium = defaultMedium
	long   = defaultLong
	batch  = defaultBatch
)

// Ping is the deadline for connectivity probes.
func Ping() time.Duration { return get(&ping) }

// Short is the deadline for single-document reads and writes.
func Short() time.Duration { return get(&short) }

// Medium is the deadline for multi-document reads and writes that
// stay bounded by a single form.
func Medium() time.Duration { return get(&medium) }

// Long is the deadline for index builds and schema work.
func Long() time.Duration { return get(&long) }

// Batch is the deadline for bulk mutations, which may touch every
// submission under a form.
func Batch() time.Duration { return get(&batch) }

func get(d *time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return *d
}

// WithTimeout derives a context carrying the given deadline. The returned
// cancel func logs a warning when the deadline was actually hit, so slow
// store operations leave a trace.
func WithTimeout(parent context.Context, d time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, d)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", d))
		}
		cancel()
	}
}

// ConfigureFromEnv overrides the defaults from DATAWELL_TIMEOUT_*
// variables (Go duration syntax, for example "45s"). Unset or malformed
// values leave the default in place. Returns how many were applied.
func ConfigureFromEnv() int {
	mu.Lock()
	defer mu.Unlock()
	n := 0
	n += setFromEnv(&ping, "DATAWELL_TIMEOUT_PING")
	n += setFromEnv(&short, "DATAWELL_TIMEOUT_SHORT")
	n += setFromEnv(&medium, "DATAWELL_TIMEOUT_MEDIUM")
	n += setFromEnv(&long, "DATAWELL_TIMEOUT_LONG")
	n += setFromEnv(&batch, "DATAWELL_TIMEOUT_BATCH")
	return n
}

func setFromEnv(d *time.Duration, key string) int {
	raw := os.Getenv(key)
	if raw == "" {
		return 0
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return 0
	}
	*d = parsed
	return 1
}
