package visitors

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/sirupsen/logrus"
)

// HashIP returns the first 16 hex chars of sha256(ip+salt).
func HashIP(ip, salt string) string {
	sum := sha256.Sum256([]byte(ip + salt))
	return hex.EncodeToString(sum[:])[:16]
}

// NewSalt returns a random salt for when none is configured.
func NewSalt() string {
	return gonanoid.Must(32)
}

type TrackerOptions struct {
	Salt         string
	QueueSize    int
	SkipPrefixes []string
}

// Tracker queues visits from request handlers and writes them from a single
// goroutine. A nil *Tracker means tracking is disabled.
type Tracker struct {
	store        *Store
	salt         string
	skipPrefixes []string
	queue        chan Visit
	now          func() time.Time
}

func NewTracker(store *Store, opts TrackerOptions) *Tracker {
	salt := opts.Salt
	if salt == "" {
		salt = NewSalt()
		logrus.Info("no visitor salt configured, using a random one for this process")
	}

	size := opts.QueueSize
	if size < 1 {
		size = 1
	}

	return &Tracker{
		store:        store,
		salt:         salt,
		skipPrefixes: opts.SkipPrefixes,
		queue:        make(chan Visit, size),
		now:          time.Now,
	}
}

// Track hashes ip and queues the visit. It never blocks; when the queue is
// full the visit is dropped and false is returned.
func (t *Tracker) Track(ip, userAgent, path string) bool {
	v := Visit{
		VisitorHash: HashIP(ip, t.salt),
		UserAgent:   userAgent,
		Path:        path,
		At:          t.now(),
	}

	select {
	case t.queue <- v:
		return true
	default:
		logrus.WithField("path", path).Warn("visitor queue full, dropping visit")
		return false
	}
}

// Run writes queued visits until ctx is cancelled, then flushes what is left.
func (t *Tracker) Run(ctx context.Context) {
	for {
		select {
		case v := <-t.queue:
			t.write(ctx, v)
		case <-ctx.Done():
			t.drain(context.WithoutCancel(ctx))
			return
		}
	}
}

func (t *Tracker) drain(ctx context.Context) {
	for {
		select {
		case v := <-t.queue:
			t.write(ctx, v)
		default:
			return
		}
	}
}

func (t *Tracker) write(ctx context.Context, v Visit) {
	if err := t.store.Record(ctx, v); err != nil {
		logrus.WithError(err).WithField("path", v.Path).Error("error recording visitor")
	}
}

// Stats returns ErrDisabled on a nil tracker.
func (t *Tracker) Stats(ctx context.Context) (*Stats, error) {
	if t == nil {
		return nil, ErrDisabled
	}
	return t.store.Stats(ctx)
}

func (t *Tracker) skip(path string) bool {
	for _, prefix := range t.skipPrefixes {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Middleware records page views once they have been served, skipping
// configured prefixes, clients that send DNT: 1 and requests that failed.
func (t *Tracker) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.Request.URL.Path
		if t.skip(path) || c.GetHeader("DNT") == "1" || c.Request.Method != http.MethodGet {
			return
		}
		if c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		t.Track(c.ClientIP(), c.GetHeader("User-Agent"), path)
	}
}
