package archive

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/yourorg/realty-agent-api/internal/store"
	"github.com/yourorg/realty-agent-api/smythos"
)

// Entry is one extraction observed on the request path.
type Entry struct {
	Endpoint  string
	QueryKey  string
	Payload   string
	Trace     smythos.Trace
	FetchedAt time.Time
}

// SnapshotWriter persists raw payloads. *store.Store implements it.
type SnapshotWriter interface {
	WriteSnapshot(ctx context.Context, snap store.Snapshot) (string, error)
}

// ShapeCounter tallies decode variants and matched paths. *redisx.Client implements it.
type ShapeCounter interface {
	IncrShape(ctx context.Context, domain, variant, path string) error
}

type Options struct {
	QueueSize int
	Workers   int
}

// Recorder archives extractions in the background. A nil *Recorder and a
// Recorder with no sinks both accept entries and do nothing.
type Recorder struct {
	Writer  SnapshotWriter
	Counter ShapeCounter
	q       *queue
}

func NewRecorder(w SnapshotWriter, c ShapeCounter, opts Options) *Recorder {
	r := &Recorder{Writer: w, Counter: c}
	if r.Enabled() {
		r.q = newQueue(opts.QueueSize, opts.Workers, r.write)
	}
	return r
}

func (r *Recorder) Enabled() bool { return r != nil && (r.Writer != nil || r.Counter != nil) }

// Record queues e. It reports false when e was dropped.
func (r *Recorder) Record(e Entry) bool {
	if !r.Enabled() || r.q == nil {
		return false
	}
	if e.FetchedAt.IsZero() {
		e.FetchedAt = time.Now().UTC()
	}
	if !r.q.enqueue(e) {
		zap.L().Warn("archive: queue saturated, entry dropped",
			zap.String("domain", e.Trace.Domain),
			zap.String("endpoint", e.Endpoint))
		return false
	}
	return true
}

// Dropped is the number of entries discarded so far.
func (r *Recorder) Dropped() int64 {
	if r == nil || r.q == nil {
		return 0
	}
	return r.q.dropped.Load()
}

// Close drains pending entries until ctx ends.
func (r *Recorder) Close(ctx context.Context) error {
	if r == nil || r.q == nil {
		return nil
	}
	return r.q.close(ctx)
}

func (r *Recorder) write(ctx context.Context, e Entry) {
	tr := e.Trace
	if r.Counter != nil {
		if err := r.Counter.IncrShape(ctx, tr.Domain, tr.Variant, tr.Path); err != nil {
			zap.L().Warn("archive: shape counter failed", zap.String("domain", tr.Domain), zap.Error(err))
		}
	}
	if r.Writer != nil {
		_, err := r.Writer.WriteSnapshot(ctx, store.Snapshot{
			Domain:      tr.Domain,
			Endpoint:    e.Endpoint,
			QueryKey:    e.QueryKey,
			Variant:     tr.Variant,
			MatchedPath: tr.Path,
			RecordCount: tr.Count,
			Payload:     e.Payload,
			FetchedAt:   e.FetchedAt,
		})
		if err != nil {
			zap.L().Warn("archive: snapshot write failed", zap.String("domain", tr.Domain), zap.Error(err))
		}
	}
}
