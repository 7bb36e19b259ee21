package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "deskhub/internal/app/outbox"
)

// Outbox keeps event records in memory and serves the publishing worker.
type Outbox struct {
	mu      sync.Mutex
	pending []pendingRecord
}

type pendingRecord struct {
	record      appoutbox.EventRecord
	attempts    int
	nextAttempt time.Time
	claimed     bool
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = append(o.pending, pendingRecord{record: record, nextAttempt: time.Now()})
	return nil
}

// Claim hands the oldest due record to the worker, or nil when none is due.
func (o *Outbox) Claim(ctx context.Context, workerID string) (*appoutbox.EventRecord, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := time.Now()
	for i := range o.pending {
		p := &o.pending[i]
		if p.claimed || p.nextAttempt.After(now) {
			continue
		}
		p.claimed = true
		rec := p.record
		return &rec, nil
	}
	return nil, nil
}

func (o *Outbox) MarkSent(ctx context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := range o.pending {
		if o.pending[i].record.ID == id {
			o.pending = append(o.pending[:i], o.pending[i+1:]...)
			return nil
		}
	}
	return nil
}

func (o *Outbox) MarkFailed(ctx context.Context, id string, nextAttempt time.Time, reason string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := range o.pending {
		p := &o.pending[i]
		if p.record.ID == id {
			p.claimed = false
			p.attempts++
			p.nextAttempt = nextAttempt
			return nil
		}
	}
	return nil
}

// Attempts reports how often the record has failed; used by tests.
func (o *Outbox) Attempts(id string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := range o.pending {
		if o.pending[i].record.ID == id {
			return o.pending[i].attempts
		}
	}
	return 0
}

// Pending reports how many records await publication.
func (o *Outbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pending)
}

var _ appoutbox.Outbox = (*Outbox)(nil)
