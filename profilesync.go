package recagent

import (
	"context"
	"sync"
	"time"
)

// ProfileSync owns the mutate-then-verify pattern for one view. A
// successful mutation is applied optimistically to the cached identity and
// the view's form state, then reconciled by exactly one delayed
// authoritative re-fetch. Tearing the view down with [ProfileSync.Close]
// cancels the pending re-fetch; after Close, neither the view callback nor
// the session cache is ever written by this instance.
type ProfileSync struct {
	client *Client
	apply  func(UserRecord)
	delay  time.Duration

	mu     sync.Mutex
	closed bool
	cancel context.CancelFunc
}

// NewProfileSync binds a sync instance to a view. apply pushes a record
// into the view's editable form state; it may be nil for headless use.
// apply runs under the instance's internal lock, which is what keeps any
// apply from landing after [ProfileSync.Close]. It must return quickly and
// must not call back into the same ProfileSync; hand off to another
// goroutine if a callback needs to mutate or close it. The re-fetch delay
// comes from Profile.RefetchDelay.
func NewProfileSync(client *Client, apply func(UserRecord)) *ProfileSync {
	return &ProfileSync{
		client: client,
		apply:  apply,
		delay:  client.config.Profile.RefetchDelay,
	}
}

// UpdateResearch submits the mutation, applies the normalized result
// optimistically, and schedules the delayed re-fetch. A failed mutation
// changes nothing and schedules nothing.
func (p *ProfileSync) UpdateResearch(ctx context.Context, req UpdateResearchRequest) (*UserRecord, error) {
	record, err := p.client.UpdateResearch(ctx, req)
	if err != nil {
		return nil, err
	}

	p.applyToView(*record)
	p.scheduleRefetch()
	return record, nil
}

// Close cancels any pending re-fetch and permanently disables this
// instance. Idempotent.
func (p *ProfileSync) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func (p *ProfileSync) applyToView(record UserRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || p.apply == nil {
		return
	}
	p.apply(record)
}

// scheduleRefetch arranges the single delayed reconciliation. A newer
// mutation supersedes an older pending re-fetch rather than stacking a
// second one.
func (p *ProfileSync) scheduleRefetch() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.mu.Unlock()

	go p.refetchAfterDelay(ctx)
}

func (p *ProfileSync) refetchAfterDelay(ctx context.Context) {
	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	// Fetch without committing so the write below can be guarded against a
	// Close that raced with the request.
	payload, err := p.client.fetchProfile(ctx)
	if err != nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || ctx.Err() != nil {
		return
	}

	record, err := p.client.commitProfile(ctx, payload)
	if err != nil {
		return
	}

	p.client.emit(ctx, EventProfileRefetched, record.UserID, true, "")
	if p.apply != nil {
		p.apply(*record)
	}
}
