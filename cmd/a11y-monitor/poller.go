package main

import (
	"context"
	"errors"
	"time"

	"github.com/bruth/a11y"
	"github.com/bruth/a11y/metrics"
	"go.uber.org/zap"
)

// poller feeds new event records into the tracker.
type poller struct {
	store    *a11y.EventStore
	tracker  *metrics.Tracker
	interval time.Duration
	logger   *zap.Logger

	lastSeq uint64
}

// Poll loads the records appended since the previous poll and returns the
// number of distinct events observed.
func (p *poller) Poll(ctx context.Context) (int, error) {
	records, last, err := p.store.Load(ctx, "", a11y.AfterSequence(p.lastSeq))
	if err != nil {
		return 0, err
	}

	var n int
	for _, r := range records {
		if p.tracker.ObserveRecord(r) {
			n++
		} else {
			p.logger.Debug("duplicate event record", zap.String("id", r.ID), zap.Uint64("seq", r.Seq))
		}
	}
	if last > p.lastSeq {
		p.lastSeq = last
	}
	return n, nil
}

// Run polls until ctx is done.
func (p *poller) Run(ctx context.Context) error {
	t := time.NewTicker(p.interval)
	defer t.Stop()

	for {
		n, err := p.Poll(ctx)
		switch {
		case err == nil:
			if n > 0 {
				p.logger.Debug("observed events", zap.Int("count", n), zap.Uint64("seq", p.lastSeq))
			}
		case errors.Is(err, context.Canceled):
			return nil
		default:
			p.logger.Warn("failed to load event records", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}
