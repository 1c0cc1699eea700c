package sync

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// writeRetries bounds the attempts per destination within a single sync.
const writeRetries = 3

// Destination is the interface for a sync target (S3, git, etc.).
type Destination interface {
	// Write sends the JSONL payload to the destination.
	Write(ctx context.Context, data []byte) error
}

// Scheduler runs periodic syncs to one or more destinations.
type Scheduler struct {
	source       Source
	destinations []Destination
	interval     time.Duration
	logger       *slog.Logger
	retryWait    time.Duration

	// last holds the payload most recently written to each destination.
	last [][]byte

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler that exports from src to the given
// destinations at the specified interval.
func NewScheduler(src Source, destinations []Destination, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		source:       src,
		destinations: destinations,
		interval:     interval,
		logger:       logger,
		retryWait:    time.Second,
		last:         make([][]byte, len(destinations)),
	}
}

// Start begins periodic sync. It runs an initial sync immediately, then
// on each tick until ctx is canceled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop cancels the scheduler and waits for the current sync (if any) to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	s.SyncOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SyncOnce(ctx)
		}
	}
}

// SyncOnce exports the store and writes the payload to every destination
// whose last successful write differs from it. Failures are logged and
// retried on the next tick.
func (s *Scheduler) SyncOnce(ctx context.Context) {
	var buf bytes.Buffer
	if err := ExportJSONL(ctx, s.source, &buf); err != nil {
		s.logger.Error("sync export failed", "error", err)
		return
	}
	data := buf.Bytes()

	written := 0
	for i, dest := range s.destinations {
		if bytes.Equal(s.last[i], data) {
			continue
		}
		if err := s.write(ctx, dest, data); err != nil {
			s.logger.Error("sync destination write failed", "destination", destName(i, dest), "error", err)
			continue
		}
		s.last[i] = bytes.Clone(data)
		written++
	}

	s.logger.Info("sync completed", "destinations", len(s.destinations), "written", written, "bytes", len(data))
}

func (s *Scheduler) write(ctx context.Context, dest Destination, data []byte) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.retryWait
	return backoff.Retry(func() error {
		return dest.Write(ctx, data)
	}, backoff.WithContext(backoff.WithMaxRetries(b, writeRetries-1), ctx))
}

func destName(i int, dest Destination) string {
	if st, ok := dest.(fmt.Stringer); ok {
		return st.String()
	}
	return fmt.Sprintf("%d", i)
}
