// Package scheduler periodically revokes media no longer referenced by the site.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/user/tubevibes/internal/config"
	"github.com/user/tubevibes/internal/media"
	"github.com/user/tubevibes/internal/model"
)

// VideoLister lists catalog records
type VideoLister interface {
	List(ctx context.Context) ([]*model.Video, error)
}

// MediaIndex is the registry view the sweeper needs
type MediaIndex interface {
	Entries() []media.Entry
	Revoke(url string) bool
}

// LogoSource returns the media URL used by the site logo
type LogoSource interface {
	Logo(ctx context.Context) (string, error)
}

// DefaultInitialDelay is the wait before the first sweep
const DefaultInitialDelay = 30 * time.Second

// DefaultSweepGrace applies when the configured grace period is not positive
const DefaultSweepGrace = 5 * time.Minute

// Scheduler manages periodic media sweeps
type Scheduler struct {
	videos       VideoLister
	media        MediaIndex
	logo         LogoSource
	config       *config.MediaConfig
	initialDelay time.Duration
	now          func() time.Time
	onSweep      func(revoked int)
	running      atomic.Bool
	mu           sync.Mutex // prevents overlapping sweeps
	stopCh       chan struct{}
	wg           sync.WaitGroup
}

// NewScheduler creates a new scheduler instance. logo may be nil.
func NewScheduler(videos VideoLister, index MediaIndex, logo LogoSource, cfg *config.MediaConfig) *Scheduler {
	return &Scheduler{
		videos:       videos,
		media:        index,
		logo:         logo,
		config:       cfg,
		initialDelay: DefaultInitialDelay,
		now:          time.Now,
		stopCh:       make(chan struct{}),
	}
}

// SetInitialDelay overrides the wait before the first sweep
func (s *Scheduler) SetInitialDelay(d time.Duration) {
	s.initialDelay = d
}

// OnSweep registers a callback receiving the revoked count of each sweep
func (s *Scheduler) OnSweep(fn func(revoked int)) {
	s.onSweep = fn
}

// Start begins the scheduler with initial delay and periodic execution
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)
}

// run is the main scheduler loop
func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	log.Info().Dur("delay", s.initialDelay).Msg("Media sweeper starting with initial delay")

	select {
	case <-time.After(s.initialDelay):
		s.executeSweep(ctx)
	case <-s.stopCh:
		log.Info().Msg("Media sweeper stopped during initial delay")
		return
	case <-ctx.Done():
		log.Info().Msg("Media sweeper context cancelled during initial delay")
		return
	}

	ticker := time.NewTicker(s.config.SweepInterval)
	defer ticker.Stop()

	log.Info().Dur("interval", s.config.SweepInterval).Msg("Media sweeper started periodic execution")

	for {
		select {
		case <-ticker.C:
			s.executeSweep(ctx)
		case <-s.stopCh:
			log.Info().Msg("Media sweeper stopped")
			return
		case <-ctx.Done():
			log.Info().Msg("Media sweeper context cancelled")
			return
		}
	}
}

// executeSweep runs a single sweep unless one is already running
func (s *Scheduler) executeSweep(ctx context.Context) {
	if !s.mu.TryLock() {
		log.Warn().Msg("Media sweep already running, skipping this trigger")
		return
	}
	defer s.mu.Unlock()

	s.sweep(ctx, "scheduled")
}

func (s *Scheduler) sweep(ctx context.Context, kind string) {
	s.running.Store(true)
	defer s.running.Store(false)

	startTime := time.Now()
	revoked, err := s.RunOnce(ctx)
	if err != nil {
		log.Error().Err(err).Str("kind", kind).Msg("Media sweep failed")
		return
	}

	if s.onSweep != nil {
		s.onSweep(revoked)
	}

	log.Info().
		Str("kind", kind).
		Int("revoked", revoked).
		Dur("duration", time.Since(startTime)).
		Msg("Media sweep completed")
}

// RunOnce revokes registry entries that no video or setting references and
// that are older than the grace period. It returns the number revoked.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	// Snapshot entries first so uploads finishing during the sweep are
	// either referenced or still inside the grace period.
	entries := s.media.Entries()
	if len(entries) == 0 {
		return 0, nil
	}

	referenced, err := s.referenced(ctx)
	if err != nil {
		return 0, err
	}

	grace := s.config.SweepGrace
	if grace <= 0 {
		grace = DefaultSweepGrace
	}
	cutoff := s.now().Add(-grace)
	revoked := 0
	for _, e := range entries {
		if referenced[e.URL] || e.CreatedAt.After(cutoff) {
			continue
		}
		if s.media.Revoke(e.URL) {
			revoked++
			log.Debug().Str("url", e.URL).Msg("Revoked orphaned media")
		}
	}
	return revoked, nil
}

func (s *Scheduler) referenced(ctx context.Context) (map[string]bool, error) {
	videos, err := s.videos.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}

	refs := make(map[string]bool, 2*len(videos)+1)
	for _, v := range videos {
		refs[v.VideoURL] = true
		refs[v.ThumbnailURL] = true
	}

	if s.logo != nil {
		logo, err := s.logo.Logo(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read logo: %w", err)
		}
		if logo != "" {
			refs[logo] = true
		}
	}
	return refs, nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping media sweeper...")
	close(s.stopCh)
	s.wg.Wait()
	log.Info().Msg("Media sweeper stopped")
}

// IsRunning returns true if a sweep is currently running
func (s *Scheduler) IsRunning() bool {
	return s.running.Load()
}

// TryRun attempts to run a sweep immediately
// Returns false if a sweep is already running
func (s *Scheduler) TryRun(ctx context.Context) bool {
	if !s.mu.TryLock() {
		return false
	}
	defer s.mu.Unlock()

	s.sweep(ctx, "manual")
	return true
}
