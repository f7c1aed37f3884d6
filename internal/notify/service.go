// Package notify fans catalog events out to external channels.
package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/user/tubevibes/internal/model"
	"golang.org/x/time/rate"
)

// Sink delivers a catalog event to one channel
type Sink interface {
	Name() string
	Deliver(ctx context.Context, event model.VideoEvent) error
}

// ResultFunc observes every delivery attempt
type ResultFunc func(sink string, err error)

// Service delivers events to every sink in the background
type Service struct {
	sinks    []Sink
	limiter  *rate.Limiter
	onResult ResultFunc
	wg       sync.WaitGroup
}

// NewService creates a notify service limited to perSecond deliveries
func NewService(perSecond float64, onResult ResultFunc, sinks ...Sink) *Service {
	return &Service{
		sinks:    sinks,
		limiter:  rate.NewLimiter(rate.Limit(perSecond), 1),
		onResult: onResult,
	}
}

// Enabled reports whether any sink is configured
func (s *Service) Enabled() bool {
	return len(s.sinks) > 0
}

// Publish schedules delivery of event to every sink and returns immediately.
// Cancellation of ctx does not abort delivery.
func (s *Service) Publish(ctx context.Context, event model.VideoEvent) {
	if len(s.sinks) == 0 {
		return
	}

	ctx = context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.deliver(ctx, event)
	}()
}

func (s *Service) deliver(ctx context.Context, event model.VideoEvent) {
	for _, sink := range s.sinks {
		// Wait for rate limiter
		if err := s.limiter.Wait(ctx); err != nil {
			log.Error().Err(err).Str("sink", sink.Name()).Msg("Rate limiter error")
			s.report(sink.Name(), err)
			continue
		}

		err := sink.Deliver(ctx, event)
		if err != nil {
			log.Error().
				Err(err).
				Str("sink", sink.Name()).
				Str("event", string(event.Type)).
				Str("id", event.Video.ID).
				Msg("Failed to deliver event")
		} else {
			log.Debug().
				Str("sink", sink.Name()).
				Str("event", string(event.Type)).
				Str("id", event.Video.ID).
				Msg("Event delivered")
		}
		s.report(sink.Name(), err)
	}
}

func (s *Service) report(sink string, err error) {
	if s.onResult != nil {
		s.onResult(sink, err)
	}
}

// Wait blocks until in-flight deliveries finish
func (s *Service) Wait() {
	s.wg.Wait()
}

// Close waits for in-flight deliveries, then closes sinks that hold connections
func (s *Service) Close() error {
	s.wg.Wait()
	var firstErr error
	for _, sink := range s.sinks {
		c, ok := sink.(interface{ Close() error })
		if !ok {
			continue
		}
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
