// Package catalog implements the video catalog operations used by the HTTP layer.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/user/tubevibes/internal/model"
	"github.com/user/tubevibes/internal/store"
)

// ErrNotFound is returned by Replace and Delete for a missing id
var ErrNotFound = errors.New("video not found")

// Media mints and releases URLs for uploaded sources
type Media interface {
	CreateObjectURL(src model.MediaSource) (string, error)
	Revoke(url string) bool
}

// Publisher receives catalog events. Delivery is best-effort.
type Publisher interface {
	Publish(ctx context.Context, event model.VideoEvent)
}

// Delays models network latency of each operation
type Delays struct {
	List   time.Duration
	Get    time.Duration
	Create time.Duration
}

// DefaultDelays mirrors the latency of the hosted demo
var DefaultDelays = Delays{
	List:   500 * time.Millisecond,
	Get:    300 * time.Millisecond,
	Create: 1500 * time.Millisecond,
}

// Option configures a Service
type Option func(*Service)

// WithDelays overrides the artificial latency
func WithDelays(d Delays) Option {
	return func(s *Service) { s.delays = d }
}

// WithClock overrides the wall clock used for upload dates
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides record id generation
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// WithPublisher attaches an event publisher
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.events = p }
}

// Service owns the catalog store and enforces creation defaults
type Service struct {
	store  store.Store
	media  Media
	events Publisher
	delays Delays
	now    func() time.Time
	newID  func() string
}

// NewService creates a catalog service over st
func NewService(st store.Store, media Media, opts ...Option) *Service {
	s := &Service{
		store:  st,
		media:  media,
		delays: DefaultDelays,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every video in store order
func (s *Service) List(ctx context.Context) ([]*model.Video, error) {
	if err := wait(ctx, s.delays.List); err != nil {
		return nil, err
	}
	videos, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return videos, nil
}

// GetByID returns the video with the given id, or nil when there is none
func (s *Service) GetByID(ctx context.Context, id string) (*model.Video, error) {
	if err := wait(ctx, s.delays.Get); err != nil {
		return nil, err
	}
	video, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return video, nil
}

// Create builds a new record from an upload and inserts it into the store.
// Input validation (non-empty title, media types) is the caller's job.
func (s *Service) Create(ctx context.Context, in model.UploadInput) (*model.Video, error) {
	if err := wait(ctx, s.delays.Create); err != nil {
		return nil, err
	}

	videoURL, err := s.media.CreateObjectURL(in.Video)
	if err != nil {
		return nil, fmt.Errorf("failed to store video: %w", err)
	}

	thumbnailURL := model.DefaultThumbnailURL
	if in.Thumbnail != nil {
		thumbnailURL, err = s.media.CreateObjectURL(*in.Thumbnail)
		if err != nil {
			s.media.Revoke(videoURL)
			return nil, fmt.Errorf("failed to store thumbnail: %w", err)
		}
	}

	video := &model.Video{
		ID:           s.newID(),
		Title:        in.Title,
		Description:  in.Description,
		ThumbnailURL: thumbnailURL,
		VideoURL:     videoURL,
		UploadDate:   s.now().UTC().Format(model.UploadDateLayout),
		Views:        0,
		Duration:     model.PlaceholderDuration,
	}

	if err := s.store.Insert(ctx, video); err != nil {
		s.media.Revoke(videoURL)
		s.media.Revoke(thumbnailURL)
		return nil, fmt.Errorf("failed to create video: %w", err)
	}

	log.Info().
		Str("id", video.ID).
		Str("title", video.Title).
		Msg("Video uploaded")

	s.publish(ctx, model.EventUploaded, video)
	return video, nil
}

// Replace overwrites a record. The stored id and upload date are kept.
func (s *Service) Replace(ctx context.Context, video *model.Video) (*model.Video, error) {
	current, err := s.store.Get(ctx, video.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	if current == nil {
		return nil, fmt.Errorf("failed to replace video %q: %w", video.ID, ErrNotFound)
	}

	next := video.Clone()
	next.UploadDate = current.UploadDate
	next.Seq = current.Seq
	if err := s.store.Replace(ctx, next); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("failed to replace video %q: %w", video.ID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to replace video: %w", err)
	}

	log.Info().Str("id", next.ID).Msg("Video updated")
	s.publish(ctx, model.EventUpdated, next)
	return next, nil
}

// Delete removes a record from the catalog and returns it
func (s *Service) Delete(ctx context.Context, id string) (*model.Video, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	if current == nil {
		return nil, fmt.Errorf("failed to delete video %q: %w", id, ErrNotFound)
	}

	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete video: %w", err)
	}
	if !deleted {
		return nil, fmt.Errorf("failed to delete video %q: %w", id, ErrNotFound)
	}

	log.Info().Str("id", id).Msg("Video deleted")
	s.publish(ctx, model.EventDeleted, current)
	return current, nil
}

// Count returns the number of catalog records without delay
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}

func (s *Service) publish(ctx context.Context, t model.EventType, video *model.Video) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, model.VideoEvent{
		Type:       t,
		Video:      *video,
		OccurredAt: s.now(),
	})
}

// wait blocks for d or until ctx is done
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
