package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/user/tubevibes/internal/model"
)

// MemoryStore keeps the catalog in process memory. State is lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	videos []*model.Video
	index  map[string]int
	seq    int64
}

// NewMemoryStore creates a store preloaded with seed, in the given order
func NewMemoryStore(seed []model.Video) (*MemoryStore, error) {
	s := &MemoryStore{
		videos: make([]*model.Video, 0, len(seed)),
		index:  make(map[string]int, len(seed)),
	}
	for i := range seed {
		if err := s.Insert(context.Background(), &seed[i]); err != nil {
			return nil, fmt.Errorf("failed to seed video %q: %w", seed[i].ID, err)
		}
	}
	return s, nil
}

// List returns copies of all videos in insertion order
func (s *MemoryStore) List(ctx context.Context) ([]*model.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Video, len(s.videos))
	for i, v := range s.videos {
		out[i] = v.Clone()
	}
	return out, nil
}

// Get returns a copy of the video with the given id
func (s *MemoryStore) Get(ctx context.Context, id string) (*model.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return nil, nil
	}
	return s.videos[i].Clone(), nil
}

// Insert appends a copy of video and records its sequence number on video
func (s *MemoryStore) Insert(ctx context.Context, video *model.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[video.ID]; exists {
		return fmt.Errorf("failed to insert video %q: %w", video.ID, ErrDuplicateID)
	}
	c := video.Clone()
	s.seq++
	c.Seq = s.seq
	video.Seq = c.Seq
	s.index[c.ID] = len(s.videos)
	s.videos = append(s.videos, c)
	return nil
}

// Replace overwrites the stored video in place
func (s *MemoryStore) Replace(ctx context.Context, video *model.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[video.ID]
	if !ok {
		return fmt.Errorf("failed to replace video %q: %w", video.ID, ErrNotFound)
	}
	c := video.Clone()
	c.Seq = s.videos[i].Seq
	s.videos[i] = c
	return nil
}

// Delete removes the video and reindexes the records after it
func (s *MemoryStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false, nil
	}
	s.videos = append(s.videos[:i], s.videos[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.videos); j++ {
		s.index[s.videos[j].ID] = j
	}
	return true, nil
}

// Count returns the number of stored videos
func (s *MemoryStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.videos)), nil
}

// Ping always succeeds for the in-memory store
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}
