package catalog

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/user/tubevibes/internal/media"
	"github.com/user/tubevibes/internal/model"
	"github.com/user/tubevibes/internal/store"
)

// MockPublisher records published events
type MockPublisher struct {
	mu     sync.Mutex
	events []model.VideoEvent
}

func (m *MockPublisher) Publish(ctx context.Context, event model.VideoEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *MockPublisher) Events() []model.VideoEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.VideoEvent(nil), m.events...)
}

// failingStore fails every Insert
type failingStore struct {
	store.Store
}

func (f failingStore) Insert(ctx context.Context, v *model.Video) error {
	return errors.New("disk full")
}

var fixedNow = time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, opts ...Option) (*Service, *media.Registry) {
	t.Helper()
	st, err := store.NewMemoryStore(store.SeedVideos())
	if err != nil {
		t.Fatalf("NewMemoryStore() error = %v", err)
	}
	reg := media.NewRegistry("/media", 0)
	opts = append([]Option{WithDelays(Delays{}), WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewService(st, reg, opts...), reg
}

func sampleUpload() model.UploadInput {
	return model.UploadInput{
		Title:       "My first video",
		Description: "hello",
		Video: model.MediaSource{
			Name:        "clip.mp4",
			ContentType: "video/mp4",
			Data:        []byte("fake-mp4"),
		},
	}
}

func TestService_ListIncludesSeed(t *testing.T) {
	svc, _ := newTestService(t)
	videos, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(videos) != 6 {
		t.Fatalf("len(List()) = %d, want 6", len(videos))
	}
	for i, v := range videos {
		if want := string(rune('1' + i)); v.ID != want {
			t.Errorf("videos[%d].ID = %q, want %q", i, v.ID, want)
		}
	}
}

func TestService_GetByIDMissing(t *testing.T) {
	svc, _ := newTestService(t)
	for _, id := range []string{"", "7", "not-an-id", "  1", "1 ", "../1"} {
		v, err := svc.GetByID(context.Background(), id)
		if err != nil {
			t.Errorf("GetByID(%q) error = %v", id, err)
		}
		if v != nil {
			t.Errorf("GetByID(%q) = %+v, want nil", id, v)
		}
	}
}

func TestService_CreateDefaults(t *testing.T) {
	svc, reg := newTestService(t)
	created, err := svc.Create(context.Background(), sampleUpload())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if created.ID == "" {
		t.Error("Create() returned empty id")
	}
	if created.Views != 0 {
		t.Errorf("Views = %d, want 0", created.Views)
	}
	if created.Duration != model.PlaceholderDuration {
		t.Errorf("Duration = %q, want %q", created.Duration, model.PlaceholderDuration)
	}
	if created.UploadDate != "2024-03-15" {
		t.Errorf("UploadDate = %q, want 2024-03-15", created.UploadDate)
	}
	if created.ThumbnailURL != model.DefaultThumbnailURL {
		t.Errorf("ThumbnailURL = %q, want fallback", created.ThumbnailURL)
	}
	if _, ok := reg.Token(created.VideoURL); !ok {
		t.Errorf("VideoURL %q is not a registry URL", created.VideoURL)
	}
	if reg.Len() != 1 {
		t.Errorf("registry holds %d objects, want 1", reg.Len())
	}
}

func TestService_CreateWithThumbnail(t *testing.T) {
	svc, reg := newTestService(t)
	in := sampleUpload()
	in.Thumbnail = &model.MediaSource{Name: "thumb.png", ContentType: "image/png", Data: []byte("png")}

	created, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ThumbnailURL == model.DefaultThumbnailURL {
		t.Error("ThumbnailURL fell back despite provided thumbnail")
	}
	if _, ok := reg.Token(created.ThumbnailURL); !ok {
		t.Errorf("ThumbnailURL %q is not a registry URL", created.ThumbnailURL)
	}
}

func TestService_CreateUsesRemoteURL(t *testing.T) {
	svc, reg := newTestService(t)
	in := sampleUpload()
	in.Video = model.MediaSource{URL: "https://cdn.example.com/a.mp4"}

	created, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.VideoURL != "https://cdn.example.com/a.mp4" {
		t.Errorf("VideoURL = %q", created.VideoURL)
	}
	if reg.Len() != 0 {
		t.Errorf("registry holds %d objects, want 0", reg.Len())
	}
}

func TestService_CreateInsertsIntoStore(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleUpload())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	videos, _ := svc.List(ctx)
	if len(videos) != 7 {
		t.Fatalf("len(List()) = %d, want 7", len(videos))
	}
	if videos[6].ID != created.ID {
		t.Errorf("last video = %q, want %q", videos[6].ID, created.ID)
	}

	got, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !reflect.DeepEqual(got, created) {
		t.Errorf("GetByID() = %+v, want %+v", got, created)
	}
}

func TestService_CreateRevokesOnInsertFailure(t *testing.T) {
	st, _ := store.NewMemoryStore(nil)
	reg := media.NewRegistry("/media", 0)
	svc := NewService(failingStore{st}, reg, WithDelays(Delays{}))

	in := sampleUpload()
	in.Thumbnail = &model.MediaSource{Name: "t.png", ContentType: "image/png", Data: []byte("x")}
	if _, err := svc.Create(context.Background(), in); err == nil {
		t.Fatal("Create() error = nil, want failure")
	}
	if reg.Len() != 0 {
		t.Errorf("registry holds %d objects after failed create, want 0", reg.Len())
	}
}

func TestService_CreateTooLarge(t *testing.T) {
	st, _ := store.NewMemoryStore(nil)
	reg := media.NewRegistry("/media", 4)
	svc := NewService(st, reg, WithDelays(Delays{}))

	_, err := svc.Create(context.Background(), sampleUpload())
	if !errors.Is(err, media.ErrTooLarge) {
		t.Fatalf("Create() error = %v, want ErrTooLarge", err)
	}
	if n, _ := st.Count(context.Background()); n != 0 {
		t.Errorf("store count = %d, want 0", n)
	}
}

func TestService_CreatePublishesEvent(t *testing.T) {
	pub := &MockPublisher{}
	svc, _ := newTestService(t, WithPublisher(pub))

	created, err := svc.Create(context.Background(), sampleUpload())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	events := pub.Events()
	if len(events) != 1 {
		t.Fatalf("published %d events, want 1", len(events))
	}
	if events[0].Type != model.EventUploaded || events[0].Video.ID != created.ID {
		t.Errorf("event = %+v", events[0])
	}
}

func TestService_Replace(t *testing.T) {
	pub := &MockPublisher{}
	svc, _ := newTestService(t, WithPublisher(pub))
	ctx := context.Background()

	orig, _ := svc.GetByID(ctx, "2")
	next := orig.Clone()
	next.Title = "Renamed"
	next.Views = 42
	next.UploadDate = "1999-01-01"

	got, err := svc.Replace(ctx, next)
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if got.Title != "Renamed" || got.Views != 42 {
		t.Errorf("Replace() = %+v", got)
	}
	if got.UploadDate != orig.UploadDate {
		t.Errorf("UploadDate = %q, want preserved %q", got.UploadDate, orig.UploadDate)
	}

	stored, _ := svc.GetByID(ctx, "2")
	if !reflect.DeepEqual(stored, got) {
		t.Errorf("stored = %+v, want %+v", stored, got)
	}
	if events := pub.Events(); len(events) != 1 || events[0].Type != model.EventUpdated {
		t.Errorf("events = %+v", events)
	}
}

func TestService_ReplaceMissing(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Replace(context.Background(), &model.Video{ID: "nope", Title: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Replace() error = %v, want ErrNotFound", err)
	}
}

func TestService_Delete(t *testing.T) {
	pub := &MockPublisher{}
	svc, _ := newTestService(t, WithPublisher(pub))
	ctx := context.Background()

	deleted, err := svc.Delete(ctx, "3")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if deleted.ID != "3" {
		t.Errorf("Delete() returned %q, want 3", deleted.ID)
	}
	if v, _ := svc.GetByID(ctx, "3"); v != nil {
		t.Errorf("GetByID after delete = %+v, want nil", v)
	}
	if _, err := svc.Delete(ctx, "3"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
	events := pub.Events()
	if len(events) != 1 || events[0].Type != model.EventDeleted || events[0].Video.ID != "3" {
		t.Errorf("events = %+v", events)
	}
}

func TestService_DelayHonoursContext(t *testing.T) {
	st, _ := store.NewMemoryStore(store.SeedVideos())
	svc := NewService(st, media.NewRegistry("/media", 0), WithDelays(Delays{List: time.Hour}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.List(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("List() error = %v, want context.Canceled", err)
	}
}

func TestService_DelayApplied(t *testing.T) {
	st, _ := store.NewMemoryStore(store.SeedVideos())
	svc := NewService(st, media.NewRegistry("/media", 0), WithDelays(Delays{Get: 20 * time.Millisecond}))

	start := time.Now()
	if _, err := svc.GetByID(context.Background(), "1"); err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("GetByID() returned after %v, want >= 20ms", elapsed)
	}
}
