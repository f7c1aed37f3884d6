package settings

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/user/tubevibes/internal/model"
)

// setupRedisStore creates a Redis store backed by miniredis
func setupRedisStore(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()

	mr := miniredis.NewMiniRedis()
	if err := mr.Start(); err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStoreFromClient(client, DefaultRedisKey)
	t.Cleanup(func() { _ = s.Close() })
	return mr, s
}

func forEachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryStore())
	})
	t.Run("redis", func(t *testing.T) {
		_, s := setupRedisStore(t)
		fn(t, s)
	})
}

func TestStore_GetSetDelete(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		if _, ok, err := s.Get(ctx, model.SettingSiteName); err != nil || ok {
			t.Fatalf("Get(unset) = ok %v, err %v", ok, err)
		}

		if err := s.Set(ctx, model.SettingSiteName, "My Tube"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		v, ok, err := s.Get(ctx, model.SettingSiteName)
		if err != nil || !ok || v != "My Tube" {
			t.Errorf("Get() = %q, %v, %v", v, ok, err)
		}

		if err := s.Delete(ctx, model.SettingSiteName); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, ok, _ := s.Get(ctx, model.SettingSiteName); ok {
			t.Error("setting still present after Delete")
		}

		// Deleting a missing key is not an error
		if err := s.Delete(ctx, model.SettingGTMID); err != nil {
			t.Errorf("Delete(missing) error = %v", err)
		}
	})
}

func TestStore_All(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		_ = s.Set(ctx, model.SettingSiteName, "A")
		_ = s.Set(ctx, model.SettingGTMID, "GTM-ABC")

		all, err := s.All(ctx)
		if err != nil {
			t.Fatalf("All() error = %v", err)
		}
		if len(all) != 2 || all[model.SettingSiteName] != "A" || all[model.SettingGTMID] != "GTM-ABC" {
			t.Errorf("All() = %v", all)
		}
	})
}

func TestRedisStore_SkipsUnknownFields(t *testing.T) {
	mr, s := setupRedisStore(t)
	mr.HSet(DefaultRedisKey, "adminAuthenticated", "true")
	mr.HSet(DefaultRedisKey, "siteName", "X")

	all, err := s.All(context.Background())
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 1 || all[model.SettingSiteName] != "X" {
		t.Errorf("All() = %v, want only siteName", all)
	}
}

func TestRedisStore_ConnectionError(t *testing.T) {
	mr, s := setupRedisStore(t)
	mr.Close()

	if _, _, err := s.Get(context.Background(), model.SettingSiteName); err == nil {
		t.Error("Get() error = nil after server shutdown")
	}
	if err := s.Ping(context.Background()); err == nil {
		t.Error("Ping() error = nil after server shutdown")
	}
}
