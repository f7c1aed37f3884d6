package store

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/user/tubevibes/internal/model"
)

// Property: List preserves insertion order
// For any sequence of inserts after the seed, List returns the seed followed by the inserts in order.
func TestProperty_InsertionOrder(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("list returns seed then inserts in order", prop.ForAll(
		func(n int) bool {
			s, err := NewMemoryStore(SeedVideos())
			if err != nil {
				return false
			}
			ctx := context.Background()

			want := []string{"1", "2", "3", "4", "5", "6"}
			for i := 0; i < n; i++ {
				id := fmt.Sprintf("new-%d", i)
				if err := s.Insert(ctx, &model.Video{ID: id, Title: id}); err != nil {
					return false
				}
				want = append(want, id)
			}

			videos, err := s.List(ctx)
			if err != nil {
				return false
			}
			return reflect.DeepEqual(ids(videos), want)
		},
		gen.IntRange(0, 30),
	))

	properties.Property("delete then list keeps relative order", prop.ForAll(
		func(victim int) bool {
			s, _ := NewMemoryStore(SeedVideos())
			ctx := context.Background()
			id := fmt.Sprintf("%d", victim)
			if ok, _ := s.Delete(ctx, id); !ok {
				return false
			}

			var want []string
			for _, v := range SeedVideos() {
				if v.ID != id {
					want = append(want, v.ID)
				}
			}
			videos, _ := s.List(ctx)
			return reflect.DeepEqual(ids(videos), want)
		},
		gen.IntRange(1, 6),
	))

	properties.TestingRun(t)
}
