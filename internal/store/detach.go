package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/user/tubevibes/internal/model"
)

// DetachMedia rewrites records whose media URLs fall under prefix, which a
// previous process minted and which no longer resolve. Thumbnails fall back
// to the default thumbnail and video URLs are cleared. It returns the number
// of records rewritten.
func DetachMedia(ctx context.Context, st Store, prefix string) (int, error) {
	videos, err := st.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list videos: %w", err)
	}

	local := strings.TrimRight(prefix, "/") + "/"
	detached := 0
	for _, v := range videos {
		changed := false
		if strings.HasPrefix(v.ThumbnailURL, local) {
			v.ThumbnailURL = model.DefaultThumbnailURL
			changed = true
		}
		if strings.HasPrefix(v.VideoURL, local) {
			v.VideoURL = ""
			changed = true
		}
		if !changed {
			continue
		}
		if err := st.Replace(ctx, v); err != nil {
			return detached, fmt.Errorf("failed to detach media of video %s: %w", v.ID, err)
		}
		detached++
	}

	if detached > 0 {
		log.Warn().Int("count", detached).Str("prefix", prefix).Msg("Detached media from a previous run")
	}
	return detached, nil
}
