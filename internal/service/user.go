package service

import (
	"context"
	"log/slog"
	"time"

	"needsnet.app/api/internal/model"
	"needsnet.app/api/internal/store"
)

// syncUser records the caller's current display name so later reads can
// populate authors. A failure only degrades the author view.
func syncUser(ctx context.Context, users store.UserStore, user model.User, now time.Time) {
	if user.ID == "" {
		return
	}
	user.UpdatedAt = now
	if err := users.Upsert(ctx, user); err != nil {
		slog.WarnContext(ctx, "failed to sync user profile", "error", err, "user_id", user.ID)
	}
}
