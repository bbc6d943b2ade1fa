package services

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"inkwell_backend/internal/logger"
	"inkwell_backend/internal/metrics"
	"inkwell_backend/internal/models"
	"inkwell_backend/internal/repositories"
)

// DefaultFanoutConcurrency bounds concurrent notification writes per publish.
const DefaultFanoutConcurrency = 8

// NotificationPusher delivers a stored notification to a user's live connections.
type NotificationPusher interface {
	PushNotification(userID uint, n *models.Notification)
}

type noopPusher struct{}

func (noopPusher) PushNotification(uint, *models.Notification) {}

// FanoutResult summarises one fan-out run.
type FanoutResult struct {
	Followers int
	Created   int
	Failed    int
}

// NotificationFanout notifies every follower of an author about a newly published blog.
type NotificationFanout struct {
	store       repositories.Store
	pusher      NotificationPusher
	concurrency int
}

func NewNotificationFanout(store repositories.Store, pusher NotificationPusher, concurrency int) *NotificationFanout {
	if pusher == nil {
		pusher = noopPusher{}
	}
	if concurrency <= 0 {
		concurrency = DefaultFanoutConcurrency
	}
	return &NotificationFanout{store: store, pusher: pusher, concurrency: concurrency}
}

// Notify takes one snapshot of the author's followers and writes one notification each.
// It is best effort: failures are logged and counted, never returned.
func (f *NotificationFanout) Notify(ctx context.Context, blog *models.Blog) FanoutResult {
	start := time.Now()
	ctx = context.WithoutCancel(ctx)
	log := logger.FromContext(ctx).With("blog_id", blog.ID, "author_id", blog.AuthorID)

	followerIDs, err := f.store.Follows().ListFollowerIDs(ctx, blog.AuthorID)
	if err != nil {
		log.Error("Failed to load followers for fan-out", "error", err.Error())
		return FanoutResult{}
	}

	meta := datatypes.JSONMap{"title": blog.Title, "author_id": blog.AuthorID}
	if author, err := f.store.Users().FindByID(ctx, blog.AuthorID); err == nil {
		meta["author_name"] = author.DisplayName()
	}

	var created, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(f.concurrency)

	for _, followerID := range followerIDs {
		g.Go(func() error {
			n := &models.Notification{
				BlogID: blog.ID,
				UserID: followerID,
				Meta:   copyMeta(meta),
			}
			ok, err := f.store.Notifications().Create(ctx, n)
			if err != nil {
				failed.Add(1)
				log.Warn("Failed to store notification", "follower_id", followerID, "error", err.Error())
				return nil
			}
			if ok {
				created.Add(1)
				f.pusher.PushNotification(followerID, n)
			}
			return nil
		})
	}
	_ = g.Wait()

	result := FanoutResult{
		Followers: len(followerIDs),
		Created:   int(created.Load()),
		Failed:    int(failed.Load()),
	}
	metrics.RecordFanout(result.Created, result.Failed, time.Since(start))
	log.Info("Publish fan-out finished",
		"followers", result.Followers,
		"created", result.Created,
		"failed", result.Failed,
	)
	return result
}

func copyMeta(m datatypes.JSONMap) datatypes.JSONMap {
	out := make(datatypes.JSONMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
