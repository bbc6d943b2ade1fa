package memstore

import (
	"context"
	"sort"

	"inkwell_backend/internal/models"
	"inkwell_backend/internal/repositories"
)

// ---------------------------------------------------------------------------
// Follows
// ---------------------------------------------------------------------------

type followRepo struct{ s *Store }

func (r followRepo) Create(_ context.Context, follow *models.Follow) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, f := range r.s.st.follows {
		if f.FollowerID == follow.FollowerID && f.FollowedID == follow.FollowedID {
			return repositories.ErrFollowExists
		}
	}
	follow.ID = r.s.nextID()
	follow.CreatedAt = r.s.now()
	r.s.st.follows[follow.ID] = *follow
	return nil
}

func (r followRepo) Delete(_ context.Context, followerID, followedID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, f := range r.s.st.follows {
		if f.FollowerID == followerID && f.FollowedID == followedID {
			delete(r.s.st.follows, id)
			return nil
		}
	}
	return repositories.ErrFollowNotFound
}

func (r followRepo) Exists(_ context.Context, followerID, followedID uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, f := range r.s.st.follows {
		if f.FollowerID == followerID && f.FollowedID == followedID {
			return true, nil
		}
	}
	return false, nil
}

func (r followRepo) ListFollowerIDs(_ context.Context, userID uint) ([]uint, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []uint
	for _, f := range r.s.st.follows {
		if f.FollowedID == userID {
			ids = append(ids, f.FollowerID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r followRepo) collect(match func(models.Follow) (uint, bool), limit, offset int) ([]models.User, int64) {
	var users []models.User
	for _, f := range r.s.st.follows {
		if id, ok := match(f); ok {
			if u, found := r.s.st.users[id]; found {
				users = append(users, u)
			}
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return paginate(users, limit, offset), int64(len(users))
}

func (r followRepo) ListFollowers(_ context.Context, userID uint, limit, offset int) ([]models.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	users, total := r.collect(func(f models.Follow) (uint, bool) {
		return f.FollowerID, f.FollowedID == userID
	}, limit, offset)
	return users, total, nil
}

func (r followRepo) ListFollowing(_ context.Context, userID uint, limit, offset int) ([]models.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	users, total := r.collect(func(f models.Follow) (uint, bool) {
		return f.FollowedID, f.FollowerID == userID
	}, limit, offset)
	return users, total, nil
}

func (r followRepo) Counts(_ context.Context, userID uint) (int64, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var followers, following int64
	for _, f := range r.s.st.follows {
		if f.FollowedID == userID {
			followers++
		}
		if f.FollowerID == userID {
			following++
		}
	}
	return followers, following, nil
}

// ---------------------------------------------------------------------------
// Notifications
// ---------------------------------------------------------------------------

type notificationRepo struct{ s *Store }

func (r notificationRepo) Create(_ context.Context, n *models.Notification) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err, ok := r.s.notificationFailures[n.UserID]; ok {
		return false, err
	}
	for _, existing := range r.s.st.notifications {
		if existing.BlogID == n.BlogID && existing.UserID == n.UserID {
			return false, nil
		}
	}
	n.ID = r.s.nextID()
	n.CreatedAt = r.s.now()
	stored := *n
	stored.Blog, stored.User = nil, nil
	r.s.st.notifications[n.ID] = stored
	return true, nil
}

func (r notificationRepo) ListByUser(_ context.Context, userID uint, onlyUnseen bool, limit, offset int) ([]models.Notification, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Notification
	for _, n := range r.s.st.notifications {
		if n.UserID == userID && (!onlyUnseen || !n.Seen) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return paginate(out, limit, offset), int64(len(out)), nil
}

func (r notificationRepo) CountUnseen(_ context.Context, userID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, notif := range r.s.st.notifications {
		if notif.UserID == userID && !notif.Seen {
			n++
		}
	}
	return n, nil
}

func (r notificationRepo) MarkSeen(_ context.Context, userID, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.st.notifications[id]
	if !ok || n.UserID != userID {
		return repositories.ErrNotificationNotFound
	}
	n.Seen = true
	r.s.st.notifications[id] = n
	return nil
}

func (r notificationRepo) MarkAllSeen(_ context.Context, userID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for id, n := range r.s.st.notifications {
		if n.UserID == userID && !n.Seen {
			n.Seen = true
			r.s.st.notifications[id] = n
			count++
		}
	}
	return count, nil
}

func (r notificationRepo) CountForBlog(_ context.Context, blogID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, n := range r.s.st.notifications {
		if n.BlogID == blogID {
			count++
		}
	}
	return count, nil
}

// ---------------------------------------------------------------------------
// Saved blogs
// ---------------------------------------------------------------------------

type savedRepo struct{ s *Store }

func (r savedRepo) Create(_ context.Context, saved *models.SavedBlog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sv := range r.s.st.saved {
		if sv.UserID == saved.UserID && sv.BlogID == saved.BlogID {
			return repositories.ErrSavedExists
		}
	}
	saved.ID = r.s.nextID()
	saved.CreatedAt = r.s.now()
	stored := *saved
	stored.Blog, stored.User = nil, nil
	r.s.st.saved[saved.ID] = stored
	return nil
}

func (r savedRepo) Delete(_ context.Context, userID, blogID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, sv := range r.s.st.saved {
		if sv.UserID == userID && sv.BlogID == blogID {
			delete(r.s.st.saved, id)
			return nil
		}
	}
	return repositories.ErrSavedNotFound
}

func (r savedRepo) ListByUser(_ context.Context, userID uint, limit, offset int) ([]models.SavedBlog, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.SavedBlog
	for _, sv := range r.s.st.saved {
		if sv.UserID != userID {
			continue
		}
		if b, ok := r.s.st.blogs[sv.BlogID]; ok {
			hydrated := r.s.hydrateLocked(b)
			sv.Blog = &hydrated
		}
		out = append(out, sv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return paginate(out, limit, offset), int64(len(out)), nil
}
