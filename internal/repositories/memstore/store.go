// Package memstore is an in-memory repositories.Store used by service and HTTP tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"inkwell_backend/internal/clock"
	"inkwell_backend/internal/models"
	"inkwell_backend/internal/repositories"
)

type state struct {
	users          map[uint]models.User
	tokens         map[models.TokenPurpose]map[string]models.SingleUseToken
	blogs          map[uint]models.Blog
	blogCategories map[uint][]uint
	categories     map[uint]models.Category
	comments       map[uint]models.Comment
	follows        map[uint]models.Follow
	notifications  map[uint]models.Notification
	saved          map[uint]models.SavedBlog
	nextID         uint
}

func newState() *state {
	s := &state{
		users:          map[uint]models.User{},
		tokens:         map[models.TokenPurpose]map[string]models.SingleUseToken{},
		blogs:          map[uint]models.Blog{},
		blogCategories: map[uint][]uint{},
		categories:     map[uint]models.Category{},
		comments:       map[uint]models.Comment{},
		follows:        map[uint]models.Follow{},
		notifications:  map[uint]models.Notification{},
		saved:          map[uint]models.SavedBlog{},
	}
	for _, p := range models.TokenPurposes {
		s.tokens[p] = map[string]models.SingleUseToken{}
	}
	return s
}

func (s *state) clone() *state {
	c := &state{
		users:          copyMap(s.users),
		tokens:         map[models.TokenPurpose]map[string]models.SingleUseToken{},
		blogs:          copyMap(s.blogs),
		blogCategories: map[uint][]uint{},
		categories:     copyMap(s.categories),
		comments:       copyMap(s.comments),
		follows:        copyMap(s.follows),
		notifications:  copyMap(s.notifications),
		saved:          copyMap(s.saved),
		nextID:         s.nextID,
	}
	for p, m := range s.tokens {
		c.tokens[p] = copyMap(m)
	}
	for k, v := range s.blogCategories {
		c.blogCategories[k] = append([]uint(nil), v...)
	}
	return c
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Store keeps everything in maps guarded by one mutex.
// Transactions are serialised and roll back by restoring a snapshot.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	st   *state
	now  func() time.Time

	notificationFailures map[uint]error
}

var _ repositories.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		st:                   newState(),
		now:                  func() time.Time { return time.Now().UTC() },
		notificationFailures: map[uint]error{},
	}
}

// UseClock stamps CreatedAt fields with c instead of the wall clock.
func (s *Store) UseClock(c clock.Clock) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = c.Now
	return s
}

// FailNotificationsFor makes every notification insert for userID return err.
func (s *Store) FailNotificationsFor(userID uint, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notificationFailures[userID] = err
}

func (s *Store) nextID() uint {
	s.st.nextID++
	return s.st.nextID
}

func (s *Store) Users() repositories.UserRepository                 { return userRepo{s} }
func (s *Store) Tokens() repositories.TokenRepository               { return tokenRepo{s} }
func (s *Store) Blogs() repositories.BlogRepository                 { return blogRepo{s} }
func (s *Store) Categories() repositories.CategoryRepository        { return categoryRepo{s} }
func (s *Store) Comments() repositories.CommentRepository           { return commentRepo{s} }
func (s *Store) Follows() repositories.FollowRepository             { return followRepo{s} }
func (s *Store) Notifications() repositories.NotificationRepository { return notificationRepo{s} }
func (s *Store) Saved() repositories.SavedBlogRepository            { return savedRepo{s} }

func (s *Store) Transaction(ctx context.Context, fn func(tx repositories.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	if err := fn(txStore{s}); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// txStore is the Store handed to a transaction body. Nested transactions join the outer one.
type txStore struct {
	*Store
}

func (t txStore) Transaction(_ context.Context, fn func(tx repositories.Store) error) error {
	return fn(t)
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type userRepo struct{ s *Store }

func (r userRepo) FindByID(_ context.Context, id uint) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.st.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &u, nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.st.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r userRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.st.users {
		if u.Username != nil && *u.Username == username {
			return &u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r userRepo) usernameTaken(username *string, exceptID uint) bool {
	if username == nil {
		return false
	}
	for _, u := range r.s.st.users {
		if u.ID != exceptID && u.Username != nil && *u.Username == *username {
			return true
		}
	}
	return false
}

func (r userRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.st.users {
		if u.Email == user.Email {
			return repositories.ErrEmailTaken
		}
	}
	if r.usernameTaken(user.Username, 0) {
		return repositories.ErrUsernameTaken
	}
	now := r.s.now()
	user.ID = r.s.nextID()
	user.CreatedAt, user.UpdatedAt = now, now
	if user.Provider == "" {
		user.Provider = models.ProviderDefault
	}
	r.s.st.users[user.ID] = *user
	return nil
}

func (r userRepo) Update(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.st.users[user.ID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	if r.usernameTaken(user.Username, user.ID) {
		return repositories.ErrUsernameTaken
	}
	existing.Username = user.Username
	existing.FirstName = user.FirstName
	existing.LastName = user.LastName
	existing.Bio = user.Bio
	existing.AvatarURL = user.AvatarURL
	existing.UpdatedAt = r.s.now()
	r.s.st.users[user.ID] = existing
	return nil
}

func (r userRepo) SetVerified(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.st.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.IsVerified = true
	r.s.st.users[id] = u
	return nil
}

func (r userRepo) UpdatePassword(_ context.Context, id uint, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.st.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.PasswordHash = &hash
	r.s.st.users[id] = u
	return nil
}

// Delete emulates the ON DELETE CASCADE chain of the real schema.
func (r userRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st := r.s.st
	if _, ok := st.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(st.users, id)

	for _, tokens := range st.tokens {
		for v, t := range tokens {
			if t.UserID == id {
				delete(tokens, v)
			}
		}
	}
	for bid, b := range st.blogs {
		if b.AuthorID == id {
			r.s.deleteBlogLocked(bid)
		}
	}
	for cid, c := range st.comments {
		if c.AuthorID == id {
			delete(st.comments, cid)
		}
	}
	for fid, f := range st.follows {
		if f.FollowerID == id || f.FollowedID == id {
			delete(st.follows, fid)
		}
	}
	for nid, n := range st.notifications {
		if n.UserID == id {
			delete(st.notifications, nid)
		}
	}
	for sid, sv := range st.saved {
		if sv.UserID == id {
			delete(st.saved, sid)
		}
	}
	return nil
}

func (r userRepo) Search(_ context.Context, query string, limit, offset int) ([]models.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q := strings.ToLower(query)
	var out []models.User
	for _, u := range r.s.st.users {
		username := ""
		if u.Username != nil {
			username = *u.Username
		}
		if strings.Contains(strings.ToLower(username), q) ||
			strings.Contains(strings.ToLower(u.FirstName), q) ||
			strings.Contains(strings.ToLower(u.LastName), q) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), int64(len(out)), nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
