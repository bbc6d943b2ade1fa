package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"inkwell_backend/internal/models"
	"inkwell_backend/internal/repositories"
)

// ---------------------------------------------------------------------------
// Tokens
// ---------------------------------------------------------------------------

type tokenRepo struct{ s *Store }

func (r tokenRepo) table(purpose models.TokenPurpose) (map[string]models.SingleUseToken, error) {
	if !purpose.Valid() {
		return nil, repositories.ErrUnknownPurpose
	}
	return r.s.st.tokens[purpose], nil
}

func (r tokenRepo) Create(_ context.Context, purpose models.TokenPurpose, token *models.SingleUseToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, err := r.table(purpose)
	if err != nil {
		return err
	}
	token.ID = r.s.nextID()
	t[token.Value] = *token
	return nil
}

func (r tokenRepo) FindByValue(_ context.Context, purpose models.TokenPurpose, value string) (*models.SingleUseToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, err := r.table(purpose)
	if err != nil {
		return nil, err
	}
	tok, ok := t[value]
	if !ok {
		return nil, repositories.ErrTokenNotFound
	}
	return &tok, nil
}

func (r tokenRepo) Consume(_ context.Context, purpose models.TokenPurpose, value string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, err := r.table(purpose)
	if err != nil {
		return err
	}
	tok, ok := t[value]
	if !ok {
		return repositories.ErrTokenNotFound
	}
	if tok.ConsumedAt != nil {
		return repositories.ErrTokenConsumed
	}
	tok.ConsumedAt = &at
	t[value] = tok
	return nil
}

func (r tokenRepo) InvalidateForUser(_ context.Context, purpose models.TokenPurpose, userID uint, at time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, err := r.table(purpose)
	if err != nil {
		return 0, err
	}
	var n int64
	for v, tok := range t {
		if tok.UserID == userID && tok.ConsumedAt == nil {
			consumedAt := at
			tok.ConsumedAt = &consumedAt
			t[v] = tok
			n++
		}
	}
	return n, nil
}

func (r tokenRepo) DeleteStale(_ context.Context, purpose models.TokenPurpose, createdBefore time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, err := r.table(purpose)
	if err != nil {
		return 0, err
	}
	var n int64
	for v, tok := range t {
		if tok.CreatedAt.Before(createdBefore) {
			delete(t, v)
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Blogs
// ---------------------------------------------------------------------------

type blogRepo struct{ s *Store }

// hydrateLocked fills Author and Categories the way Preload does.
func (s *Store) hydrateLocked(b models.Blog) models.Blog {
	if u, ok := s.st.users[b.AuthorID]; ok {
		b.Author = &u
	}
	b.Categories = nil
	for _, cid := range s.st.blogCategories[b.ID] {
		if c, ok := s.st.categories[cid]; ok {
			b.Categories = append(b.Categories, c)
		}
	}
	return b
}

func (s *Store) deleteBlogLocked(id uint) {
	delete(s.st.blogs, id)
	delete(s.st.blogCategories, id)
	for cid, c := range s.st.comments {
		if c.BlogID == id {
			delete(s.st.comments, cid)
		}
	}
	for nid, n := range s.st.notifications {
		if n.BlogID == id {
			delete(s.st.notifications, nid)
		}
	}
	for sid, sv := range s.st.saved {
		if sv.BlogID == id {
			delete(s.st.saved, sid)
		}
	}
}

func (r blogRepo) Create(_ context.Context, blog *models.Blog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	blog.ID = r.s.nextID()
	blog.CreatedAt, blog.UpdatedAt = now, now
	ids := make([]uint, 0, len(blog.Categories))
	for _, c := range blog.Categories {
		ids = append(ids, c.ID)
	}
	r.s.st.blogCategories[blog.ID] = ids
	stored := *blog
	stored.Author, stored.Categories = nil, nil
	r.s.st.blogs[blog.ID] = stored
	return nil
}

func (r blogRepo) FindByID(_ context.Context, id uint) (*models.Blog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.st.blogs[id]
	if !ok {
		return nil, repositories.ErrBlogNotFound
	}
	b = r.s.hydrateLocked(b)
	return &b, nil
}

func (r blogRepo) FindDraft(_ context.Context, id uint) (*models.Blog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.st.blogs[id]
	if !ok || b.Published {
		return nil, repositories.ErrBlogNotFound
	}
	return &b, nil
}

func (r blogRepo) Update(_ context.Context, blog *models.Blog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.st.blogs[blog.ID]
	if !ok {
		return repositories.ErrBlogNotFound
	}
	b.Title, b.Content = blog.Title, blog.Content
	b.UpdatedAt = r.s.now()
	r.s.st.blogs[blog.ID] = b
	return nil
}

func (r blogRepo) ReplaceCategories(_ context.Context, blog *models.Blog, categories []models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.blogs[blog.ID]; !ok {
		return repositories.ErrBlogNotFound
	}
	ids := make([]uint, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	r.s.st.blogCategories[blog.ID] = ids
	return nil
}

func (r blogRepo) SetPublished(_ context.Context, id uint, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.st.blogs[id]
	if !ok || b.Published {
		return repositories.ErrBlogNotFound
	}
	b.Published = true
	b.PublishedAt = &at
	r.s.st.blogs[id] = b
	return nil
}

func (r blogRepo) SetCover(_ context.Context, id uint, url string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.st.blogs[id]
	if !ok {
		return repositories.ErrBlogNotFound
	}
	b.CoverURL = url
	r.s.st.blogs[id] = b
	return nil
}

func (r blogRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.blogs[id]; !ok {
		return repositories.ErrBlogNotFound
	}
	r.s.deleteBlogLocked(id)
	return nil
}

func (r blogRepo) ListPublished(_ context.Context, f repositories.BlogFilter) ([]models.Blog, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	followed := map[uint]bool{}
	if f.FollowedBy != 0 {
		for _, fl := range r.s.st.follows {
			if fl.FollowerID == f.FollowedBy {
				followed[fl.FollowedID] = true
			}
		}
	}

	var out []models.Blog
	for _, b := range r.s.st.blogs {
		if !b.Published {
			continue
		}
		if f.AuthorID != 0 && b.AuthorID != f.AuthorID {
			continue
		}
		if f.FollowedBy != 0 && !followed[b.AuthorID] {
			continue
		}
		if f.CategoryID != 0 && !containsID(r.s.st.blogCategories[b.ID], f.CategoryID) {
			continue
		}
		out = append(out, r.s.hydrateLocked(b))
	}
	sortNewestPublished(out)
	return paginate(out, f.Limit, f.Offset), int64(len(out)), nil
}

func (r blogRepo) ListDrafts(_ context.Context, authorID uint) ([]models.Blog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Blog
	for _, b := range r.s.st.blogs {
		if !b.Published && b.AuthorID == authorID {
			out = append(out, r.s.hydrateLocked(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r blogRepo) Search(_ context.Context, query string, limit, offset int) ([]models.Blog, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q := strings.ToLower(query)
	var out []models.Blog
	for _, b := range r.s.st.blogs {
		if !b.Published {
			continue
		}
		if strings.Contains(strings.ToLower(b.Title), q) || strings.Contains(strings.ToLower(b.Content), q) {
			out = append(out, r.s.hydrateLocked(b))
		}
	}
	sortNewestPublished(out)
	return paginate(out, limit, offset), int64(len(out)), nil
}

func sortNewestPublished(blogs []models.Blog) {
	sort.Slice(blogs, func(i, j int) bool {
		pi, pj := blogs[i].PublishedAt, blogs[j].PublishedAt
		if pi != nil && pj != nil && !pi.Equal(*pj) {
			return pi.After(*pj)
		}
		return blogs[i].ID > blogs[j].ID
	})
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Categories
// ---------------------------------------------------------------------------

type categoryRepo struct{ s *Store }

func (r categoryRepo) List(_ context.Context) ([]models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Category, 0, len(r.s.st.categories))
	for _, c := range r.s.st.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r categoryRepo) Create(_ context.Context, category *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.st.categories {
		if c.Slug == category.Slug {
			return repositories.ErrCategoryExists
		}
	}
	category.ID = r.s.nextID()
	category.CreatedAt = r.s.now()
	r.s.st.categories[category.ID] = *category
	return nil
}

func (r categoryRepo) FindByIDs(_ context.Context, ids []uint) ([]models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if len(ids) == 0 {
		return nil, nil
	}
	seen := map[uint]bool{}
	var out []models.Category
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		c, ok := r.s.st.categories[id]
		if !ok {
			return nil, repositories.ErrCategoryNotFound
		}
		out = append(out, c)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Comments
// ---------------------------------------------------------------------------

type commentRepo struct{ s *Store }

func (r commentRepo) Create(_ context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	comment.ID = r.s.nextID()
	comment.CreatedAt, comment.UpdatedAt = now, now
	stored := *comment
	stored.Author, stored.Blog = nil, nil
	r.s.st.comments[comment.ID] = stored
	return nil
}

func (r commentRepo) FindByID(_ context.Context, id uint) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.st.comments[id]
	if !ok {
		return nil, repositories.ErrCommentNotFound
	}
	return &c, nil
}

func (r commentRepo) ListByBlog(_ context.Context, blogID uint, limit, offset int) ([]models.Comment, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Comment
	for _, c := range r.s.st.comments {
		if c.BlogID == blogID {
			if u, ok := r.s.st.users[c.AuthorID]; ok {
				c.Author = &u
			}
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), int64(len(out)), nil
}

func (r commentRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.comments[id]; !ok {
		return repositories.ErrCommentNotFound
	}
	delete(r.s.st.comments, id)
	return nil
}
