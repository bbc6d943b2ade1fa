package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"inkwell_backend/internal/clock"
	"inkwell_backend/internal/logger"
	"inkwell_backend/internal/models"
	"inkwell_backend/internal/repositories"
	"inkwell_backend/internal/services/dto"
	"inkwell_backend/internal/storage"
	"inkwell_backend/pkg/apperrors"
)

type BlogService interface {
	CreateDraft(ctx context.Context, authorID uint, req *dto.CreateBlogRequest) (*models.Blog, error)
	// UpdateDraft edits a blog owned by authorID. Published blogs stay published.
	UpdateDraft(ctx context.Context, blogID, authorID uint, req *dto.UpdateBlogRequest) (*models.Blog, error)
	Delete(ctx context.Context, blogID, requesterID uint) error
	// Get returns a published blog, or a draft when the viewer is its author.
	Get(ctx context.Context, blogID, viewerID uint) (*models.Blog, error)
	ListPublished(ctx context.Context, q *dto.BlogListQuery) (*models.Page[models.Blog], error)
	ListDrafts(ctx context.Context, authorID uint) ([]models.Blog, error)
	// Publish turns a draft into a published blog and notifies the author's followers.
	Publish(ctx context.Context, blogID, requesterID uint) (*dto.PublishResponse, error)
	Feed(ctx context.Context, userID uint, page, pageSize int) (*models.Page[models.Blog], error)
	UploadCover(ctx context.Context, blogID, authorID uint, file *dto.UploadFile) (*models.Blog, error)
}

// UploadPolicy limits cover uploads.
type UploadPolicy struct {
	MaxSize      int64
	AllowedTypes []string
}

type blogService struct {
	store   repositories.Store
	fanout  *NotificationFanout
	storage storage.Storage
	clock   clock.Clock
	uploads UploadPolicy
}

func NewBlogService(
	store repositories.Store,
	fanout *NotificationFanout,
	files storage.Storage,
	clk clock.Clock,
	uploads UploadPolicy,
) BlogService {
	return &blogService{
		store:   store,
		fanout:  fanout,
		storage: files,
		clock:   clk,
		uploads: uploads,
	}
}

func blogLookupError(err error) error {
	if errors.Is(err, repositories.ErrBlogNotFound) {
		return apperrors.ErrBlogNotFound
	}
	return dbError(err)
}

func (s *blogService) categories(ctx context.Context, ids []uint) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cats, err := s.store.Categories().FindByIDs(ctx, ids)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, dbError(err)
	}
	return cats, nil
}

// owned loads a blog and checks that requesterID wrote it.
func (s *blogService) owned(ctx context.Context, blogID, requesterID uint) (*models.Blog, error) {
	blog, err := s.store.Blogs().FindByID(ctx, blogID)
	if err != nil {
		return nil, blogLookupError(err)
	}
	if blog.AuthorID != requesterID {
		return nil, apperrors.ErrNotBlogAuthor
	}
	return blog, nil
}

func (s *blogService) CreateDraft(ctx context.Context, authorID uint, req *dto.CreateBlogRequest) (*models.Blog, error) {
	cats, err := s.categories(ctx, req.CategoryIDs)
	if err != nil {
		return nil, err
	}

	blog := &models.Blog{
		AuthorID:   authorID,
		Title:      strings.TrimSpace(req.Title),
		Content:    req.Content,
		Categories: cats,
	}
	if err := s.store.Blogs().Create(ctx, blog); err != nil {
		return nil, dbError(err)
	}

	logger.CtxInfo(ctx, "Draft created", "blog_id", blog.ID)
	return s.reload(ctx, blog.ID)
}

func (s *blogService) reload(ctx context.Context, blogID uint) (*models.Blog, error) {
	blog, err := s.store.Blogs().FindByID(ctx, blogID)
	if err != nil {
		return nil, blogLookupError(err)
	}
	return blog, nil
}

func (s *blogService) UpdateDraft(ctx context.Context, blogID, authorID uint, req *dto.UpdateBlogRequest) (*models.Blog, error) {
	blog, err := s.owned(ctx, blogID, authorID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		blog.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		blog.Content = *req.Content
	}
	// a published blog must stay publishable
	if blog.Published {
		if problems := blog.PublishProblems(); len(problems) > 0 {
			return nil, apperrors.ValidationError(problems)
		}
	}

	err = s.store.Transaction(ctx, func(tx repositories.Store) error {
		if err := tx.Blogs().Update(ctx, blog); err != nil {
			return blogLookupError(err)
		}
		if req.CategoryIDs == nil {
			return nil
		}
		cats, err := s.categories(ctx, *req.CategoryIDs)
		if err != nil {
			return err
		}
		if err := tx.Blogs().ReplaceCategories(ctx, blog, cats); err != nil {
			return blogLookupError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, blog.ID)
}

func (s *blogService) Delete(ctx context.Context, blogID, requesterID uint) error {
	blog, err := s.owned(ctx, blogID, requesterID)
	if err != nil {
		return err
	}
	if err := s.store.Blogs().Delete(ctx, blog.ID); err != nil {
		return blogLookupError(err)
	}
	logger.CtxInfo(ctx, "Blog deleted", "blog_id", blog.ID)
	return nil
}

func (s *blogService) Get(ctx context.Context, blogID, viewerID uint) (*models.Blog, error) {
	blog, err := s.store.Blogs().FindByID(ctx, blogID)
	if err != nil {
		return nil, blogLookupError(err)
	}
	if blog.IsDraft() && blog.AuthorID != viewerID {
		return nil, apperrors.ErrBlogNotFound
	}
	if blog.Author != nil && blog.AuthorID != viewerID {
		blog.Author.Email = ""
	}
	return blog, nil
}

func (s *blogService) ListPublished(ctx context.Context, q *dto.BlogListQuery) (*models.Page[models.Blog], error) {
	page, pageSize := normalizePage(q.Page, q.PageSize)
	blogs, total, err := s.store.Blogs().ListPublished(ctx, repositories.BlogFilter{
		CategoryID: q.CategoryID,
		AuthorID:   q.AuthorID,
		Limit:      pageSize,
		Offset:     models.Offset(page, pageSize),
	})
	if err != nil {
		return nil, dbError(err)
	}
	return newPage(publicBlogs(blogs), total, page, pageSize), nil
}

func (s *blogService) ListDrafts(ctx context.Context, authorID uint) ([]models.Blog, error) {
	blogs, err := s.store.Blogs().ListDrafts(ctx, authorID)
	if err != nil {
		return nil, dbError(err)
	}
	if blogs == nil {
		blogs = []models.Blog{}
	}
	return blogs, nil
}

func (s *blogService) Publish(ctx context.Context, blogID, requesterID uint) (*dto.PublishResponse, error) {
	blog, err := s.store.Blogs().FindDraft(ctx, blogID)
	if err != nil {
		if errors.Is(err, repositories.ErrBlogNotFound) {
			return nil, apperrors.ErrDraftNotFound
		}
		return nil, dbError(err)
	}
	if blog.AuthorID != requesterID {
		return nil, apperrors.ErrNotBlogAuthor
	}
	if problems := blog.PublishProblems(); len(problems) > 0 {
		return nil, apperrors.ValidationError(problems)
	}

	now := s.clock.Now()
	if err := s.store.Blogs().SetPublished(ctx, blog.ID, now); err != nil {
		// lost a race with another publish of the same draft
		if errors.Is(err, repositories.ErrBlogNotFound) {
			return nil, apperrors.ErrDraftNotFound
		}
		return nil, dbError(err)
	}
	blog.Published = true
	blog.PublishedAt = &now

	logger.CtxInfo(ctx, "Blog published", "blog_id", blog.ID)

	result := s.fanout.Notify(ctx, blog)

	published, err := s.reload(ctx, blog.ID)
	if err != nil {
		return nil, err
	}
	return &dto.PublishResponse{Blog: published, Notified: result.Created}, nil
}

func (s *blogService) Feed(ctx context.Context, userID uint, page, pageSize int) (*models.Page[models.Blog], error) {
	page, pageSize = normalizePage(page, pageSize)
	blogs, total, err := s.store.Blogs().ListPublished(ctx, repositories.BlogFilter{
		FollowedBy: userID,
		Limit:      pageSize,
		Offset:     models.Offset(page, pageSize),
	})
	if err != nil {
		return nil, dbError(err)
	}
	return newPage(publicBlogs(blogs), total, page, pageSize), nil
}

func (s *blogService) UploadCover(ctx context.Context, blogID, authorID uint, file *dto.UploadFile) (*models.Blog, error) {
	blog, err := s.owned(ctx, blogID, authorID)
	if err != nil {
		return nil, err
	}

	if s.uploads.MaxSize > 0 && file.Size > s.uploads.MaxSize {
		return nil, apperrors.ErrFileTooLarge
	}
	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(file.ContentType, ";", 2)[0]))
	if len(s.uploads.AllowedTypes) > 0 && !slices.Contains(s.uploads.AllowedTypes, contentType) {
		return nil, apperrors.ErrInvalidFileType
	}

	ext := filepath.Ext(file.Filename)
	if ext == "" {
		ext = extensionFor(contentType)
	}
	key := storage.CoverKey(blog.ID, ext, s.clock.Now())

	reader := file.Reader
	if s.uploads.MaxSize > 0 {
		reader = io.LimitReader(reader, s.uploads.MaxSize+1)
	}
	if err := s.storage.Save(ctx, key, reader, contentType); err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("save cover: %w", err))
	}

	url, err := s.storage.GetURL(ctx, key)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.store.Blogs().SetCover(ctx, blog.ID, url); err != nil {
		_ = s.storage.Delete(ctx, key)
		return nil, blogLookupError(err)
	}

	logger.CtxInfo(ctx, "Cover uploaded", "blog_id", blog.ID, "key", key)
	return s.reload(ctx, blog.ID)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}
