package services

import (
	"context"
	"errors"
	"strings"

	"inkwell_backend/internal/models"
	"inkwell_backend/internal/repositories"
	"inkwell_backend/internal/services/dto"
	"inkwell_backend/pkg/apperrors"
)

type CommentService interface {
	Add(ctx context.Context, blogID, authorID uint, req *dto.CreateCommentRequest) (*models.Comment, error)
	List(ctx context.Context, blogID uint, page, pageSize int) (*models.Page[models.Comment], error)
	// Delete is allowed to the comment author and to the blog author.
	Delete(ctx context.Context, commentID, requesterID uint) error
}

type commentService struct {
	store repositories.Store
}

func NewCommentService(store repositories.Store) CommentService {
	return &commentService{store: store}
}

func (s *commentService) publishedBlog(ctx context.Context, blogID uint) (*models.Blog, error) {
	blog, err := s.store.Blogs().FindByID(ctx, blogID)
	if err != nil {
		return nil, blogLookupError(err)
	}
	if !blog.Published {
		return nil, apperrors.ErrBlogNotFound
	}
	return blog, nil
}

func (s *commentService) Add(ctx context.Context, blogID, authorID uint, req *dto.CreateCommentRequest) (*models.Comment, error) {
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, apperrors.FieldError("body", "Must not be blank")
	}
	if _, err := s.publishedBlog(ctx, blogID); err != nil {
		return nil, err
	}

	comment := &models.Comment{BlogID: blogID, AuthorID: authorID, Body: body}
	if err := s.store.Comments().Create(ctx, comment); err != nil {
		return nil, dbError(err)
	}
	return comment, nil
}

func (s *commentService) List(ctx context.Context, blogID uint, page, pageSize int) (*models.Page[models.Comment], error) {
	if _, err := s.publishedBlog(ctx, blogID); err != nil {
		return nil, err
	}
	page, pageSize = normalizePage(page, pageSize)
	comments, total, err := s.store.Comments().ListByBlog(ctx, blogID, pageSize, models.Offset(page, pageSize))
	if err != nil {
		return nil, dbError(err)
	}
	for i := range comments {
		if comments[i].Author != nil {
			comments[i].Author.Email = ""
		}
	}
	return newPage(comments, total, page, pageSize), nil
}

func (s *commentService) Delete(ctx context.Context, commentID, requesterID uint) error {
	comment, err := s.store.Comments().FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repositories.ErrCommentNotFound) {
			return apperrors.ErrCommentNotFound
		}
		return dbError(err)
	}

	if comment.AuthorID != requesterID {
		blog, err := s.store.Blogs().FindByID(ctx, comment.BlogID)
		if err != nil {
			return blogLookupError(err)
		}
		if blog.AuthorID != requesterID {
			return apperrors.NewForbiddenError("Only the comment or blog author can delete this comment")
		}
	}

	if err := s.store.Comments().Delete(ctx, commentID); err != nil {
		if errors.Is(err, repositories.ErrCommentNotFound) {
			return apperrors.ErrCommentNotFound
		}
		return dbError(err)
	}
	return nil
}
