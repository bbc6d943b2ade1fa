package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store hands out repositories bound to one connection or transaction.
type Store interface {
	Users() UserRepository
	Tokens() TokenRepository
	Blogs() BlogRepository
	Categories() CategoryRepository
	Comments() CommentRepository
	Follows() FollowRepository
	Notifications() NotificationRepository
	Saved() SavedBlogRepository

	// Transaction runs fn with a Store whose repositories share one database transaction.
	// fn returning an error rolls everything back.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() UserRepository                 { return NewUserRepository(s.db) }
func (s *gormStore) Tokens() TokenRepository               { return NewTokenRepository(s.db) }
func (s *gormStore) Blogs() BlogRepository                 { return NewBlogRepository(s.db) }
func (s *gormStore) Categories() CategoryRepository        { return NewCategoryRepository(s.db) }
func (s *gormStore) Comments() CommentRepository           { return NewCommentRepository(s.db) }
func (s *gormStore) Follows() FollowRepository             { return NewFollowRepository(s.db) }
func (s *gormStore) Notifications() NotificationRepository { return NewNotificationRepository(s.db) }
func (s *gormStore) Saved() SavedBlogRepository            { return NewSavedBlogRepository(s.db) }

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
