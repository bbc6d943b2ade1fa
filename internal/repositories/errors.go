package repositories

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailTaken           = errors.New("email already registered")
	ErrUsernameTaken        = errors.New("username already taken")
	ErrTokenNotFound        = errors.New("token not found")
	ErrTokenConsumed        = errors.New("token already consumed")
	ErrBlogNotFound         = errors.New("blog not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryExists       = errors.New("category already exists")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrFollowExists         = errors.New("follow already exists")
	ErrFollowNotFound       = errors.New("follow not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrSavedExists          = errors.New("blog already saved")
	ErrSavedNotFound        = errors.New("saved blog not found")
	ErrUnknownPurpose       = errors.New("unknown token purpose")
)

// notFound maps gorm.ErrRecordNotFound to the repository sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// duplicate maps unique violations (gorm TranslateError) to the repository sentinel.
func duplicate(err, sentinel error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return sentinel
	}
	return err
}
