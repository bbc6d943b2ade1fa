package services

import (
	"inkwell_backend/internal/auth"
	"inkwell_backend/internal/clock"
	"inkwell_backend/internal/config"
	"inkwell_backend/internal/repositories"
	"inkwell_backend/internal/storage"
)

// ServiceContainer holds every application service.
type ServiceContainer struct {
	TokenService        TokenService
	SessionService      SessionService
	AuthService         AuthService
	UserService         UserService
	FollowService       FollowService
	BlogService         BlogService
	CommentService      CommentService
	NotificationService NotificationService
	SavedService        SavedService
	SearchService       SearchService
	CategoryService     CategoryService
}

// Dependencies are the collaborators the services are built from.
type Dependencies struct {
	Store     repositories.Store
	Config    *config.Config
	Clock     clock.Clock
	Signer    *auth.SessionSigner
	Providers IdentityProviders
	Mailer    TokenMailer
	Storage   storage.Storage
	Pusher    NotificationPusher
}

func NewServiceContainer(deps Dependencies) *ServiceContainer {
	cfg := deps.Config

	tokens := NewTokenService(deps.Store, deps.Mailer, deps.Clock, cfg.Tokens.TTL)
	sessions := NewSessionService(deps.Store, deps.Signer, deps.Providers)
	fanout := NewNotificationFanout(deps.Store, deps.Pusher, cfg.Fanout.Concurrency)

	return &ServiceContainer{
		TokenService:   tokens,
		SessionService: sessions,
		AuthService:    NewAuthService(deps.Store, tokens, sessions),
		UserService:    NewUserService(deps.Store, tokens),
		FollowService:  NewFollowService(deps.Store),
		BlogService: NewBlogService(deps.Store, fanout, deps.Storage, deps.Clock, UploadPolicy{
			MaxSize:      cfg.Upload.MaxSize,
			AllowedTypes: cfg.Upload.AllowedTypes,
		}),
		CommentService:      NewCommentService(deps.Store),
		NotificationService: NewNotificationService(deps.Store),
		SavedService:        NewSavedService(deps.Store),
		SearchService:       NewSearchService(deps.Store),
		CategoryService:     NewCategoryService(deps.Store),
	}
}
