package handlers

// AppHandlers holds every HTTP handler of the application.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	BlogHandler         *BlogHandler
	CommentHandler      *CommentHandler
	SavedHandler        *SavedHandler
	NotificationHandler *NotificationHandler
	CategoryHandler     *CategoryHandler
	SearchHandler       *SearchHandler
}
