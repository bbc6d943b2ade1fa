package models

// AccountProvider records how an account was created.
type AccountProvider string

const (
	ProviderDefault  AccountProvider = "default"
	ProviderGoogle   AccountProvider = "google"
	ProviderFacebook AccountProvider = "facebook"
	ProviderApple    AccountProvider = "apple"
)

// IsExternal reports whether the provider is an OAuth identity provider.
func (p AccountProvider) IsExternal() bool {
	switch p {
	case ProviderGoogle, ProviderFacebook, ProviderApple:
		return true
	default:
		return false
	}
}

type User struct {
	BaseModel
	Email        string          `gorm:"uniqueIndex;not null" json:"email"`
	Username     *string         `gorm:"uniqueIndex;size:30" json:"username,omitempty"`
	FirstName    string          `gorm:"size:100" json:"first_name"`
	LastName     string          `gorm:"size:100" json:"last_name"`
	Bio          string          `gorm:"size:500" json:"bio"`
	AvatarURL    string          `json:"avatar_url,omitempty"`
	IsVerified   bool            `gorm:"not null;default:false" json:"is_verified"`
	PasswordHash *string         `json:"-"`
	Provider     AccountProvider `gorm:"type:varchar(20);not null;default:'default'" json:"provider"`
}

// HasPassword is false for accounts created through an identity provider.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// DisplayName prefers the full name, then the username, then the email.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.Username != nil && *u.Username != "":
		return *u.Username
	default:
		return u.Email
	}
}

// UserProfile is the public view of a user.
type UserProfile struct {
	User
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}
