package models

import "time"

// TokenPurpose selects which single-use token table a token lives in.
// Purposes are separate namespaces: a token of one purpose never resolves for another.
type TokenPurpose string

const (
	PurposeActivation    TokenPurpose = "activate"
	PurposePasswordReset TokenPurpose = "reset_password"
	PurposeDeletion      TokenPurpose = "delete_account"
)

var TokenPurposes = []TokenPurpose{PurposeActivation, PurposePasswordReset, PurposeDeletion}

func (p TokenPurpose) Valid() bool {
	switch p {
	case PurposeActivation, PurposePasswordReset, PurposeDeletion:
		return true
	default:
		return false
	}
}

// Table returns the table that stores tokens of this purpose.
func (p TokenPurpose) Table() string {
	switch p {
	case PurposeActivation:
		return "activation_tokens"
	case PurposePasswordReset:
		return "password_reset_tokens"
	case PurposeDeletion:
		return "deletion_tokens"
	default:
		return ""
	}
}

// SingleUseToken is the shape shared by the three token tables.
type SingleUseToken struct {
	ID         uint       `gorm:"primaryKey"`
	Value      string     `gorm:"size:64;uniqueIndex;not null"`
	UserID     uint       `gorm:"not null;index"`
	CreatedAt  time.Time  `gorm:"not null"`
	ConsumedAt *time.Time `gorm:"index"`
}

func (t *SingleUseToken) IsConsumed() bool {
	return t.ConsumedAt != nil
}

// Expired reports whether the token can no longer be used at now.
// A token is still valid at exactly ttl after creation.
func (t *SingleUseToken) Expired(now time.Time, ttl time.Duration) bool {
	return t.IsConsumed() || now.Sub(t.CreatedAt) > ttl
}

// The concrete table types exist for migrations and foreign keys.

type ActivationToken struct {
	SingleUseToken
	User *User `gorm:"constraint:OnDelete:CASCADE"`
}

type PasswordResetToken struct {
	SingleUseToken
	User *User `gorm:"constraint:OnDelete:CASCADE"`
}

type DeletionToken struct {
	SingleUseToken
	User *User `gorm:"constraint:OnDelete:CASCADE"`
}
