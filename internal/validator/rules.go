package validator

import (
	"log"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"inkwell_backend/internal/auth"
)

const (
	TagStrongPassword = "strong_password"
	TagUsername       = "username"
	TagNotBlank       = "notblank"
)

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,30}$`)

func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister(TagStrongPassword, func(fl validator.FieldLevel) bool {
		return auth.ValidatePassword(fl.Field().String()) == nil
	})

	mustRegister(TagUsername, func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})

	mustRegister(TagNotBlank, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}
