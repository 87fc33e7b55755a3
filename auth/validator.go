package auth

import (
	"chat-server/errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// LoginRequest carries the two handshake answers.
type LoginRequest struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// ValidateLogin rejects empty answers and usernames containing spaces,
// which could never be addressed by /msg since the command protocol uses
// single spaces as separators.
func ValidateLogin(req LoginRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	if strings.ContainsRune(req.Username, ' ') {
		return errors.ErrInvalidCredentials
	}
	return nil
}
