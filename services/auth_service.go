package services

import (
	"chat-server/auth"
	"chat-server/contract"
	"chat-server/errors"
	"chat-server/repositories"
	"fmt"
)

type IAuthService interface {
	Authenticate(username, password string) error
}

type AuthService struct {
	credentials repositories.ICredentialStore
	sessions    contract.ISessionRegistry
}

func NewAuthService(credentials repositories.ICredentialStore, sessions contract.ISessionRegistry) IAuthService {
	return &AuthService{credentials: credentials, sessions: sessions}
}

// Authenticate verifies the handshake answers against the credential store
// and enforces the single-session policy: a username with a live session
// cannot log in a second time, which keeps direct-message lookups
// unambiguous.
func (s *AuthService) Authenticate(username, password string) error {
	req := auth.LoginRequest{Username: username, Password: password}

	// Reject malformed input before any cryptographic work.
	if err := auth.ValidateLogin(req); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidCredentials, err)
	}

	stored, ok := s.credentials.Lookup(username)
	if !ok {
		// Same error as a wrong password to prevent user enumeration.
		return errors.ErrInvalidCredentials
	}

	match, err := auth.VerifyPassword(password, stored)
	if err != nil || !match {
		return errors.ErrInvalidCredentials
	}

	if _, online := s.sessions.LookupByUsername(username); online {
		return errors.ErrAlreadyLoggedIn
	}

	return nil
}
