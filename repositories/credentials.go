//go:generate go run go.uber.org/mock/mockgen -source=credentials.go -destination=../mocks/mock_credential_store.go -package=mocks
package repositories

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type ICredentialStore interface {
	Lookup(username string) (string, bool)
	Size() int
}

// CredentialStore is the immutable-after-load mapping of username to stored
// password. It is read once at startup and never reloaded; a restart is
// required to pick up changes to the credential file.
type CredentialStore struct {
	users map[string]string
}

// LoadCredentials reads a line-oriented credential file, one
// `username:password` entry per line. Both fields are trimmed of
// surrounding whitespace. Lines without a delimiter are skipped.
// A missing or unreadable file is a startup error.
func LoadCredentials(path string, log *slog.Logger) (*CredentialStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening credential file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	store, err := ParseCredentials(f, log)
	if err != nil {
		return nil, fmt.Errorf("reading credential file %s: %w", path, err)
	}
	return store, nil
}

// ParseCredentials consumes a credential stream. Split out of
// LoadCredentials so tests can feed it from memory.
func ParseCredentials(r io.Reader, log *slog.Logger) (*CredentialStore, error) {
	users := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		username, password, ok := strings.Cut(line, ":")
		if !ok {
			log.Debug("Skipping malformed credential line", "line", line)
			continue
		}
		users[strings.TrimSpace(username)] = strings.TrimSpace(password)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &CredentialStore{users: users}, nil
}

// Lookup returns the stored password for username. The second return value
// reports whether the user exists.
func (s *CredentialStore) Lookup(username string) (string, bool) {
	password, ok := s.users[username]
	return password, ok
}

func (s *CredentialStore) Size() int {
	return len(s.users)
}
