// Package runtime owns the process-wide shared state of the chat server:
// the session registry (who is online) and the group registry (who belongs
// where). Each registry is protected by its own mutex and exposes only
// atomic operations; iteration never leaks outside a lock, callers get
// snapshots. The group-message path reads the group registry before the
// session registry and never nests the two locks.
package runtime

import (
	"chat-server/contract"
	"chat-server/domain"
	"chat-server/errors"
	"sync"
)

type session struct {
	username string
	sink     contract.LineSink
}

// SessionRegistry maps live connection handles to authenticated usernames
// and their delivery sinks. A handle appears at most once; registering an
// existing handle overwrites its session.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[domain.Handle]session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[domain.Handle]session)}
}

// Register makes h visible to broadcast and direct-message lookups. The
// check for a live session under the same username and the insert happen
// under the one mutex, so two concurrent handshakes for the same username
// cannot both register: the loser gets ErrAlreadyLoggedIn. Re-registering
// the same handle overwrites its session.
func (r *SessionRegistry) Register(h domain.Handle, username string, sink contract.LineSink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for other, s := range r.sessions {
		if s.username == username && other != h {
			return errors.ErrAlreadyLoggedIn
		}
	}
	r.sessions[h] = session{username: username, sink: sink}
	return nil
}

// Unregister is idempotent: removing an absent handle is a no-op.
func (r *SessionRegistry) Unregister(h domain.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, h)
}

func (r *SessionRegistry) Username(h domain.Handle) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[h]
	return s.username, ok
}

// LookupByUsername returns the handle of the session holding username.
// Map iteration order is unspecified, which is acceptable because Register
// rejects duplicate usernames: at most one session matches.
func (r *SessionRegistry) LookupByUsername(username string) (domain.Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for h, s := range r.sessions {
		if s.username == username {
			return h, true
		}
	}
	return "", false
}

func (r *SessionRegistry) RecipientByUsername(username string) (contract.Recipient, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for h, s := range r.sessions {
		if s.username == username {
			return contract.Recipient{Handle: h, Sink: s.sink}, true
		}
	}
	return contract.Recipient{}, false
}

// AllExcept snapshots every registered session except h. Handles registered
// after the snapshot is taken do not receive messages fanned out from it.
func (r *SessionRegistry) AllExcept(h domain.Handle) []contract.Recipient {
	r.mu.Lock()
	defer r.mu.Unlock()
	recipients := make([]contract.Recipient, 0, len(r.sessions))
	for other, s := range r.sessions {
		if other == h {
			continue
		}
		recipients = append(recipients, contract.Recipient{Handle: other, Sink: s.sink})
	}
	return recipients
}

// SinksFor resolves handles to live recipients. Handles with no session
// (disconnected since the caller took its snapshot) are skipped silently.
func (r *SessionRegistry) SinksFor(handles []domain.Handle) []contract.Recipient {
	r.mu.Lock()
	defer r.mu.Unlock()
	recipients := make([]contract.Recipient, 0, len(handles))
	for _, h := range handles {
		if s, ok := r.sessions[h]; ok {
			recipients = append(recipients, contract.Recipient{Handle: h, Sink: s.sink})
		}
	}
	return recipients
}

func (r *SessionRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
