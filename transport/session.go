package transport

import (
	"bufio"
	"chat-server/contract"
	"chat-server/domain"
	"chat-server/services"
	"errors"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"

	chaterrors "chat-server/errors"

	"github.com/google/uuid"
)

// connSink serializes writes to one connection so that lines fanned out by
// concurrent routers never interleave mid-line.
type connSink struct {
	mu   sync.Mutex
	conn net.Conn
}

func (s *connSink) Deliver(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.conn, line)
	return err
}

// ClientSession drives a single connection through its lifecycle: the
// username/password handshake, registration, the command loop, and the
// cleanup sequence. The blocking line read is the only yield point; a
// session ends on /exit, a read error, or the peer closing the connection.
type ClientSession struct {
	log      *slog.Logger
	conn     net.Conn
	handle   domain.Handle
	reader   *bufio.Reader
	sink     *connSink
	auth     services.IAuthService
	groups   contract.IGroupRegistry
	sessions contract.ISessionRegistry
	router   contract.IRouter
}

func NewClientSession(log *slog.Logger, conn net.Conn, auth services.IAuthService,
	sessions contract.ISessionRegistry, groups contract.IGroupRegistry,
	router contract.IRouter) *ClientSession {
	return &ClientSession{
		log:      log,
		conn:     conn,
		handle:   domain.Handle(uuid.NewString()),
		reader:   bufio.NewReader(conn),
		sink:     &connSink{conn: conn},
		auth:     auth,
		groups:   groups,
		sessions: sessions,
		router:   router,
	}
}

// Run blocks until the session ends. An authentication failure or an early
// disconnect closes the connection without ever registering a session; once
// registered, the cleanup sequence runs no matter how the loop exits.
func (s *ClientSession) Run() {
	defer func() {
		_ = s.conn.Close()
	}()

	username, ok := s.authenticate()
	if !ok {
		return
	}

	// Registration enforces the single-session policy atomically; the
	// Authenticate lookup is only a fast pre-check, so a concurrent
	// handshake for the same username can still lose here.
	if err := s.sessions.Register(s.handle, username, s.sink); err != nil {
		s.send(domain.AlreadyLoggedInLine(username))
		s.log.Info("Registration rejected", "user", username, "error", err)
		return
	}
	defer s.router.Disconnect(s.handle, username)

	s.send(domain.Welcome)
	s.router.AnnounceJoin(s.handle, username)

	s.commandLoop(username)
}

func (s *ClientSession) authenticate() (string, bool) {
	if !s.send(domain.UsernamePrompt) {
		return "", false
	}
	username, err := s.readLine()
	if err != nil {
		return "", false
	}

	if !s.send(domain.PasswordPrompt) {
		return "", false
	}
	password, err := s.readLine()
	if err != nil {
		return "", false
	}

	if err := s.auth.Authenticate(username, password); err != nil {
		if errors.Is(err, chaterrors.ErrAlreadyLoggedIn) {
			s.send(domain.AlreadyLoggedInLine(username))
		} else {
			s.send(domain.AuthFailedLine)
		}
		s.log.Info("Authentication rejected", "remote", s.conn.RemoteAddr().String(), "error", err)
		return "", false
	}

	s.log.Info("User authenticated", "user", username, "handle", s.handle)
	return username, true
}

func (s *ClientSession) commandLoop(username string) {
	for {
		line, err := s.readLine()
		if err != nil {
			return
		}
		if line == "" {
			continue
		}

		cmd, err := ParseCommand(line)
		if err != nil {
			s.send(domain.UnknownCommandLine)
			continue
		}

		switch c := cmd.(type) {
		case BroadcastCommand:
			s.router.Broadcast(s.handle, username, c.Text)
		case PrivateMessageCommand:
			s.router.DirectMessage(s.handle, username, c.Recipient, c.Text)
		case GroupMessageCommand:
			s.router.GroupMessage(s.handle, c.Group, c.Text)
		case CreateGroupCommand:
			s.handleCreateGroup(c.Name)
		case JoinGroupCommand:
			s.handleJoinGroup(c.Name)
		case LeaveGroupCommand:
			s.handleLeaveGroup(c.Name)
		case HelpCommand:
			s.send(domain.HelpText)
		case ExitCommand:
			return
		}
	}
}

func (s *ClientSession) handleCreateGroup(name string) {
	trimmed := strings.TrimSpace(name)
	err := s.groups.Create(name, s.handle)
	switch {
	case err == nil:
		s.send(domain.GroupCreatedLine(trimmed))
	case errors.Is(err, chaterrors.ErrEmptyGroupName):
		s.send(domain.EmptyGroupNameLine)
	case errors.Is(err, chaterrors.ErrGroupAlreadyExists):
		s.send(domain.GroupExistsLine(trimmed))
	}
}

func (s *ClientSession) handleJoinGroup(name string) {
	trimmed := strings.TrimSpace(name)
	err := s.groups.Join(name, s.handle)
	switch {
	case err == nil:
		s.send(domain.GroupJoinedLine(trimmed))
	case errors.Is(err, chaterrors.ErrEmptyGroupName):
		s.send(domain.EmptyGroupNameLine)
	case errors.Is(err, chaterrors.ErrGroupNotFound):
		s.send(domain.GroupMissingOnJoinLine(trimmed))
	}
}

func (s *ClientSession) handleLeaveGroup(name string) {
	trimmed := strings.TrimSpace(name)
	err := s.groups.Leave(name, s.handle)
	switch {
	case err == nil:
		s.send(domain.GroupLeftLine(trimmed))
	case errors.Is(err, chaterrors.ErrEmptyGroupName):
		s.send(domain.EmptyGroupNameLine)
	case errors.Is(err, chaterrors.ErrGroupNotFound), errors.Is(err, chaterrors.ErrNotGroupMember):
		s.send(domain.NotInGroupLine(trimmed))
	}
}

// readLine returns the next trimmed input line. A partial line delivered
// together with EOF is still processed; the EOF surfaces on the next read.
func (s *ClientSession) readLine() (string, error) {
	line, err := s.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *ClientSession) send(text string) bool {
	if err := s.sink.Deliver(text); err != nil {
		s.log.Debug("Write failed", "handle", s.handle, "error", err)
		return false
	}
	return true
}
