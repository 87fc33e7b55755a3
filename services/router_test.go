package services

import (
	"chat-server/domain"
	"chat-server/moderation"
	"chat-server/runtime"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu    sync.Mutex
	lines []string
}

func (s *recordingSink) Deliver(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
	return nil
}

func (s *recordingSink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

type failingSink struct{}

func (failingSink) Deliver(string) error {
	return fmt.Errorf("connection reset")
}

type chatFixture struct {
	sessions *runtime.SessionRegistry
	groups   *runtime.GroupRegistry
	router   *Router
}

func newChatFixture(mod *moderation.Moderator) *chatFixture {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	sessions := runtime.NewSessionRegistry()
	groups := runtime.NewGroupRegistry()
	return &chatFixture{
		sessions: sessions,
		groups:   groups,
		router:   NewRouter(log, sessions, groups, mod),
	}
}

func (f *chatFixture) connect(username string) (domain.Handle, *recordingSink) {
	h := domain.Handle(uuid.NewString())
	sink := &recordingSink{}
	f.sessions.Register(h, username, sink)
	return h, sink
}

func TestRouter_BroadcastExcludesSender(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(nil)
	alice, aliceSink := f.connect("alice")
	_, bobSink := f.connect("bob")
	_, carolSink := f.connect("carol")

	// When alice broadcasts
	f.router.Broadcast(alice, "alice", "hello")

	// Then exactly the two others receive the line, never the sender
	req.Empty(aliceSink.Lines())
	req.Equal([]string{"[All] alice: hello\n"}, bobSink.Lines())
	req.Equal([]string{"[All] alice: hello\n"}, carolSink.Lines())
}

func TestRouter_DirectMessageRoundTrip(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(nil)
	alice, aliceSink := f.connect("alice")
	_, bobSink := f.connect("bob")

	// When alice messages bob
	f.router.DirectMessage(alice, "alice", "bob", "hi")

	// Then bob gets exactly one line and alice no copy
	req.Equal([]string{"[Private] alice: hi\n"}, bobSink.Lines())
	req.Empty(aliceSink.Lines())
}

func TestRouter_DirectMessageUnknownRecipient(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(nil)
	alice, aliceSink := f.connect("alice")
	_, bobSink := f.connect("bob")

	// When alice messages someone who is not online
	f.router.DirectMessage(alice, "alice", "carol", "hi")

	// Then alice gets exactly one error line and nothing else moves
	req.Equal([]string{"User 'carol' not found\n"}, aliceSink.Lines())
	req.Empty(bobSink.Lines())
}

func TestRouter_GroupMessageFanout(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(nil)
	alice, aliceSink := f.connect("alice")
	bob, bobSink := f.connect("bob")
	_, carolSink := f.connect("carol")

	req.NoError(f.groups.Create("dev", alice))
	req.NoError(f.groups.Join("dev", bob))

	// When alice messages the group
	f.router.GroupMessage(alice, "dev", "ship it")

	// Then only the other member receives the line
	req.Equal([]string{"[Group dev] alice: ship it\n"}, bobSink.Lines())
	req.Empty(aliceSink.Lines())
	req.Empty(carolSink.Lines())
}

func TestRouter_GroupMessageRequiresMembership(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(nil)
	alice, aliceSink := f.connect("alice")
	carol, carolSink := f.connect("carol")

	req.NoError(f.groups.Create("dev", alice))

	// When a non-member messages the group
	f.router.GroupMessage(carol, "dev", "hi")

	// Then the sender gets exactly one rejection and nobody else anything
	req.Equal([]string{"You're not in group 'dev'\n"}, carolSink.Lines())
	req.Empty(aliceSink.Lines())
}

func TestRouter_GroupMessageMissingGroup(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(nil)
	alice, aliceSink := f.connect("alice")

	f.router.GroupMessage(alice, "nowhere", "hi")

	req.Equal([]string{"Group 'nowhere' doesn't exist\n"}, aliceSink.Lines())
}

func TestRouter_GroupMessageRejectsEmptyText(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(nil)
	alice, aliceSink := f.connect("alice")
	bob, bobSink := f.connect("bob")

	req.NoError(f.groups.Create("dev", alice))
	req.NoError(f.groups.Join("dev", bob))

	// When the message is whitespace only
	f.router.GroupMessage(alice, "dev", "   ")

	// Then the sender is told and no delivery happens
	req.Equal([]string{"Group message cannot be empty.\n"}, aliceSink.Lines())
	req.Empty(bobSink.Lines())
}

func TestRouter_AnnounceJoin(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(nil)
	alice, aliceSink := f.connect("alice")
	_, bobSink := f.connect("bob")

	f.router.AnnounceJoin(alice, "alice")

	req.Empty(aliceSink.Lines())
	req.Equal([]string{"*** alice joined the chat ***\n"}, bobSink.Lines())
}

func TestRouter_DisconnectCleanupIsTotal(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(nil)
	alice, aliceSink := f.connect("alice")
	bob, bobSink := f.connect("bob")
	_, carolSink := f.connect("carol")

	req.NoError(f.groups.Create("dev", bob))
	req.NoError(f.groups.Join("dev", alice))

	// When alice's cleanup sequence runs
	f.router.Disconnect(alice, "alice")

	// Then the session is gone
	req.Equal(2, f.sessions.Count())
	_, ok := f.sessions.LookupByUsername("alice")
	req.False(ok)

	// And the handle is out of every group
	members, err := f.groups.MembersExcept("dev", bob)
	req.NoError(err)
	req.Empty(members)

	// And exactly one departure line reached every remaining session
	req.Equal([]string{"** alice left the chat server **\n"}, bobSink.Lines())
	req.Equal([]string{"** alice left the chat server **\n"}, carolSink.Lines())
	req.Empty(aliceSink.Lines())
}

func TestRouter_DeliveryFailureDoesNotAbortFanout(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(nil)
	alice, aliceSink := f.connect("alice")
	bob := domain.Handle(uuid.NewString())
	f.sessions.Register(bob, "bob", failingSink{})
	_, carolSink := f.connect("carol")

	// When a recipient's sink fails mid-broadcast
	f.router.Broadcast(alice, "alice", "x")

	// Then the remaining recipients still receive the line
	// and the sender sees no error
	req.Equal([]string{"[All] alice: x\n"}, carolSink.Lines())
	req.Empty(aliceSink.Lines())
}

// wrappingGroups adds context to every registry error, like a decorated
// registry would.
type wrappingGroups struct {
	*runtime.GroupRegistry
}

func (w wrappingGroups) MembersExcept(name string, h domain.Handle) ([]domain.Handle, error) {
	members, err := w.GroupRegistry.MembersExcept(name, h)
	if err != nil {
		return nil, fmt.Errorf("group membership: %w", err)
	}
	return members, nil
}

func TestRouter_GroupErrorsMatchedThroughWrapping(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	sessions := runtime.NewSessionRegistry()
	groups := wrappingGroups{runtime.NewGroupRegistry()}
	router := NewRouter(log, sessions, groups, nil)

	alice := domain.Handle(uuid.NewString())
	sink := &recordingSink{}
	req.NoError(sessions.Register(alice, "alice", sink))

	// When the registry reports a wrapped not-found error
	router.GroupMessage(alice, "nowhere", "hi")

	// Then the sender still gets the specific rejection line
	req.Equal([]string{"Group 'nowhere' doesn't exist\n"}, sink.Lines())
}

func TestRouter_ModerationFiltersOutboundText(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	mod, err := moderation.NewModerator([]string{"badger"}, '*', log)
	req.NoError(err)

	f := newChatFixture(mod)
	alice, _ := f.connect("alice")
	_, bobSink := f.connect("bob")

	f.router.Broadcast(alice, "alice", "the badger sleeps")

	req.Equal([]string{"[All] alice: the ****** sleeps\n"}, bobSink.Lines())
}
