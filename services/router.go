package services

import (
	"chat-server/contract"
	"chat-server/domain"
	"chat-server/moderation"
	"errors"
	"log/slog"
	"strings"

	chaterrors "chat-server/errors"
)

// Router implements the delivery semantics of the chat server: broadcast,
// direct message, and group message, plus the join announcement and the
// disconnect cleanup sequence. It is stateless over the two registries and
// delivers through the sinks captured in registry snapshots. A failed
// delivery is logged and skipped; it never aborts the remaining recipients
// and is never surfaced to the sender.
//
// The group-message path reads the group registry before the session
// registry. The two locks are never held together; every cross-registry
// operation composes snapshots in that fixed order.
type Router struct {
	log       *slog.Logger
	sessions  contract.ISessionRegistry
	groups    contract.IGroupRegistry
	moderator *moderation.Moderator // nil disables word filtering
}

func NewRouter(log *slog.Logger, sessions contract.ISessionRegistry,
	groups contract.IGroupRegistry, moderator *moderation.Moderator) *Router {
	return &Router{log: log, sessions: sessions, groups: groups, moderator: moderator}
}

// Broadcast sends text to every session except the sender. The sender
// receives no copy and no acknowledgment.
func (r *Router) Broadcast(sender domain.Handle, senderName, text string) {
	line := domain.BroadcastLine(senderName, r.filter(text))
	r.fanout(r.sessions.AllExcept(sender), line)
}

// DirectMessage resolves the recipient by username. An unknown recipient
// yields exactly one error line back to the sender and nothing else.
func (r *Router) DirectMessage(sender domain.Handle, senderName, recipient, text string) {
	target, ok := r.sessions.RecipientByUsername(recipient)
	if !ok {
		r.reply(sender, domain.RecipientNotFoundLine(recipient))
		return
	}
	r.deliver(target, domain.PrivateLine(senderName, r.filter(text)))
}

// GroupMessage fans text out to every other member of group. The sender
// must be a member; all rejections go to the sender only, with no state
// change and no delivery.
func (r *Router) GroupMessage(sender domain.Handle, group, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		r.reply(sender, domain.EmptyGroupMsgLine)
		return
	}

	// Group registry first, session registry second.
	members, err := r.groups.MembersExcept(group, sender)
	if err != nil {
		r.reply(sender, groupErrorLine(group, err))
		return
	}

	senderName, ok := r.sessions.Username(sender)
	if !ok {
		// Sender disconnected between the membership check and here.
		return
	}

	line := domain.GroupLine(strings.TrimSpace(group), senderName, r.filter(text))
	r.fanout(r.sessions.SinksFor(members), line)
}

// AnnounceJoin tells every other session that username came online.
func (r *Router) AnnounceJoin(h domain.Handle, username string) {
	r.fanout(r.sessions.AllExcept(h), domain.JoinedChatLine(username))
}

// Disconnect runs the full cleanup sequence for h: unregister the session,
// drop the handle from every group, then broadcast the departure to the
// remaining sessions. The order is fixed and the broadcast is best-effort;
// the sequence runs the same way for /exit, read errors, and abrupt
// disconnects.
func (r *Router) Disconnect(h domain.Handle, username string) {
	r.sessions.Unregister(h)
	r.groups.RemoveMemberEverywhere(h)
	r.fanout(r.sessions.AllExcept(h), domain.LeftChatLine(username))
}

func (r *Router) reply(h domain.Handle, line string) {
	for _, rc := range r.sessions.SinksFor([]domain.Handle{h}) {
		r.deliver(rc, line)
	}
}

func (r *Router) fanout(recipients []contract.Recipient, line string) {
	for _, rc := range recipients {
		r.deliver(rc, line)
	}
}

func (r *Router) deliver(rc contract.Recipient, line string) {
	if err := rc.Sink.Deliver(line); err != nil {
		r.log.Debug("Delivery failed", "handle", rc.Handle, "error", err)
	}
}

func (r *Router) filter(text string) string {
	if r.moderator == nil {
		return text
	}
	return r.moderator.Censor(text)
}

func groupErrorLine(group string, err error) string {
	group = strings.TrimSpace(group)
	switch {
	case errors.Is(err, chaterrors.ErrEmptyGroupName):
		return domain.EmptyGroupNameLine
	case errors.Is(err, chaterrors.ErrGroupNotFound):
		return domain.GroupMissingLine(group)
	case errors.Is(err, chaterrors.ErrNotGroupMember):
		return domain.NotInGroupMsgLine(group)
	default:
		return domain.UnknownCommandLine
	}
}
