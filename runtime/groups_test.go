package runtime

import (
	"chat-server/domain"
	"chat-server/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGroupRegistry_CreateAndDuplicate(t *testing.T) {
	req := require.New(t)
	registry := NewGroupRegistry()
	h := newHandle()

	// When a group is created
	req.NoError(registry.Create("dev", h))

	// Then the creator is its sole member
	members, err := registry.MembersExcept("dev", h)
	req.NoError(err)
	req.Empty(members)

	// And creating it again fails without touching membership
	req.ErrorIs(registry.Create("dev", newHandle()), errors.ErrGroupAlreadyExists)
	members, err = registry.MembersExcept("dev", h)
	req.NoError(err)
	req.Empty(members)
}

func TestGroupRegistry_NamesAreTrimmedAndCaseSensitive(t *testing.T) {
	req := require.New(t)
	registry := NewGroupRegistry()
	h1, h2 := newHandle(), newHandle()

	// Given a group created with surrounding whitespace
	req.NoError(registry.Create("  dev  ", h1))

	// Then the trimmed name addresses it
	req.NoError(registry.Join("dev", h2))

	// And a different casing is a different group
	req.ErrorIs(registry.Join("Dev", h2), errors.ErrGroupNotFound)
}

func TestGroupRegistry_EmptyNameRejected(t *testing.T) {
	req := require.New(t)
	registry := NewGroupRegistry()
	h := newHandle()

	req.ErrorIs(registry.Create("   ", h), errors.ErrEmptyGroupName)
	req.ErrorIs(registry.Join("", h), errors.ErrEmptyGroupName)
	req.ErrorIs(registry.Leave(" \t ", h), errors.ErrEmptyGroupName)
	_, err := registry.MembersExcept("  ", h)
	req.ErrorIs(err, errors.ErrEmptyGroupName)

	// And no state was created
	req.Zero(registry.Count())
}

func TestGroupRegistry_JoinIsIdempotent(t *testing.T) {
	req := require.New(t)
	registry := NewGroupRegistry()
	h := newHandle()

	// Given a created group, re-joining by the creator changes nothing
	req.NoError(registry.Create("dev", h))
	req.NoError(registry.Join("dev", h))

	members, err := registry.MembersExcept("dev", h)
	req.NoError(err)
	req.Empty(members)
}

func TestGroupRegistry_JoinMissingGroup(t *testing.T) {
	req := require.New(t)
	registry := NewGroupRegistry()

	req.ErrorIs(registry.Join("nowhere", newHandle()), errors.ErrGroupNotFound)
}

func TestGroupRegistry_LeaveNeverMutatesOnFailure(t *testing.T) {
	req := require.New(t)
	registry := NewGroupRegistry()
	member, stranger := newHandle(), newHandle()

	req.NoError(registry.Create("dev", member))

	// Leaving a nonexistent group fails
	req.ErrorIs(registry.Leave("nowhere", member), errors.ErrGroupNotFound)

	// Leaving a group you are not in fails
	req.ErrorIs(registry.Leave("dev", stranger), errors.ErrNotGroupMember)

	// And the membership is untouched
	members, err := registry.MembersExcept("dev", member)
	req.NoError(err)
	req.Empty(members)
}

func TestGroupRegistry_EmptyGroupIsRetained(t *testing.T) {
	req := require.New(t)
	registry := NewGroupRegistry()
	h := newHandle()

	// Given a group whose last member leaves
	req.NoError(registry.Create("dev", h))
	req.NoError(registry.Leave("dev", h))

	// Then the group still exists with zero members
	req.Equal(1, registry.Count())

	// And can be joined again
	req.NoError(registry.Join("dev", h))
	members, err := registry.MembersExcept("dev", h)
	req.NoError(err)
	req.Empty(members)
}

func TestGroupRegistry_MembersExceptRequiresMembership(t *testing.T) {
	req := require.New(t)
	registry := NewGroupRegistry()
	creator, member, stranger := newHandle(), newHandle(), newHandle()

	req.NoError(registry.Create("dev", creator))
	req.NoError(registry.Join("dev", member))

	// A non-member cannot snapshot the group
	_, err := registry.MembersExcept("dev", stranger)
	req.ErrorIs(err, errors.ErrNotGroupMember)

	// A missing group reports so
	_, err = registry.MembersExcept("nowhere", creator)
	req.ErrorIs(err, errors.ErrGroupNotFound)

	// A member sees everyone but itself
	members, err := registry.MembersExcept("dev", creator)
	req.NoError(err)
	req.Equal([]domain.Handle{member}, members)
}

func TestGroupRegistry_RemoveMemberEverywhere(t *testing.T) {
	req := require.New(t)
	registry := NewGroupRegistry()
	leaver, observer := newHandle(), newHandle()

	req.NoError(registry.Create("dev", observer))
	req.NoError(registry.Create("ops", observer))
	req.NoError(registry.Join("dev", leaver))
	req.NoError(registry.Join("ops", leaver))

	// When the handle disconnects
	registry.RemoveMemberEverywhere(leaver)

	// Then it is gone from every group
	for _, group := range []string{"dev", "ops"} {
		members, err := registry.MembersExcept(group, observer)
		req.NoError(err)
		req.Empty(members)
	}

	// And the groups themselves are retained
	req.Equal(2, registry.Count())
}
