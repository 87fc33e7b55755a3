package runtime

import (
	"chat-server/domain"
	"chat-server/errors"
	"strings"
	"sync"

	"github.com/samber/lo"
)

// GroupRegistry maps group names to member handle sets. Names are
// case-sensitive and trimmed of surrounding whitespace on every operation.
// Groups are never deleted: a group whose last member leaves stays in the
// registry with zero members and can be joined again.
type GroupRegistry struct {
	mu     sync.Mutex
	groups map[string]*domain.Group
}

func NewGroupRegistry() *GroupRegistry {
	return &GroupRegistry{groups: make(map[string]*domain.Group)}
}

// Create registers a new group with h as its sole initial member.
func (r *GroupRegistry) Create(name string, h domain.Handle) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.ErrEmptyGroupName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.groups[name]; ok {
		return errors.ErrGroupAlreadyExists
	}
	r.groups[name] = domain.NewGroup(name, h)
	return nil
}

// Join adds h to an existing group. Re-joining is a no-op success.
func (r *GroupRegistry) Join(name string, h domain.Handle) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.ErrEmptyGroupName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[name]
	if !ok {
		return errors.ErrGroupNotFound
	}
	g.Members[h] = struct{}{}
	return nil
}

func (r *GroupRegistry) Leave(name string, h domain.Handle) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.ErrEmptyGroupName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[name]
	if !ok {
		return errors.ErrGroupNotFound
	}
	if !g.Has(h) {
		return errors.ErrNotGroupMember
	}
	delete(g.Members, h)
	return nil
}

// MembersExcept snapshots the membership of name without h. The caller must
// be a member: messaging a group you do not belong to is rejected here, not
// at delivery time.
func (r *GroupRegistry) MembersExcept(name string, h domain.Handle) ([]domain.Handle, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.ErrEmptyGroupName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[name]
	if !ok {
		return nil, errors.ErrGroupNotFound
	}
	if !g.Has(h) {
		return nil, errors.ErrNotGroupMember
	}
	return lo.Reject(lo.Keys(g.Members), func(member domain.Handle, _ int) bool {
		return member == h
	}), nil
}

// RemoveMemberEverywhere drops h from every group's member set. Groups left
// with zero members are retained.
func (r *GroupRegistry) RemoveMemberEverywhere(h domain.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.groups {
		delete(g.Members, h)
	}
}

func (r *GroupRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.groups)
}
