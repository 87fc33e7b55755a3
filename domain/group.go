package domain

// Group is a named, persistent set of member handles used for fan-out
// messaging. A group survives its last member leaving; only a process
// restart removes it.
type Group struct {
	Name    string
	Members map[Handle]struct{}
}

func NewGroup(name string, first Handle) *Group {
	return &Group{
		Name:    name,
		Members: map[Handle]struct{}{first: {}},
	}
}

func (g *Group) Has(h Handle) bool {
	_, ok := g.Members[h]
	return ok
}
