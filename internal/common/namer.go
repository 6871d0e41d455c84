package common

import "strconv"

// Namer hands out identifiers that are unique within one generated scope.
type Namer struct {
	used map[string]struct{}
}

// NewNamer creates a Namer with the given names already taken.
func NewNamer(reserved ...string) *Namer {
	n := &Namer{used: make(map[string]struct{}, len(reserved))}
	for _, r := range reserved {
		n.Reserve(r)
	}

	return n
}

// Reserve marks name as taken.
func (n *Namer) Reserve(name string) {
	n.used[name] = struct{}{}
}

// Taken reports whether name is already used.
func (n *Namer) Taken(name string) bool {
	_, ok := n.used[name]
	return ok
}

// Fresh returns base if it is free, otherwise base1, base2, ... The returned
// name is reserved.
func (n *Namer) Fresh(base string) string {
	name := base
	for i := 1; n.Taken(name); i++ {
		name = base + strconv.Itoa(i)
	}

	n.Reserve(name)

	return name
}
