// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package tabs

import "fmt"

// Index maps group keys to their members. It is built once per document and
// never mutated afterwards, so every lookup is scoped to a single group.
type Index struct {
	groups map[string]*Group
	order  []string
}

func newIndex() *Index {
	return &Index{groups: make(map[string]*Group)}
}

// Group returns the group with the given key. Empty keys never match.
func (idx *Index) Group(key string) (*Group, bool) {
	if key == "" {
		return nil, false
	}
	g, ok := idx.groups[key]
	return g, ok
}

// Groups returns the group keys in document order.
func (idx *Index) Groups() []string {
	out := make([]string, len(idx.order))
	copy(out, idx.order)
	return out
}

// Len returns the number of groups.
func (idx *Index) Len() int {
	return len(idx.order)
}

// group returns the group for key, creating it on first use.
func (idx *Index) group(key string) *Group {
	g, ok := idx.groups[key]
	if !ok {
		g = &Group{Key: key}
		idx.groups[key] = g
		idx.order = append(idx.order, key)
	}
	return g
}

// addLink registers a link and returns its id. Links without an id, or
// whose id is already taken in the group, get a generated one derived from
// the group key and their position, so the first link keeps a duplicated id.
func (idx *Index) addLink(group, id, target string) string {
	g := idx.group(group)
	if _, taken := g.Link(id); id == "" || taken {
		for n := len(g.Links); ; n++ {
			id = fmt.Sprintf("%s-link-%d", group, n)
			if _, taken := g.Link(id); !taken {
				break
			}
		}
	}
	g.Links = append(g.Links, Link{ID: id, Group: group, Target: target})
	return id
}

func (idx *Index) addPane(group, id string) {
	g := idx.group(group)
	g.Panes = append(g.Panes, Pane{ID: id, Group: group})
}

// Reduce folds a click into s and returns the new state. It never modifies
// s. When the click cannot be resolved inside its group, s is returned
// unchanged together with the reason.
func Reduce(idx *Index, s State, c Click) (State, error) {
	g, ok := idx.Group(c.Group)
	if !ok {
		return s, fmt.Errorf("%w: %q", ErrUnknownGroup, c.Group)
	}
	link, ok := g.Link(c.Link)
	if !ok {
		return s, fmt.Errorf("%w: %q in group %q", ErrUnknownLink, c.Link, g.Key)
	}
	pane, ok := g.Pane(link.Target)
	if !ok {
		return s, fmt.Errorf("%w: %q in group %q", ErrPaneNotFound, link.Target, g.Key)
	}

	next := s.Clone()
	next[g.Key] = Active{Link: link.ID, Pane: pane.ID}
	return next, nil
}

// Sanitize drops entries of s that no longer resolve against idx, e.g. a
// stored selection for a pane that was removed from the document.
func Sanitize(idx *Index, s State) State {
	out := make(State, len(s))
	for key, act := range s {
		g, ok := idx.Group(key)
		if !ok {
			continue
		}
		link, ok := g.Link(act.Link)
		if !ok || link.Target != act.Pane {
			continue
		}
		if _, ok := g.Pane(act.Pane); !ok {
			continue
		}
		out[key] = act
	}
	return out
}
