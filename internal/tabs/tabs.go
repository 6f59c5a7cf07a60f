// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package tabs keeps code-tab groups in sync. A document body is parsed once
// into a Document whose Index maps every group key to its nav links and tab
// panes. Clicks are folded into a State by the pure Reduce function and the
// resulting State is written back into the HTML tree by Document.Apply.
package tabs

import "errors"

// Markup contract shared with the markdown content.
const (
	LinkClass   = "nav-link"
	PaneClass   = "tab-pane"
	ActiveClass = "active"
	GroupAttr   = "data-group"
	TargetAttr  = "data-tab"
)

var (
	// ErrUnknownGroup is returned when a click names a group the page does not have.
	ErrUnknownGroup = errors.New("tabs: unknown group")
	// ErrUnknownLink is returned when the clicked link is not a member of the group.
	ErrUnknownLink = errors.New("tabs: unknown link")
	// ErrPaneNotFound is returned when the link's target pane is not in the group.
	ErrPaneNotFound = errors.New("tabs: target pane not found")
)

// Link is a nav link that activates one pane of its group.
type Link struct {
	ID     string
	Group  string
	Target string // id of the pane this link activates
}

// Pane is a tab pane. ID may be empty for panes no link can reference.
type Pane struct {
	ID    string
	Group string
}

// Group is the ordered set of links and panes sharing a group key.
type Group struct {
	Key   string
	Links []Link
	Panes []Pane
}

// Link returns the member link with the given id.
func (g *Group) Link(id string) (Link, bool) {
	for _, l := range g.Links {
		if l.ID == id {
			return l, true
		}
	}
	return Link{}, false
}

// Pane returns the member pane with the given id. Empty ids never match.
func (g *Group) Pane(id string) (Pane, bool) {
	if id == "" {
		return Pane{}, false
	}
	for _, p := range g.Panes {
		if p.ID == id {
			return p, true
		}
	}
	return Pane{}, false
}

// Active is the selected link/pane pair of one group.
type Active struct {
	Link string `json:"link"`
	Pane string `json:"pane"`
}

// State maps a group key to its active pair. Groups without an entry keep
// whatever marking the markup carries.
type State map[string]Active

// Clone returns a copy of s that can be modified without affecting s.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Click is a single activation of a nav link.
type Click struct {
	Group string `json:"group"`
	Link  string `json:"link"`
}
