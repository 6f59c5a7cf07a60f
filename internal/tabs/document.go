// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package tabs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed HTML body fragment together with the index of its
// tab groups. Node slices are parallel to the Links and Panes of each Group.
type Document struct {
	nodes []*html.Node
	index *Index
	links map[string][]*html.Node
	panes map[string][]*html.Node
}

// Parse parses an HTML body fragment and indexes its tab groups.
func Parse(r io.Reader) (*Document, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, body)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}

	d := &Document{
		nodes: nodes,
		index: newIndex(),
		links: make(map[string][]*html.Node),
		panes: make(map[string][]*html.Node),
	}
	for _, n := range nodes {
		d.walk(n)
	}
	return d, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func (d *Document) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		if group := attr(n, GroupAttr); group != "" {
			switch {
			case hasClass(n, LinkClass):
				id := d.index.addLink(group, attr(n, "id"), attr(n, TargetAttr))
				setAttr(n, "id", id)
				d.links[group] = append(d.links[group], n)
			case hasClass(n, PaneClass):
				d.index.addPane(group, attr(n, "id"))
				d.panes[group] = append(d.panes[group], n)
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.walk(c)
	}
}

// Index returns the document's group index.
func (d *Document) Index() *Index {
	return d.index
}

// Initial returns the active marking carried by the markup: the first active
// link and the first active pane of every group that has one.
func (d *Document) Initial() State {
	s := make(State)
	for _, key := range d.index.order {
		g := d.index.groups[key]
		var act Active
		for i, n := range d.links[key] {
			if hasClass(n, ActiveClass) {
				act.Link = g.Links[i].ID
				break
			}
		}
		for i, n := range d.panes[key] {
			if hasClass(n, ActiveClass) && g.Panes[i].ID != "" {
				act.Pane = g.Panes[i].ID
				break
			}
		}
		if act.Link != "" || act.Pane != "" {
			s[key] = act
		}
	}
	return s
}

// Apply writes s into the tree. For every group in s, all links and panes
// lose their active marking and the selected pair regains it. Only the
// first element carrying a selected id is marked. Groups that are not in s,
// or not in the document, are left alone.
func (d *Document) Apply(s State) {
	for key, act := range s {
		g, ok := d.index.Group(key)
		if !ok {
			continue
		}
		marked := false
		for i, n := range d.links[key] {
			on := !marked && act.Link != "" && g.Links[i].ID == act.Link
			marked = marked || on
			setClass(n, ActiveClass, on)
		}
		marked = false
		for i, n := range d.panes[key] {
			on := !marked && act.Pane != "" && g.Panes[i].ID == act.Pane
			marked = marked || on
			setClass(n, ActiveClass, on)
		}
	}
}

// Binding describes where link clicks are delivered.
type Binding struct {
	Endpoint string // URL the click is posted to
	Page     string // page key sent with every click
	Target   string // CSS selector of the element replaced by the response
}

// Bind annotates every indexed link with htmx attributes that post the
// click to b.Endpoint. It is the server-side equivalent of registering a
// click listener on each link.
func (d *Document) Bind(b Binding) error {
	for _, key := range d.index.order {
		g := d.index.groups[key]
		for i, n := range d.links[key] {
			vals, err := json.Marshal(map[string]string{
				"page":  b.Page,
				"group": key,
				"link":  g.Links[i].ID,
			})
			if err != nil {
				return fmt.Errorf("encode click values: %w", err)
			}
			setAttr(n, "hx-post", b.Endpoint)
			setAttr(n, "hx-vals", string(vals))
			if b.Target != "" {
				setAttr(n, "hx-target", b.Target)
				setAttr(n, "hx-swap", "outerHTML")
			}
		}
	}
	return nil
}

// Render serializes the fragment back to HTML.
func (d *Document) Render() ([]byte, error) {
	var buf bytes.Buffer
	for _, n := range d.nodes {
		if err := html.Render(&buf, n); err != nil {
			return nil, fmt.Errorf("render fragment: %w", err)
		}
	}
	return buf.Bytes(), nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// setClass adds or removes class on n, keeping the other classes in order.
func setClass(n *html.Node, class string, on bool) {
	fields := strings.Fields(attr(n, "class"))
	out := fields[:0]
	for _, c := range fields {
		if c != class {
			out = append(out, c)
		}
	}
	if on {
		out = append(out, class)
	}
	setAttr(n, "class", strings.Join(out, " "))
}
