// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package locale

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Markup contract of the language switch in the site header.
const (
	// Placeholder is the no-op href that marks the switch anchor.
	Placeholder = "javascript:(0);"
	// WrapperClass is the class of the header navigation wrapper.
	WrapperClass = "navigationWrapper"
	// SiteNavClass is the class of the <ul> holding the site links.
	SiteNavClass = "nav-site"
)

// Bind points every placeholder anchor inside the header's site navigation
// at the switch endpoint for the page at from. Anchors outside
// ".navigationWrapper ul.nav-site" are left alone. It returns the number of
// anchors bound.
func Bind(root *html.Node, from string) int {
	target := SwitchURL(from)
	bound := 0
	for _, wrapper := range findAll(root, func(n *html.Node) bool { return hasClass(n, WrapperClass) }) {
		for _, nav := range findAll(wrapper, func(n *html.Node) bool {
			return n.DataAtom == atom.Ul && hasClass(n, SiteNavClass)
		}) {
			for _, a := range findAll(nav, func(n *html.Node) bool { return n.DataAtom == atom.A }) {
				if attr(a, "href") != Placeholder || attr(a, "data-locale-bound") != "" {
					continue
				}
				setAttr(a, "href", target)
				setAttr(a, "data-locale-bound", "true")
				bound++
			}
		}
	}
	return bound
}

// BindHTML parses a complete page, binds its language switch and renders
// it back.
func BindHTML(page []byte, from string) ([]byte, int, error) {
	root, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, 0, fmt.Errorf("parse page: %w", err)
	}
	n := Bind(root, from)

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return nil, 0, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), n, nil
}

// findAll returns the element descendants of n (excluding n) matching ok,
// in document order.
func findAll(n *html.Node, ok func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && ok(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
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
