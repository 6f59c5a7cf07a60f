// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package tabs

// Controller owns one document and its tab state. Every click recomputes
// the state with Reduce and re-applies it to the tree; the tree is never
// consulted to decide what a click does.
type Controller struct {
	doc   *Document
	state State
}

// NewController starts from the markup's own marking, overlays the stored
// selections that still resolve against the document, and applies the result.
func NewController(doc *Document, stored State) *Controller {
	state := doc.Initial()
	for key, act := range Sanitize(doc.Index(), stored) {
		state[key] = act
	}
	doc.Apply(state)
	return &Controller{doc: doc, state: state}
}

// Click handles one link activation. When the click does not resolve, the
// document and state are left untouched and the reason is returned.
func (c *Controller) Click(click Click) error {
	next, err := Reduce(c.doc.Index(), c.state, click)
	if err != nil {
		return err
	}
	c.state = next
	c.doc.Apply(next)
	return nil
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	return c.state.Clone()
}

// Render serializes the controlled document.
func (c *Controller) Render() ([]byte, error) {
	return c.doc.Render()
}
