package collection

import (
	"net/url"
	"sync"
)

// History replaces the current navigation entry.
type History interface {
	Replace(u *url.URL)
}

// Controller owns the filter state of a collection view. Selecting a filter
// rewrites the current URL in place rather than adding a history entry.
type Controller struct {
	history History

	mu      sync.Mutex
	current *url.URL
}

// NewController creates a Controller starting at current.
func NewController(history History, current *url.URL) *Controller {
	u := *current
	return &Controller{history: history, current: &u}
}

// Selection returns the filter encoded in the current URL.
func (c *Controller) Selection() Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ParseSelection(c.current.Query())
}

// URL returns a copy of the current URL.
func (c *Controller) URL() *url.URL {
	c.mu.Lock()
	defer c.mu.Unlock()
	u := *c.current
	return &u
}

// Select applies change and replaces the history entry with the new URL.
func (c *Controller) Select(change Change) *url.URL {
	c.mu.Lock()
	next := *c.current
	next.RawQuery = Update(c.current.Query(), change).Encode()
	c.current = &next
	c.mu.Unlock()

	u := next
	c.history.Replace(&u)
	return &next
}
