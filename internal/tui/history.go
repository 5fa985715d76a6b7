package tui

import (
	"net/url"
	"strings"
	"sync"
)

// History is the in-process navigation stack of the browser. It is the
// widget's Navigator (push) and the collection controller's History (replace).
type History struct {
	mu      sync.Mutex
	entries []*url.URL
}

// NewHistory starts a history at start.
func NewHistory(start *url.URL) *History {
	u := *start
	return &History{entries: []*url.URL{&u}}
}

// Current returns a copy of the current entry.
func (h *History) Current() *url.URL {
	h.mu.Lock()
	defer h.mu.Unlock()
	u := *h.entries[len(h.entries)-1]
	return &u
}

// Len is the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Push adds an entry.
func (h *History) Push(u *url.URL) {
	c := *u
	h.mu.Lock()
	h.entries = append(h.entries, &c)
	h.mu.Unlock()
}

// Replace overwrites the current entry.
func (h *History) Replace(u *url.URL) {
	c := *u
	h.mu.Lock()
	h.entries[len(h.entries)-1] = &c
	h.mu.Unlock()
}

// Navigate pushes a storefront path. Unparseable paths are ignored.
func (h *History) Navigate(path string) {
	u, err := url.Parse(path)
	if err != nil {
		return
	}
	h.Push(u)
}

// Back drops the current entry. The first entry is never dropped.
func (h *History) Back() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) < 2 {
		return false
	}
	h.entries = h.entries[:len(h.entries)-1]
	return true
}

type pageKind int

const (
	pageCollection pageKind = iota
	pageProduct
)

// route maps a storefront URL to the page it shows. Anything that is not a
// product path shows the collection.
func route(u *url.URL) (pageKind, string) {
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) == 3 && parts[1] == "collection" && parts[2] != "" {
		slug, err := url.PathUnescape(parts[2])
		if err != nil {
			slug = parts[2]
		}
		return pageProduct, slug
	}
	return pageCollection, ""
}
