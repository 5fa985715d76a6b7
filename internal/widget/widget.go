// Package widget implements the incremental product search surface as a
// UI-independent state machine. Keystrokes are debounced, each committed
// query issues at most one request, and only the response to the latest
// request is ever shown.
package widget

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/cloo-solutions/storefront/internal/debounce"
	"github.com/cloo-solutions/storefront/internal/domain"
	"github.com/cloo-solutions/storefront/internal/i18n"
)

const (
	DefaultDelay   = 300 * time.Millisecond
	DefaultTimeout = 10 * time.Second
)

// Phase is the lifecycle state of the search surface.
type Phase int

const (
	Idle Phase = iota
	Typing
	Loading
	Empty
	Results
	Error
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Typing:
		return "typing"
	case Loading:
		return "loading"
	case Empty:
		return "empty"
	case Results:
		return "results"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Display maps a phase to what the shopper sees. A failed search looks
// exactly like a search without matches.
func (p Phase) Display() Phase {
	if p == Error {
		return Empty
	}
	return p
}

// Response is one answer from the search backend.
type Response struct {
	Results  []domain.SearchResult
	SearchID string
}

// Searcher queries the search backend.
type Searcher interface {
	Search(ctx context.Context, query string) (*Response, error)
}

// Navigator moves the shopper to another page.
type Navigator interface {
	Navigate(path string)
}

// FeedbackRecorder is told which result of a logged search was picked.
type FeedbackRecorder interface {
	RecordSelection(ctx context.Context, searchID, selectedID string) error
}

type Config struct {
	Locale    string
	Searcher  Searcher
	Navigator Navigator
	Feedback  FeedbackRecorder // optional
	Delay     time.Duration    // 0 means DefaultDelay
	Timeout   time.Duration    // per request, 0 means DefaultTimeout
	OnChange  func()           // called after every state change, from any goroutine
	Logger    *zap.Logger
}

// State is a snapshot of the search surface.
type State struct {
	Open      bool
	Raw       string
	Debounced string
	Results   []domain.SearchResult
	Phase     Phase
}

// DisplayPhase is the phase to render.
func (s State) DisplayPhase() Phase {
	return s.Phase.Display()
}

// Widget is safe for concurrent use. Methods are meant to be called from a
// single UI goroutine; timers and requests report back from their own.
type Widget struct {
	cfg       Config
	debouncer *debounce.Debouncer[string]

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	open      bool
	raw       string
	debounced string
	results   []domain.SearchResult
	phase     Phase
	settled   Phase // phase of the current debounced value
	searchID  string
	seq       uint64
	focus     bool
}

func New(cfg Config) *Widget {
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	cfg.Locale = i18n.Normalize(cfg.Locale)

	ctx, cancel := context.WithCancel(context.Background())
	w := &Widget{cfg: cfg, ctx: ctx, cancel: cancel}
	w.debouncer = debounce.New(cfg.Delay, w.commit)
	return w
}

// Open resets the query and results, enters Typing and requests input focus.
func (w *Widget) Open() {
	w.debouncer.Cancel()

	w.mu.Lock()
	w.open = true
	w.reset()
	w.phase = Typing
	w.focus = true
	w.mu.Unlock()

	w.notify()
}

// Close discards the query, the pending debounce and any in-flight response.
func (w *Widget) Close() {
	w.debouncer.Cancel()

	w.mu.Lock()
	w.open = false
	w.reset()
	w.mu.Unlock()

	w.notify()
}

// reset clears the session and invalidates in-flight requests. w.mu must be held.
func (w *Widget) reset() {
	w.raw = ""
	w.debounced = ""
	w.results = nil
	w.searchID = ""
	w.phase = Idle
	w.settled = Typing
	w.seq++
}

// Input records the current text of the search field.
func (w *Widget) Input(text string) {
	w.mu.Lock()
	if !w.open || text == w.raw {
		w.mu.Unlock()
		return
	}
	w.raw = text
	w.phase = Typing
	w.mu.Unlock()

	w.debouncer.Push(text)
	w.notify()
}

// commit runs on the debouncer goroutine once the input has been stable.
func (w *Widget) commit(value string) {
	query := strings.TrimSpace(value)

	w.mu.Lock()
	if !w.open {
		w.mu.Unlock()
		return
	}
	if value == w.debounced {
		w.phase = w.settled
		w.mu.Unlock()
		w.notify()
		return
	}
	w.debounced = value
	w.seq++
	seq := w.seq

	if utf8.RuneCountInString(query) < domain.MinQueryLength {
		w.results = nil
		w.searchID = ""
		w.phase = Typing
		w.settled = Typing
		w.mu.Unlock()
		w.notify()
		return
	}

	w.phase = Loading
	w.settled = Loading
	w.wg.Add(1)
	w.mu.Unlock()
	w.notify()

	go w.fetch(seq, query)
}

func (w *Widget) fetch(seq uint64, query string) {
	defer w.wg.Done()

	ctx, cancel := context.WithTimeout(w.ctx, w.cfg.Timeout)
	defer cancel()

	resp, err := w.cfg.Searcher.Search(ctx, query)

	w.mu.Lock()
	if seq != w.seq || !w.open {
		w.mu.Unlock()
		w.cfg.Logger.Debug("discarding stale search response", zap.String("query", query), zap.Uint64("seq", seq))
		return
	}

	switch {
	case err != nil:
		w.cfg.Logger.Warn("search failed", zap.String("query", query), zap.Error(err))
		w.results = nil
		w.searchID = ""
		w.settled = Error
	case len(resp.Results) == 0:
		w.results = nil
		w.searchID = resp.SearchID
		w.settled = Empty
	default:
		results := resp.Results
		if len(results) > domain.MaxSearchResults {
			results = results[:domain.MaxSearchResults]
		}
		w.results = append([]domain.SearchResult(nil), results...)
		w.searchID = resp.SearchID
		w.settled = Results
	}
	// Input typed since the commit keeps the surface in Typing.
	if w.raw == w.debounced {
		w.phase = w.settled
	}
	w.mu.Unlock()

	w.notify()
}

// Select navigates to the i-th result and closes the surface. It reports
// false when there is no such result.
func (w *Widget) Select(i int) bool {
	w.mu.Lock()
	if w.phase != Results || i < 0 || i >= len(w.results) {
		w.mu.Unlock()
		return false
	}
	picked := w.results[i]
	searchID := w.searchID
	w.open = false
	w.reset()
	w.mu.Unlock()

	w.debouncer.Cancel()

	if w.cfg.Navigator != nil {
		w.cfg.Navigator.Navigate(ProductPath(w.cfg.Locale, picked.Slug))
	}
	if w.cfg.Feedback != nil && searchID != "" {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			ctx, cancel := context.WithTimeout(w.ctx, w.cfg.Timeout)
			defer cancel()
			if err := w.cfg.Feedback.RecordSelection(ctx, searchID, picked.ID); err != nil {
				w.cfg.Logger.Debug("failed to record search selection", zap.Error(err))
			}
		}()
	}

	w.notify()
	return true
}

// State returns a snapshot of the current state.
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return State{
		Open:      w.open,
		Raw:       w.raw,
		Debounced: w.debounced,
		Results:   append([]domain.SearchResult(nil), w.results...),
		Phase:     w.phase,
	}
}

// TakeFocusRequest reports whether Open asked for input focus since the
// last call.
func (w *Widget) TakeFocusRequest() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	focus := w.focus
	w.focus = false
	return focus
}

// Shutdown stops the debouncer, cancels in-flight requests and waits for
// their goroutines to exit. The widget is unusable afterwards.
func (w *Widget) Shutdown() {
	w.debouncer.Stop()
	w.cancel()
	w.wg.Wait()
}

func (w *Widget) notify() {
	if w.cfg.OnChange != nil {
		w.cfg.OnChange()
	}
}

// ProductPath is the storefront route of a product.
func ProductPath(locale, slug string) string {
	return "/" + i18n.Normalize(locale) + "/collection/" + slug
}
