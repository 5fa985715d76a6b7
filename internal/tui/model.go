// Package tui is the terminal storefront: a collection listing with price
// and sort filters, product pages and the incremental search surface.
package tui

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/cloo-solutions/storefront/internal/api"
	"github.com/cloo-solutions/storefront/internal/collection"
	"github.com/cloo-solutions/storefront/internal/domain"
	"github.com/cloo-solutions/storefront/internal/i18n"
	"github.com/cloo-solutions/storefront/internal/widget"
)

// Pages loads the storefront pages the browser shows.
type Pages interface {
	Collection(ctx context.Context, query url.Values) (*api.CollectionResponse, error)
	Product(ctx context.Context, slug string) (*api.ProductDetailResponse, error)
}

type Config struct {
	Locale   string
	Pages    Pages
	Searcher widget.Searcher
	Feedback widget.FeedbackRecorder // optional
	Messages *i18n.Catalog
	Filters  url.Values // initial collection query
	Delay    time.Duration
	Timeout  time.Duration
	Logger   *zap.Logger
}

type changeMsg struct{}

type collectionMsg struct {
	seq  int
	page *api.CollectionResponse
	err  error
}

type productMsg struct {
	seq  int
	page *api.ProductDetailResponse
	err  error
}

// Model is the bubbletea model of the browser.
type Model struct {
	cfg     Config
	styles  Styles
	history *History
	filters *collection.Controller
	search  *widget.Widget

	changes   chan struct{}
	closeOnce sync.Once

	input   textinput.Model
	spinner spinner.Model

	width   int
	cursor  int
	page    pageKind
	loading bool
	loadSeq int
	err     error

	collection *api.CollectionResponse
	product    *api.ProductDetailResponse
}

func New(cfg Config) *Model {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Messages == nil {
		cfg.Messages = i18n.MustLoadCatalog()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = widget.DefaultTimeout
	}
	cfg.Locale = i18n.Normalize(cfg.Locale)

	start := &url.URL{
		Path:     "/" + cfg.Locale + "/collection",
		RawQuery: collection.ParseSelection(cfg.Filters).Values().Encode(),
	}

	m := &Model{
		cfg:     cfg,
		styles:  DefaultStyles(),
		history: NewHistory(start),
		changes: make(chan struct{}, 1),
	}
	m.filters = collection.NewController(m.history, start)
	m.search = widget.New(widget.Config{
		Locale:    cfg.Locale,
		Searcher:  cfg.Searcher,
		Navigator: m.history,
		Feedback:  cfg.Feedback,
		Delay:     cfg.Delay,
		Timeout:   cfg.Timeout,
		OnChange:  m.signal,
		Logger:    cfg.Logger,
	})

	m.input = textinput.New()
	m.input.Placeholder = m.t("search.placeholder")
	m.input.CharLimit = 100

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot

	return m
}

// Close shuts the search surface down. Call it after the program exits.
func (m *Model) Close() {
	m.closeOnce.Do(func() {
		m.search.Shutdown()
		close(m.changes)
	})
}

// signal is the widget change callback. It never blocks; pending changes
// coalesce into one message.
func (m *Model) signal() {
	select {
	case m.changes <- struct{}{}:
	default:
	}
}

func (m *Model) waitForChange() tea.Cmd {
	ch := m.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changeMsg{}
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForChange(), m.load(), m.spinner.Tick)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-8, 10)
		return m, nil

	case changeMsg:
		cmd := m.applyFocus()
		m.clampCursor(len(m.search.State().Results))
		return m, tea.Batch(cmd, m.waitForChange())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case collectionMsg:
		if msg.seq != m.loadSeq {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.cfg.Logger.Warn("failed to load collection", zap.Error(msg.err))
			return m, nil
		}
		m.collection = msg.page
		return m, nil

	case productMsg:
		if msg.seq != m.loadSeq {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.cfg.Logger.Warn("failed to load product", zap.Error(msg.err))
			return m, nil
		}
		m.product = msg.page
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.search.State().Open {
			return m.updateSearch(msg)
		}
		return m.updatePage(msg)
	}

	return m, nil
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.search.Close()
		m.input.Blur()
		m.input.Reset()
		m.cursor = 0
		return m, nil
	case "up":
		m.moveCursor(-1, len(m.search.State().Results))
		return m, nil
	case "down":
		m.moveCursor(1, len(m.search.State().Results))
		return m, nil
	case "enter":
		if !m.search.Select(m.cursor) {
			return m, nil
		}
		m.input.Blur()
		m.input.Reset()
		return m, m.load()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.search.Input(m.input.Value())
	return m, cmd
}

func (m *Model) updatePage(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.search.Open()
		m.input.Reset()
		m.cursor = 0
		return m, m.applyFocus()
	case "up", "k":
		m.moveCursor(-1, len(m.listed()))
		return m, nil
	case "down", "j":
		m.moveCursor(1, len(m.listed()))
		return m, nil
	case "enter":
		items := m.listed()
		if m.cursor >= len(items) {
			return m, nil
		}
		m.history.Navigate(widget.ProductPath(m.cfg.Locale, url.PathEscape(items[m.cursor].Slug)))
		return m, m.load()
	}

	if m.page == pageCollection {
		switch msg.String() {
		case "p":
			m.filters.Select(collection.SetPrice(nextOf(collection.PriceRanges, m.filters.Selection().Price)))
			return m, m.load()
		case "s":
			m.filters.Select(collection.SetSort(nextOf(collection.SortOrders, m.filters.Selection().Sort)))
			return m, m.load()
		}
		return m, nil
	}

	switch msg.String() {
	case "b", "esc", "backspace":
		if m.history.Back() {
			return m, m.load()
		}
	}
	return m, nil
}

// load fetches the page of the current history entry. Responses to
// superseded loads are dropped.
func (m *Model) load() tea.Cmd {
	m.loadSeq++
	seq := m.loadSeq
	m.loading = true
	m.err = nil
	m.cursor = 0

	u := m.history.Current()
	kind, slug := route(u)
	m.page = kind

	pages, timeout := m.cfg.Pages, m.cfg.Timeout
	if kind == pageProduct {
		m.product = nil
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			page, err := pages.Product(ctx, slug)
			return productMsg{seq: seq, page: page, err: err}
		}
	}

	query := u.Query()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		page, err := pages.Collection(ctx, query)
		return collectionMsg{seq: seq, page: page, err: err}
	}
}

func (m *Model) applyFocus() tea.Cmd {
	if m.search.TakeFocusRequest() {
		return m.input.Focus()
	}
	return nil
}

// listed returns the products the page cursor moves over.
func (m *Model) listed() []api.ProductCard {
	switch {
	case m.page == pageCollection && m.collection != nil:
		return m.collection.Products
	case m.page == pageProduct && m.product != nil:
		return m.product.Related
	}
	return nil
}

func (m *Model) moveCursor(delta, n int) {
	m.cursor += delta
	m.clampCursor(n)
}

func (m *Model) clampCursor(n int) {
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func nextOf[T comparable](all []T, cur T) T {
	for i, v := range all {
		if v == cur {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

func (m *Model) t(key string) string {
	return m.cfg.Messages.T(m.cfg.Locale, key)
}

func (m *Model) View() string {
	var b strings.Builder

	if m.page == pageProduct {
		m.viewProduct(&b)
	} else {
		m.viewCollection(&b)
	}

	st := m.search.State()
	if st.Open {
		b.WriteString("\n")
		b.WriteString(m.viewSearch(st))
		b.WriteString("\n")
		b.WriteString(m.styles.Help.Render(m.t("browse.help_search")))
		return b.String()
	}

	help := "browse.help_collection"
	if m.page == pageProduct {
		help = "browse.help_product"
	}
	b.WriteString(m.styles.Help.Render(m.t(help)))
	return b.String()
}

func (m *Model) viewStatus(b *strings.Builder) bool {
	switch {
	case m.err != nil:
		b.WriteString(m.styles.Error.Render(m.t("browse.failed")))
		b.WriteString("\n")
		return true
	case m.loading:
		b.WriteString(m.spinner.View() + " " + m.t("browse.loading"))
		b.WriteString("\n")
		return true
	}
	return false
}

func (m *Model) viewCollection(b *strings.Builder) {
	b.WriteString(m.styles.Title.Render(m.t("collection.title")))
	if m.collection != nil && !m.loading {
		b.WriteString(" " + m.styles.Subtle.Render(m.collection.Count))
	}
	b.WriteString("\n")

	if m.collection != nil {
		fmt.Fprintf(b, "%s · %s\n\n",
			m.styles.Subtle.Render(selectedLabel(m.collection.PriceOptions)),
			m.styles.Subtle.Render(selectedLabel(m.collection.SortOptions)))
	}

	if m.viewStatus(b) || m.collection == nil {
		return
	}
	if len(m.collection.Products) == 0 {
		b.WriteString(m.styles.Subtle.Render(m.collection.EmptyText))
		b.WriteString("\n")
		return
	}
	m.viewCards(b, m.collection.Products)
}

func (m *Model) viewProduct(b *strings.Builder) {
	if m.viewStatus(b) || m.product == nil {
		return
	}
	p := m.product
	b.WriteString(m.styles.Title.Render(p.Name) + "  " + m.styles.Price.Render(p.PriceFormatted))
	b.WriteString("\n\n")
	if p.Description != "" {
		b.WriteString(p.Description)
		b.WriteString("\n\n")
	}
	b.WriteString(m.styles.Title.Render(p.Pickup.Heading))
	b.WriteString("\n")
	b.WriteString(p.Pickup.Hint)
	b.WriteString("\n")
	if p.Pickup.Phone != "" || p.Pickup.Address != "" {
		b.WriteString(m.styles.Subtle.Render(strings.TrimSpace(p.Pickup.Phone + "  " + p.Pickup.Address)))
		b.WriteString("\n")
	}
	if len(p.Related) > 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.Title.Render(p.RelatedTitle))
		b.WriteString("\n")
		m.viewCards(b, p.Related)
	}
}

func (m *Model) viewCards(b *strings.Builder, cards []api.ProductCard) {
	for i, c := range cards {
		line := c.Name + "  " + m.styles.Price.Render(c.PriceFormatted)
		if i == m.cursor {
			b.WriteString(m.styles.Selected.Render("> " + c.Name))
			b.WriteString("  " + m.styles.Price.Render(c.PriceFormatted))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
}

func (m *Model) viewSearch(st widget.State) string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch st.DisplayPhase() {
	case widget.Typing:
		if utf8.RuneCountInString(strings.TrimSpace(st.Raw)) < domain.MinQueryLength {
			b.WriteString(m.styles.Subtle.Render(m.t("search.hint")))
		}
	case widget.Loading:
		b.WriteString(m.spinner.View() + " " + m.t("search.loading"))
	case widget.Empty:
		b.WriteString(m.styles.Subtle.Render(m.t("search.empty")))
	case widget.Results:
		for i, r := range st.Results {
			if i > 0 {
				b.WriteString("\n")
			}
			price := m.styles.Price.Render(i18n.FormatPrice(m.cfg.Locale, r.Price))
			if i == m.cursor {
				b.WriteString(m.styles.Selected.Render("> "+r.Name) + "  " + price)
			} else {
				b.WriteString("  " + r.Name + "  " + price)
			}
		}
	}

	return m.styles.Search.Render(b.String())
}

func selectedLabel(opts []api.Option) string {
	for _, o := range opts {
		if o.Selected {
			return o.Label
		}
	}
	if len(opts) > 0 {
		return opts[0].Label
	}
	return ""
}
