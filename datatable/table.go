package datatable

import (
	"sync"
	"time"

	"github.com/bep/debounce"
)

// DefaultDebounce is the quiet interval after which a search term is applied.
const DefaultDebounce = 300 * time.Millisecond

// TableConfig configures a Table.
type TableConfig struct {
	Columns []Column
	Options Options

	// Debounce is the search quiet interval. Defaults to DefaultDebounce.
	Debounce time.Duration

	// OnChange is called with the fresh view after every applied state change.
	// It runs on the debounce goroutine for searches.
	OnChange func(*View)

	// OnError is called when a render fails after a state change.
	OnError func(error)
}

// Table is a stateful table instance: it owns a ViewState and the current
// record snapshot and re-renders on every state transition.
type Table struct {
	mu       sync.Mutex
	cfg      TableConfig
	records  []Record
	state    ViewState
	view     *View
	pending  *string
	debounce func(f func())
}

// NewTable validates the configuration and renders the initial view.
func NewTable(records []Record, cfg TableConfig) (*Table, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if err := validate(cfg.Columns, cfg.Options.PageSize); err != nil {
		return nil, err
	}

	t := &Table{
		cfg:      cfg,
		records:  records,
		state:    NewViewState(),
		debounce: debounce.New(cfg.Debounce),
	}
	if _, err := t.renderLocked(); err != nil {
		return nil, err
	}
	return t, nil
}

// State returns the current view state.
func (t *Table) State() ViewState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// View returns the last rendered view.
func (t *Table) View() *View {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view
}

// Search buffers term and applies it once input has been quiet for the
// debounce interval. A pending term is discarded when superseded.
func (t *Table) Search(term string) {
	t.mu.Lock()
	t.pending = &term
	t.mu.Unlock()

	t.debounce(t.applyPending)
}

// Flush applies a pending search term immediately.
func (t *Table) Flush() *View {
	// Supersede the scheduled evaluation; applyPending is a no-op once
	// pending has been consumed.
	t.debounce(func() {})
	t.applyPending()
	return t.View()
}

// Pending reports whether a search term is waiting for the debounce interval.
func (t *Table) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending != nil
}

func (t *Table) applyPending() {
	t.mu.Lock()
	if t.pending == nil {
		t.mu.Unlock()
		return
	}
	term := *t.pending
	t.pending = nil
	t.state = t.state.WithSearch(term)
	t.commitLocked()
}

// ToggleSort sorts by key, flipping the direction when key is already sorted.
// Non-sortable and unknown columns are ignored.
func (t *Table) ToggleSort(key string) *View {
	t.mu.Lock()
	if !sortableKey(t.cfg.Columns, key) {
		v := t.view
		t.mu.Unlock()
		return v
	}
	t.state = t.state.ToggleSort(key)
	return t.commitLocked()
}

// GoTo navigates to page, clamped to the available pages.
func (t *Table) GoTo(page int) *View {
	t.mu.Lock()
	total := 1
	if t.view != nil {
		total = t.view.Paging.TotalPages
	}
	t.state = t.state.GoTo(page, total)
	return t.commitLocked()
}

// SetData replaces the record snapshot. The view state is kept; the page is
// clamped on the next render.
func (t *Table) SetData(records []Record) *View {
	t.mu.Lock()
	t.records = records
	return t.commitLocked()
}

// Reset replaces the record snapshot and resets the view state.
func (t *Table) Reset(records []Record) *View {
	t.mu.Lock()
	t.records = records
	t.state = NewViewState()
	t.pending = nil
	return t.commitLocked()
}

// Edit invokes the edit callback with the visible record id.
// It reports whether the callback was invoked.
func (t *Table) Edit(id int64) bool {
	return t.invoke(id, func(a Actions) bool { return a.Edit }, t.cfg.Options.Callbacks.OnEdit)
}

// Delete invokes the delete callback with the visible record id.
// It reports whether the callback was invoked.
func (t *Table) Delete(id int64) bool {
	return t.invoke(id, func(a Actions) bool { return a.Delete }, t.cfg.Options.Callbacks.OnDelete)
}

func (t *Table) invoke(id int64, allowed func(Actions) bool, cb func(Record)) bool {
	t.mu.Lock()
	view := t.view
	t.mu.Unlock()

	if view == nil || !allowed(view.Actions) {
		return false
	}
	for _, row := range view.Rows {
		if row.ID == id {
			cb(row.Record)
			return true
		}
	}
	return false
}

// commitLocked renders with t.mu held, releases the lock and notifies OnChange.
func (t *Table) commitLocked() *View {
	view, err := t.renderLocked()
	t.mu.Unlock()

	if err != nil {
		if t.cfg.OnError != nil {
			t.cfg.OnError(err)
		}
		return nil
	}
	if t.cfg.OnChange != nil {
		t.cfg.OnChange(view)
	}
	return view
}

func (t *Table) renderLocked() (*View, error) {
	view, err := Render(t.records, t.cfg.Columns, t.state, t.cfg.Options)
	if err != nil {
		return nil, err
	}
	t.state = view.State
	t.view = view
	return view, nil
}
