package datatable

import (
	"sort"
	"strings"
)

// NoDataText is the text of the placeholder row rendered for an empty result.
const NoDataText = "No data found"

// Formatter converts a cell value into its display representation.
// It must be pure; rec is the whole record the value belongs to.
type Formatter func(value any, rec Record) any

// Column describes one table column. Column order drives layout.
type Column struct {
	// Key is the record field shown in this column (required).
	Key string
	// Label is the header text.
	Label string
	// NotSortable disables sorting on this column. Columns sort by default.
	NotSortable bool
	// Render overrides the default stringify formatter.
	Render Formatter
}

// Sortable reports whether the column can be sorted.
func (c Column) Sortable() bool {
	return !c.NotSortable
}

func (c Column) display(rec Record) any {
	v := rec[c.Key]
	if c.Render != nil {
		return c.Render(v, rec)
	}
	return Text(v)
}

// Permissions gate the row action controls.
type Permissions struct {
	CanEdit   bool
	CanDelete bool
}

// Callbacks receive the selected whole record. They are fire-and-forget;
// the engine never observes their outcome.
type Callbacks struct {
	OnEdit   func(Record)
	OnDelete func(Record)
}

// Options configure a render pass.
type Options struct {
	PageSize    int
	Permissions Permissions
	Callbacks   Callbacks
}

// Actions reports which row actions are exposed. An action is shown only when
// its permission flag is set and its callback was supplied.
type Actions struct {
	Edit   bool
	Delete bool
}

// ShowColumn reports whether the actions column is shown.
func (a Actions) ShowColumn() bool {
	return a.Edit || a.Delete
}

func (o Options) actions() Actions {
	return Actions{
		Edit:   o.Permissions.CanEdit && o.Callbacks.OnEdit != nil,
		Delete: o.Permissions.CanDelete && o.Callbacks.OnDelete != nil,
	}
}

// HeaderCell is a rendered column header.
type HeaderCell struct {
	Key      string
	Label    string
	Sortable bool
	Sorted   bool
	Icon     string
}

// Cell is a rendered body cell.
type Cell struct {
	Key     string
	Label   string
	Value   any
	Display any
}

// Row is a rendered body row.
type Row struct {
	ID     int64
	Record Record
	Cells  []Cell
}

// Paging describes the pagination controls.
type Paging struct {
	CurrentPage int
	TotalPages  int
	PageSize    int
	// TotalCount is the number of records after filtering.
	TotalCount int
	// Showing is the number of rows on the current page.
	Showing  int
	HasPrev  bool
	HasNext  bool
	Disabled bool
}

// View is the output of a render pass.
type View struct {
	Columns []HeaderCell
	Rows    []Row
	// Empty is set when no record survived filtering; a single placeholder
	// row spanning ColSpan columns should be shown instead of Rows.
	Empty   bool
	ColSpan int
	Actions Actions
	Paging  Paging
	// State is the input state with the page clamped.
	State ViewState
}

// Filter keeps the records where at least one column's text contains term,
// ignoring case. An empty term keeps everything. Missing values never match.
func Filter(records []Record, columns []Column, term string) []Record {
	if term == "" {
		return records
	}
	term = strings.ToLower(term)

	out := make([]Record, 0, len(records))
	for _, rec := range records {
		for _, col := range columns {
			v, ok := rec.Get(col.Key)
			if !ok {
				continue
			}
			if containsFold(v, term) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// Sort returns a stably sorted copy of records. The input is not modified.
func Sort(records []Record, state SortState) []Record {
	if !state.IsSorted() {
		return records
	}
	sorted := make([]Record, len(records))
	copy(sorted, records)

	sort.SliceStable(sorted, func(i, j int) bool {
		c := Compare(sorted[i][state.Key], sorted[j][state.Key])
		if state.Direction == Descending {
			return c > 0
		}
		return c < 0
	})
	return sorted
}

// Paginate returns the records of page (1-based) after clamping it.
func Paginate(records []Record, page, pageSize int) []Record {
	if pageSize <= 0 {
		return nil
	}
	page = ClampPage(page, TotalPages(len(records), pageSize))
	start := (page - 1) * pageSize
	if start >= len(records) {
		return nil
	}
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

// Render runs filter, sort and paginate, in that order, and builds the view.
// It fails with a *ConfigurationError for a non-positive page size or a
// column without a key.
func Render(records []Record, columns []Column, state ViewState, opts Options) (*View, error) {
	if err := validate(columns, opts.PageSize); err != nil {
		return nil, err
	}

	// An unsortable or unknown sort key is ignored rather than rejected.
	if state.Sort.IsSorted() && !sortableKey(columns, state.Sort.Key) {
		state.Sort = SortState{}
	}

	filtered := Filter(records, columns, state.SearchTerm)
	sorted := Sort(filtered, state.Sort)

	total := TotalPages(len(sorted), opts.PageSize)
	state.CurrentPage = ClampPage(state.CurrentPage, total)
	page := Paginate(sorted, state.CurrentPage, opts.PageSize)

	actions := opts.actions()
	view := &View{
		Columns: make([]HeaderCell, len(columns)),
		Rows:    make([]Row, 0, len(page)),
		Empty:   len(sorted) == 0,
		ColSpan: len(columns),
		Actions: actions,
		State:   state,
		Paging: Paging{
			CurrentPage: state.CurrentPage,
			TotalPages:  total,
			PageSize:    opts.PageSize,
			TotalCount:  len(sorted),
			Showing:     len(page),
			HasPrev:     state.CurrentPage > 1,
			HasNext:     state.CurrentPage < total,
			Disabled:    len(sorted) == 0 || total <= 1,
		},
	}
	if actions.ShowColumn() {
		view.ColSpan++
	}

	for i, col := range columns {
		view.Columns[i] = HeaderCell{
			Key:      col.Key,
			Label:    col.Label,
			Sortable: col.Sortable(),
			Sorted:   state.Sort.Key == col.Key,
		}
		if col.Sortable() {
			view.Columns[i].Icon = state.Sort.Icon(col.Key)
		}
	}

	for _, rec := range page {
		row := Row{ID: rec.ID(), Record: rec, Cells: make([]Cell, len(columns))}
		for i, col := range columns {
			row.Cells[i] = Cell{
				Key:     col.Key,
				Label:   col.Label,
				Value:   rec[col.Key],
				Display: col.display(rec),
			}
		}
		view.Rows = append(view.Rows, row)
	}

	return view, nil
}

func sortableKey(columns []Column, key string) bool {
	for _, col := range columns {
		if col.Key == key {
			return col.Sortable()
		}
	}
	return false
}

// Find returns the record with the given id.
func Find(records []Record, id int64) (Record, bool) {
	for _, rec := range records {
		if rec.ID() == id {
			return rec, true
		}
	}
	return nil, false
}
