// Package datatable turns a collection of records into a searchable, sortable,
// paginated view.
//
// The engine is a pure pipeline: records are filtered by the search term,
// stably sorted by a single column and sliced into a page. Nothing in this
// package mutates a record; edit and delete actions are delegated to
// caller-supplied callbacks and are only exposed when both the permission
// flag is set and the callback is present.
//
// # Usage
//
//	columns := []datatable.Column{
//	    {Key: "id", Label: "ID"},
//	    {Key: "name", Label: "Name"},
//	    {Key: "price", Label: "Price", Render: func(v any, _ datatable.Record) any {
//	        return fmt.Sprintf("$%.2f", v)
//	    }},
//	}
//
//	view, err := datatable.Render(records, columns, datatable.ViewState{CurrentPage: 1}, datatable.Options{
//	    PageSize:    10,
//	    Permissions: datatable.Permissions{CanEdit: isAdmin, CanDelete: isAdmin},
//	    Callbacks:   datatable.Callbacks{OnEdit: openEditor},
//	})
//
// # Stateful tables
//
// [Table] owns a [ViewState] and debounces search input: only the most recent
// term is applied once the input has been quiet for [DefaultDebounce].
package datatable
