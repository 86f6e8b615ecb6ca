package datatable

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// IDField is the required identifier field of every record.
const IDField = "id"

// Category is a tagged categorical value (a role, a status, a product
// category). It filters and sorts as its text.
type Category string

// String returns the category text.
func (c Category) String() string { return string(c) }

// Record is an open mapping of field name to scalar value.
// Every record carries an integer "id" unique within its collection.
type Record map[string]any

// ID returns the record identifier, or 0 if the field is absent or not an integer.
func (r Record) ID() int64 {
	id, ok := asInt(r[IDField])
	if !ok {
		return 0
	}
	return id
}

// Get returns the value stored under key and whether it is present and non-nil.
func (r Record) Get(key string) (any, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Text converts a cell value to the text used for searching and default display.
// Missing values convert to the empty string.
func Text(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case Category:
		return string(val)
	case time.Time:
		return val.Format(time.DateOnly)
	case fmt.Stringer:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(val)
	}
	if i, ok := asInt(v); ok {
		return strconv.FormatInt(i, 10)
	}
	return fmt.Sprintf("%v", v)
}

// containsFold reports whether the value's text contains term, ignoring case.
// term must already be lower-cased.
func containsFold(v any, term string) bool {
	return strings.Contains(strings.ToLower(Text(v)), term)
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	if i, ok := asInt(v); ok {
		return float64(i), true
	}
	return 0, false
}

// Value kinds in sort order. Values of different kinds compare by kind.
const (
	kindNil = iota
	kindNumber
	kindTime
	kindBool
	kindText
)

func kindOf(v any) int {
	if v == nil {
		return kindNil
	}
	if _, ok := asFloat(v); ok {
		return kindNumber
	}
	switch v.(type) {
	case time.Time:
		return kindTime
	case bool:
		return kindBool
	}
	return kindText
}

// Compare orders two cell values: numerically when both are numbers,
// chronologically for times, false before true for booleans and
// lexicographically otherwise. Values of different kinds order as
// missing, numbers, times, booleans, text, so the ordering stays total
// over heterogeneous records.
func Compare(a, b any) int {
	ka, kb := kindOf(a), kindOf(b)
	if ka != kb {
		if ka < kb {
			return -1
		}
		return 1
	}

	switch ka {
	case kindNil:
		return 0
	case kindNumber:
		fa, _ := asFloat(a)
		fb, _ := asFloat(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case kindTime:
		return a.(time.Time).Compare(b.(time.Time))
	case kindBool:
		ba, bb := a.(bool), b.(bool)
		switch {
		case ba == bb:
			return 0
		case !ba:
			return -1
		}
		return 1
	}
	return strings.Compare(Text(a), Text(b))
}
