package admindash

import (
	"fmt"
	"math"
	"net/mail"
	"slices"
	"strings"

	"github.com/youssefsiam38/admindash/storage"
)

// User and Product are the stored dashboard records.
type (
	User          = storage.User
	Product       = storage.Product
	ActivityEvent = storage.ActivityEvent
)

// Account roles of a User. These are data, unrelated to the viewer Role.
const (
	UserRoleAdmin   = "Admin"
	UserRoleEditor  = "Editor"
	UserRoleViewer  = "Viewer"
	UserRoleManager = "Manager"
)

// User statuses.
const (
	UserStatusActive   = "Active"
	UserStatusInactive = "Inactive"
	UserStatusPending  = "Pending"
)

// Product categories.
const (
	CategoryElectronics = "Electronics"
	CategoryAccessories = "Accessories"
	CategoryAudio       = "Audio"
	CategoryComputing   = "Computing"
	CategoryMobile      = "Mobile"
	CategoryOffice      = "Office"
)

// Product stock statuses.
const (
	StockIn  = "In Stock"
	StockLow = "Low Stock"
	StockOut = "Out of Stock"
)

// LowStockThreshold is the stock level below which a product is low on stock.
const LowStockThreshold = 20

var (
	UserRoles         = []string{UserRoleAdmin, UserRoleEditor, UserRoleViewer, UserRoleManager}
	UserStatuses      = []string{UserStatusActive, UserStatusInactive, UserStatusPending}
	ProductCategories = []string{CategoryElectronics, CategoryAccessories, CategoryAudio, CategoryComputing, CategoryMobile, CategoryOffice}
)

// StockStatusFor derives a product status from its stock level.
func StockStatusFor(stock int) string {
	switch {
	case stock <= 0:
		return StockOut
	case stock < LowStockThreshold:
		return StockLow
	default:
		return StockIn
	}
}

// UserInput holds the editable fields of a user. On update, empty fields
// keep their current value.
type UserInput struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// ProductInput holds the editable fields of a product. On update, empty
// strings and nil numbers keep their current value. The stock status is
// always derived from Stock.
type ProductInput struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
}

func (in UserInput) apply(u *User) {
	if s := strings.TrimSpace(in.Name); s != "" {
		u.Name = s
	}
	if s := strings.TrimSpace(in.Email); s != "" {
		u.Email = s
	}
	if in.Role != "" {
		u.Role = in.Role
	}
	if in.Status != "" {
		u.Status = in.Status
	}
}

func (in ProductInput) apply(p *Product) {
	if s := strings.TrimSpace(in.Name); s != "" {
		p.Name = s
	}
	if in.Category != "" {
		p.Category = in.Category
	}
	if in.Description != "" {
		p.Description = in.Description
	}
	if in.Price != nil {
		p.Price = math.Round(*in.Price*100) / 100
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	p.Status = StockStatusFor(p.Stock)
}

// ValidationError lists the invalid fields of an input.
// It matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return fmt.Sprintf("%v: %s", ErrInvalidInput, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

type validator map[string]string

func (v validator) check(ok bool, field, msg string) {
	if !ok {
		if _, seen := v[field]; !seen {
			v[field] = msg
		}
	}
}

func (v validator) err() error {
	if len(v) == 0 {
		return nil
	}
	return &ValidationError{Fields: v}
}

func validateUser(u *User) error {
	v := validator{}
	v.check(u.Name != "", "name", "is required")
	v.check(u.Email != "", "email", "is required")
	if u.Email != "" {
		addr, err := mail.ParseAddress(u.Email)
		v.check(err == nil && addr.Address == u.Email, "email", "is not a valid address")
	}
	v.check(slices.Contains(UserRoles, u.Role), "role", "must be one of "+strings.Join(UserRoles, ", "))
	v.check(slices.Contains(UserStatuses, u.Status), "status", "must be one of "+strings.Join(UserStatuses, ", "))
	return v.err()
}

func validateProduct(p *Product) error {
	v := validator{}
	v.check(p.Name != "", "name", "is required")
	v.check(slices.Contains(ProductCategories, p.Category), "category", "must be one of "+strings.Join(ProductCategories, ", "))
	v.check(!math.IsNaN(p.Price) && !math.IsInf(p.Price, 0) && p.Price >= 0, "price", "must be a non-negative number")
	v.check(p.Stock >= 0, "stock", "must not be negative")
	return v.err()
}
