package service

import (
	"context"

	"github.com/youssefsiam38/admindash"
	"github.com/youssefsiam38/admindash/datatable"
	"github.com/youssefsiam38/admindash/hooks"
)

// linkAction is intentionally a no-op. Over HTTP the edit and delete
// controls are links and forms that send their own request with the row ID,
// so the callback only marks the action as supplied for the permission gate.
func linkAction(datatable.Record) {}

// Users returns one page of the users table.
func (s *Service[TTx]) Users(ctx context.Context, params ListParams) (*TableView, error) {
	users, err := s.client.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return s.table(ctx, hooks.EntityUser, admindash.UserRecords(users), UserColumns(), params)
}

// Products returns one page of the products table.
func (s *Service[TTx]) Products(ctx context.Context, params ListParams) (*TableView, error) {
	products, err := s.client.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return s.table(ctx, hooks.EntityProduct, admindash.ProductRecords(products), s.ProductColumns(), params)
}

func (s *Service[TTx]) table(ctx context.Context, entity string, records []datatable.Record, columns []datatable.Column, params ListParams) (*TableView, error) {
	role, err := s.client.Role(ctx)
	if err != nil {
		return nil, err
	}

	view, err := datatable.Render(records, columns, params.ViewState(), datatable.Options{
		PageSize:    s.pageSize,
		Permissions: admindash.Permissions(role),
		Callbacks:   datatable.Callbacks{OnEdit: linkAction, OnDelete: linkAction},
	})
	if err != nil {
		return nil, err
	}

	return &TableView{
		View:    view,
		Entity:  entity,
		Params:  paramsFromState(view.State),
		IsAdmin: role.IsAdmin(),
	}, nil
}
