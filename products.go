package admindash

import (
	"context"
	"fmt"

	"github.com/youssefsiam38/admindash/hooks"
)

// ListProducts returns all products ordered by ID.
func (c *Client[TTx]) ListProducts(ctx context.Context) ([]*Product, error) {
	products, err := c.store.ListProducts(ctx)
	if err != nil {
		return nil, newError("list", hooks.EntityProduct, 0, err)
	}
	return products, nil
}

// GetProduct returns the product with the given ID or ErrNotFound.
func (c *Client[TTx]) GetProduct(ctx context.Context, id int64) (*Product, error) {
	p, err := c.store.GetProduct(ctx, id)
	if err != nil {
		return nil, newError("get", hooks.EntityProduct, id, err)
	}
	return p, nil
}

// CreateProduct adds a product. Price and Stock are required; the stock
// status is derived with StockStatusFor.
func (c *Client[TTx]) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	p := &Product{}
	in.apply(p)
	err := validateProduct(p)
	if in.Price == nil || in.Stock == nil {
		v := validator{}
		if ve, ok := err.(*ValidationError); ok {
			v = ve.Fields
		}
		v.check(in.Price != nil, "price", "is required")
		v.check(in.Stock != nil, "stock", "is required")
		err = v.err()
	}
	if err != nil {
		return nil, newError("create", hooks.EntityProduct, 0, err)
	}

	event := &hooks.MutationEvent{Kind: hooks.KindCreated, Entity: hooks.EntityProduct}
	err = c.mutate(ctx, "create", event, func(ctx context.Context) error {
		if err := c.store.CreateProduct(ctx, p); err != nil {
			return err
		}
		event.EntityID = p.ID
		event.Summary = fmt.Sprintf("added product %s", p.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProduct merges in into the stored product and re-derives its status.
func (c *Client[TTx]) UpdateProduct(ctx context.Context, id int64, in ProductInput) (*Product, error) {
	var p *Product
	event := &hooks.MutationEvent{Kind: hooks.KindUpdated, Entity: hooks.EntityProduct, EntityID: id}
	err := c.mutate(ctx, "update", event, func(ctx context.Context) error {
		var err error
		if p, err = c.store.GetProduct(ctx, id); err != nil {
			return err
		}
		in.apply(p)
		if err := validateProduct(p); err != nil {
			return err
		}
		event.Summary = fmt.Sprintf("updated product %s", p.Name)
		return c.store.UpdateProduct(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProduct removes a product.
func (c *Client[TTx]) DeleteProduct(ctx context.Context, id int64) error {
	event := &hooks.MutationEvent{Kind: hooks.KindDeleted, Entity: hooks.EntityProduct, EntityID: id}
	return c.mutate(ctx, "delete", event, func(ctx context.Context) error {
		p, err := c.store.GetProduct(ctx, id)
		if err != nil {
			return err
		}
		event.Summary = fmt.Sprintf("deleted product %s", p.Name)
		return c.store.DeleteProduct(ctx, id)
	})
}
