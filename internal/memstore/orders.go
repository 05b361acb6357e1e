// AngelaMos | 2026
// orders.go

package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopfront/storefront-api/internal/core"
	"github.com/shopfront/storefront-api/internal/order"
)

type orderRepo struct {
	s *Store
}

func (r *orderRepo) Create(_ context.Context, o *order.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.failure(OpCreateOrder); err != nil {
		return err
	}

	o.ID = r.s.data.next("orders")
	o.CreatedAt = r.s.now()
	r.s.data.orders[o.ID] = *o
	return nil
}

func (r *orderRepo) CreateItems(_ context.Context, items []order.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.failure(OpCreateOrderItems); err != nil {
		return err
	}

	r.s.data.orderItems = append(r.s.data.orderItems, items...)
	return nil
}

func (r *orderRepo) ListByUser(_ context.Context, userID int64) ([]order.Summary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	summaries := []order.Summary{}
	for _, o := range r.s.data.orders {
		if o.UserID != userID {
			continue
		}
		n := 0
		for _, it := range r.s.data.orderItems {
			if it.OrderID == o.ID {
				n++
			}
		}
		summaries = append(summaries, order.Summary{
			ID:         o.ID,
			Total:      o.Total,
			CreatedAt:  o.CreatedAt,
			ItemsCount: n,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].ID > summaries[j].ID
		}
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

func (r *orderRepo) GetForUser(_ context.Context, id, userID int64) (*order.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.data.orders[id]
	if !ok || o.UserID != userID {
		return nil, fmt.Errorf("get order: %w", core.ErrNotFound)
	}
	return &o, nil
}

func (r *orderRepo) ListItems(_ context.Context, orderID int64) ([]order.ItemDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	items := []order.ItemDetail{}
	for _, it := range r.s.data.orderItems {
		if it.OrderID != orderID {
			continue
		}
		items = append(items, order.ItemDetail{
			ProductID: it.ProductID,
			Name:      r.s.data.products[it.ProductID].Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return items, nil
}

func (r *orderRepo) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.data.orders)), nil
}
