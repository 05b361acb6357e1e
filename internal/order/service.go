// AngelaMos | 2026
// service.go

package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/shopfront/storefront-api/internal/cart"
	"github.com/shopfront/storefront-api/internal/core"
	"github.com/shopfront/storefront-api/internal/events"
)

const publishTimeout = 5 * time.Second

var (
	ErrCartEmpty     = fmt.Errorf("cart is empty: %w", core.ErrInvalidState)
	ErrOrderNotFound = fmt.Errorf("order not found: %w", core.ErrNotFound)
)

type Service struct {
	repo      Repository
	txm       TxManager
	publisher events.Publisher
}

// NewService wires order placement. publisher may be nil.
func NewService(repo Repository, txm TxManager, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{repo: repo, txm: txm, publisher: publisher}
}

// Place turns the caller's cart into an order. Order row, item rows and the
// cart clear commit together or not at all.
func (s *Service) Place(ctx context.Context, userID int64) (*Order, error) {
	ctx, span := core.StartSpan(ctx, "order.place",
		attribute.Int64("user.id", userID),
	)
	defer span.End()

	var (
		placed *Order
		items  []Item
	)

	err := s.txm.WithinTx(ctx, func(tx Tx) error {
		c, err := tx.Carts().LockByUserID(ctx, userID)
		if errors.Is(err, core.ErrNotFound) {
			return ErrCartEmpty
		}
		if err != nil {
			return err
		}

		lines, err := tx.Carts().ListLines(ctx, c.ID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrCartEmpty
		}

		total := decimal.Zero
		for _, l := range lines {
			total = total.Add(core.LineTotal(l.Price, l.Quantity))
		}

		o := &Order{UserID: userID, Total: total}
		if err := tx.Orders().Create(ctx, o); err != nil {
			return err
		}

		items = snapshot(o.ID, lines)
		if err := tx.Orders().CreateItems(ctx, items); err != nil {
			return err
		}

		if err := tx.Carts().ClearItems(ctx, c.ID); err != nil {
			return err
		}

		placed = o
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrCartEmpty) {
			core.SetSpanError(ctx, err)
		}
		return nil, err
	}

	core.AddSpanEvent(ctx, "order.committed",
		attribute.Int64("order.id", placed.ID),
		attribute.Int("order.items", len(items)),
	)

	s.announce(ctx, placed, items)
	return placed, nil
}

func snapshot(orderID int64, lines []cart.Line) []Item {
	items := make([]Item, 0, len(lines))
	for _, l := range lines {
		items = append(items, Item{
			OrderID:   orderID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     l.Price,
		})
	}
	return items
}

// announce runs after commit. A publish failure never undoes the order, and
// the event still goes out if the client disconnects first.
func (s *Service) announce(ctx context.Context, o *Order, items []Item) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	evt := events.OrderPlaced{
		OrderID:  o.ID,
		UserID:   o.UserID,
		Total:    o.Total,
		Items:    make([]events.OrderPlacedItem, 0, len(items)),
		PlacedAt: o.CreatedAt,
	}
	for _, it := range items {
		evt.Items = append(evt.Items, events.OrderPlacedItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	if err := s.publisher.PublishOrderPlaced(ctx, evt); err != nil {
		slog.WarnContext(ctx, "order event publish failed",
			"order_id", o.ID,
			"error", err,
		)
	}
}

func (s *Service) History(ctx context.Context, userID int64) ([]Summary, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Detail(ctx context.Context, userID, orderID int64) (*Detail, error) {
	o, err := s.repo.GetForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	items, err := s.repo.ListItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}

	return &Detail{Order: *o, Items: items}, nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
