// AngelaMos | 2026
// dto.go

package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type PlacedResponse struct {
	Msg     string `json:"msg"`
	OrderID int64  `json:"order_id"`
}

type SummaryResponse struct {
	ID         int64           `json:"id"`
	Total      decimal.Decimal `json:"total"`
	Date       time.Time       `json:"date"`
	ItemsCount int             `json:"items_count"`
}

type HistoryResponse struct {
	Orders []SummaryResponse `json:"orders"`
}

type ItemResponse struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type DetailBody struct {
	ID    int64           `json:"id"`
	Total decimal.Decimal `json:"total"`
	Date  time.Time       `json:"date"`
	Items []ItemResponse  `json:"items"`
}

type DetailResponse struct {
	Order DetailBody `json:"order"`
}

func ToHistoryResponse(summaries []Summary) HistoryResponse {
	out := make([]SummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, SummaryResponse{
			ID:         s.ID,
			Total:      s.Total,
			Date:       s.CreatedAt,
			ItemsCount: s.ItemsCount,
		})
	}
	return HistoryResponse{Orders: out}
}

func ToDetailResponse(d *Detail) DetailResponse {
	items := make([]ItemResponse, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, ItemResponse(it))
	}
	return DetailResponse{
		Order: DetailBody{
			ID:    d.ID,
			Total: d.Total,
			Date:  d.CreatedAt,
			Items: items,
		},
	}
}
