// AngelaMos | 2026
// dto.go

package cart

import (
	"github.com/shopspring/decimal"
)

type AddItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  *int  `json:"quantity" validate:"omitempty,max=10000"`
}

type LineResponse struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type CartResponse struct {
	Cart []LineResponse `json:"cart"`
}

func ToCartResponse(lines []Line) CartResponse {
	out := make([]LineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, LineResponse(l))
	}
	return CartResponse{Cart: out}
}
