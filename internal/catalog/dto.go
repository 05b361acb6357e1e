// AngelaMos | 2026
// dto.go

package catalog

import (
	"github.com/shopspring/decimal"
)

// ProductRequest carries create and partial-update payloads. A nil field
// was not supplied.
type ProductRequest struct {
	Name        *string          `json:"name"        validate:"omitempty,max=120"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"       validate:"omitempty,min=0"`
}

func (r ProductRequest) empty() bool {
	return r.Name == nil && r.Description == nil && r.Price == nil && r.Stock == nil
}

type ProductResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

type MutationResponse struct {
	Msg       string `json:"msg"`
	ProductID int64  `json:"product_id"`
}

func ToProductResponse(p *Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
	}
}

func ToProductResponseList(products []Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, ToProductResponse(&products[i]))
	}
	return out
}
