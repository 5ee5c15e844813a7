package shop

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/tmaselli/galleria/pkg/ntime"
)

type Product struct {
	Id      string
	Name    string
	Price   float64
	Stock   int
	Created ntime.NTime
	Updated ntime.NTime
}

type AddProductData struct {
	Name  string
	Price float64
	Stock int
}

func (data AddProductData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&data.Price, validation.Required, validation.Min(0.0)),
		validation.Field(&data.Stock, validation.Min(0)),
	)
}

type UpdateProductData = AddProductData

type SaleItemData struct {
	ProductId string
	Quantity  int
}

func (data SaleItemData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.ProductId, validation.Required, validation.Length(36, 36)),
		validation.Field(&data.Quantity, validation.Required, validation.Min(1), validation.Max(1000)),
	)
}

type RecordSaleData struct {
	Items []SaleItemData
}

func (data RecordSaleData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.Items, validation.Required, validation.Length(1, 100)),
	)
}

type Sale struct {
	Id      string
	Cashier string
	Total   float64
	Date    ntime.NTime
	Items   []SaleItem
}

type SaleItem struct {
	ProductId string
	Name      string
	Quantity  int
	Price     float64
}
