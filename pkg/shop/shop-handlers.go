package shop

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tmaselli/galleria/pkg/activity"
	"github.com/tmaselli/galleria/pkg/auth"
	JSON "github.com/tmaselli/galleria/pkg/json-utilities"
	"github.com/tmaselli/galleria/pkg/rest"
)

func RegisterHandlers(engine rest.Engine, ss *Store, sr auth.Repository, recorder *activity.Recorder) {
	engine.Get("/products", getProducts(ss), auth.Auth(sr))
	engine.Post("/products", addProduct(ss, recorder), auth.Auth(sr), auth.Require(sr, "manage_shop"))
	engine.Put("/products/:id", updateProduct(ss, recorder), auth.Auth(sr), auth.Require(sr, "manage_shop"))
	engine.Delete("/products/:id", deleteProduct(ss, recorder), auth.Auth(sr), auth.Require(sr, "manage_shop"))

	engine.Post("/sales", recordSale(ss, recorder), auth.Auth(sr), auth.Require(sr, "record_sales"))
	engine.Get("/sales", getSales(ss), auth.Auth(sr), auth.Require(sr, "record_sales"))
}

func getProducts(ss *Store) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		if products, err := ss.GetProducts(); err != nil {
			JSON.InternalServerError(writer, err)
		} else {
			JSON.Ok(writer, products)
		}
	}
}

func addProduct(ss *Store, recorder *activity.Recorder) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		data, err := JSON.DecodeValidate[AddProductData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		product, err := ss.AddProduct(data)
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		var userId, _ = auth.GetUserId(request)
		recorder.Record("create", "products", product.Id, product.Name, userId)
		JSON.Created(writer, product)
	}
}

func updateProduct(ss *Store, recorder *activity.Recorder) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var productId = rest.GetParam(request, "id")

		data, err := JSON.DecodeValidate[UpdateProductData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		if err = ss.UpdateProduct(productId, data); errors.Is(err, ErrNoProduct) {
			JSON.NotFound(writer, "No product matches the given identifier")
			return
		} else if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		var userId, _ = auth.GetUserId(request)
		recorder.Record("update", "products", productId, data.Name, userId)
		JSON.NoContent(writer)
	}
}

func deleteProduct(ss *Store, recorder *activity.Recorder) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var productId = rest.GetParam(request, "id")

		if err := ss.DeleteProduct(productId); errors.Is(err, ErrNoProduct) {
			JSON.NotFound(writer, "No product matches the given identifier")
			return
		} else if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		var userId, _ = auth.GetUserId(request)
		recorder.Record("delete", "products", productId, "product removed", userId)
		JSON.NoContent(writer)
	}
}

func recordSale(ss *Store, recorder *activity.Recorder) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		data, err := JSON.DecodeValidate[RecordSaleData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		var cashierId, _ = auth.GetUserId(request)

		sale, err := ss.RecordSale(cashierId, data)
		switch {
		case err == nil:
			recorder.Record("sale", "sales", sale.Id, fmt.Sprintf("%d items, total %.2f", len(sale.Items), sale.Total), cashierId)
			JSON.Created(writer, sale)
		case errors.Is(err, ErrNoProduct):
			JSON.NotFound(writer, "A sale item references an unknown product")
		case errors.Is(err, ErrInsufficientStock):
			JSON.Conflict(writer, "Insufficient stock for one of the sale items")
		default:
			JSON.InternalServerError(writer, err)
		}
	}
}

func getSales(ss *Store) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		if sales, err := ss.GetSales(); err != nil {
			JSON.InternalServerError(writer, err)
		} else {
			JSON.Ok(writer, sales)
		}
	}
}
