package httpx

import (
	"time"

	"github.com/ironwala/ironwala-api/internal/address"
	"github.com/ironwala/ironwala-api/internal/catalog"
	"github.com/ironwala/ironwala-api/internal/geo"
	"github.com/ironwala/ironwala-api/internal/order"
	"github.com/ironwala/ironwala-api/internal/pricing"
)

type CatalogItemResponse struct {
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	ImageURL  string `json:"image_url"`
	CareInfo  string `json:"care_info"`
}

type BannerResponse struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type QuoteRequest struct {
	Items []QuoteItemDTO `json:"items"`
}

type QuoteItemDTO struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type QuoteResponse struct {
	Lines     []LineResponse `json:"lines"`
	Subtotal  string         `json:"subtotal"`
	Fee       string         `json:"fee"`
	Discount  string         `json:"discount"`
	Total     string         `json:"total"`
	CartCount int            `json:"cart_count"`
}

type LineResponse struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

type ResolveAddressRequest struct {
	// Manual entry path; ignored when Coordinate is present.
	Name   string `json:"name,omitempty"`
	Street string `json:"street,omitempty"`
	City   string `json:"city,omitempty"`
	State  string `json:"state,omitempty"`
	Zip    string `json:"zip,omitempty"`

	// Map path: reverse-geocode this coordinate instead.
	Coordinate *geo.Coordinate `json:"coordinate,omitempty"`
}

type SaveAddressRequest struct {
	Name   string `json:"name"`
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

type AddressResponse struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	OneLine   string `json:"one_line"`
	CreatedAt string `json:"created_at,omitempty"`
}

type SubmitOrderRequest struct {
	Items           []QuoteItemDTO     `json:"items"`
	PickupAddress   SaveAddressRequest `json:"pickup_address"`
	DeliveryAddress SaveAddressRequest `json:"delivery_address"`
	SameAsPickup    bool               `json:"same_as_pickup"`
	PickupAt        time.Time          `json:"pickup_at"`
	DeliveryAt      time.Time          `json:"delivery_at"`
}

type SubmitOrderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Total  string `json:"total"`
}

type OrderResponse struct {
	ID              string         `json:"id"`
	Status          string         `json:"status"`
	Items           []LineResponse `json:"items"`
	TotalAmount     string         `json:"total_amount"`
	PickupAddress   string         `json:"pickup_address"`
	DeliveryAddress string         `json:"delivery_address"`
	PickupAt        string         `json:"pickup_at"`
	DeliveryAt      string         `json:"delivery_at"`
	CreatedAt       string         `json:"created_at"`
}

type OrderViewResponse struct {
	Active  []OrderResponse `json:"active"`
	History []OrderResponse `json:"history"`
}

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func mapCatalogItem(it catalog.Item) CatalogItemResponse {
	return CatalogItemResponse{
		Name:      it.Name,
		UnitPrice: it.UnitPrice.String(),
		ImageURL:  it.ImageURL,
		CareInfo:  it.CareInfo,
	}
}

func mapQuote(q pricing.Quote) QuoteResponse {
	lines := make([]LineResponse, len(q.Lines))
	for i, l := range q.Lines {
		lines[i] = LineResponse{Name: l.Name, Quantity: l.Quantity, UnitPrice: l.UnitPrice.String()}
	}
	return QuoteResponse{
		Lines:     lines,
		Subtotal:  q.Subtotal.String(),
		Fee:       q.Fee.String(),
		Discount:  q.Discount.String(),
		Total:     q.Total.String(),
		CartCount: q.CartCount,
	}
}

func mapAddress(a address.Address) AddressResponse {
	resp := AddressResponse{
		ID:      a.ID,
		Name:    a.Name,
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		Zip:     a.Zip,
		OneLine: a.OneLine(),
	}
	if !a.CreatedAt.IsZero() {
		resp.CreatedAt = a.CreatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func mapOrder(o order.Order) OrderResponse {
	items := make([]LineResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = LineResponse{Name: it.Name, Quantity: it.Quantity, UnitPrice: it.UnitPrice.String()}
	}
	return OrderResponse{
		ID:              o.ID,
		Status:          string(o.Status),
		Items:           items,
		TotalAmount:     o.TotalAmount.String(),
		PickupAddress:   o.PickupAddress,
		DeliveryAddress: o.DeliveryAddress,
		PickupAt:        o.PickupAt.UTC().Format(time.RFC3339),
		DeliveryAt:      o.DeliveryAt.UTC().Format(time.RFC3339),
		CreatedAt:       o.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func mapView(v order.View) OrderViewResponse {
	resp := OrderViewResponse{
		Active:  make([]OrderResponse, len(v.Active)),
		History: make([]OrderResponse, len(v.History)),
	}
	for i, o := range v.Active {
		resp.Active[i] = mapOrder(o)
	}
	for i, o := range v.History {
		resp.History[i] = mapOrder(o)
	}
	return resp
}
