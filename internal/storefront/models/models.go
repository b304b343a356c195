package models

import "time"

// Session identifies the signed-in shopper. A zero UserID means anonymous.
// Token is whatever opaque credential the backend issued at login; the
// engine stores it but never interprets it — authenticated checks go
// through UserID alone.
type Session struct {
	UserID  string `json:"userId"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Avatar  string `json:"avatar,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Token   string `json:"token,omitempty"`
}

// IsAuthenticated reports whether a remote identity is attached.
func (s Session) IsAuthenticated() bool {
	return s.UserID != ""
}

// BagLine is one entry in the local bag: a product in a specific size and
// color. The remote bag only tracks product-id presence; everything else
// here is a local display projection.
type BagLine struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Image     string  `json:"image"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Quantity  int     `json:"quantity"`
}

// LineKey is the bag merge key. Two adds with the same key collapse into
// one line with a summed quantity.
type LineKey struct {
	ProductID string
	Size      string
	Color     string
}

// Key returns the line's merge key.
func (l BagLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Size: l.Size, Color: l.Color}
}

// Product is the catalog record used to hydrate bag display fields.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Gender   string  `json:"gender,omitempty"`
	Category string  `json:"category,omitempty"`
}

// OrderStatus enumerates the lifecycle of a placed order.
type OrderStatus string

const (
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
)

// Order is an immutable historical record. The engine only bulk-replaces
// order history from a persisted snapshot; there is no mutation API.
type Order struct {
	OrderID string      `json:"orderId"`
	Date    time.Time   `json:"date"`
	Status  OrderStatus `json:"status"`
	Total   float64     `json:"total"`
	Lines   []BagLine   `json:"lines"`
}
