package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ShippingDetails is the delivery block captured at purchase time.
// Stored as a JSONB column on purchases.
type ShippingDetails struct {
	FullName      string `json:"fullName"`
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	State         string `json:"state"`
	Country       string `json:"country"`
	PostalCode    string `json:"postalCode"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
}

// Value implements driver.Valuer for JSONB storage.
func (s ShippingDetails) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB retrieval.
func (s *ShippingDetails) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported shipping details type %T", src)
	}
}

// OrderDetails is the product snapshot carried on a purchase so history
// stays meaningful after the listing changes or is soft-deleted.
type OrderDetails struct {
	Name          string   `json:"name"`
	Images        []string `json:"images"`
	SelectedColor string   `json:"selectedColor"`
	SelectedSize  string   `json:"selectedSize"`
	Quantity      int64    `json:"quantity"`
	Price         int64    `json:"price"`
}

// Value implements driver.Valuer for JSONB storage.
func (o OrderDetails) Value() (driver.Value, error) {
	return json.Marshal(o)
}

// Scan implements sql.Scanner for JSONB retrieval.
func (o *OrderDetails) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, o)
	case string:
		return json.Unmarshal([]byte(v), o)
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported order details type %T", src)
	}
}

// Purchase is the immutable record of one settled purchase. Only
// IsDelivered may change after creation, exactly once.
type Purchase struct {
	ID              int64           `db:"id" json:"id"`
	ProductID       int64           `db:"product_id" json:"productId"`
	Buyer           string          `db:"buyer" json:"buyer"`
	Seller          string          `db:"seller" json:"seller"`
	BasePrice       int64           `db:"base_price" json:"basePrice"`
	TotalAmount     int64           `db:"total_amount" json:"totalAmount"`
	ServiceFee      int64           `db:"service_fee" json:"serviceFee"`
	Quantity        int64           `db:"quantity" json:"quantity"`
	ShippingDetails ShippingDetails `db:"shipping_details" json:"shippingDetails"`
	OrderDetails    OrderDetails    `db:"order_details" json:"orderDetails"`
	IsDelivered     bool            `db:"is_delivered" json:"isDelivered"`
	CreatedAt       time.Time       `db:"created_at" json:"timestamp"`
	DeliveredAt     *time.Time      `db:"delivered_at" json:"deliveredAt,omitempty"`
}
