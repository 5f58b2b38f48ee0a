package transport

import "encoding/json"

// CartItem is the pricing view of one storefront line item. Absent numeric
// fields count as 0 when totals are computed.
type CartItem struct {
	Name     *string  `json:"name,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Quantity *float64 `json:"quantity,omitempty"`
	Options  *string  `json:"options,omitempty"`
}

type ContactInfo struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// PlaceOrderRequest keeps cart items undecoded so they are stored exactly as
// the storefront sent them.
type PlaceOrderRequest struct {
	CartItems   []json.RawMessage `json:"cartItems"`
	ContactInfo *ContactInfo      `json:"contactInfo"`
	PickupType  *string           `json:"pickupType"`
}

type PlaceOrderResponse struct {
	Message             string  `json:"message"`
	OrderID             int     `json:"order_id"`
	FinalAmount         float64 `json:"final_amount"`
	EstimatedPickupTime string  `json:"estimated_pickup_time"`
}

// OrderSummary is one row of the staff listing. OrderID is the row id, not
// the customer-facing order number.
type OrderSummary struct {
	OrderID               uint    `json:"order_id"`
	Content               string  `json:"content"`
	FinalAmount           float64 `json:"final_amount"`
	CustomerName          string  `json:"customer_name"`
	ContactPhoneLastThree string  `json:"contact_phone_last_three"`
	Status                string  `json:"status"`
	PickupType            string  `json:"pickup_type"`
	DeliveryAddress       *string `json:"delivery_address"`
	CreatedAt             string  `json:"created_at"`
}

// PhoneOrderSummary is one row of the customer lookup. OrderID is the order
// number.
type PhoneOrderSummary struct {
	OrderID     int     `json:"order_id"`
	Content     string  `json:"content"`
	FinalAmount float64 `json:"final_amount"`
	CreatedAt   string  `json:"created_at"`
	PickupType  string  `json:"pickup_type"`
	Address     *string `json:"address"`
}

type ClearOrdersResponse struct {
	Message      string `json:"message"`
	DeletedCount int    `json:"deleted_count"`
}
