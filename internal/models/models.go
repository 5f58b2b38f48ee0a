package models

import (
	"time"
)

const (
	OrderStatusPending = "pending"

	PickupTypePickup   = "pickup"
	PickupTypeDelivery = "delivery"
)

// ShopZone is the shop's wall clock: a fixed UTC+8 offset without DST.
var ShopZone = time.FixedZone("UTC+8", 8*60*60)

type Contact struct {
	ID              uint    `gorm:"primaryKey;autoIncrement"                     json:"id"`
	Name            string  `gorm:"column:contact_name;size:100;not null"        json:"contact_name"`
	Phone           string  `gorm:"column:contact_phone;size:100;not null;index" json:"contact_phone"`
	DeliveryAddress *string `gorm:"column:delivery_address;size:255"             json:"delivery_address"`
	PickupType      string  `gorm:"column:pickup_type;size:50;not null"          json:"pickup_type"`
}

func (Contact) TableName() string {
	return "contact_info"
}

type Order struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"                json:"id"`
	OrderNumber int       `gorm:"column:order_id;uniqueIndex;not null"    json:"order_id"`
	Status      string    `gorm:"size:20;not null;default:pending"        json:"status"`
	FinalAmount float64   `gorm:"not null"                                json:"final_amount"`
	ItemsJSON   string    `gorm:"column:items_json;type:text;not null"    json:"items_json"`
	CreatedAt   time.Time `gorm:"not null"                                json:"created_at"`
	ContactID   uint      `gorm:"index;not null"                          json:"contact_id"`
	Contact     Contact   `gorm:"foreignKey:ContactID;references:ID"      json:"-"`
}

func (Order) TableName() string {
	return "order"
}
