package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Skotchmaster/teashop/internal/events"
	"github.com/Skotchmaster/teashop/internal/logging"
	"github.com/Skotchmaster/teashop/internal/models"
	"github.com/Skotchmaster/teashop/internal/repo"
	"github.com/Skotchmaster/teashop/internal/transport"
)

var (
	ErrValidation     = errors.New("validation")      // 400
	ErrNotFound       = errors.New("not found")       // 404
	ErrStorage        = errors.New("storage")         // 500
	ErrNotImplemented = errors.New("not implemented") // 404
)

const (
	DeliveryFee = 50

	defaultContactField = "N/A"

	OrderPlacedMessage   = "Order placed successfully!"
	OrdersClearedMessage = "成功刪除所有訂單和聯絡人記錄，訂單編號將從 1001 開始。"

	publishTimeout = time.Second
)

type PlaceOrderResult struct {
	Message     string
	OrderNumber int
	FinalAmount float64
}

type OrderService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Now    func() time.Time
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now().In(models.ShopZone)
	}
	return time.Now().In(models.ShopZone)
}

func (s *OrderService) publish(ctx context.Context, key string, event any) {
	if s.Events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.Events.Publish(ctx, key, event); err != nil {
		logging.FromContext(ctx).Error("publish_event_error", "key", key, "error", err)
	}
}

// FinalAmount is the cart subtotal plus the delivery fee for delivery orders.
func FinalAmount(items []transport.CartItem, pickupType string) float64 {
	var total float64
	for _, item := range items {
		total += valueOr(item.Price, 0) * valueOr(item.Quantity, 0)
	}
	if pickupType == models.PickupTypeDelivery {
		total += DeliveryFee
	}
	return total
}

// pricingView decodes the fields FinalAmount needs from each raw item.
func pricingView(raw []json.RawMessage) ([]transport.CartItem, error) {
	items := make([]transport.CartItem, len(raw))
	for i, r := range raw {
		if err := json.Unmarshal(r, &items[i]); err != nil {
			return nil, fmt.Errorf("%w: cart item %d: %v", ErrValidation, i, err)
		}
	}
	return items, nil
}

func normalizeAddress(address *string) *string {
	if address == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*address)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (s *OrderService) PlaceOrder(ctx context.Context, req transport.PlaceOrderRequest) (*PlaceOrderResult, error) {
	if req.CartItems == nil {
		return nil, fmt.Errorf("%w: cartItems required", ErrValidation)
	}
	if req.ContactInfo == nil {
		return nil, fmt.Errorf("%w: contactInfo required", ErrValidation)
	}

	items, err := pricingView(req.CartItems)
	if err != nil {
		return nil, err
	}
	pickupType := valueOr(req.PickupType, models.PickupTypePickup)
	finalAmount := FinalAmount(items, pickupType)

	itemsJSON, err := json.Marshal(req.CartItems)
	if err != nil {
		return nil, fmt.Errorf("%w: encode items: %v", ErrValidation, err)
	}

	contact := &models.Contact{
		Name:            valueOr(req.ContactInfo.Name, defaultContactField),
		Phone:           valueOr(req.ContactInfo.Phone, defaultContactField),
		DeliveryAddress: normalizeAddress(req.ContactInfo.Address),
		PickupType:      pickupType,
	}
	order := &models.Order{
		Status:      models.OrderStatusPending,
		FinalAmount: finalAmount,
		ItemsJSON:   string(itemsJSON),
		CreatedAt:   s.now(),
	}

	if err := s.Repo.CreateOrder(ctx, contact, order); err != nil {
		return nil, fmt.Errorf("%w: create order: %w", ErrStorage, err)
	}

	s.publish(ctx, strconv.Itoa(order.OrderNumber), events.OrderPlaced{
		Type:        events.TypeOrderPlaced,
		OrderID:     order.OrderNumber,
		FinalAmount: order.FinalAmount,
		PickupType:  contact.PickupType,
	})

	return &PlaceOrderResult{
		Message:     OrderPlacedMessage,
		OrderNumber: order.OrderNumber,
		FinalAmount: order.FinalAmount,
	}, nil
}

// ClearAllOrders deletes every order and contact. The returned count is the
// number of deleted orders.
func (s *OrderService) ClearAllOrders(ctx context.Context) (int64, error) {
	deleted, err := s.Repo.ClearAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: clear orders: %w", ErrStorage, err)
	}

	s.publish(ctx, events.TypeOrdersCleared, events.OrdersCleared{Type: events.TypeOrdersCleared})
	return deleted, nil
}

func (s *OrderService) GetOrderStatus(ctx context.Context, orderID int) error {
	return fmt.Errorf("%w: order status lookup for %d", ErrNotImplemented, orderID)
}

func valueOr[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}
