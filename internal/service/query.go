package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Skotchmaster/teashop/internal/models"
	"github.com/Skotchmaster/teashop/internal/transport"
)

const (
	UnparseableContent = "無法解析訂單內容"

	unknownDrinkName = "未知飲品"
	genericDrinkName = "飲品"
	optionsDelimiter = " / "

	phoneLookupLayout = "2006-01-02 15:04:05"
	phoneSuffixLen    = 3
)

type storedItem struct {
	Name     *string  `json:"name"`
	Quantity *float64 `json:"quantity"`
	Options  *string  `json:"options"`
}

func decodeItems(itemsJSON string) ([]storedItem, error) {
	var items []storedItem
	if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
		return nil, err
	}
	if items == nil {
		return nil, fmt.Errorf("items blob is not a list")
	}
	return items, nil
}

func formatQuantity(q *float64) string {
	return strconv.FormatFloat(valueOr(q, 1), 'f', -1, 64)
}

// staffContent renders "<name> (<first option>) x <qty>" per line item.
func staffContent(itemsJSON string) string {
	items, err := decodeItems(itemsJSON)
	if err != nil {
		return UnparseableContent
	}

	parts := make([]string, 0, len(items))
	for _, item := range items {
		option, _, _ := strings.Cut(valueOr(item.Options, ""), optionsDelimiter)
		parts = append(parts, fmt.Sprintf("%s (%s) x %s", valueOr(item.Name, unknownDrinkName), option, formatQuantity(item.Quantity)))
	}
	return strings.Join(parts, ", ")
}

// customerContent renders "<name> x <qty>" per line item.
func customerContent(itemsJSON string) string {
	items, err := decodeItems(itemsJSON)
	if err != nil {
		return UnparseableContent
	}

	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%s x %s", valueOr(item.Name, genericDrinkName), formatQuantity(item.Quantity)))
	}
	return strings.Join(parts, ", ")
}

func ValidPhoneSuffix(suffix string) bool {
	if len(suffix) != phoneSuffixLen {
		return false
	}
	for i := 0; i < len(suffix); i++ {
		if suffix[i] < '0' || suffix[i] > '9' {
			return false
		}
	}
	return true
}

func shopTime(t time.Time) time.Time {
	return t.In(models.ShopZone)
}

func (s *OrderService) ListAllOrders(ctx context.Context) ([]transport.OrderSummary, error) {
	orders, err := s.Repo.ListOrdersWithContact(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list orders: %w", ErrStorage, err)
	}

	out := make([]transport.OrderSummary, 0, len(orders))
	for _, o := range orders {
		phone := o.Contact.Phone
		if phone == "" {
			phone = defaultContactField
		}

		out = append(out, transport.OrderSummary{
			OrderID:               o.ID,
			Content:               staffContent(o.ItemsJSON),
			FinalAmount:           o.FinalAmount,
			CustomerName:          o.Contact.Name,
			ContactPhoneLastThree: phone,
			Status:                o.Status,
			PickupType:            o.Contact.PickupType,
			DeliveryAddress:       o.Contact.DeliveryAddress,
			CreatedAt:             shopTime(o.CreatedAt).Format(time.RFC3339),
		})
	}
	return out, nil
}

// QueryOrdersByPhoneSuffix matches contacts whose stored phone equals suffix
// exactly; the storefront saves the three-digit code as the phone.
func (s *OrderService) QueryOrdersByPhoneSuffix(ctx context.Context, suffix string) ([]transport.PhoneOrderSummary, error) {
	if !ValidPhoneSuffix(suffix) {
		return nil, fmt.Errorf("%w: phone suffix must be 3 digits", ErrValidation)
	}

	contactIDs, err := s.Repo.FindContactIDsByPhone(ctx, suffix)
	if err != nil {
		return nil, fmt.Errorf("%w: find contacts: %w", ErrStorage, err)
	}
	if len(contactIDs) == 0 {
		return nil, fmt.Errorf("%w: no contact with phone %s", ErrNotFound, suffix)
	}

	orders, err := s.Repo.ListOrdersByContactIDs(ctx, contactIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: list orders: %w", ErrStorage, err)
	}

	out := make([]transport.PhoneOrderSummary, 0, len(orders))
	for _, o := range orders {
		out = append(out, transport.PhoneOrderSummary{
			OrderID:     o.OrderNumber,
			Content:     customerContent(o.ItemsJSON),
			FinalAmount: o.FinalAmount,
			CreatedAt:   shopTime(o.CreatedAt).Format(phoneLookupLayout),
			PickupType:  o.Contact.PickupType,
			Address:     o.Contact.DeliveryAddress,
		})
	}
	return out, nil
}
