package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/teashop/internal/logging"
	"github.com/Skotchmaster/teashop/internal/service"
	"github.com/Skotchmaster/teashop/internal/transport"
)

const (
	msgMissingJSON        = "Missing JSON in request"
	msgInvalidOrder       = "Invalid order data structure"
	msgInsertFailed       = "Database insertion failed"
	msgListFailed         = "Database query failed"
	msgClearFailed        = "清空訂單失敗"
	msgInvalidPhoneSuffix = "請提供正確的 3 位數字手機後三碼進行查詢。"
	msgNoOrdersForPhone   = "查無訂單，請確認手機後三碼是否正確。"
	msgNotImplemented     = "API Not Implemented"

	estimatedPickupPlaceholder = "Time calculation removed for simplicity, or use calculated time here"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.place_order")

	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		l.Warn("place_order_error", "status", 400, "reason", "body is not json")
		return echo.NewHTTPError(http.StatusBadRequest, msgMissingJSON)
	}

	var req transport.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			l.Warn("place_order_error", "status", 400, "reason", "invalid order structure", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, msgInvalidOrder)
		}
		l.Warn("place_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgMissingJSON)
	}

	res, err := h.Svc.PlaceOrder(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("place_order_error", "status", 400, "reason", "invalid order structure", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, msgInvalidOrder)
		}
		l.Error("place_order_error", "status", 500, "reason", "cannot store order", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, msgInsertFailed)
	}

	l.Info("place_order_success", "order_id", res.OrderNumber, "final_amount", res.FinalAmount)
	return c.JSON(http.StatusCreated, transport.PlaceOrderResponse{
		Message:             res.Message,
		OrderID:             res.OrderNumber,
		FinalAmount:         res.FinalAmount,
		EstimatedPickupTime: estimatedPickupPlaceholder,
	})
}

func (h *OrderHTTP) ListAllOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_all")

	orders, err := h.Svc.ListAllOrders(ctx)
	if err != nil {
		l.Error("list_orders_error", "status", 500, "reason", "cannot load orders", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, msgListFailed)
	}

	l.Info("list_orders_success", "count", len(orders))
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) QueryByPhoneSuffix(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.query_by_phone")

	orders, err := h.Svc.QueryOrdersByPhoneSuffix(ctx, c.QueryParam("phone_suffix"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("query_orders_error", "status", 400, "reason", "invalid phone suffix", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, msgInvalidPhoneSuffix)
		case errors.Is(err, service.ErrNotFound):
			l.Warn("query_orders_error", "status", 404, "reason", "no orders for phone", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, msgNoOrdersForPhone)
		default:
			l.Error("query_orders_error", "status", 500, "reason", "cannot load orders", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, msgListFailed)
		}
	}

	l.Info("query_orders_success", "count", len(orders))
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) GetOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_status")

	id, err := strconv.Atoi(c.Param("orderId"))
	if err != nil {
		l.Warn("get_order_status_error", "status", 404, "reason", "order id is not integer", "error", err)
		return echo.ErrNotFound
	}

	err = h.Svc.GetOrderStatus(ctx, id)
	l.Warn("get_order_status_error", "status", 404, "reason", "not implemented", "error", err)
	return echo.NewHTTPError(http.StatusNotFound, msgNotImplemented)
}

func (h *OrderHTTP) ClearAllOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.clear_all")

	deleted, err := h.Svc.ClearAllOrders(ctx)
	if err != nil {
		l.Error("clear_orders_error", "status", 500, "reason", "cannot clear orders", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, msgClearFailed)
	}

	l.Info("clear_orders_success", "deleted_orders", deleted)
	// deleted_count stays 0 for existing admin clients.
	return c.JSON(http.StatusOK, transport.ClearOrdersResponse{
		Message:      service.OrdersClearedMessage,
		DeletedCount: 0,
	})
}
