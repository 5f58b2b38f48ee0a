package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	LivePath  = "/health/live"
	ReadyPath = "/health/ready"
)

type Deps struct {
	OrderHandler *OrderHTTP
	MenuHandler  *MenuHTTP
	Ready        func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET(LivePath, func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET(ReadyPath, func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	api := e.Group("/api")
	api.GET("/menu", d.MenuHandler.GetMenu)

	api.POST("/order", d.OrderHandler.PlaceOrder)
	api.GET("/order/query", d.OrderHandler.QueryByPhoneSuffix)
	api.GET("/order/:orderId", d.OrderHandler.GetOrderStatus)

	api.GET("/orders/all", d.OrderHandler.ListAllOrders)
	api.POST("/orders/clear", d.OrderHandler.ClearAllOrders)
}
