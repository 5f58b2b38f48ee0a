package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/teashop/internal/menu"
)

type MenuHTTP struct{}

func (h *MenuHTTP) GetMenu(c echo.Context) error {
	return c.JSON(http.StatusOK, menu.List())
}
