package controller

import "github.com/labstack/echo/v4"

type HistoryController interface {
	List(c echo.Context) error
	Get(c echo.Context) error
	Copy(c echo.Context) error
	Clear(c echo.Context) error
	Export(c echo.Context) error
}
