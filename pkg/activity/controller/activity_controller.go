package controller

import "github.com/labstack/echo/v4"

type ActivityController interface {
	List(c echo.Context) error
	Create(c echo.Context) error
	Upload(c echo.Context) error
}
