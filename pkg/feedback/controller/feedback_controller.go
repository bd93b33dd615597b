package controller

import "github.com/labstack/echo/v4"

type FeedbackController interface {
	Submit(c echo.Context) error
	Current(c echo.Context) error
	Draft(c echo.Context) error
	SaveEdit(c echo.Context) error
}
