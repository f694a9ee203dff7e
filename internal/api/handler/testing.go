package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/venue-reservation/internal/api"
)

// NewTestEcho はテスト用のEchoインスタンスを作成する
func NewTestEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	return e
}
