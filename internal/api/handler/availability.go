package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/venue-reservation/internal/api"
	"github.com/sanosuguru/venue-reservation/internal/domain/slot"
)

// AvailabilityHandler は空き枠照会のHTTPハンドラー
type AvailabilityHandler struct {
	service AvailabilityServiceInterface
}

// NewAvailabilityHandler は新しいAvailabilityHandlerを作成する
func NewAvailabilityHandler(s AvailabilityServiceInterface) *AvailabilityHandler {
	return &AvailabilityHandler{service: s}
}

// AvailabilityResponse は空き枠レスポンス
type AvailabilityResponse struct {
	Date      string   `json:"date"`
	FreeSlots []string `json:"free_slots"`
}

// GetFreeSlots は指定日の空き枠一覧を返す
func (h *AvailabilityHandler) GetFreeSlots(c echo.Context) error {
	date, err := slot.ParseDate(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date の日付形式が不正です")
	}

	free, err := h.service.FreeSlots(c.Request().Context(), date)
	if err != nil {
		return api.MapServiceError(err)
	}

	times := make([]string, len(free))
	for i, t := range free {
		times[i] = string(t)
	}
	return c.JSON(http.StatusOK, AvailabilityResponse{Date: string(date), FreeSlots: times})
}
