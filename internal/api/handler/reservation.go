package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/venue-reservation/internal/api"
	"github.com/sanosuguru/venue-reservation/internal/domain/reservation"
	"github.com/sanosuguru/venue-reservation/internal/domain/slot"
	"github.com/sanosuguru/venue-reservation/internal/validation"
)

// ReservationHandler は予約の受理とライフサイクル操作のHTTPハンドラー
type ReservationHandler struct {
	admission AdmissionServiceInterface
	lifecycle LifecycleServiceInterface
}

// NewReservationHandler は新しいReservationHandlerを作成する
func NewReservationHandler(admission AdmissionServiceInterface, lifecycle LifecycleServiceInterface) *ReservationHandler {
	return &ReservationHandler{admission: admission, lifecycle: lifecycle}
}

// FinancialRequest は外部計算済みの金額情報
type FinancialRequest struct {
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
	Paid     bool   `json:"paid"`
}

// CreateReservationRequest は予約リクエスト
// フィールド単位の検証は構造バリデーターがまとめて行うため、
// ここではバインドのみを行いタグによる検証はしない
type CreateReservationRequest struct {
	ResourceType    string            `json:"resource_type"`
	Date            string            `json:"date"`
	Time            string            `json:"time"`
	GuestCount      *int              `json:"guest_count,omitempty"`
	Title           string            `json:"title,omitempty"`
	Email           string            `json:"email"`
	Phone           string            `json:"phone"`
	SpecialRequests string            `json:"special_requests,omitempty"`
	Financial       *FinancialRequest `json:"financial,omitempty"`
}

// ReservationResponse は予約レスポンス
type ReservationResponse struct {
	ID              string    `json:"id"`
	ResourceType    string    `json:"resource_type"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	GuestCount      *int      `json:"guest_count,omitempty"`
	Title           string    `json:"title,omitempty"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	SpecialRequests string    `json:"special_requests,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toReservationResponse(r *reservation.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:              r.ID,
		ResourceType:    string(r.ResourceType),
		Date:            string(r.Date),
		Time:            string(r.Time),
		GuestCount:      r.GuestCount,
		Title:           r.Title,
		Email:           r.Contact.Email,
		Phone:           r.Contact.Phone,
		SpecialRequests: r.SpecialRequests,
		Status:          string(r.Status),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// Create は予約リクエストを受理する
func (h *ReservationHandler) Create(c echo.Context) error {
	var req CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}

	input := validation.Request{
		ResourceType:    req.ResourceType,
		Date:            req.Date,
		Time:            req.Time,
		GuestCount:      req.GuestCount,
		Title:           req.Title,
		Email:           req.Email,
		Phone:           req.Phone,
		SpecialRequests: req.SpecialRequests,
	}
	if req.Financial != nil {
		input.Financial = &reservation.Financial{
			Amount:   req.Financial.Amount,
			Currency: req.Financial.Currency,
			Paid:     req.Financial.Paid,
		}
	}

	r, err := h.admission.Admit(c.Request().Context(), input)
	if err != nil {
		return api.MapServiceError(err)
	}
	return c.JSON(http.StatusCreated, toReservationResponse(r))
}

// GetByID は予約を取得する
func (h *ReservationHandler) GetByID(c echo.Context) error {
	r, err := h.lifecycle.GetReservation(c.Request().Context(), c.Param("id"))
	if err != nil {
		return api.MapServiceError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

// List は予約一覧を取得する
// email 指定時は予約者ごと、from/to 指定時は期間での絞り込み
func (h *ReservationHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	if email := c.QueryParam("email"); email != "" {
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		offset, _ := strconv.Atoi(c.QueryParam("offset"))
		reservations, err := h.lifecycle.ListByCustomer(ctx, email, limit, offset)
		if err != nil {
			return api.MapServiceError(err)
		}
		return c.JSON(http.StatusOK, toReservationResponses(reservations))
	}

	from, err := slot.ParseDate(c.QueryParam("from"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "from の日付形式が不正です")
	}
	to, err := slot.ParseDate(c.QueryParam("to"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "to の日付形式が不正です")
	}

	var statuses []reservation.Status
	if raw := c.QueryParam("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			status := reservation.Status(strings.TrimSpace(s))
			if !status.Valid() {
				return echo.NewHTTPError(http.StatusBadRequest, "status の値が不正です")
			}
			statuses = append(statuses, status)
		}
	}

	reservations, err := h.lifecycle.ListByDateRange(ctx, from, to, statuses)
	if err != nil {
		return api.MapServiceError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponses(reservations))
}

// Approve は予約を承認する
func (h *ReservationHandler) Approve(c echo.Context) error {
	return h.transition(c, h.lifecycle.Approve)
}

// Reject は予約を却下する
func (h *ReservationHandler) Reject(c echo.Context) error {
	return h.transition(c, h.lifecycle.Reject)
}

// Cancel は予約をキャンセルする
func (h *ReservationHandler) Cancel(c echo.Context) error {
	return h.transition(c, h.lifecycle.Cancel)
}

// Complete は予約を完了にする
func (h *ReservationHandler) Complete(c echo.Context) error {
	return h.transition(c, h.lifecycle.Complete)
}

func (h *ReservationHandler) transition(c echo.Context, fn func(ctx context.Context, id string) (*reservation.Reservation, error)) error {
	r, err := fn(c.Request().Context(), c.Param("id"))
	if err != nil {
		return api.MapServiceError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

func toReservationResponses(list []*reservation.Reservation) []ReservationResponse {
	resp := make([]ReservationResponse, len(list))
	for i, r := range list {
		resp[i] = toReservationResponse(r)
	}
	return resp
}
