package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/venue-reservation/internal/application"
	"github.com/sanosuguru/venue-reservation/internal/domain/reservation"
	"github.com/sanosuguru/venue-reservation/internal/pkg/logger"
	"github.com/sanosuguru/venue-reservation/internal/validation"
)

// ErrorResponse はエラーレスポンスの統一フォーマット
type ErrorResponse struct {
	Error  string                  `json:"error"`
	Code   int                     `json:"code,omitempty"`
	Fields []validation.FieldError `json:"fields,omitempty"`
	Date   string                  `json:"date,omitempty"`
	Time   string                  `json:"time,omitempty"`
	Retry  bool                    `json:"retry,omitempty"`
}

// MapServiceError はアプリケーション層のエラーをHTTPエラーに変換する
//
// 検証エラーと枠競合は想定内の結果として 4xx を返し、エラーログには残さない。
// 競合レスポンスは代替枠の提案に必要な日時のみを含み、
// 競合相手の連絡先等の個人情報は決して返さない。
func MapServiceError(err error) error {
	var validationErr *application.ValidationError
	if errors.As(err, &validationErr) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, ErrorResponse{
			Error:  "入力値の検証に失敗しました",
			Fields: validationErr.Fields,
		})
	}

	var conflictErr *application.SlotConflictError
	if errors.As(err, &conflictErr) {
		return echo.NewHTTPError(http.StatusConflict, ErrorResponse{
			Error: conflictErr.Error(),
			Date:  string(conflictErr.Date),
			Time:  string(conflictErr.Time),
		})
	}

	var transitionErr *reservation.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		// 古いUI状態からの操作（二重クリック等）。再読込後のリトライを促す
		return echo.NewHTTPError(http.StatusConflict, ErrorResponse{
			Error: transitionErr.Error(),
			Retry: true,
		})
	}

	switch {
	case errors.Is(err, reservation.ErrReservationNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, reservation.ErrSchedulePassed),
		errors.Is(err, reservation.ErrScheduleNotReached):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, application.ErrAdmissionTimeout):
		return echo.NewHTTPError(http.StatusGatewayTimeout, err.Error())
	}

	return echo.NewHTTPError(http.StatusInternalServerError, "内部サーバーエラー")
}

// CustomHTTPErrorHandler はカスタムエラーハンドラー
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	var body ErrorResponse

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		switch m := he.Message.(type) {
		case ErrorResponse:
			body = m
		case string:
			body = ErrorResponse{Error: m}
		default:
			body = ErrorResponse{Error: http.StatusText(code)}
		}
	} else {
		body = ErrorResponse{Error: "内部サーバーエラー"}
	}
	body.Code = code

	// インフラ障害のみエラーログに残す
	if code >= 500 {
		logger.Error("サーバーエラー",
			zap.Int("status", code),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}

	if err := c.JSON(code, body); err != nil {
		logger.Error("エラーレスポンス送信失敗", zap.Error(err))
	}
}
