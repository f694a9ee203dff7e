package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/sanosuguru/venue-reservation/internal/domain/reservation"
	"github.com/sanosuguru/venue-reservation/internal/domain/slot"
)

// Request は検証前の予約リクエストを表す
type Request struct {
	ResourceType    string
	Date            string
	Time            string
	GuestCount      *int
	Title           string
	Email           string
	Phone           string
	SpecialRequests string
	Financial       *reservation.Financial
}

// FieldError はフィールド単位の検証エラーを表す
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RequestValidator は予約リクエストの構造検証を行う
// 全チェックを独立に実行し、エラーをまとめて返す（短絡評価しない）
type RequestValidator struct {
	validate  *validator.Validate
	grid      slot.Grid
	maxGuests int
	loc       *time.Location
}

// NewRequestValidator は新しいRequestValidatorを作成する
func NewRequestValidator(grid slot.Grid, maxGuests int, loc *time.Location) *RequestValidator {
	return &RequestValidator{
		validate:  validator.New(),
		grid:      grid,
		maxGuests: maxGuests,
		loc:       loc,
	}
}

// Validate はリクエストを検証し、正規化済みの予約ドラフトかフィールドエラー一覧を返す
// 副作用はなく、同じ入力に対して常に同じ結果を返す
func (v *RequestValidator) Validate(req Request) (*reservation.Reservation, []FieldError) {
	var fieldErrs []FieldError
	add := func(field, message string) {
		fieldErrs = append(fieldErrs, FieldError{Field: field, Message: message})
	}

	resourceType := slot.ResourceType(strings.TrimSpace(req.ResourceType))
	if !resourceType.Valid() {
		add("resourceType", "リソース種別が不正です")
	}

	title := strings.TrimSpace(req.Title)
	if title != "" && len([]rune(title)) < 3 {
		add("title", "タイトルは3文字以上で入力してください")
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		add("email", "メールアドレスは必須です")
	} else if err := v.validate.Var(email, "email"); err != nil {
		add("email", "メールアドレスの形式が不正です")
	}

	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		add("phone", "電話番号は必須です")
	} else if digitCount(phone) < 10 {
		add("phone", "電話番号は10桁以上で入力してください")
	}

	var date slot.Date
	if strings.TrimSpace(req.Date) == "" {
		add("date", "日付は必須です")
	} else if d, err := slot.ParseDate(strings.TrimSpace(req.Date)); err != nil {
		add("date", "日付の形式が不正です")
	} else {
		date = d
		if d.Before(slot.Today(v.loc)) {
			add("date", "過去の日付は指定できません")
		}
	}

	var tod slot.TimeOfDay
	if strings.TrimSpace(req.Time) == "" {
		add("time", "時刻は必須です")
	} else if t, err := slot.ParseTimeOfDay(strings.TrimSpace(req.Time)); err != nil {
		add("time", "時刻の形式が不正です")
	} else {
		tod = t
		if !v.grid.Contains(t) {
			add("time", "予約枠の時刻ではありません")
		}
	}

	if req.GuestCount != nil && (*req.GuestCount < 1 || *req.GuestCount > v.maxGuests) {
		add("guestCount", fmt.Sprintf("人数は1以上%d以下で指定してください", v.maxGuests))
	}

	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	return &reservation.Reservation{
		ResourceType:    resourceType,
		Date:            date,
		Time:            tod,
		GuestCount:      req.GuestCount,
		Contact:         reservation.Contact{Email: email, Phone: normalizePhone(phone)},
		Title:           title,
		SpecialRequests: strings.TrimSpace(req.SpecialRequests),
		Financial:       req.Financial,
	}, nil
}

// digitCount は国番号プレフィックスを考慮して数字のみを数える
func digitCount(phone string) int {
	n := 0
	for _, r := range phone {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// normalizePhone は数字と先頭の+以外の区切り文字を取り除く
func normalizePhone(phone string) string {
	var b strings.Builder
	for i, r := range phone {
		if unicode.IsDigit(r) || (i == 0 && r == '+') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
