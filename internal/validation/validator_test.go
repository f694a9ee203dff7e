package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/venue-reservation/internal/domain/slot"
)

func newTestValidator(t *testing.T) *RequestValidator {
	t.Helper()
	grid, err := slot.NewGrid("10:00", "20:00", 30*time.Minute)
	require.NoError(t, err)
	return NewRequestValidator(grid, 100, time.UTC)
}

func validRequest(t *testing.T) Request {
	t.Helper()
	return Request{
		ResourceType: "cafe",
		Date:         time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02"),
		Time:         "14:00",
		Email:        "hanako@example.com",
		Phone:        "090-1234-5678",
		Title:        "お誕生日会",
	}
}

func fieldNames(errs []FieldError) []string {
	names := make([]string, len(errs))
	for i, e := range errs {
		names[i] = e.Field
	}
	return names
}

func TestValidate_Success(t *testing.T) {
	v := newTestValidator(t)
	draft, errs := v.Validate(validRequest(t))

	require.Empty(t, errs)
	require.NotNil(t, draft)
	assert.Equal(t, slot.ResourceCafe, draft.ResourceType)
	assert.Equal(t, slot.TimeOfDay("14:00"), draft.Time)
	assert.Equal(t, "hanako@example.com", draft.Contact.Email)
	assert.Equal(t, "09012345678", draft.Contact.Phone, "電話番号は正規化される")
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	// 検証は短絡せず、全フィールドのエラーをまとめて返す
	v := newTestValidator(t)
	req := Request{
		ResourceType: "pool",
		Date:         "",
		Time:         "14:15",
		Email:        "not-an-email",
		Phone:        "123",
		Title:        "ab",
	}
	draft, errs := v.Validate(req)

	assert.Nil(t, draft)
	assert.ElementsMatch(t,
		[]string{"resourceType", "date", "time", "email", "phone", "title"},
		fieldNames(errs),
	)
}

func TestValidate_Idempotent(t *testing.T) {
	v := newTestValidator(t)
	req := validRequest(t)
	req.Email = "broken"
	req.Phone = ""

	_, first := v.Validate(req)
	_, second := v.Validate(req)
	assert.Equal(t, first, second, "同じ入力には常に同じエラー集合を返す")
}

func TestValidate_PastDate(t *testing.T) {
	v := newTestValidator(t)
	req := validRequest(t)
	req.Date = time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")

	draft, errs := v.Validate(req)
	assert.Nil(t, draft)
	assert.Equal(t, []string{"date"}, fieldNames(errs))
}

func TestValidate_TodayIsAllowed(t *testing.T) {
	v := newTestValidator(t)
	req := validRequest(t)
	req.Date = time.Now().UTC().Format("2006-01-02")

	_, errs := v.Validate(req)
	assert.Empty(t, errs)
}

func TestValidate_GuestCountBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		wantErr bool
	}{
		{"下限ちょうど", 1, false},
		{"上限ちょうど", 100, false},
		{"下限未満", 0, true},
		{"上限超過", 101, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestValidator(t)
			req := validRequest(t)
			req.GuestCount = &tt.count

			_, errs := v.Validate(req)
			if tt.wantErr {
				assert.Equal(t, []string{"guestCount"}, fieldNames(errs))
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestValidate_GuestCountOptional(t *testing.T) {
	v := newTestValidator(t)
	req := validRequest(t)
	req.GuestCount = nil

	_, errs := v.Validate(req)
	assert.Empty(t, errs)
}

func TestValidate_PhoneDigits(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		wantErr bool
	}{
		{"区切りあり10桁", "090-1234-5678", false},
		{"国番号あり", "+81 90 1234 5678", false},
		{"9桁", "090123456", true},
		{"空", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestValidator(t)
			req := validRequest(t)
			req.Phone = tt.phone

			_, errs := v.Validate(req)
			if tt.wantErr {
				assert.Equal(t, []string{"phone"}, fieldNames(errs))
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestValidate_TitleOptionalButMinLength(t *testing.T) {
	v := newTestValidator(t)

	req := validRequest(t)
	req.Title = ""
	_, errs := v.Validate(req)
	assert.Empty(t, errs, "タイトルは省略可能")

	req.Title = "ab"
	_, errs = v.Validate(req)
	assert.Equal(t, []string{"title"}, fieldNames(errs))
}

func TestValidate_OffGridTime(t *testing.T) {
	v := newTestValidator(t)
	req := validRequest(t)
	req.Time = "09:00" // 営業時間前

	_, errs := v.Validate(req)
	assert.Equal(t, []string{"time"}, fieldNames(errs))
}
