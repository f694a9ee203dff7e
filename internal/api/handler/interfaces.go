package handler

import (
	"context"

	"github.com/sanosuguru/venue-reservation/internal/domain/reservation"
	"github.com/sanosuguru/venue-reservation/internal/domain/slot"
	"github.com/sanosuguru/venue-reservation/internal/validation"
)

// AdmissionServiceInterface は受理サービスのインターフェース
type AdmissionServiceInterface interface {
	Admit(ctx context.Context, req validation.Request) (*reservation.Reservation, error)
}

// LifecycleServiceInterface はライフサイクルサービスのインターフェース
type LifecycleServiceInterface interface {
	Approve(ctx context.Context, id string) (*reservation.Reservation, error)
	Reject(ctx context.Context, id string) (*reservation.Reservation, error)
	Cancel(ctx context.Context, id string) (*reservation.Reservation, error)
	Complete(ctx context.Context, id string) (*reservation.Reservation, error)
	GetReservation(ctx context.Context, id string) (*reservation.Reservation, error)
	ListByCustomer(ctx context.Context, email string, limit, offset int) ([]*reservation.Reservation, error)
	ListByDateRange(ctx context.Context, from, to slot.Date, statuses []reservation.Status) ([]*reservation.Reservation, error)
}

// AvailabilityServiceInterface は空き枠照会サービスのインターフェース
type AvailabilityServiceInterface interface {
	FreeSlots(ctx context.Context, date slot.Date) ([]slot.TimeOfDay, error)
}
