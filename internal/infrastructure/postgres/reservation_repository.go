package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/venue-reservation/internal/domain/reservation"
	"github.com/sanosuguru/venue-reservation/internal/domain/slot"
	"github.com/sanosuguru/venue-reservation/internal/domain/transaction"
)

const reservationColumns = `id, resource_type, slot_date, slot_time, guest_count, title, special_requests, email, phone, amount, currency, paid, status, created_at, updated_at`

type reservationRow struct {
	ID              string         `db:"id"`
	ResourceType    string         `db:"resource_type"`
	SlotDate        time.Time      `db:"slot_date"`
	SlotTime        string         `db:"slot_time"`
	GuestCount      *int           `db:"guest_count"`
	Title           string         `db:"title"`
	SpecialRequests string         `db:"special_requests"`
	Email           string         `db:"email"`
	Phone           string         `db:"phone"`
	Amount          sql.NullInt64  `db:"amount"`
	Currency        sql.NullString `db:"currency"`
	Paid            sql.NullBool   `db:"paid"`
	Status          string         `db:"status"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

// ReservationRepository は予約のPostgreSQL実装
type ReservationRepository struct {
	db *sqlx.DB
}

// NewReservationRepository は新しいReservationRepositoryを作成する
func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Create(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errors.New("トランザクションが必要です")
	}

	query := `INSERT INTO reservations (` + reservationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	amount, currency, paid := financialColumns(res)
	_, err := sqlxTx.ExecContext(ctx, query,
		res.ID, string(res.ResourceType), string(res.Date), string(res.Time),
		res.GuestCount, res.Title, res.SpecialRequests,
		res.Contact.Email, res.Contact.Phone,
		amount, currency, paid,
		string(res.Status), res.CreatedAt, res.UpdatedAt,
	)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// 占有中予約に対する部分一意インデックス違反
			return reservation.ErrDuplicateActiveSlot
		}
		return fmt.Errorf("予約作成に失敗: %w", err)
	}
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	var row reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return toEntity(&row), nil
}

func (r *ReservationRepository) Update(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errors.New("トランザクションが必要です")
	}

	query := `UPDATE reservations SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := sqlxTx.ExecContext(ctx, query, string(res.Status), res.UpdatedAt, res.ID)
	if err != nil {
		return fmt.Errorf("予約更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return reservation.ErrReservationNotFound
	}
	return nil
}

func (r *ReservationRepository) GetByDate(ctx context.Context, date slot.Date) ([]*reservation.Reservation, error) {
	var rows []reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE slot_date = $1 ORDER BY slot_time`
	if err := r.db.SelectContext(ctx, &rows, query, string(date)); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	return toEntities(rows), nil
}

func (r *ReservationRepository) GetByDateRange(ctx context.Context, from, to slot.Date, statuses []reservation.Status) ([]*reservation.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE slot_date BETWEEN $1 AND $2`
	args := []interface{}{string(from), string(to)}
	if len(statuses) > 0 {
		values := make([]string, len(statuses))
		for i, s := range statuses {
			values[i] = string(s)
		}
		query += ` AND status = ANY($3)`
		args = append(args, pq.Array(values))
	}
	query += ` ORDER BY slot_date, slot_time`

	var rows []reservationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	return toEntities(rows), nil
}

func (r *ReservationRepository) GetByCustomer(ctx context.Context, email string, limit, offset int) ([]*reservation.Reservation, error) {
	var rows []reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE email = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &rows, query, email, limit, offset); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	return toEntities(rows), nil
}

func (r *ReservationRepository) GetApprovedBefore(ctx context.Context, date slot.Date, t slot.TimeOfDay) ([]*reservation.Reservation, error) {
	var rows []reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations
		WHERE status = 'approved' AND (slot_date < $1 OR (slot_date = $1 AND slot_time < $2))
		ORDER BY slot_date, slot_time`
	if err := r.db.SelectContext(ctx, &rows, query, string(date), string(t)); err != nil {
		return nil, fmt.Errorf("完了対象予約の取得に失敗: %w", err)
	}
	return toEntities(rows), nil
}

func financialColumns(res *reservation.Reservation) (sql.NullInt64, sql.NullString, sql.NullBool) {
	if res.Financial == nil {
		return sql.NullInt64{}, sql.NullString{}, sql.NullBool{}
	}
	return sql.NullInt64{Int64: int64(res.Financial.Amount), Valid: true},
		sql.NullString{String: res.Financial.Currency, Valid: true},
		sql.NullBool{Bool: res.Financial.Paid, Valid: true}
}

func toEntity(row *reservationRow) *reservation.Reservation {
	res := &reservation.Reservation{
		ID:              row.ID,
		ResourceType:    slot.ResourceType(row.ResourceType),
		Date:            slot.Date(row.SlotDate.Format("2006-01-02")),
		Time:            slot.TimeOfDay(row.SlotTime),
		GuestCount:      row.GuestCount,
		Title:           row.Title,
		SpecialRequests: row.SpecialRequests,
		Contact:         reservation.Contact{Email: row.Email, Phone: row.Phone},
		Status:          reservation.Status(row.Status),
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	if row.Amount.Valid {
		res.Financial = &reservation.Financial{
			Amount:   int(row.Amount.Int64),
			Currency: row.Currency.String,
			Paid:     row.Paid.Bool,
		}
	}
	return res
}

func toEntities(rows []reservationRow) []*reservation.Reservation {
	result := make([]*reservation.Reservation, len(rows))
	for i := range rows {
		result[i] = toEntity(&rows[i])
	}
	return result
}

var _ reservation.Repository = (*ReservationRepository)(nil)
