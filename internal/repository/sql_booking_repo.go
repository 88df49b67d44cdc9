package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/homeinspect/internal/database"
	"github.com/hitoshi/homeinspect/internal/model"
)

// SQLBookingRepo はdatabase/sqlを使用した点検予約リポジトリ。
type SQLBookingRepo struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewSQLBookingRepo はSQLBookingRepoを生成する。
func NewSQLBookingRepo(db *sql.DB, dialect database.Dialect) *SQLBookingRepo {
	return &SQLBookingRepo{db: db, dialect: dialect}
}

// rowScanner は*sql.Rowと*sql.Rowsの共通インターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

const bookingColumns = `id, client_id, inspector_id, date, time, address, details, status`

// Create は予約をpending状態で作成する。inspector_idは常にNULL。
func (r *SQLBookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	err := r.db.QueryRowContext(ctx,
		r.dialect.Rebind(`INSERT INTO bookings (client_id, date, time, address, details, status)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING id`),
		booking.RequesterID, booking.Date, booking.Time, booking.Address,
		nullString(booking.Details), model.BookingStatusPending,
	).Scan(&booking.ID)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	booking.Status = model.BookingStatusPending
	booking.ProviderID = nil
	return nil
}

// FindByID は指定IDの予約を取得する。見つからない場合はnilを返す。
func (r *SQLBookingRepo) FindByID(ctx context.Context, id int64) (*model.Booking, error) {
	row := r.db.QueryRowContext(ctx,
		r.dialect.Rebind(`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`), id)

	booking, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return booking, nil
}

// ListByRequester は依頼者の予約一覧をID降順で返す。
func (r *SQLBookingRepo) ListByRequester(ctx context.Context, requesterID int64) ([]*model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		r.dialect.Rebind(`SELECT `+bookingColumns+`
		 FROM bookings
		 WHERE client_id = ?
		 ORDER BY id DESC`),
		requesterID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings by requester: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return bookings, nil
}

// ListPending はpending状態の予約を依頼者名と結合して返す。
func (r *SQLBookingRepo) ListPending(ctx context.Context) ([]*model.PendingBooking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT b.id, b.client_id, b.inspector_id, b.date, b.time, b.address, b.details, b.status, u.name
		 FROM bookings b
		 JOIN users u ON b.client_id = u.id
		 WHERE b.status = 'pending'
		 ORDER BY b.id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending bookings: %w", err)
	}
	defer rows.Close()

	var pending []*model.PendingBooking
	for rows.Next() {
		var (
			pb          model.PendingBooking
			inspectorID sql.NullInt64
			details     sql.NullString
			status      string
		)
		if err := rows.Scan(
			&pb.ID, &pb.RequesterID, &inspectorID, &pb.Date, &pb.Time,
			&pb.Address, &details, &status, &pb.RequesterName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pending booking: %w", err)
		}
		pb.Details = details.String
		pb.Status = model.BookingStatus(status)
		if inspectorID.Valid {
			id := inspectorID.Int64
			pb.ProviderID = &id
		}
		pending = append(pending, &pb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pending bookings: %w", err)
	}
	return pending, nil
}

// Accept はpending状態の予約を受諾済みに遷移させる。
// 読み取りと書き込みを分けず、WHERE status = 'pending' を条件とする単一のUPDATEで行うため、
// 複数の点検員が同時に受諾しても勝者は高々1人となる。
func (r *SQLBookingRepo) Accept(ctx context.Context, bookingID, providerID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		r.dialect.Rebind(`UPDATE bookings
		 SET status = 'accepted', inspector_id = ?
		 WHERE id = ? AND status = 'pending'`),
		providerID, bookingID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to accept booking: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

// CountAcceptedByProvider は点検員が受諾した予約の件数を返す。
func (r *SQLBookingRepo) CountAcceptedByProvider(ctx context.Context, providerID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		r.dialect.Rebind(`SELECT count(*) FROM bookings
		 WHERE inspector_id = ? AND status = 'accepted'`), providerID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count accepted bookings: %w", err)
	}
	return n, nil
}

func scanBooking(s rowScanner) (*model.Booking, error) {
	var (
		b           model.Booking
		inspectorID sql.NullInt64
		details     sql.NullString
		status      string
	)
	if err := s.Scan(&b.ID, &b.RequesterID, &inspectorID, &b.Date, &b.Time, &b.Address, &details, &status); err != nil {
		return nil, err
	}
	b.Details = details.String
	b.Status = model.BookingStatus(status)
	if inspectorID.Valid {
		id := inspectorID.Int64
		b.ProviderID = &id
	}
	return &b, nil
}

// nullString は空文字列をNULLとして保存する。
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// compile-time interface check
var _ BookingRepository = (*SQLBookingRepo)(nil)
