// Package booking は点検予約の状態遷移（pending → accepted）を扱うドメインロジックを提供する。
package booking

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hitoshi/homeinspect/internal/metrics"
	"github.com/hitoshi/homeinspect/internal/model"
	"github.com/hitoshi/homeinspect/internal/repository"
)

// CreateInput は予約フォームの入力値。Details は任意。
type CreateInput struct {
	Date    string
	Time    string
	Address string
	Details string
}

// Service は点検予約のサービス層。
type Service struct {
	userRepo    repository.UserRepository
	bookingRepo repository.BookingRepository
	metrics     metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。collectorはnil可。
func NewService(
	userRepo repository.UserRepository,
	bookingRepo repository.BookingRepository,
	collector metrics.MetricsCollector,
) *Service {
	return &Service{
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
		metrics:     collector,
	}
}

// Create は依頼者の点検予約をpending状態で作成する。
// 日付・時刻・住所は必須。各項目は前後の空白のみ除去し、入力どおりに保存する。
// HTMLとしてのエスケープは描画時にテンプレートが行う。
// 同一日時の重複予約は検出しない。
func (s *Service) Create(ctx context.Context, requesterID int64, in CreateInput) (*model.Booking, error) {
	if err := s.requireRole(ctx, requesterID, model.RoleRequester); err != nil {
		return nil, err
	}

	date := strings.TrimSpace(in.Date)
	timeOfDay := strings.TrimSpace(in.Time)
	address := strings.TrimSpace(in.Address)
	details := strings.TrimSpace(in.Details)

	if date == "" || timeOfDay == "" || address == "" {
		return nil, model.NewValidationError("Please fill in all required fields.")
	}

	b := &model.Booking{
		RequesterID: requesterID,
		Date:        date,
		Time:        timeOfDay,
		Address:     address,
		Details:     details,
		Status:      model.BookingStatusPending,
	}
	if err := s.bookingRepo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("予約の作成に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordBookingCreated()
	}
	slog.Info("booking created",
		slog.Int64("booking_id", b.ID),
		slog.Int64("requester_id", requesterID),
	)
	return b, nil
}

// Accept は点検員として予約を受諾する。
// 条件付きUPDATE1回で遷移させるため、同時に受諾しても勝者は1人だけになる。
// 競合に負けた場合や存在しない予約の場合は (false, nil) を返す。
func (s *Service) Accept(ctx context.Context, providerID, bookingID int64) (bool, error) {
	if err := s.requireRole(ctx, providerID, model.RoleProvider); err != nil {
		return false, err
	}

	won, err := s.bookingRepo.Accept(ctx, bookingID, providerID)
	if err != nil {
		return false, fmt.Errorf("予約の受諾に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordBookingAccept(won)
	}
	if won {
		slog.Info("booking accepted",
			slog.Int64("booking_id", bookingID),
			slog.Int64("provider_id", providerID),
		)
	} else {
		slog.Info("booking accept had no effect",
			slog.Int64("booking_id", bookingID),
			slog.Int64("provider_id", providerID),
		)
	}
	return won, nil
}

// ListForRequester は依頼者自身の予約を新しい順で返す。
func (s *Service) ListForRequester(ctx context.Context, requesterID int64) ([]*model.Booking, error) {
	bookings, err := s.bookingRepo.ListByRequester(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("予約一覧の取得に失敗しました: %w", err)
	}
	return bookings, nil
}

// ListPending は受諾待ちの予約を依頼者名付きで返す。
func (s *Service) ListPending(ctx context.Context) ([]*model.PendingBooking, error) {
	bookings, err := s.bookingRepo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("受諾待ち予約の取得に失敗しました: %w", err)
	}
	return bookings, nil
}

// Get は指定IDの予約を返す。存在しない場合はNOT_FOUNDのAPIErrorを返す。
func (s *Service) Get(ctx context.Context, bookingID int64) (*model.Booking, error) {
	b, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("予約の取得に失敗しました: %w", err)
	}
	if b == nil {
		return nil, model.NewNotFoundError("Booking")
	}
	return b, nil
}

// GetForRequester は依頼者本人の予約を、受諾した点検員名付きで返す。
// 他人の予約は存在しない予約と区別せずNOT_FOUNDとする。
func (s *Service) GetForRequester(ctx context.Context, requesterID, bookingID int64) (*model.BookingDetail, error) {
	b, err := s.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.RequesterID != requesterID {
		return nil, model.NewNotFoundError("Booking")
	}

	detail := &model.BookingDetail{Booking: *b}
	if b.IsAccepted() && b.ProviderID != nil {
		provider, err := s.userRepo.FindByID(ctx, *b.ProviderID)
		if err != nil {
			return nil, fmt.Errorf("点検員の取得に失敗しました: %w", err)
		}
		if provider != nil {
			detail.ProviderName = provider.Name
		}
	}
	return detail, nil
}

// requireRole はユーザーが存在し、指定ロールを持つことを確認する。
func (s *Service) requireRole(ctx context.Context, userID int64, role model.Role) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return model.NewNotAuthenticatedError()
	}
	if user.Role != role {
		return model.NewWrongRoleError(role)
	}
	return nil
}
