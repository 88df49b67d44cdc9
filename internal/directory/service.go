// Package directory は点検員ディレクトリ（一覧とプロフィール）を提供する。
package directory

import (
	"context"
	"fmt"

	"github.com/hitoshi/homeinspect/internal/model"
	"github.com/hitoshi/homeinspect/internal/repository"
)

// Service は点検員ディレクトリのサービス層。
type Service struct {
	userRepo    repository.UserRepository
	bookingRepo repository.BookingRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository, bookingRepo repository.BookingRepository) *Service {
	return &Service{
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
	}
}

// ListProviders は登録済みの点検員を名前順で返す。
func (s *Service) ListProviders(ctx context.Context) ([]*model.ProviderProfile, error) {
	users, err := s.userRepo.ListByRole(ctx, model.RoleProvider)
	if err != nil {
		return nil, fmt.Errorf("点検員一覧の取得に失敗しました: %w", err)
	}

	profiles := make([]*model.ProviderProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, &model.ProviderProfile{ID: u.ID, Name: u.Name})
	}
	return profiles, nil
}

// GetProvider は点検員のプロフィールを受諾件数付きで返す。
// 存在しないID、または依頼者のIDの場合はNOT_FOUNDのAPIErrorを返す。
func (s *Service) GetProvider(ctx context.Context, providerID int64) (*model.ProviderProfile, error) {
	user, err := s.userRepo.FindByID(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("点検員の取得に失敗しました: %w", err)
	}
	if user == nil || user.Role != model.RoleProvider {
		return nil, model.NewNotFoundError("Inspector")
	}

	accepted, err := s.bookingRepo.CountAcceptedByProvider(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("受諾件数の取得に失敗しました: %w", err)
	}

	return &model.ProviderProfile{
		ID:            user.ID,
		Name:          user.Name,
		AcceptedCount: accepted,
	}, nil
}
