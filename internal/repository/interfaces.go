// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/homeinspect/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成し、採番したIDをuser.IDに設定する。
	// メールアドレスが既に存在する場合はDUPLICATE_EMAILのAPIErrorを返す。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// FindByEmail は正規化済みメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Count は登録済みユーザー数を返す。
	Count(ctx context.Context) (int, error)

	// ListByRole は指定ロールのユーザーを名前順（同名はID順）で返す。
	ListByRole(ctx context.Context, role model.Role) ([]*model.User, error)
}

// BookingRepository は点検予約データの永続化インターフェース。
type BookingRepository interface {
	// Create は予約をpending状態で作成し、採番したIDをbooking.IDに設定する。
	Create(ctx context.Context, booking *model.Booking) error

	// FindByID は指定IDの予約を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Booking, error)

	// ListByRequester は依頼者の予約一覧をID降順（新しい順）で返す。
	ListByRequester(ctx context.Context, requesterID int64) ([]*model.Booking, error)

	// ListPending はpending状態の予約を依頼者名付きでID昇順に返す。
	ListPending(ctx context.Context) ([]*model.PendingBooking, error)

	// Accept はpending状態の予約を単一の条件付きUPDATEでacceptedに遷移させる。
	// 行が更新された場合のみtrueを返す。既に受諾済み・存在しない予約ではfalseを返す。
	Accept(ctx context.Context, bookingID, providerID int64) (bool, error)

	// CountAcceptedByProvider は点検員が受諾した予約の件数を返す。
	CountAcceptedByProvider(ctx context.Context, providerID int64) (int, error)
}

// SessionRepository はセッションの保持インターフェース。
type SessionRepository interface {
	// Create はセッションを登録する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定トークンのセッションを取得する。存在しない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定トークンのセッションを削除する。存在しなくてもエラーにしない。
	DeleteByID(ctx context.Context, id string) error
}
