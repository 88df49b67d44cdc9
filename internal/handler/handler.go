// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/homeinspect/internal/auth"
	"github.com/hitoshi/homeinspect/internal/booking"
	"github.com/hitoshi/homeinspect/internal/middleware"
	"github.com/hitoshi/homeinspect/internal/model"
	"github.com/hitoshi/homeinspect/internal/view"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Register(ctx context.Context, in auth.RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.Session, error)
	Logout(ctx context.Context, sessionID string) error
	CurrentUser(ctx context.Context, sessionID string) (*model.User, error)
}

// BookingServiceInterface は予約ハンドラーが必要とするサービスインターフェース。
type BookingServiceInterface interface {
	Create(ctx context.Context, requesterID int64, in booking.CreateInput) (*model.Booking, error)
	Accept(ctx context.Context, providerID, bookingID int64) (bool, error)
	ListForRequester(ctx context.Context, requesterID int64) ([]*model.Booking, error)
	ListPending(ctx context.Context) ([]*model.PendingBooking, error)
	GetForRequester(ctx context.Context, requesterID, bookingID int64) (*model.BookingDetail, error)
}

// DirectoryServiceInterface は点検員ディレクトリのハンドラーが必要とするサービスインターフェース。
type DirectoryServiceInterface interface {
	ListProviders(ctx context.Context) ([]*model.ProviderProfile, error)
	GetProvider(ctx context.Context, providerID int64) (*model.ProviderProfile, error)
}

// pages はページ描画の共通処理をまとめる。
type pages struct {
	renderer view.Renderer
	now      func() time.Time
}

// newPage はリクエストのユーザーと現在年を埋めたPageを返す。
func (p *pages) newPage(r *http.Request, title string) view.Page {
	return view.Page{
		Title: title,
		User:  middleware.UserFromContext(r.Context()),
		Year:  p.now().Year(),
	}
}

// render はページを200で描画する。描画に失敗した場合は500を返す。
func (p *pages) render(w http.ResponseWriter, name string, page view.Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := p.renderer.Render(w, name, page); err != nil {
		slog.Error("failed to render page",
			slog.String("page", name),
			slog.String("error", err.Error()),
		)
		w.Header().Del("Content-Type")
		middleware.WriteInternalServerError(w)
	}
}

// redirect は302リダイレクトを返す。
func redirect(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusFound)
}

// serverError は想定外のエラーをログに記録して500を返す。
func serverError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}
