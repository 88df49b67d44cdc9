package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/homeinspect/internal/booking"
	"github.com/hitoshi/homeinspect/internal/middleware"
	"github.com/hitoshi/homeinspect/internal/model"
	"github.com/hitoshi/homeinspect/internal/view"
)

// BookingHandler はダッシュボードと予約操作のHTTPハンドラー。
type BookingHandler struct {
	*pages
	service BookingServiceInterface
}

// NewBookingHandler はBookingHandlerを生成する。
func NewBookingHandler(service BookingServiceInterface, renderer view.Renderer, now func() time.Time) *BookingHandler {
	if now == nil {
		now = time.Now
	}
	return &BookingHandler{
		pages:   &pages{renderer: renderer, now: now},
		service: service,
	}
}

// Dashboard はロールに応じたダッシュボードを表示する。
// 依頼者には自分の予約一覧と予約フォーム、点検員には受諾待ちの予約一覧を表示する。
// GET /dashboard
func (h *BookingHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.renderDashboard(w, r, "")
}

// Book は依頼者の予約フォームを処理する。
// 入力エラーの場合はダッシュボードをメッセージ付きで再表示する。
// POST /book
func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		h.renderDashboard(w, r, "Please fill in all required fields.")
		return
	}

	_, err := h.service.Create(r.Context(), user.ID, booking.CreateInput{
		Date:    r.PostFormValue("date"),
		Time:    r.PostFormValue("time"),
		Address: r.PostFormValue("address"),
		Details: r.PostFormValue("details"),
	})
	var apiErr *model.APIError
	switch {
	case err == nil:
		redirect(w, r, "/dashboard")
	case errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeValidation:
		h.renderDashboard(w, r, apiErr.Message)
	case model.HasCode(err, model.ErrCodeWrongRole), model.HasCode(err, model.ErrCodeNotAuthenticated):
		redirect(w, r, "/login")
	default:
		serverError(w, "failed to create booking", err)
	}
}

// BookRedirect はGETの /book をダッシュボードへ送り返す。
// GET /book
func (h *BookingHandler) BookRedirect(w http.ResponseWriter, r *http.Request) {
	redirect(w, r, "/dashboard")
}

// Accept は点検員として予約を受諾し、ダッシュボードへリダイレクトする。
// IDが整数として解釈できない場合も、他者が先に受諾済みの場合も同じくダッシュボードへ戻る。
// GET /accept/{id}
func (h *BookingHandler) Accept(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	bookingID, ok := parseBookingID(chi.URLParam(r, "*"))
	if !ok {
		redirect(w, r, "/dashboard")
		return
	}

	if _, err := h.service.Accept(r.Context(), user.ID, bookingID); err != nil {
		if model.HasCode(err, model.ErrCodeWrongRole) || model.HasCode(err, model.ErrCodeNotAuthenticated) {
			redirect(w, r, "/login")
			return
		}
		serverError(w, "failed to accept booking", err)
		return
	}
	redirect(w, r, "/dashboard")
}

// Detail は依頼者本人の予約詳細を表示する。
// IDが不正な場合、存在しない場合、他人の予約の場合はいずれも404を返す。
// GET /bookings/{id}
func (h *BookingHandler) Detail(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	bookingID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.WriteNotFound(w)
		return
	}

	detail, err := h.service.GetForRequester(r.Context(), user.ID, bookingID)
	if err != nil {
		if model.HasCode(err, model.ErrCodeNotFound) {
			middleware.WriteNotFound(w)
			return
		}
		serverError(w, "failed to get booking", err)
		return
	}

	page := h.newPage(r, fmt.Sprintf("Booking #%d", detail.ID))
	page.Booking = detail
	h.render(w, view.PageBookingDetail, page)
}

// parseBookingID はパスの最後のセグメントを予約IDとして解釈する。
func parseBookingID(rest string) (int64, bool) {
	if i := strings.LastIndex(rest, "/"); i >= 0 {
		rest = rest[i+1:]
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// renderDashboard はログイン中ユーザーのロールに応じたダッシュボードを描画する。
func (h *BookingHandler) renderDashboard(w http.ResponseWriter, r *http.Request, message string) {
	user := middleware.UserFromContext(r.Context())
	page := h.newPage(r, "Dashboard")
	page.Error = message

	switch user.Role {
	case model.RoleRequester:
		bookings, err := h.service.ListForRequester(r.Context(), user.ID)
		if err != nil {
			serverError(w, "failed to list bookings", err)
			return
		}
		page.Bookings = bookings
		h.render(w, view.PageDashboardRequester, page)
	case model.RoleProvider:
		pending, err := h.service.ListPending(r.Context())
		if err != nil {
			serverError(w, "failed to list pending bookings", err)
			return
		}
		page.Pending = pending
		h.render(w, view.PageDashboardProvider, page)
	default:
		redirect(w, r, "/login")
	}
}
