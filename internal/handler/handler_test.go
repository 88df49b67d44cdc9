package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/homeinspect/internal/auth"
	"github.com/hitoshi/homeinspect/internal/booking"
	"github.com/hitoshi/homeinspect/internal/middleware"
	"github.com/hitoshi/homeinspect/internal/model"
	"github.com/hitoshi/homeinspect/internal/view"
)

// --- モック定義 ---

type mockAuthService struct {
	registerFn    func(ctx context.Context, in auth.RegisterInput) (*model.User, error)
	loginFn       func(ctx context.Context, email, password string) (*model.Session, error)
	logoutFn      func(ctx context.Context, sessionID string) error
	currentUserFn func(ctx context.Context, sessionID string) (*model.User, error)
}

func (m *mockAuthService) Register(ctx context.Context, in auth.RegisterInput) (*model.User, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, in)
	}
	return &model.User{ID: 1}, nil
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*model.Session, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email, password)
	}
	return &model.Session{ID: "token", UserID: 1}, nil
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, sessionID)
	}
	return nil
}

func (m *mockAuthService) CurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if m.currentUserFn != nil {
		return m.currentUserFn(ctx, sessionID)
	}
	return nil, nil
}

type mockBookingService struct {
	createFn           func(ctx context.Context, requesterID int64, in booking.CreateInput) (*model.Booking, error)
	acceptFn           func(ctx context.Context, providerID, bookingID int64) (bool, error)
	listForRequesterFn func(ctx context.Context, requesterID int64) ([]*model.Booking, error)
	listPendingFn      func(ctx context.Context) ([]*model.PendingBooking, error)
	getForRequesterFn  func(ctx context.Context, requesterID, bookingID int64) (*model.BookingDetail, error)
}

func (m *mockBookingService) Create(ctx context.Context, requesterID int64, in booking.CreateInput) (*model.Booking, error) {
	if m.createFn != nil {
		return m.createFn(ctx, requesterID, in)
	}
	return &model.Booking{ID: 1}, nil
}

func (m *mockBookingService) Accept(ctx context.Context, providerID, bookingID int64) (bool, error) {
	if m.acceptFn != nil {
		return m.acceptFn(ctx, providerID, bookingID)
	}
	return true, nil
}

func (m *mockBookingService) ListForRequester(ctx context.Context, requesterID int64) ([]*model.Booking, error) {
	if m.listForRequesterFn != nil {
		return m.listForRequesterFn(ctx, requesterID)
	}
	return nil, nil
}

func (m *mockBookingService) ListPending(ctx context.Context) ([]*model.PendingBooking, error) {
	if m.listPendingFn != nil {
		return m.listPendingFn(ctx)
	}
	return nil, nil
}

func (m *mockBookingService) GetForRequester(ctx context.Context, requesterID, bookingID int64) (*model.BookingDetail, error) {
	if m.getForRequesterFn != nil {
		return m.getForRequesterFn(ctx, requesterID, bookingID)
	}
	return nil, model.NewNotFoundError("Booking")
}

type mockDirectoryService struct {
	listProvidersFn func(ctx context.Context) ([]*model.ProviderProfile, error)
	getProviderFn   func(ctx context.Context, providerID int64) (*model.ProviderProfile, error)
}

func (m *mockDirectoryService) ListProviders(ctx context.Context) ([]*model.ProviderProfile, error) {
	if m.listProvidersFn != nil {
		return m.listProvidersFn(ctx)
	}
	return nil, nil
}

func (m *mockDirectoryService) GetProvider(ctx context.Context, providerID int64) (*model.ProviderProfile, error) {
	if m.getProviderFn != nil {
		return m.getProviderFn(ctx, providerID)
	}
	return nil, model.NewNotFoundError("Inspector")
}

type failingRenderer struct{}

func (failingRenderer) Render(_ io.Writer, name string, _ any) error {
	return errors.New("template exploded: " + name)
}

// --- compile-time interface checks ---
var _ AuthServiceInterface = (*mockAuthService)(nil)
var _ BookingServiceInterface = (*mockBookingService)(nil)
var _ DirectoryServiceInterface = (*mockDirectoryService)(nil)
var _ view.Renderer = failingRenderer{}

// --- ヘルパー ---

var (
	alice = &model.User{ID: 1, Name: "alice", Email: "alice@example.com", Role: model.RoleRequester}
	bob   = &model.User{ID: 2, Name: "bob", Email: "bob@example.com", Role: model.RoleProvider}
)

func fixedNow() time.Time { return time.Date(2031, 5, 1, 12, 0, 0, 0, time.UTC) }

func testRenderer(t *testing.T) view.Renderer {
	t.Helper()
	r, err := view.NewTemplateRenderer()
	if err != nil {
		t.Fatalf("NewTemplateRenderer() error = %v", err)
	}
	return r
}

// sessionsFor はトークン→ユーザーの対応でCurrentUserを解決するモックを返す。
func sessionsFor(users map[string]*model.User) *mockAuthService {
	return &mockAuthService{
		currentUserFn: func(ctx context.Context, sessionID string) (*model.User, error) {
			return users[sessionID], nil
		},
	}
}

func newTestRouter(t *testing.T, authSvc *mockAuthService, bookingSvc *mockBookingService) http.Handler {
	t.Helper()
	return newTestRouterWithDirectory(t, authSvc, bookingSvc, &mockDirectoryService{})
}

func newTestRouterWithDirectory(t *testing.T, authSvc *mockAuthService, bookingSvc *mockBookingService, directorySvc *mockDirectoryService) http.Handler {
	t.Helper()
	if authSvc == nil {
		authSvc = sessionsFor(map[string]*model.User{"alice-token": alice, "bob-token": bob})
	}
	if bookingSvc == nil {
		bookingSvc = &mockBookingService{}
	}
	return NewRouter(&RouterDeps{
		AuthService:      authSvc,
		BookingService:   bookingSvc,
		DirectoryService: directorySvc,
		Renderer:         testRenderer(t),
		Now:              fixedNow,
	})
}

func doRequest(h http.Handler, method, target, token string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func assertRedirect(t *testing.T, w *httptest.ResponseRecorder, want string) {
	t.Helper()
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302 (body: %s)", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != want {
		t.Errorf("Location = %q, want %q", loc, want)
	}
}
