// Package auth はユーザー登録、ログイン、セッション管理を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/homeinspect/internal/metrics"
	"github.com/hitoshi/homeinspect/internal/model"
	"github.com/hitoshi/homeinspect/internal/repository"
)

// RegisterInput はユーザー登録フォームの入力値。
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string // "client" または "inspector"
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	verifier    CredentialVerifier
	metrics     metrics.MetricsCollector

	newToken func() string
	now      func() time.Time
}

// NewService はServiceを生成する。
// verifierがnilの場合はPlaintextVerifierを使用する。collectorはnil可。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	verifier CredentialVerifier,
	collector metrics.MetricsCollector,
) *Service {
	if verifier == nil {
		verifier = PlaintextVerifier{}
	}
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		verifier:    verifier,
		metrics:     collector,
		newToken:    uuid.NewString,
		now:         time.Now,
	}
}

// NormalizeEmail はメールアドレスを比較用に正規化する（前後空白除去・小文字化）。
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register は新規ユーザーを登録する。
// 4項目すべてが空でなく、roleが client / inspector のいずれかである必要がある。
// メールアドレスは小文字に正規化して保存するため、大文字小文字違いの重複も検出される。
func (s *Service) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	password := strings.TrimSpace(in.Password)
	role, roleErr := model.ParseRole(strings.TrimSpace(in.Role))

	if name == "" || email == "" || password == "" || roleErr != nil {
		return nil, model.NewValidationError("Please fill in all fields correctly.")
	}

	user := &model.User{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if model.HasCode(err, model.ErrCodeDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordRegistration()
	}
	slog.Info("user registered",
		slog.Int64("user_id", user.ID),
		slog.String("role", user.Role.String()),
	)
	return user, nil
}

// Login はメールアドレスとパスワードを検証し、セッションを発行する。
// ユーザーが存在しない場合とパスワード不一致の場合は同じエラーを返す。
func (s *Service) Login(ctx context.Context, email, password string) (*model.Session, error) {
	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil || !s.verifier.Verify(user.Password, strings.TrimSpace(password)) {
		if s.metrics != nil {
			s.metrics.RecordLogin(false)
		}
		slog.Warn("login failed")
		return nil, model.NewInvalidCredentialsError()
	}

	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordLogin(true)
	}
	slog.Info("user logged in", slog.Int64("user_id", user.ID))
	return session, nil
}

// Logout はセッションを破棄する。存在しないトークンや空文字列でもエラーにしない。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// CurrentUser はセッショントークンから現在のユーザーを解決する。
// トークンが空・未知、またはユーザーが削除済みの場合は匿名として (nil, nil) を返す。
// エラーはストア障害の場合のみ返す。
func (s *Service) CurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, nil
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// createSession はセッションを作成し登録する。
func (s *Service) createSession(ctx context.Context, userID int64) (*model.Session, error) {
	session := &model.Session{
		ID:        s.newToken(),
		UserID:    userID,
		CreatedAt: s.now(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}
