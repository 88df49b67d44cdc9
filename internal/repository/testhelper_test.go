package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hitoshi/homeinspect/internal/database"
	"github.com/hitoshi/homeinspect/internal/model"
)

// setupTestDB はマイグレーション済みの一時SQLiteデータベースを返す。
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	dbURL := "sqlite://" + filepath.Join(t.TempDir(), "repo.db")
	if err := database.RunMigrations(dbURL); err != nil {
		t.Fatalf("マイグレーション実行に失敗: %v", err)
	}
	db, err := database.Open(dbURL)
	if err != nil {
		t.Fatalf("データベースへの接続に失敗: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustCreateUser(t *testing.T, repo *SQLUserRepo, name, email string, role model.Role) *model.User {
	t.Helper()
	u := &model.User{Name: name, Email: email, Password: "secret", Role: role}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("ユーザー作成に失敗: %v", err)
	}
	return u
}

func mustCreateBooking(t *testing.T, repo *SQLBookingRepo, requesterID int64, date string) *model.Booking {
	t.Helper()
	b := &model.Booking{
		RequesterID: requesterID,
		Date:        date,
		Time:        "10:00",
		Address:     "1 Main St",
	}
	if err := repo.Create(context.Background(), b); err != nil {
		t.Fatalf("予約作成に失敗: %v", err)
	}
	return b
}
