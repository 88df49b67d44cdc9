package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/hitoshi/homeinspect/internal/model"
)

func TestSQLBookingRepo_Create_IsPendingWithoutProvider(t *testing.T) {
	db := setupTestDB(t)
	users := NewSQLUserRepo(db.DB, db.Dialect)
	repo := NewSQLBookingRepo(db.DB, db.Dialect)
	ctx := context.Background()

	alice := mustCreateUser(t, users, "alice", "alice@example.com", model.RoleRequester)
	b := mustCreateBooking(t, repo, alice.ID, "2024-01-01")

	if b.ID == 0 {
		t.Fatal("expected store-assigned ID")
	}

	got, err := repo.FindByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if got == nil {
		t.Fatal("expected booking, got nil")
	}
	if got.Status != model.BookingStatusPending {
		t.Errorf("Status = %q, want pending", got.Status)
	}
	if got.ProviderID != nil {
		t.Errorf("ProviderID = %d, want nil", *got.ProviderID)
	}
	if got.Details != "" {
		t.Errorf("Details = %q, want empty", got.Details)
	}
}

func TestSQLBookingRepo_FindByID_Missing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLBookingRepo(db.DB, db.Dialect)

	got, err := repo.FindByID(context.Background(), 42)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if got != nil {
		t.Errorf("FindByID() = %+v, want nil", got)
	}
}

func TestSQLBookingRepo_ListByRequester_OwnOnlyNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	users := NewSQLUserRepo(db.DB, db.Dialect)
	repo := NewSQLBookingRepo(db.DB, db.Dialect)
	ctx := context.Background()

	a := mustCreateUser(t, users, "a", "a@example.com", model.RoleRequester)
	b := mustCreateUser(t, users, "b", "b@example.com", model.RoleRequester)

	a1 := mustCreateBooking(t, repo, a.ID, "2024-01-01")
	b1 := mustCreateBooking(t, repo, b.ID, "2024-01-02")
	a2 := mustCreateBooking(t, repo, a.ID, "2024-01-03")

	list, err := repo.ListByRequester(ctx, a.ID)
	if err != nil {
		t.Fatalf("ListByRequester() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].ID != a2.ID || list[1].ID != a1.ID {
		t.Errorf("order = [%d %d], want [%d %d]", list[0].ID, list[1].ID, a2.ID, a1.ID)
	}
	for _, bk := range list {
		if bk.ID == b1.ID {
			t.Errorf("requester A's list contains B's booking %d", b1.ID)
		}
	}
}

func TestSQLBookingRepo_Accept_TransitionsOnce(t *testing.T) {
	db := setupTestDB(t)
	users := NewSQLUserRepo(db.DB, db.Dialect)
	repo := NewSQLBookingRepo(db.DB, db.Dialect)
	ctx := context.Background()

	alice := mustCreateUser(t, users, "alice", "alice@example.com", model.RoleRequester)
	bob := mustCreateUser(t, users, "bob", "bob@example.com", model.RoleProvider)
	carol := mustCreateUser(t, users, "carol", "carol@example.com", model.RoleProvider)
	b := mustCreateBooking(t, repo, alice.ID, "2024-01-01")

	ok, err := repo.Accept(ctx, b.ID, bob.ID)
	if err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	if !ok {
		t.Fatal("first Accept() = false, want true")
	}

	ok, err = repo.Accept(ctx, b.ID, carol.ID)
	if err != nil {
		t.Fatalf("second Accept() error = %v", err)
	}
	if ok {
		t.Error("second Accept() = true, want false (no-op)")
	}

	got, err := repo.FindByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if got.Status != model.BookingStatusAccepted {
		t.Errorf("Status = %q, want accepted", got.Status)
	}
	if got.ProviderID == nil || *got.ProviderID != bob.ID {
		t.Errorf("ProviderID = %v, want %d", got.ProviderID, bob.ID)
	}
}

func TestSQLBookingRepo_Accept_UnknownBooking_NoOp(t *testing.T) {
	db := setupTestDB(t)
	users := NewSQLUserRepo(db.DB, db.Dialect)
	repo := NewSQLBookingRepo(db.DB, db.Dialect)

	bob := mustCreateUser(t, users, "bob", "bob@example.com", model.RoleProvider)

	ok, err := repo.Accept(context.Background(), 12345, bob.ID)
	if err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	if ok {
		t.Error("Accept() on unknown booking = true, want false")
	}
}

func TestSQLBookingRepo_Accept_ConcurrentSingleWinner(t *testing.T) {
	db := setupTestDB(t)
	users := NewSQLUserRepo(db.DB, db.Dialect)
	repo := NewSQLBookingRepo(db.DB, db.Dialect)
	ctx := context.Background()

	alice := mustCreateUser(t, users, "alice", "alice@example.com", model.RoleRequester)
	b := mustCreateBooking(t, repo, alice.ID, "2024-01-01")

	const providers = 8
	ids := make([]int64, providers)
	for i := range ids {
		p := mustCreateUser(t, users, "p", "p"+string(rune('a'+i))+"@example.com", model.RoleProvider)
		ids[i] = p.ID
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []int64
	)
	for _, pid := range ids {
		wg.Add(1)
		go func(pid int64) {
			defer wg.Done()
			ok, err := repo.Accept(ctx, b.ID, pid)
			if err != nil {
				t.Errorf("Accept(%d) error = %v", pid, err)
				return
			}
			if ok {
				mu.Lock()
				winners = append(winners, pid)
				mu.Unlock()
			}
		}(pid)
	}
	wg.Wait()

	if len(winners) != 1 {
		t.Fatalf("winners = %v, want exactly one", winners)
	}

	got, err := repo.FindByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if got.ProviderID == nil || *got.ProviderID != winners[0] {
		t.Errorf("ProviderID = %v, want %d", got.ProviderID, winners[0])
	}
}

func TestSQLBookingRepo_ListPending_ExcludesAccepted(t *testing.T) {
	db := setupTestDB(t)
	users := NewSQLUserRepo(db.DB, db.Dialect)
	repo := NewSQLBookingRepo(db.DB, db.Dialect)
	ctx := context.Background()

	alice := mustCreateUser(t, users, "alice", "alice@example.com", model.RoleRequester)
	bob := mustCreateUser(t, users, "bob", "bob@example.com", model.RoleProvider)
	b1 := mustCreateBooking(t, repo, alice.ID, "2024-01-01")
	b2 := mustCreateBooking(t, repo, alice.ID, "2024-01-02")

	if _, err := repo.Accept(ctx, b1.ID, bob.ID); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}

	pending, err := repo.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending() error = %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("len = %d, want 1", len(pending))
	}
	if pending[0].ID != b2.ID {
		t.Errorf("pending ID = %d, want %d", pending[0].ID, b2.ID)
	}
	if pending[0].RequesterName != "alice" {
		t.Errorf("RequesterName = %q, want %q", pending[0].RequesterName, "alice")
	}
	for _, p := range pending {
		if p.Status == model.BookingStatusAccepted {
			t.Errorf("ListPending() returned accepted booking %d", p.ID)
		}
	}
}

func TestSQLBookingRepo_DetailsRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	users := NewSQLUserRepo(db.DB, db.Dialect)
	repo := NewSQLBookingRepo(db.DB, db.Dialect)
	ctx := context.Background()

	alice := mustCreateUser(t, users, "alice", "alice@example.com", model.RoleRequester)
	b := &model.Booking{
		RequesterID: alice.ID,
		Date:        "2024-02-02",
		Time:        "14:30",
		Address:     "2 Oak Ave",
		Details:     "Gate code 1234",
	}
	if err := repo.Create(ctx, b); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.FindByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if got.Details != "Gate code 1234" {
		t.Errorf("Details = %q, want %q", got.Details, "Gate code 1234")
	}
}

func TestSQLBookingRepo_RawTextRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	users := NewSQLUserRepo(db.DB, db.Dialect)
	repo := NewSQLBookingRepo(db.DB, db.Dialect)
	ctx := context.Background()

	alice := mustCreateUser(t, users, "alice", "alice@example.com", model.RoleRequester)
	b := &model.Booking{
		RequesterID: alice.ID,
		Date:        "2024-02-02",
		Time:        "14:30",
		Address:     "12 Oak Ave <rear unit>",
		Details:     "a<b & \"c\"\nsecond line",
	}
	if err := repo.Create(ctx, b); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.FindByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if got.Address != b.Address {
		t.Errorf("Address = %q, want %q", got.Address, b.Address)
	}
	if got.Details != b.Details {
		t.Errorf("Details = %q, want %q", got.Details, b.Details)
	}
}

func TestSQLBookingRepo_CountAcceptedByProvider(t *testing.T) {
	db := setupTestDB(t)
	users := NewSQLUserRepo(db.DB, db.Dialect)
	repo := NewSQLBookingRepo(db.DB, db.Dialect)
	ctx := context.Background()

	alice := mustCreateUser(t, users, "alice", "alice@example.com", model.RoleRequester)
	bob := mustCreateUser(t, users, "bob", "bob@example.com", model.RoleProvider)
	carol := mustCreateUser(t, users, "carol", "carol@example.com", model.RoleProvider)

	b1 := mustCreateBooking(t, repo, alice.ID, "2024-01-01")
	b2 := mustCreateBooking(t, repo, alice.ID, "2024-01-02")
	b3 := mustCreateBooking(t, repo, alice.ID, "2024-01-03")
	mustCreateBooking(t, repo, alice.ID, "2024-01-04")

	for _, id := range []int64{b1.ID, b2.ID} {
		if ok, err := repo.Accept(ctx, id, bob.ID); err != nil || !ok {
			t.Fatalf("Accept(%d) = %v, %v", id, ok, err)
		}
	}
	if ok, err := repo.Accept(ctx, b3.ID, carol.ID); err != nil || !ok {
		t.Fatalf("Accept(%d) = %v, %v", b3.ID, ok, err)
	}

	tests := []struct {
		name       string
		providerID int64
		want       int
	}{
		{"bobは2件", bob.ID, 2},
		{"carolは1件", carol.ID, 1},
		{"依頼者は0件", alice.ID, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.CountAcceptedByProvider(ctx, tt.providerID)
			if err != nil {
				t.Fatalf("CountAcceptedByProvider() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CountAcceptedByProvider(%d) = %d, want %d", tt.providerID, got, tt.want)
			}
		})
	}
}
