package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// BookingStatus は点検予約の状態を表す。
type BookingStatus string

const (
	// BookingStatusPending は点検員の受諾待ち。初期状態。
	BookingStatusPending BookingStatus = "pending"
	// BookingStatusAccepted は点検員が受諾済み。終端状態。
	BookingStatusAccepted BookingStatus = "accepted"
)

// Label は画面表示用の状態名を返す（例: "Pending"）。
func (s BookingStatus) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Value は driver.Valuer を実装する。
func (s BookingStatus) Value() (driver.Value, error) {
	switch s {
	case BookingStatusPending, BookingStatusAccepted:
		return string(s), nil
	}
	return nil, fmt.Errorf("invalid booking status: %q", string(s))
}

// Booking は点検予約を表す。
// ProviderID は Status が BookingStatusAccepted のときのみ非nilとなる。
type Booking struct {
	ID          int64
	RequesterID int64
	ProviderID  *int64
	Date        string
	Time        string
	Address     string
	Details     string
	Status      BookingStatus
}

// IsAccepted は予約が受諾済みかどうかを返す。
func (b *Booking) IsAccepted() bool {
	return b.Status == BookingStatusAccepted
}

// PendingBooking は受諾待ちの予約と依頼者名を結合したモデル。
// 点検員ダッシュボードの一覧表示に使用する。
type PendingBooking struct {
	Booking
	RequesterName string
}

// BookingDetail は予約と受諾した点検員名を結合したモデル。
// 依頼者向けの予約詳細ページに使用する。ProviderName は未受諾なら空。
type BookingDetail struct {
	Booking
	ProviderName string
}
