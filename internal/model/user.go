// Package model はドメインモデルを定義する。
package model

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Role はユーザーの役割を表す。
// 取りうる値は RoleRequester と RoleProvider のみで、ゼロ値は無効な役割として扱う。
type Role int

const (
	roleInvalid Role = iota
	// RoleRequester は点検を依頼する利用者（DB上の値は "client"）。
	RoleRequester
	// RoleProvider は依頼を引き受ける点検員（DB上の値は "inspector"）。
	RoleProvider
)

// ParseRole はDB・フォーム上の文字列表現から Role を解析する。
func ParseRole(s string) (Role, error) {
	switch s {
	case "client":
		return RoleRequester, nil
	case "inspector":
		return RoleProvider, nil
	default:
		return roleInvalid, fmt.Errorf("unknown role: %q", s)
	}
}

// String はDB・フォーム上の文字列表現を返す。
func (r Role) String() string {
	switch r {
	case RoleRequester:
		return "client"
	case RoleProvider:
		return "inspector"
	default:
		return "invalid"
	}
}

// Label は画面表示用の役割名を返す。
func (r Role) Label() string {
	switch r {
	case RoleRequester:
		return "Client"
	case RoleProvider:
		return "Inspector"
	default:
		return ""
	}
}

// Valid は役割が既知の値かどうかを返す。
func (r Role) Valid() bool {
	return r == RoleRequester || r == RoleProvider
}

// Value は driver.Valuer を実装する。
func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("cannot store invalid role %d", int(r))
	}
	return r.String(), nil
}

// Scan は sql.Scanner を実装する。
func (r *Role) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Role", src)
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// User はサービス利用ユーザーを表す。
// 登録後はPassword以外変更されない。
type User struct {
	ID       int64
	Name     string
	Email    string // 小文字に正規化済み
	Password string
	Role     Role
}

// Session はユーザーのログインセッションを表す。
// プロセス内にのみ存在し、再起動で失われる。
type Session struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
}

// ProviderProfile は点検員ディレクトリで公開する点検員の情報。
// メールアドレスとパスワードは含めない。
type ProviderProfile struct {
	ID            int64
	Name          string
	AcceptedCount int // 受諾済みの予約件数（プロフィール表示時のみ集計）
}
